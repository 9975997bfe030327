package validators

import (
	"errors"
	"strings"
)

var ErrMissingToken = errors.New("authorization token is missing")

// ParseBearerToken extracts the credential from an Authorization header value.
func ParseBearerToken(raw string) (string, error) {
	token := strings.TrimSpace(raw)
	if token == "" {
		return "", ErrMissingToken
	}
	if strings.EqualFold(token, "bearer") {
		return "", ErrMissingToken
	}
	if len(token) >= 7 && strings.EqualFold(token[:7], "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}
