package auth

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// CustomerClaims is the typed JWT issued to customers at login. The subject
// carries the customer id.
type CustomerClaims struct {
	jwt.RegisteredClaims
}

// CustomerID parses the subject back into a customer id.
func (c *CustomerClaims) CustomerID() (uint, error) {
	if c == nil || c.Subject == "" {
		return 0, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: malformed subject %q", ErrTokenInvalid, c.Subject)
	}
	return uint(id), nil
}
