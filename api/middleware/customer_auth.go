package middleware

import (
	"context"
	"net/http"

	"github.com/angelmondragon/mechanicshop-backend/api/responses"
	"github.com/angelmondragon/mechanicshop-backend/api/validators"
	"github.com/angelmondragon/mechanicshop-backend/pkg/logger"
)

// TokenResolver maps a bearer token to the customer it was issued to.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (uint, error)
}

// CustomerAuth resolves the bearer token and seeds the request context with the
// customer id. Handlers behind it act on that id, never on one from the payload.
func CustomerAuth(resolver TokenResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// a missing token resolves to the login-required error
			token, _ := validators.ParseBearerToken(r.Header.Get("Authorization"))

			customerID, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithCustomerID(r.Context(), customerID)
			if logg != nil {
				ctx = logg.WithCustomerID(ctx, customerID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
