package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/mechanicshop-backend/internal/customers"
	pkgAuth "github.com/angelmondragon/mechanicshop-backend/pkg/auth"
	"github.com/angelmondragon/mechanicshop-backend/pkg/config"
	"github.com/angelmondragon/mechanicshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/mechanicshop-backend/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrAuthenticationRequired = errors.New("authentication required")
)

const (
	invalidCredentialsMessage = "Invalid email or password"
	loginRequiredMessage      = "You must be logged in to access this."
	tokenExpiredMessage       = "Token has expired!"
	tokenInvalidMessage       = "Invalid token!"
	customerGoneMessage       = "Invalid token, customer does not exist."
)

// Service logs customers in and resolves their bearer tokens.
type Service interface {
	Login(ctx context.Context, input customers.LoginInput) (*LoginResult, error)
	Resolve(ctx context.Context, token string) (uint, error)
}

// LoginResult is the authenticated customer and the token minted for them.
type LoginResult struct {
	Customer *models.Customer
	Token    string
}

type customerRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
	FindByID(ctx context.Context, id uint) (*models.Customer, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Customers customerRepository
	JWTConfig config.JWTConfig
	Now       func() time.Time
}

type service struct {
	customers customerRepository
	jwtCfg    config.JWTConfig
	now       func() time.Time
}

// NewService constructs the auth service. Now defaults to the wall clock.
func NewService(params ServiceParams) (Service, error) {
	if params.Customers == nil {
		return nil, fmt.Errorf("customer repository is required")
	}
	if params.JWTConfig.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{customers: params.Customers, jwtCfg: params.JWTConfig, now: now}, nil
}

func (s *service) Login(ctx context.Context, input customers.LoginInput) (*LoginResult, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, ErrInvalidCredentials, invalidCredentialsMessage)
	}
	customer, err := s.customers.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, ErrInvalidCredentials, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup customer")
	}
	// passwords are stored as submitted
	if subtle.ConstantTimeCompare([]byte(customer.Password), []byte(input.Password)) != 1 {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, ErrInvalidCredentials, invalidCredentialsMessage)
	}

	token, err := pkgAuth.MintCustomerToken(s.jwtCfg, s.now(), customer.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &LoginResult{Customer: customer, Token: token}, nil
}

// Resolve verifies the token and returns the id of the customer it was issued to.
// The customer must still exist.
func (s *service) Resolve(ctx context.Context, token string) (uint, error) {
	if strings.TrimSpace(token) == "" {
		return 0, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, ErrAuthenticationRequired, loginRequiredMessage).
			WithStatus(http.StatusBadRequest)
	}

	claims, err := pkgAuth.ParseCustomerToken(s.jwtCfg, token, s.now())
	if err != nil {
		if errors.Is(err, pkgAuth.ErrTokenExpired) {
			return 0, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, tokenExpiredMessage)
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, tokenInvalidMessage)
	}
	customerID, err := claims.CustomerID()
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, tokenInvalidMessage)
	}

	if _, err := s.customers.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, customers.ErrCustomerNotFound, customerGoneMessage)
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup customer")
	}
	return customerID, nil
}
