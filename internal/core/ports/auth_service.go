package ports

import (
	"context"
	"time"

	"github.com/atelier-numerique/agency-api/internal/core/domain"
)

// LoginInput is the body accepted by the login endpoint.
type LoginInput struct {
	Email    string `json:"email"    validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=256"`
}

// LoginResult is returned after a successful login or refresh.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// ProvisionInput creates or overwrites a back-office account.
type ProvisionInput struct {
	Email     string `validate:"required,email,max=254"`
	Name      string `validate:"required,min=2,max=100"`
	Password  string `validate:"required,min=8,max=256"`
	Role      string `validate:"required,oneof=ADMIN USER"`
	Overwrite bool
}

// TokenVerifier validates a presented token. The auth middleware only needs this.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*domain.Claims, error)
}

type AuthService interface {
	TokenVerifier
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	Refresh(ctx context.Context, claims *domain.Claims) (*LoginResult, error)
	Logout(ctx context.Context, claims *domain.Claims) error
	Provision(ctx context.Context, in ProvisionInput) (*domain.User, error)
}

// TokenDenylist records revoked token ids until they would have expired anyway.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
