package ports

import (
	"context"

	"github.com/atelier-numerique/agency-api/internal/core/domain"
)

// UserRepository is the credential store.
type UserRepository interface {
	// FindByEmail performs an exact, case-sensitive lookup.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// UpdateCredentials replaces the password hash, display name and role of
	// the account identified by email.
	UpdateCredentials(ctx context.Context, email, name, passwordHash, role string) (*domain.User, error)
}
