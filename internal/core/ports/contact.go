package ports

import (
	"context"

	"github.com/atelier-numerique/agency-api/internal/core/domain"
)

// SubmitContactInput is the public contact form.
type SubmitContactInput struct {
	Name    string `json:"name"    validate:"required,min=2,max=100"`
	Email   string `json:"email"   validate:"required,email,max=254"`
	Company string `json:"company" validate:"omitempty,max=100"`
	Subject string `json:"subject" validate:"required,min=2,max=200"`
	Message string `json:"message" validate:"required,min=10,max=5000"`
}

// MessageFilter narrows message listings. An empty Status means every status.
type MessageFilter struct {
	Status domain.MessageStatus
}

type ContactRepository interface {
	Create(ctx context.Context, m *domain.ContactMessage) error
	FindByID(ctx context.Context, id string) (*domain.ContactMessage, error)
	// List returns messages newest first.
	List(ctx context.Context, filter MessageFilter) ([]*domain.ContactMessage, error)
	UpdateStatus(ctx context.Context, id string, status domain.MessageStatus) (*domain.ContactMessage, error)
	Delete(ctx context.Context, id string) error
}

type ContactService interface {
	Submit(ctx context.Context, in SubmitContactInput) (*domain.ContactMessage, error)
	List(ctx context.Context, status string) ([]*domain.ContactMessage, error)
	Get(ctx context.Context, id string) (*domain.ContactMessage, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.ContactMessage, error)
	Delete(ctx context.Context, id string) error
}
