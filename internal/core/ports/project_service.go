package ports

import (
	"context"

	"github.com/atelier-numerique/agency-api/internal/core/domain"
)

// CreateProjectInput is the accepted shape for a new project. Dates accept
// either RFC 3339 or YYYY-MM-DD.
type CreateProjectInput struct {
	Title        string   `json:"title"        validate:"required,min=2,max=200"`
	Description  string   `json:"description"  validate:"required,min=10,max=5000"`
	Technologies []string `json:"technologies" validate:"required,min=1,max=30,dive,required,max=50"`
	Client       string   `json:"client"       validate:"required,max=200"`
	Duration     string   `json:"duration"     validate:"required,max=100"`
	Status       string   `json:"status"       validate:"required,oneof=EN_COURS TERMINE EN_ATTENTE"`
	Date         string   `json:"date"         validate:"required,flexdate"`
	URL          string   `json:"url"          validate:"omitempty,url,max=2048"`
	ImageURL     string   `json:"imageUrl"     validate:"omitempty,max=2048"`
}

// UpdateProjectInput is a partial update; absent fields keep their value.
type UpdateProjectInput struct {
	Title        *string  `json:"title"        validate:"omitempty,min=2,max=200"`
	Description  *string  `json:"description"  validate:"omitempty,min=10,max=5000"`
	Technologies []string `json:"technologies" validate:"omitempty,min=1,max=30,dive,required,max=50"`
	Client       *string  `json:"client"       validate:"omitempty,min=1,max=200"`
	Duration     *string  `json:"duration"     validate:"omitempty,min=1,max=100"`
	Status       *string  `json:"status"       validate:"omitempty,oneof=EN_COURS TERMINE EN_ATTENTE"`
	Date         *string  `json:"date"         validate:"omitempty,flexdate"`
	URL          *string  `json:"url"          validate:"omitempty,optionalurl,max=2048"`
	ImageURL     *string  `json:"imageUrl"     validate:"omitempty,max=2048"`
}

// StatusInput is the body of the status transition endpoints.
type StatusInput struct {
	Status string `json:"status" validate:"required"`
}

type ProjectService interface {
	ListPublic(ctx context.Context) ([]*domain.Project, error)
	GetPublic(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, status string) ([]*domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	Create(ctx context.Context, in CreateProjectInput) (*domain.Project, error)
	Update(ctx context.Context, id string, in UpdateProjectInput) (*domain.Project, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
}
