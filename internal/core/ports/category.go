package ports

import (
	"context"

	"github.com/atelier-numerique/agency-api/internal/core/domain"
)

type CreateCategoryInput struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

type AssignProjectsInput struct {
	ProjectIDs []string `json:"projectIds" validate:"required,min=1,max=200,dive,required"`
}

// AssignmentResult is the per-project outcome of a bulk association.
type AssignmentResult struct {
	ProjectID string `json:"projectId"`
	Linked    bool   `json:"linked"`
	Error     string `json:"error,omitempty"`
}

type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Delete(ctx context.Context, id string) error
	// Link is idempotent: linking an already linked pair succeeds.
	Link(ctx context.Context, categoryID, projectID string) error
	UnlinkProject(ctx context.Context, projectID string) error
}

type CategoryService interface {
	List(ctx context.Context) ([]*domain.Category, error)
	Create(ctx context.Context, in CreateCategoryInput) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
	AssignProjects(ctx context.Context, categoryID string, in AssignProjectsInput) ([]AssignmentResult, error)
}
