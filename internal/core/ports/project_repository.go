package ports

import (
	"context"
	"time"

	"github.com/atelier-numerique/agency-api/internal/core/domain"
)

// ProjectFilter narrows project listings. An empty Status means every status.
type ProjectFilter struct {
	Status domain.ProjectStatus
}

// ProjectPatch lists the fields to overwrite. Nil fields are left untouched.
type ProjectPatch struct {
	Title        *string
	Description  *string
	Technologies []string
	Client       *string
	Duration     *string
	Status       *domain.ProjectStatus
	Date         *time.Time
	URL          *string
	ImageURL     *string
}

// ProjectRepository defines persistence operations for portfolio projects.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) error
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	// List returns projects newest first.
	List(ctx context.Context, filter ProjectFilter) ([]*domain.Project, error)
	// Update applies patch and returns the stored project. Last write wins.
	Update(ctx context.Context, id string, patch ProjectPatch) (*domain.Project, error)
	AddImage(ctx context.Context, id, imageID string) error
	// RemoveImage detaches imageID from whichever project references it.
	RemoveImage(ctx context.Context, imageID string) error
	Delete(ctx context.Context, id string) error
}
