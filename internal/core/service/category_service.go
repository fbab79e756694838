package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog"

	"github.com/atelier-numerique/agency-api/internal/core/domain"
	"github.com/atelier-numerique/agency-api/internal/core/ports"
	"github.com/atelier-numerique/agency-api/internal/core/validation"
)

type CategoryService struct {
	repo     ports.CategoryRepository
	projects ports.ProjectRepository
	validate *validation.Validator
	logger   zerolog.Logger
	now      func() time.Time
}

func NewCategoryService(
	repo ports.CategoryRepository,
	projects ports.ProjectRepository,
	validate *validation.Validator,
	logger zerolog.Logger,
) *CategoryService {
	return &CategoryService{
		repo:     repo,
		projects: projects,
		validate: validate,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *CategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	cats, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (s *CategoryService) Create(ctx context.Context, in ports.CreateCategoryInput) (*domain.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	sl := Slugify(in.Name)
	if sl == "" {
		return nil, domain.NewValidationError("name", "name must contain at least one letter or digit")
	}

	c := &domain.Category{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Slug:      sl,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	audit(ctx, s.logger, "create", "category", c.ID)
	return c, nil
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	audit(ctx, s.logger, "delete", "category", id)
	return nil
}

// AssignProjects links each project to the category independently. Duplicate
// ids in the request are reported once. A failed item does not undo the
// others, so callers can resend only the failed subset.
func (s *CategoryService) AssignProjects(ctx context.Context, categoryID string, in ports.AssignProjectsInput) ([]ports.AssignmentResult, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(in.ProjectIDs))
	results := make([]ports.AssignmentResult, 0, len(in.ProjectIDs))
	for _, pid := range in.ProjectIDs {
		pid = strings.TrimSpace(pid)
		if _, dup := seen[pid]; dup {
			continue
		}
		seen[pid] = struct{}{}
		results = append(results, s.assignOne(ctx, categoryID, pid))
	}

	audit(ctx, s.logger, "assign", "category", categoryID)
	return results, nil
}

func (s *CategoryService) assignOne(ctx context.Context, categoryID, projectID string) ports.AssignmentResult {
	res := ports.AssignmentResult{ProjectID: projectID}
	if _, err := s.projects.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			res.Error = "project not found"
		} else {
			s.logger.Error().Err(err).Str("project_id", projectID).Msg("project lookup failed")
			res.Error = "lookup failed"
		}
		return res
	}
	if err := s.repo.Link(ctx, categoryID, projectID); err != nil {
		s.logger.Error().Err(err).Str("category_id", categoryID).Str("project_id", projectID).Msg("failed to link project")
		res.Error = "link failed"
		return res
	}
	res.Linked = true
	return res
}

// Slugify turns a category name into a lowercase, dash separated identifier.
// Accented letters are transliterated and "&" reads as "et".
func Slugify(name string) string {
	return slug.MakeLang(name, "fr")
}
