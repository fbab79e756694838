package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/atelier-numerique/agency-api/internal/core/domain"
	"github.com/atelier-numerique/agency-api/internal/core/ports"
	"github.com/atelier-numerique/agency-api/internal/core/validation"
)

type ProjectService struct {
	repo       ports.ProjectRepository
	images     ports.ImageStore
	categories ports.CategoryRepository
	validate   *validation.Validator
	logger     zerolog.Logger
	now        func() time.Time
}

// NewProjectService wires the project use cases. images and categories are
// only used to clean up after a delete and may be nil.
func NewProjectService(
	repo ports.ProjectRepository,
	images ports.ImageStore,
	categories ports.CategoryRepository,
	validate *validation.Validator,
	logger zerolog.Logger,
) *ProjectService {
	return &ProjectService{
		repo:       repo,
		images:     images,
		categories: categories,
		validate:   validate,
		logger:     logger,
		now:        time.Now,
	}
}

// ListPublic returns finished projects only.
func (s *ProjectService) ListPublic(ctx context.Context) ([]*domain.Project, error) {
	projects, err := s.repo.List(ctx, ports.ProjectFilter{Status: domain.ProjectDone})
	if err != nil {
		return nil, fmt.Errorf("list public projects: %w", err)
	}
	// The repository filter is trusted but public output is re-checked here.
	public := projects[:0]
	for _, p := range projects {
		if p.Status.Public() {
			public = append(public, p)
		}
	}
	return public, nil
}

// GetPublic hides unfinished projects behind ErrProjectNotFound.
func (s *ProjectService) GetPublic(ctx context.Context, id string) (*domain.Project, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Status.Public() {
		return nil, domain.ErrProjectNotFound
	}
	return p, nil
}

func (s *ProjectService) List(ctx context.Context, status string) ([]*domain.Project, error) {
	filter := ports.ProjectFilter{}
	if status != "" {
		st, err := parseProjectStatus(status)
		if err != nil {
			return nil, err
		}
		filter.Status = st
	}
	projects, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ProjectService) Create(ctx context.Context, in ports.CreateProjectInput) (*domain.Project, error) {
	in = normalizeCreate(in)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	date, _ := validation.ParseDate(in.Date)

	now := s.now().UTC()
	p := &domain.Project{
		ID:           uuid.NewString(),
		Title:        in.Title,
		Description:  in.Description,
		Technologies: in.Technologies,
		Client:       in.Client,
		Duration:     in.Duration,
		Status:       domain.ProjectStatus(in.Status),
		Date:         date,
		URL:          in.URL,
		ImageURL:     in.ImageURL,
		ImageIDs:     []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error().Err(err).Msg("failed to create project")
		return nil, fmt.Errorf("create project: %w", err)
	}

	audit(ctx, s.logger, "create", "project", p.ID)
	return p, nil
}

func (s *ProjectService) Update(ctx context.Context, id string, in ports.UpdateProjectInput) (*domain.Project, error) {
	in = normalizeUpdate(in)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	patch := ports.ProjectPatch{
		Title:        in.Title,
		Description:  in.Description,
		Technologies: in.Technologies,
		Client:       in.Client,
		Duration:     in.Duration,
		URL:          in.URL,
		ImageURL:     in.ImageURL,
	}
	if in.Status != nil {
		st := domain.ProjectStatus(*in.Status)
		patch.Status = &st
	}
	if in.Date != nil {
		d, _ := validation.ParseDate(*in.Date)
		patch.Date = &d
	}

	p, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	audit(ctx, s.logger, "update", "project", id)
	return p, nil
}

// UpdateStatus moves a project to another status from the closed set. There is
// no transition graph: any status may follow any other.
func (s *ProjectService) UpdateStatus(ctx context.Context, id, status string) (*domain.Project, error) {
	st, err := parseProjectStatus(status)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.Update(ctx, id, ports.ProjectPatch{Status: &st})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("project_id", id).Str("status", string(st)).Msg("project status changed")
	audit(ctx, s.logger, "status", "project", id)
	return p, nil
}

// Delete removes the project, then its blob images and category links. The
// clean-up is best-effort: a failure there is logged, not returned.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.images != nil {
		if n, err := s.images.DeleteByProject(ctx, id); err != nil {
			s.logger.Warn().Err(err).Str("project_id", id).Msg("failed to delete project images")
		} else if n > 0 {
			s.logger.Debug().Str("project_id", id).Int64("images", n).Msg("project images deleted")
		}
	}
	if s.categories != nil {
		if err := s.categories.UnlinkProject(ctx, id); err != nil {
			s.logger.Warn().Err(err).Str("project_id", id).Msg("failed to unlink project categories")
		}
	}

	audit(ctx, s.logger, "delete", "project", id)
	return nil
}

func parseProjectStatus(s string) (domain.ProjectStatus, error) {
	st := domain.ProjectStatus(s)
	if !st.Valid() {
		return "", domain.NewValidationError("status", "status must be one of: "+joinStatuses(domain.ProjectStatuses))
	}
	return st, nil
}

func joinStatuses[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, " ")
}

// normalizeCreate trims every text field so that whitespace-only values are
// caught by the required and min rules.
func normalizeCreate(in ports.CreateProjectInput) ports.CreateProjectInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Technologies = trimmedAll(in.Technologies)
	in.Client = strings.TrimSpace(in.Client)
	in.Duration = strings.TrimSpace(in.Duration)
	in.Status = strings.TrimSpace(in.Status)
	in.Date = strings.TrimSpace(in.Date)
	in.URL = strings.TrimSpace(in.URL)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	return in
}

func normalizeUpdate(in ports.UpdateProjectInput) ports.UpdateProjectInput {
	in.Title = trimmed(in.Title)
	in.Description = trimmed(in.Description)
	in.Technologies = trimmedAll(in.Technologies)
	in.Client = trimmed(in.Client)
	in.Duration = trimmed(in.Duration)
	in.Status = trimmed(in.Status)
	in.Date = trimmed(in.Date)
	in.URL = trimmed(in.URL)
	in.ImageURL = trimmed(in.ImageURL)
	return in
}

func trimmedAll(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
