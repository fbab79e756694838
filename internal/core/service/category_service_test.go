package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-numerique/agency-api/internal/core/domain"
	"github.com/atelier-numerique/agency-api/internal/core/ports"
	"github.com/atelier-numerique/agency-api/internal/core/validation"
)

type stubCategoryRepo struct {
	byID    map[string]*domain.Category
	links   map[string]map[string]bool
	linkErr map[string]error
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{
		byID:    make(map[string]*domain.Category),
		links:   make(map[string]map[string]bool),
		linkErr: make(map[string]error),
	}
}

func (r *stubCategoryRepo) Create(_ context.Context, c *domain.Category) error {
	for _, existing := range r.byID {
		if existing.Name == c.Name {
			return domain.ErrCategoryExists
		}
	}
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id string) (*domain.Category, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCategoryRepo) List(_ context.Context) ([]*domain.Category, error) {
	out := make([]*domain.Category, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	return out, nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(r.byID, id)
	delete(r.links, id)
	return nil
}

func (r *stubCategoryRepo) Link(_ context.Context, categoryID, projectID string) error {
	if err := r.linkErr[projectID]; err != nil {
		return err
	}
	if r.links[categoryID] == nil {
		r.links[categoryID] = make(map[string]bool)
	}
	r.links[categoryID][projectID] = true
	return nil
}

func (r *stubCategoryRepo) UnlinkProject(_ context.Context, projectID string) error {
	for _, projects := range r.links {
		delete(projects, projectID)
	}
	return nil
}

func newCategoryFixture() (*CategoryService, *stubCategoryRepo, *stubProjectRepo) {
	cats := newStubCategoryRepo()
	projects := newStubProjectRepo()
	return NewCategoryService(cats, projects, validation.New(), zerolog.Nop()), cats, projects
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Sites vitrines":          "sites-vitrines",
		"  E-commerce & Boutique": "e-commerce-et-boutique",
		"Identité visuelle":       "identite-visuelle",
		"Apps 2024!":              "apps-2024",
		"???":                     "",
		"São Paulo":               "sao-paulo",
		"Conceição":               "conceicao",
		"Straße":                  "strasse",
		"Œuvres graphiques":       "oeuvres-graphiques",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestCategoryService_Create(t *testing.T) {
	svc, cats, _ := newCategoryFixture()

	c, err := svc.Create(context.Background(), ports.CreateCategoryInput{Name: " Identité visuelle "})
	require.NoError(t, err)
	assert.Equal(t, "Identité visuelle", c.Name)
	assert.Equal(t, "identite-visuelle", c.Slug)
	assert.Contains(t, cats.byID, c.ID)

	_, err = svc.Create(context.Background(), ports.CreateCategoryInput{Name: "Identité visuelle"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	var ve *domain.ValidationError
	_, err = svc.Create(context.Background(), ports.CreateCategoryInput{Name: "x"})
	assert.True(t, errors.As(err, &ve))
}

func TestCategoryService_Create_BlankNameRejected(t *testing.T) {
	svc, cats, _ := newCategoryFixture()

	_, err := svc.Create(context.Background(), ports.CreateCategoryInput{Name: "    "})

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "name", ve.Violations[0].Field)
	assert.Empty(t, cats.byID)
}

func TestCategoryService_AssignProjects_PerItemReport(t *testing.T) {
	svc, cats, projects := newCategoryFixture()
	cats.byID["web"] = &domain.Category{ID: "web", Name: "Web"}
	projects.byID["p1"] = &domain.Project{ID: "p1"}
	projects.byID["p2"] = &domain.Project{ID: "p2"}
	cats.linkErr["p2"] = errors.New("write conflict")

	res, err := svc.AssignProjects(context.Background(), "web", ports.AssignProjectsInput{
		ProjectIDs: []string{"p1", "missing", "p2", "p1"},
	})
	require.NoError(t, err)
	require.Len(t, res, 3)

	assert.Equal(t, ports.AssignmentResult{ProjectID: "p1", Linked: true}, res[0])
	assert.Equal(t, "missing", res[1].ProjectID)
	assert.False(t, res[1].Linked)
	assert.Equal(t, "project not found", res[1].Error)
	assert.False(t, res[2].Linked)
	assert.NotEmpty(t, res[2].Error)

	assert.True(t, cats.links["web"]["p1"], "successful items are kept")

	// Retrying the failed subset succeeds once the cause is gone.
	delete(cats.linkErr, "p2")
	res, err = svc.AssignProjects(context.Background(), "web", ports.AssignProjectsInput{ProjectIDs: []string{"p2"}})
	require.NoError(t, err)
	assert.True(t, res[0].Linked)
}

func TestCategoryService_AssignProjects_UnknownCategory(t *testing.T) {
	svc, _, _ := newCategoryFixture()

	_, err := svc.AssignProjects(context.Background(), "nope", ports.AssignProjectsInput{ProjectIDs: []string{"p1"}})
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestCategoryService_AssignProjects_RequiresIDs(t *testing.T) {
	svc, cats, _ := newCategoryFixture()
	cats.byID["web"] = &domain.Category{ID: "web"}

	var ve *domain.ValidationError
	_, err := svc.AssignProjects(context.Background(), "web", ports.AssignProjectsInput{})
	assert.True(t, errors.As(err, &ve))
}

func TestCategoryService_Delete(t *testing.T) {
	svc, cats, _ := newCategoryFixture()
	cats.byID["web"] = &domain.Category{ID: "web"}

	require.NoError(t, svc.Delete(context.Background(), "web"))
	assert.ErrorIs(t, svc.Delete(context.Background(), "web"), domain.ErrNotFound)
}
