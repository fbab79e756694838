package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atelier-numerique/agency-api/internal/core/domain"
	"github.com/atelier-numerique/agency-api/internal/core/ports"
)

type stubCategoryService struct {
	createErr error
	assigned  []string
}

func (s *stubCategoryService) List(context.Context) ([]*domain.Category, error) {
	return []*domain.Category{{ID: "c1", Name: "Web", Slug: "web"}}, nil
}

func (s *stubCategoryService) Create(_ context.Context, in ports.CreateCategoryInput) (*domain.Category, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &domain.Category{ID: "c2", Name: in.Name, Slug: "e-commerce"}, nil
}

func (s *stubCategoryService) Delete(_ context.Context, id string) error {
	if id != "c1" {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (s *stubCategoryService) AssignProjects(_ context.Context, categoryID string, in ports.AssignProjectsInput) ([]ports.AssignmentResult, error) {
	if categoryID != "c1" {
		return nil, domain.ErrCategoryNotFound
	}
	s.assigned = in.ProjectIDs
	out := make([]ports.AssignmentResult, len(in.ProjectIDs))
	for i, id := range in.ProjectIDs {
		out[i] = ports.AssignmentResult{ProjectID: id, Linked: id != "missing"}
		if id == "missing" {
			out[i].Error = "project not found"
		}
	}
	return out, nil
}

func TestCategoryHandler_Create(t *testing.T) {
	e := newEcho()
	handler := NewCategoryHandler(&stubCategoryService{})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/categories", `{"name":"E-commerce"}`), rec)
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var cat domain.Category
	decodeData(t, rec, &cat)
	if cat.Slug != "e-commerce" {
		t.Fatalf("unexpected category: %+v", cat)
	}
}

func TestCategoryHandler_Create_Conflict(t *testing.T) {
	e := newEcho()
	handler := NewCategoryHandler(&stubCategoryService{createErr: domain.ErrConflict})

	c := e.NewContext(jsonRequest(http.MethodPost, "/api/categories", `{"name":"Web"}`), httptest.NewRecorder())
	if err := handler.Create(c); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCategoryHandler_AssignProjects_Report(t *testing.T) {
	e := newEcho()
	svc := &stubCategoryService{}
	handler := NewCategoryHandler(svc)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/categories/c1/projects", `{"projectIds":["p1","missing"]}`), rec)
	c.SetParamNames("id")
	c.SetParamValues("c1")

	if err := handler.AssignProjects(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var report []ports.AssignmentResult
	decodeData(t, rec, &report)
	if len(report) != 2 || !report[0].Linked || report[1].Linked || report[1].Error == "" {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestCategoryHandler_Delete_NotFound(t *testing.T) {
	e := newEcho()
	handler := NewCategoryHandler(&stubCategoryService{})

	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/api/categories/zz", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("zz")
	if err := handler.Delete(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
