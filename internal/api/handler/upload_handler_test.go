package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/atelier-numerique/agency-api/internal/core/domain"
	"github.com/atelier-numerique/agency-api/internal/core/ports"
)

type stubImageService struct {
	files     []ports.ImageUpload
	projectID string
	failItem  string
	images    map[string]*domain.Image
}

func (s *stubImageService) Upload(_ context.Context, files []ports.ImageUpload, projectID string) ([]ports.UploadItemResult, error) {
	s.files = files
	s.projectID = projectID
	out := make([]ports.UploadItemResult, len(files))
	for i, f := range files {
		out[i].Filename = f.Filename
		if f.Filename == s.failItem {
			out[i].Error = "storage failure"
			continue
		}
		id := fmt.Sprintf("img-%d", i)
		out[i].Image = &ports.StoredImage{ID: id, URL: "/api/upload/image/" + id, Filename: f.Filename, MimeType: f.DeclaredType, Size: int64(len(f.Data))}
	}
	return out, nil
}

func (s *stubImageService) Get(_ context.Context, id string) (*domain.Image, error) {
	img, ok := s.images[id]
	if !ok {
		return nil, domain.ErrImageNotFound
	}
	return img, nil
}

func (s *stubImageService) Delete(_ context.Context, id string) error {
	if _, ok := s.images[id]; !ok {
		return domain.ErrImageNotFound
	}
	delete(s.images, id)
	return nil
}

type part struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

func multipartRequest(t *testing.T, target string, fields map[string]string, parts ...part) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.field, p.filename))
		h.Set("Content-Type", p.contentType)
		pw, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := pw.Write(p.data); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestUploadHandler_UploadOne(t *testing.T) {
	e := newEcho()
	svc := &stubImageService{}
	handler := NewUploadHandler(svc, 1<<20)

	req := multipartRequest(t, "/api/upload/image", map[string]string{"projectId": "p1"},
		part{field: "image", filename: "logo.png", contentType: "image/png", data: []byte("\x89PNG\r\n\x1a\n")})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.UploadOne(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var img ports.StoredImage
	decodeData(t, rec, &img)
	if img.URL != "/api/upload/image/img-0" || img.MimeType != "image/png" {
		t.Fatalf("unexpected image: %+v", img)
	}
	if svc.projectID != "p1" {
		t.Fatalf("projectId not forwarded: %q", svc.projectID)
	}
}

func TestUploadHandler_UploadOne_NoFile(t *testing.T) {
	e := newEcho()
	handler := NewUploadHandler(&stubImageService{}, 1<<20)

	req := multipartRequest(t, "/api/upload/image", map[string]string{"projectId": "p1"})
	c := e.NewContext(req, httptest.NewRecorder())

	var ue *domain.UploadError
	if err := handler.UploadOne(c); !errors.As(err, &ue) || ue.Cause != domain.UploadNoFile {
		t.Fatalf("expected NoFile, got %v", err)
	}
}

func TestUploadHandler_OversizedPartIsNotBuffered(t *testing.T) {
	e := newEcho()
	svc := &stubImageService{}
	handler := NewUploadHandler(svc, 8)

	req := multipartRequest(t, "/api/upload/images", nil,
		part{field: "images", filename: "big.png", contentType: "image/png", data: bytes.Repeat([]byte{0x42}, 64)})
	c := e.NewContext(req, httptest.NewRecorder())

	if err := handler.UploadMany(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(svc.files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(svc.files))
	}
	if svc.files[0].Size != 64 || len(svc.files[0].Data) != 0 {
		t.Fatalf("oversized part should carry its size only: size=%d data=%d", svc.files[0].Size, len(svc.files[0].Data))
	}
}

func TestUploadHandler_UploadMany_PerItemReport(t *testing.T) {
	e := newEcho()
	svc := &stubImageService{failItem: "b.png"}
	handler := NewUploadHandler(svc, 1<<20)

	req := multipartRequest(t, "/api/upload/images", nil,
		part{field: "images", filename: "a.png", contentType: "image/png", data: []byte("a")},
		part{field: "images", filename: "b.png", contentType: "image/png", data: []byte("b")},
	)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.UploadMany(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var report []ports.UploadItemResult
	decodeData(t, rec, &report)
	if len(report) != 2 {
		t.Fatalf("expected 2 items, got %d", len(report))
	}
	if report[0].Image == nil || report[1].Image != nil || report[1].Error == "" {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestUploadHandler_Get_StreamsWithCacheHeaders(t *testing.T) {
	e := newEcho()
	svc := &stubImageService{images: map[string]*domain.Image{
		"i1": {ID: "i1", Filename: "logo.png", MimeType: "image/png", Data: []byte("pngdata")},
	}}
	handler := NewUploadHandler(svc, 1<<20)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/upload/image/i1", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("i1")

	if err := handler.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := rec.Header().Get(echo.HeaderContentType); got != "image/png" {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := rec.Header().Get(echo.HeaderCacheControl); got != imageCacheControl {
		t.Fatalf("unexpected cache control %q", got)
	}
	if rec.Body.String() != "pngdata" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestUploadHandler_Delete(t *testing.T) {
	e := newEcho()
	svc := &stubImageService{images: map[string]*domain.Image{"i1": {ID: "i1"}}}
	handler := NewUploadHandler(svc, 1<<20)

	for _, want := range []error{nil, domain.ErrNotFound} {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/api/upload/image/i1", nil), rec)
		c.SetParamNames("id")
		c.SetParamValues("i1")

		err := handler.Delete(c)
		if want == nil {
			if err != nil || rec.Code != http.StatusNoContent {
				t.Fatalf("first delete: err=%v code=%d", err, rec.Code)
			}
			continue
		}
		if !errors.Is(err, want) {
			t.Fatalf("second delete: expected %v, got %v", want, err)
		}
	}
}
