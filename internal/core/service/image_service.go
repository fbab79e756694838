package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/atelier-numerique/agency-api/internal/core/domain"
	"github.com/atelier-numerique/agency-api/internal/core/ports"
	"github.com/atelier-numerique/agency-api/pkg/metrics"
)

const (
	DefaultMaxImageSize  int64 = 10 << 20
	DefaultMaxImageFiles       = 5
	imageURLPrefix             = "/api/upload/image/"
)

// allowedImageTypes maps each accepted MIME type to its file extensions.
var allowedImageTypes = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
	"image/gif":  {".gif"},
	"image/webp": {".webp"},
}

// UploadLimits bounds a single upload request.
type UploadLimits struct {
	MaxFileSize int64
	MaxFiles    int
}

type ImageService struct {
	store    ports.ImageStore
	projects ports.ProjectRepository
	limits   UploadLimits
	logger   zerolog.Logger
	now      func() time.Time
}

func NewImageService(store ports.ImageStore, projects ports.ProjectRepository, limits UploadLimits, logger zerolog.Logger) *ImageService {
	if limits.MaxFileSize <= 0 {
		limits.MaxFileSize = DefaultMaxImageSize
	}
	if limits.MaxFiles <= 0 {
		limits.MaxFiles = DefaultMaxImageFiles
	}
	return &ImageService{
		store:    store,
		projects: projects,
		limits:   limits,
		logger:   logger,
		now:      time.Now,
	}
}

// Upload checks the whole batch first and refuses it entirely on the first
// invalid file. Valid batches are then stored file by file; a storage failure
// is reported on that item only.
func (s *ImageService) Upload(ctx context.Context, files []ports.ImageUpload, projectID string) ([]ports.UploadItemResult, error) {
	if len(files) == 0 {
		return nil, &domain.UploadError{Cause: domain.UploadNoFile, Detail: "no file received"}
	}
	if len(files) > s.limits.MaxFiles {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return nil, &domain.UploadError{
			Cause:  domain.UploadTooManyFiles,
			Detail: fmt.Sprintf("at most %d files per request", s.limits.MaxFiles),
		}
	}

	types := make([]string, len(files))
	for i, f := range files {
		mt, err := s.check(f)
		if err != nil {
			metrics.UploadsTotal.WithLabelValues("rejected").Inc()
			return nil, err
		}
		types[i] = mt
	}

	if projectID != "" && s.projects != nil {
		if _, err := s.projects.FindByID(ctx, projectID); err != nil {
			return nil, err
		}
	}

	results := make([]ports.UploadItemResult, 0, len(files))
	for i, f := range files {
		results = append(results, s.storeOne(ctx, f, types[i], projectID))
	}
	return results, nil
}

func (s *ImageService) check(f ports.ImageUpload) (string, error) {
	size := f.Size
	if n := int64(len(f.Data)); n > size {
		size = n
	}
	if size == 0 {
		return "", &domain.UploadError{Cause: domain.UploadNoFile, Filename: f.Filename, Detail: "file is empty"}
	}
	if size > s.limits.MaxFileSize {
		return "", &domain.UploadError{
			Cause:    domain.UploadTooLarge,
			Filename: f.Filename,
			Detail:   fmt.Sprintf("file exceeds %d bytes", s.limits.MaxFileSize),
		}
	}

	unsupported := func(detail string) error {
		return &domain.UploadError{Cause: domain.UploadUnsupportedType, Filename: f.Filename, Detail: detail}
	}

	declared := strings.ToLower(strings.TrimSpace(strings.Split(f.DeclaredType, ";")[0]))
	exts, ok := allowedImageTypes[declared]
	if !ok {
		return "", unsupported("only jpeg, png, gif and webp images are accepted")
	}
	if !hasExtension(f.Filename, exts) {
		return "", unsupported("file extension does not match " + declared)
	}

	detected := mimetype.Detect(f.Data)
	if _, ok := allowedImageTypes[detected.String()]; !ok {
		return "", unsupported("file content is " + detected.String())
	}
	return detected.String(), nil
}

func (s *ImageService) storeOne(ctx context.Context, f ports.ImageUpload, mimeType, projectID string) ports.UploadItemResult {
	img := &domain.Image{
		ID:        uuid.NewString(),
		Filename:  filepath.Base(f.Filename),
		MimeType:  mimeType,
		Size:      int64(len(f.Data)),
		ProjectID: projectID,
		Data:      f.Data,
		CreatedAt: s.now().UTC(),
	}

	if err := s.store.Save(ctx, img); err != nil {
		metrics.UploadsTotal.WithLabelValues("failed").Inc()
		s.logger.Error().Err(err).Str("filename", img.Filename).Msg("failed to store image")
		return ports.UploadItemResult{Filename: img.Filename, Error: "storage failure"}
	}

	if projectID != "" && s.projects != nil {
		if err := s.projects.AddImage(ctx, projectID, img.ID); err != nil {
			s.logger.Warn().Err(err).Str("image_id", img.ID).Str("project_id", projectID).Msg("failed to link image")
		}
	}

	metrics.UploadsTotal.WithLabelValues("stored").Inc()
	audit(ctx, s.logger, "upload", "image", img.ID)
	return ports.UploadItemResult{
		Filename: img.Filename,
		Image: &ports.StoredImage{
			ID:       img.ID,
			URL:      imageURLPrefix + img.ID,
			Filename: img.Filename,
			MimeType: img.MimeType,
			Size:     img.Size,
		},
	}
}

func (s *ImageService) Get(ctx context.Context, id string) (*domain.Image, error) {
	return s.store.Open(ctx, id)
}

func (s *ImageService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if s.projects != nil {
		if err := s.projects.RemoveImage(ctx, id); err != nil {
			s.logger.Warn().Err(err).Str("image_id", id).Msg("failed to detach image from project")
		}
	}
	audit(ctx, s.logger, "delete", "image", id)
	return nil
}

func hasExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
