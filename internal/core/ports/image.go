package ports

import (
	"context"

	"github.com/atelier-numerique/agency-api/internal/core/domain"
)

// ImageUpload is one file received in a multipart request.
type ImageUpload struct {
	Filename     string
	DeclaredType string
	Size         int64
	Data         []byte
}

// ImageStore persists image bytes, on disk or as database blobs.
type ImageStore interface {
	Save(ctx context.Context, img *domain.Image) error
	// Open returns the image with Data populated.
	Open(ctx context.Context, id string) (*domain.Image, error)
	Delete(ctx context.Context, id string) error
	DeleteByProject(ctx context.Context, projectID string) (int64, error)
}

// StoredImage is a successfully persisted upload.
type StoredImage struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	MimeType string `json:"mimetype"`
	Size     int64  `json:"size"`
}

// UploadItemResult reports the outcome for one file of a batch.
type UploadItemResult struct {
	Filename string       `json:"filename"`
	Image    *StoredImage `json:"image,omitempty"`
	Error    string       `json:"error,omitempty"`
}

type ImageService interface {
	// Upload validates every file before storing any; once validation passes,
	// each file is stored independently and reported on its own.
	Upload(ctx context.Context, files []ImageUpload, projectID string) ([]UploadItemResult, error)
	Get(ctx context.Context, id string) (*domain.Image, error)
	Delete(ctx context.Context, id string) error
}
