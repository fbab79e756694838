package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/atelier-numerique/agency-api/internal/core/domain"
	"github.com/atelier-numerique/agency-api/internal/core/ports"
)

// unassigned holds images uploaded without a project.
const unassigned = "_unassigned"

var safeSegment = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// DiskStore keeps images as files named <id><ext>, grouped in one directory
// per project: <base>/<projectID>/<id>.png. The uploaded filename is kept
// next to it in a hidden .<id>.name file.
type DiskStore struct {
	basePath string
}

func NewDiskStore(basePath string) (*DiskStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{basePath: basePath}, nil
}

var _ ports.ImageStore = (*DiskStore)(nil)

func (s *DiskStore) Save(_ context.Context, img *domain.Image) error {
	if _, err := uuid.Parse(img.ID); err != nil {
		return fmt.Errorf("invalid image id %q", img.ID)
	}
	dir, err := s.projectDir(img.ProjectID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create project dir: %w", err)
	}

	ext, ok := extensions[img.MimeType]
	if !ok {
		ext = ".bin"
	}
	path := filepath.Join(dir, img.ID+ext)
	if err := os.WriteFile(path, img.Data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	if img.Filename != "" {
		if err := os.WriteFile(namePath(path, img.ID), []byte(img.Filename), 0o644); err != nil {
			_ = os.Remove(path)
			return fmt.Errorf("write image name: %w", err)
		}
	}
	return nil
}

// Open reads the image back. The MIME type is detected from the file content.
func (s *DiskStore) Open(_ context.Context, id string) (*domain.Image, error) {
	path, err := s.find(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat image: %w", err)
	}

	projectID := filepath.Base(filepath.Dir(path))
	if projectID == unassigned {
		projectID = ""
	}
	// Files written before names were kept fall back to the stored name.
	filename := filepath.Base(path)
	if name, err := os.ReadFile(namePath(path, id)); err == nil && len(name) > 0 {
		filename = string(name)
	}
	return &domain.Image{
		ID:        id,
		Filename:  filename,
		MimeType:  mimetype.Detect(data).String(),
		Size:      int64(len(data)),
		ProjectID: projectID,
		Data:      data,
		CreatedAt: info.ModTime().UTC(),
	}, nil
}

func (s *DiskStore) Delete(_ context.Context, id string) error {
	path, err := s.find(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ErrImageNotFound
		}
		return fmt.Errorf("remove image: %w", err)
	}
	if err := os.Remove(namePath(path, id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove image name: %w", err)
	}
	return nil
}

func (s *DiskStore) DeleteByProject(_ context.Context, projectID string) (int64, error) {
	if projectID == "" {
		return 0, nil
	}
	dir, err := s.projectDir(projectID)
	if err != nil {
		return 0, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("list project images: %w", err)
	}
	var n int64
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), ".") {
			n++
		}
	}
	if err := os.RemoveAll(dir); err != nil {
		return 0, fmt.Errorf("remove project images: %w", err)
	}
	return n, nil
}

// find locates the file for id. Only uuids are accepted so an id can never
// address a path outside the base directory.
func (s *DiskStore) find(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", domain.ErrImageNotFound
	}
	matches, err := filepath.Glob(filepath.Join(s.basePath, "*", id+".*"))
	if err != nil {
		return "", fmt.Errorf("find image: %w", err)
	}
	if len(matches) == 0 {
		return "", domain.ErrImageNotFound
	}
	return matches[0], nil
}

// namePath is the file holding the uploaded filename of the image at path.
func namePath(path, id string) string {
	return filepath.Join(filepath.Dir(path), "."+id+".name")
}

func (s *DiskStore) projectDir(projectID string) (string, error) {
	if projectID == "" {
		return filepath.Join(s.basePath, unassigned), nil
	}
	if !safeSegment.MatchString(projectID) {
		return "", fmt.Errorf("invalid project id %q", projectID)
	}
	return filepath.Join(s.basePath, projectID), nil
}
