package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/atelier-numerique/agency-api/internal/core/domain"
	"github.com/atelier-numerique/agency-api/internal/core/ports"
)

const imageCacheControl = "public, max-age=31536000, immutable"

type UploadHandler struct {
	service ports.ImageService
	maxSize int64
}

// NewUploadHandler reads at most maxSize+1 bytes per file so oversized parts
// are rejected without buffering them whole.
func NewUploadHandler(service ports.ImageService, maxSize int64) *UploadHandler {
	return &UploadHandler{service: service, maxSize: maxSize}
}

// UploadOne handles POST /api/upload/image with a single `image` part.
//
// @Summary      Upload an image
// @Tags         upload
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image      formData  file    true   "Image file"
// @Param        projectId  formData  string  false  "Project to link the image to"
// @Success      201        {object}  dataResponse{data=ports.StoredImage}
// @Failure      400        {object}  map[string]any
// @Failure      413        {object}  map[string]any
// @Failure      415        {object}  map[string]any
// @Router       /api/upload/image [post]
func (h *UploadHandler) UploadOne(c echo.Context) error {
	files, err := h.readFiles(c, "image")
	if err != nil {
		return err
	}
	if len(files) > 1 {
		return &domain.UploadError{Cause: domain.UploadTooManyFiles, Detail: "use /api/upload/images for several files"}
	}

	results, err := h.service.Upload(c.Request().Context(), files, c.FormValue("projectId"))
	if err != nil {
		return err
	}
	if results[0].Image == nil {
		return fmt.Errorf("upload %q: %s: %w", results[0].Filename, results[0].Error, domain.ErrUpstream)
	}
	return respond(c, http.StatusCreated, results[0].Image)
}

// UploadMany handles POST /api/upload/images. Each file gets its own entry in
// the report; a storage failure on one does not undo the others.
//
// @Summary      Upload several images
// @Tags         upload
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        images     formData  file    true   "Image files"
// @Param        projectId  formData  string  false  "Project to link the images to"
// @Success      201        {object}  dataResponse{data=[]ports.UploadItemResult}
// @Failure      400        {object}  map[string]any
// @Failure      413        {object}  map[string]any
// @Failure      415        {object}  map[string]any
// @Router       /api/upload/images [post]
func (h *UploadHandler) UploadMany(c echo.Context) error {
	files, err := h.readFiles(c, "images")
	if err != nil {
		return err
	}

	results, err := h.service.Upload(c.Request().Context(), files, c.FormValue("projectId"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, results)
}

// Get handles GET /api/upload/image/:id and streams the stored bytes.
//
// @Summary      Download an image
// @Tags         upload
// @Produce      image/jpeg,image/png,image/gif,image/webp
// @Param        id   path  string  true  "Image id"
// @Success      200
// @Failure      404  {object}  map[string]any
// @Router       /api/upload/image/{id} [get]
func (h *UploadHandler) Get(c echo.Context) error {
	img, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	header := c.Response().Header()
	header.Set(echo.HeaderCacheControl, imageCacheControl)
	header.Set(echo.HeaderContentLength, strconv.Itoa(len(img.Data)))
	if img.Filename != "" {
		header.Set(echo.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", img.Filename))
	}
	return c.Blob(http.StatusOK, img.MimeType, img.Data)
}

// Delete handles DELETE /api/upload/image/:id.
//
// @Summary      Delete an image
// @Tags         upload
// @Security     BearerAuth
// @Param        id   path  string  true  "Image id"
// @Success      204
// @Failure      404  {object}  map[string]any
// @Router       /api/upload/image/{id} [delete]
func (h *UploadHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UploadHandler) readFiles(c echo.Context, field string) ([]ports.ImageUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, &domain.UploadError{Cause: domain.UploadNoFile, Detail: "expected a multipart/form-data body"}
	}
	headers := form.File[field]
	if len(headers) == 0 {
		return nil, &domain.UploadError{Cause: domain.UploadNoFile, Detail: fmt.Sprintf("no file in field %q", field)}
	}

	files := make([]ports.ImageUpload, 0, len(headers))
	for _, fh := range headers {
		data, err := h.readPart(fh)
		if err != nil {
			return nil, err
		}
		files = append(files, ports.ImageUpload{
			Filename:     fh.Filename,
			DeclaredType: fh.Header.Get(echo.HeaderContentType),
			Size:         fh.Size,
			Data:         data,
		})
	}
	return files, nil
}

func (h *UploadHandler) readPart(fh *multipart.FileHeader) ([]byte, error) {
	if h.maxSize > 0 && fh.Size > h.maxSize {
		// The service reports the size from the header; the bytes are not needed.
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %q: %w", fh.Filename, err)
	}
	defer f.Close()

	r := io.Reader(f)
	if h.maxSize > 0 {
		r = io.LimitReader(f, h.maxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload %q: %w", fh.Filename, err)
	}
	return data, nil
}
