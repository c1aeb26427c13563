package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/homigo-app/homigo-backend/internal/api/httpx"
	"github.com/homigo-app/homigo-backend/internal/apperr"
)

const (
	maxUploadSize = 5 << 20 // 5MB per file
	maxImages     = 10
)

var (
	errTooLarge = apperr.Validation("File exceeds the 5MB size limit")
	errNotImage = apperr.Validation("Only image files are allowed")
)

type UploadHandler struct {
	dir     string
	baseURL string
}

func NewUploadHandler(dir, baseURL string) *UploadHandler {
	return &UploadHandler{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

// Images accepts up to ten image files under the "images" form field and
// returns the public URLs of the stored copies.
func (h *UploadHandler) Images(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImages * maxUploadSize); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		httpx.WriteError(w, http.StatusBadRequest, "At least one image file is required")
		return
	}
	if len(files) > maxImages {
		httpx.WriteError(w, http.StatusBadRequest, "A maximum of 10 images can be uploaded at once")
		return
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := h.save(fh)
		if err != nil {
			httpx.WriteErr(w, err)
			return
		}
		urls = append(urls, url)
	}
	httpx.WriteMessage(w, http.StatusCreated, "Images uploaded successfully", map[string]any{"urls": urls})
}

// ProfilePicture accepts a single image under the "profilePicture" field.
func (h *UploadHandler) ProfilePicture(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	files := r.MultipartForm.File["profilePicture"]
	if len(files) != 1 {
		httpx.WriteError(w, http.StatusBadRequest, "A single profile picture file is required")
		return
	}

	url, err := h.save(files[0])
	if err != nil {
		httpx.WriteErr(w, err)
		return
	}
	httpx.WriteMessage(w, http.StatusCreated, "Profile picture uploaded successfully", map[string]any{"url": url})
}

func (h *UploadHandler) save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > maxUploadSize {
		return "", errTooLarge
	}
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		return "", errNotImage
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	dst, err := os.Create(filepath.Join(h.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return h.baseURL + "/uploads/" + name, nil
}
