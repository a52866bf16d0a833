// uploads.go — раздача загруженных фотографий по /uploads/{filename}.
package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/ukftt/registration-module/internal/api/errors"
	"github.com/ukftt/registration-module/internal/storage/photostore"
)

// UploadsHandler — раздача файлов из директории загрузок.
type UploadsHandler struct {
	photos *photostore.Store
}

// NewUploadsHandler создаёт обработчик раздачи фотографий.
func NewUploadsHandler(photos *photostore.Store) *UploadsHandler {
	return &UploadsHandler{photos: photos}
}

// ServeFile — GET /uploads/{filename}.
// Отдаёт только плоские имена: попытки обхода директории — 404.
func (h *UploadsHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	// Только плоское имя файла, без поддиректорий
	if filename == "" || filename != filepath.Base(filename) ||
		strings.HasPrefix(filename, ".") {
		apierrors.NotFound(w, msgNotFound)
		return
	}

	if !h.photos.Exists(filename) {
		apierrors.NotFound(w, msgNotFound)
		return
	}

	http.ServeFile(w, r, filepath.Join(h.photos.Dir(), filename))
}
