// admin.go — обработчики админ-эндпоинтов: список заявок,
// CSV-экспорт и переходы статуса approve/reject.
// Доступ контролируется middleware.AdminAuth на уровне роутера.
package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/ukftt/registration-module/internal/api/errors"
	"github.com/ukftt/registration-module/internal/domain/model"
	"github.com/ukftt/registration-module/internal/service"
)

// Сообщения админ-API.
const (
	msgNotFound = "Not found"
	msgApproved = "Approved"
	msgRejected = "Rejected"
)

// statusResponse — ответ на approve/reject.
type statusResponse struct {
	Message      string              `json:"message"`
	Registration *model.Registration `json:"registration"`
}

// ListRegistrations — GET /api/admin/registrations.
// Возвращает все заявки от новых к старым; с ?export=csv отдаёт
// CSV-файл с фиксированным порядком колонок.
func (h *APIHandler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("export") == "csv" {
		h.exportCSV(w, r)
		return
	}

	regs, err := h.admin.List(r.Context())
	if err != nil {
		h.logger.Error("Ошибка получения списка заявок", "error", err)
		apierrors.InternalError(w, msgServerError)
		return
	}

	writeJSON(w, http.StatusOK, regs)
}

// exportCSV формирует CSV в буфере, чтобы ошибка выборки не
// превратилась в обрубленный файл с кодом 200.
func (h *APIHandler) exportCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.admin.ExportCSV(r.Context(), &buf); err != nil {
		h.logger.Error("Ошибка CSV-экспорта заявок", "error", err)
		apierrors.InternalError(w, msgServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+service.ExportFilename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// GetRegistration — GET /api/admin/registrations/{id}.
func (h *APIHandler) GetRegistration(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	reg, err := h.admin.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, msgNotFound)
			return
		}
		h.logger.Error("Ошибка получения заявки",
			"registration_id", id, "error", err)
		apierrors.InternalError(w, msgServerError)
		return
	}

	writeJSON(w, http.StatusOK, reg)
}

// ApproveRegistration — PUT /api/admin/registrations/{id}/approve.
func (h *APIHandler) ApproveRegistration(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.admin.Approve, msgApproved)
}

// RejectRegistration — PUT /api/admin/registrations/{id}/reject.
func (h *APIHandler) RejectRegistration(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.admin.Reject, msgRejected)
}

func (h *APIHandler) setStatus(
	w http.ResponseWriter,
	r *http.Request,
	transition func(ctx context.Context, id string) (*model.Registration, error),
	message string,
) {
	id := chi.URLParam(r, "id")

	reg, err := transition(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			apierrors.NotFound(w, msgNotFound)
			return
		}
		h.logger.Error("Ошибка перехода статуса заявки",
			"registration_id", id, "error", err)
		apierrors.InternalError(w, msgServerError)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Message:      message,
		Registration: reg,
	})
}
