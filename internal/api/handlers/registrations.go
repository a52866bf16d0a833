// registrations.go — обработчики публичных эндпоинтов регистрации.
// Приём членских регистраций (JSON или multipart с фотографией)
// и турнирных заявок. Сообщения — на языке клиентской формы.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/ukftt/registration-module/internal/api/errors"
	"github.com/ukftt/registration-module/internal/service"
)

// Сообщения публичного API (контракт клиентской формы).
const (
	msgMissingFields      = "Field wajib belum lengkap"
	msgDuplicateNIM       = "NIM sudah terdaftar"
	msgInvalidYear        = "Tahun tidak valid"
	msgInvalidBody        = "Format request tidak valid"
	msgPhotoTooLarge      = "Ukuran foto melebihi batas maksimum"
	msgServerError        = "Server error"
	msgAccepted           = "Pendaftaran diterima"
	msgTournamentAccepted = "Pendaftaran turnamen diterima"
)

// multipartParseBuffer — лимит памяти при парсинге multipart form.
const multipartParseBuffer = 32 << 20 // 32 MiB

// submitResponse — ответ на успешную подачу заявки.
type submitResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	RegistrationID string `json:"registrationId"`
}

// createRegistrationRequest — JSON-тело членской регистрации.
type createRegistrationRequest struct {
	FullName     string        `json:"fullName"`
	StudentID    string        `json:"studentId"`
	Email        string        `json:"email"`
	Faculty      string        `json:"faculty"`
	StudyProgram string        `json:"studyProgram"`
	Year         *int          `json:"year"`
	Phone        string        `json:"phone"`
	Interests    interestsList `json:"interests"`
}

// tournamentRequest — JSON-тело турнирной заявки.
type tournamentRequest struct {
	FullName  string `json:"fullName"`
	StudentID string `json:"studentId"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Category  string `json:"category"`
}

// interestsList принимает интересы как список строк или как одну
// строку, разделённую запятыми (форма шлёт оба варианта).
type interestsList []string

// UnmarshalJSON разбирает либо массив строк, либо строку с запятыми.
func (l *interestsList) UnmarshalJSON(data []byte) error {
	var asList []string
	if err := json.Unmarshal(data, &asList); err == nil {
		*l = service.NormalizeInterests(asList)
		return nil
	}

	var asString string
	if err := json.Unmarshal(data, &asString); err != nil {
		return err
	}
	*l = service.SplitInterests(asString)
	return nil
}

// CreateRegistration — POST /api/registrations.
// Принимает членскую регистрацию: JSON-тело либо multipart form
// с необязательной фотографией в части "photo".
func (h *APIHandler) CreateRegistration(w http.ResponseWriter, r *http.Request) {
	// Жёсткий лимит на тело запроса: фотография + запас на поля формы
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+1<<20)

	var (
		input service.SubmitInput
		photo *service.PhotoUpload
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(multipartParseBuffer); err != nil {
			if isBodyTooLarge(err) {
				apierrors.PayloadTooLarge(w, msgPhotoTooLarge)
				return
			}
			apierrors.ValidationError(w, msgInvalidBody)
			return
		}

		var ok bool
		input, ok = h.submitInputFromForm(w, r)
		if !ok {
			return
		}

		file, header, err := r.FormFile("photo")
		switch {
		case err == nil:
			defer file.Close()
			photo = &service.PhotoUpload{
				Reader:   file,
				Filename: header.Filename,
				Size:     header.Size,
			}
		case errors.Is(err, http.ErrMissingFile):
			// Фотография необязательна
		default:
			apierrors.ValidationError(w, msgInvalidBody)
			return
		}
	} else {
		var req createRegistrationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			if isBodyTooLarge(err) {
				apierrors.PayloadTooLarge(w, msgPhotoTooLarge)
				return
			}
			apierrors.ValidationError(w, msgInvalidBody)
			return
		}
		input = service.SubmitInput{
			FullName:     req.FullName,
			StudentID:    req.StudentID,
			Email:        req.Email,
			Faculty:      req.Faculty,
			StudyProgram: req.StudyProgram,
			Year:         req.Year,
			Phone:        req.Phone,
			Interests:    req.Interests,
		}
	}

	reg, err := h.registrations.Submit(r.Context(), input, photo)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			apierrors.ValidationError(w, msgMissingFields)
		case errors.Is(err, service.ErrConflict):
			apierrors.Conflict(w, msgDuplicateNIM)
		case errors.Is(err, service.ErrPhotoTooLarge):
			apierrors.PayloadTooLarge(w, msgPhotoTooLarge)
		default:
			h.logger.Error("Ошибка приёма регистрации", "error", err)
			apierrors.InternalError(w, msgServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		Success:        true,
		Message:        msgAccepted,
		RegistrationID: reg.ID,
	})
}

// RegisterTournament — POST /api/registrations/tournaments/{tournament_id}/register.
// Принимает турнирную заявку. Дубликаты NIM допускаются.
func (h *APIHandler) RegisterTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournament_id")

	var req tournamentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, msgInvalidBody)
		return
	}

	reg, err := h.registrations.SubmitTournament(r.Context(), tournamentID, service.TournamentInput{
		FullName:  req.FullName,
		StudentID: req.StudentID,
		Email:     req.Email,
		Phone:     req.Phone,
		Category:  req.Category,
	})
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			apierrors.ValidationError(w, msgMissingFields)
			return
		}
		h.logger.Error("Ошибка приёма турнирной заявки",
			"tournament_id", tournamentID, "error", err)
		apierrors.InternalError(w, msgServerError)
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		Success:        true,
		Message:        msgTournamentAccepted,
		RegistrationID: reg.ID,
	})
}

// submitInputFromForm извлекает поля членской регистрации из multipart
// form. При некорректном годе пишет 400 и возвращает ok=false.
func (h *APIHandler) submitInputFromForm(w http.ResponseWriter, r *http.Request) (service.SubmitInput, bool) {
	input := service.SubmitInput{
		FullName:     r.FormValue("fullName"),
		StudentID:    r.FormValue("studentId"),
		Email:        r.FormValue("email"),
		Faculty:      r.FormValue("faculty"),
		StudyProgram: r.FormValue("studyProgram"),
		Phone:        r.FormValue("phone"),
		Interests:    service.SplitInterests(r.FormValue("interests")),
	}

	if yearStr := strings.TrimSpace(r.FormValue("year")); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			apierrors.ValidationError(w, msgInvalidYear)
			return service.SubmitInput{}, false
		}
		input.Year = &year
	}

	return input, true
}

// isBodyTooLarge распознаёт превышение лимита MaxBytesReader.
func isBodyTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr)
}
