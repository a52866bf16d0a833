// Пакет service — бизнес-логика Registration Module.
// registration.go — приём членских регистраций и турнирных заявок.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/ukftt/registration-module/internal/domain/model"
	"github.com/ukftt/registration-module/internal/repository"
	"github.com/ukftt/registration-module/internal/storage/photostore"
)

// DefaultTournamentCategory — категория турнирной заявки по умолчанию.
const DefaultTournamentCategory = "umum"

// SubmitInput — входные данные членской регистрации.
type SubmitInput struct {
	FullName     string
	StudentID    string
	Email        string
	Faculty      string
	StudyProgram string
	Year         *int
	Phone        string
	Interests    []string
}

// TournamentInput — входные данные турнирной заявки.
type TournamentInput struct {
	FullName  string
	StudentID string
	Email     string
	Phone     string
	Category  string
}

// PhotoUpload — необязательная фотография, приложенная к регистрации.
type PhotoUpload struct {
	// Reader — поток данных файла
	Reader io.Reader
	// Filename — оригинальное имя файла (для расширения)
	Filename string
	// Size — заявленный размер из multipart part
	Size int64
}

// RegistrationService — сервис приёма заявок.
type RegistrationService struct {
	repo           repository.RegistrationRepository
	photos         *photostore.Store
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewRegistrationService создаёт сервис приёма заявок.
func NewRegistrationService(
	repo repository.RegistrationRepository,
	photos *photostore.Store,
	maxUploadBytes int64,
	logger *slog.Logger,
) *RegistrationService {
	return &RegistrationService{
		repo:           repo,
		photos:         photos,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "registration_service")),
	}
}

// Submit принимает членскую регистрацию.
//
// Поток:
//  1. Валидация обязательных полей (fullName, studentId)
//  2. Проверка, что NIM не занят никакой существующей заявкой
//  3. Проверка размера фотографии (если приложена)
//  4. Сохранение фотографии на диск
//  5. Создание записи в БД
//
// NIM конфликтует с любой существующей заявкой, членской или
// турнирной. Гонку двух конкурентных членских заявок дополнительно
// закрывает частичный уникальный индекс: дубликат возвращается как
// ErrConflict и из Create. При ошибке создания записи сохранённая
// фотография удаляется, чтобы photo_url всегда указывал на реально
// существующий файл.
func (s *RegistrationService) Submit(ctx context.Context, input SubmitInput, photo *PhotoUpload) (*model.Registration, error) {
	if strings.TrimSpace(input.FullName) == "" || strings.TrimSpace(input.StudentID) == "" {
		return nil, fmt.Errorf("%w: fullName и studentId обязательны", ErrValidation)
	}

	studentID := strings.TrimSpace(input.StudentID)
	exists, err := s.repo.StudentIDExists(ctx, studentID)
	if err != nil {
		s.logger.Error("Ошибка проверки NIM",
			slog.String("student_id", studentID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrConflict, studentID)
	}

	if photo != nil && photo.Size > s.maxUploadBytes {
		return nil, fmt.Errorf("%w: %d байт при максимуме %d", ErrPhotoTooLarge, photo.Size, s.maxUploadBytes)
	}

	reg := &model.Registration{
		ID:           uuid.New().String(),
		Kind:         model.KindMember,
		FullName:     strings.TrimSpace(input.FullName),
		StudentID:    studentID,
		Email:        input.Email,
		Faculty:      input.Faculty,
		StudyProgram: input.StudyProgram,
		Year:         input.Year,
		Phone:        input.Phone,
		Interests:    NormalizeInterests(input.Interests),
		Status:       model.StatusPending,
	}

	// Два явных шага: сначала файл, потом запись со ссылкой на него.
	var savedFilename string
	if photo != nil {
		saved, err := s.photos.Save(photo.Reader, photo.Filename)
		if err != nil {
			s.logger.Error("Ошибка сохранения фотографии",
				slog.String("registration_id", reg.ID),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("ошибка сохранения фотографии: %w", err)
		}
		savedFilename = saved.Filename
		reg.PhotoURL = photostore.PublicURL(saved.Filename)
	}

	if err := s.repo.Create(ctx, reg); err != nil {
		if savedFilename != "" {
			_ = s.photos.Delete(savedFilename)
		}
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: %s", ErrConflict, reg.StudentID)
		}
		s.logger.Error("Ошибка создания заявки",
			slog.String("registration_id", reg.ID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	registrationsTotal.WithLabelValues(string(model.KindMember)).Inc()

	s.logger.Info("Заявка принята",
		slog.String("registration_id", reg.ID),
		slog.String("student_id", reg.StudentID),
		slog.Bool("has_photo", reg.PhotoURL != ""),
	)

	return reg, nil
}

// SubmitTournament принимает турнирную заявку на турнир tournamentID.
// Уникальность NIM не проверяется: студент может подать несколько
// турнирных заявок, в том числе с NIM уже существующей членской
// регистрации. Интересы кодируют турнир и категорию.
func (s *RegistrationService) SubmitTournament(ctx context.Context, tournamentID string, input TournamentInput) (*model.Registration, error) {
	if strings.TrimSpace(input.FullName) == "" || strings.TrimSpace(input.StudentID) == "" {
		return nil, fmt.Errorf("%w: fullName и studentId обязательны", ErrValidation)
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = DefaultTournamentCategory
	}

	reg := &model.Registration{
		ID:        uuid.New().String(),
		Kind:      model.KindTournament,
		FullName:  strings.TrimSpace(input.FullName),
		StudentID: strings.TrimSpace(input.StudentID),
		Email:     input.Email,
		Phone:     input.Phone,
		Interests: []string{"tournament:" + tournamentID, category},
		Status:    model.StatusPending,
	}

	if err := s.repo.Create(ctx, reg); err != nil {
		s.logger.Error("Ошибка создания турнирной заявки",
			slog.String("registration_id", reg.ID),
			slog.String("tournament_id", tournamentID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	registrationsTotal.WithLabelValues(string(model.KindTournament)).Inc()

	s.logger.Info("Турнирная заявка принята",
		slog.String("registration_id", reg.ID),
		slog.String("tournament_id", tournamentID),
		slog.String("category", category),
	)

	return reg, nil
}

// NormalizeInterests нормализует список интересов: убирает пробелы
// по краям и пустые элементы. Возвращает непустой срез (не nil).
func NormalizeInterests(interests []string) []string {
	result := make([]string, 0, len(interests))
	for _, tag := range interests {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			result = append(result, tag)
		}
	}
	return result
}

// SplitInterests разбирает интересы из строки, разделённой запятыми.
// Форма может прислать интересы как строкой, так и списком.
func SplitInterests(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return NormalizeInterests(strings.Split(s, ","))
}
