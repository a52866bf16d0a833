package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ukftt/registration-module/internal/domain/model"
)

// RegistrationRepository — интерфейс доступа к таблице registrations.
type RegistrationRepository interface {
	// Create сохраняет новую заявку. При дублировании NIM среди членских
	// регистраций возвращает ErrConflict (частичный уникальный индекс —
	// гонка двух конкурентных заявок разрешается базой детерминированно).
	Create(ctx context.Context, reg *model.Registration) error
	// StudentIDExists сообщает, существует ли заявка любого типа
	// с данным NIM.
	StudentIDExists(ctx context.Context, studentID string) (bool, error)
	// GetByID возвращает заявку по идентификатору.
	GetByID(ctx context.Context, id string) (*model.Registration, error)
	// List возвращает все заявки, от новых к старым.
	// Пагинации нет: админ-панель всегда запрашивает полный список.
	List(ctx context.Context) ([]*model.Registration, error)
	// UpdateStatus устанавливает статус заявки и возвращает обновлённую
	// запись. Повторная установка того же статуса — no-op с успехом.
	UpdateStatus(ctx context.Context, id string, status model.Status) (*model.Registration, error)
}

// registrationRepo — реализация RegistrationRepository.
type registrationRepo struct {
	db DBTX
}

// NewRegistrationRepository создаёт репозиторий заявок.
func NewRegistrationRepository(db DBTX) RegistrationRepository {
	return &registrationRepo{db: db}
}

func (r *registrationRepo) Create(ctx context.Context, reg *model.Registration) error {
	query := `
		INSERT INTO registrations (id, kind, full_name, student_id, email,
			faculty, study_program, year, phone, interests, photo_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query,
		reg.ID, reg.Kind, reg.FullName, reg.StudentID, nullIfEmpty(reg.Email),
		nullIfEmpty(reg.Faculty), nullIfEmpty(reg.StudyProgram), reg.Year,
		nullIfEmpty(reg.Phone), reg.Interests, nullIfEmpty(reg.PhotoURL), reg.Status,
	).Scan(&reg.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: NIM %s уже зарегистрирован", ErrConflict, reg.StudentID)
		}
		return fmt.Errorf("ошибка создания заявки: %w", err)
	}
	return nil
}

func (r *registrationRepo) StudentIDExists(ctx context.Context, studentID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM registrations WHERE student_id = $1)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, studentID).Scan(&exists); err != nil {
		return false, fmt.Errorf("ошибка проверки NIM: %w", err)
	}
	return exists, nil
}

func (r *registrationRepo) GetByID(ctx context.Context, id string) (*model.Registration, error) {
	// Невалидный UUID не может указывать на существующую запись
	if uuid.Validate(id) != nil {
		return nil, ErrNotFound
	}

	query := `
		SELECT id, kind, full_name, student_id, email, faculty,
			study_program, year, phone, interests, photo_url, status, created_at
		FROM registrations
		WHERE id = $1`

	reg, err := scanRegistration(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения заявки: %w", err)
	}
	return reg, nil
}

func (r *registrationRepo) List(ctx context.Context) ([]*model.Registration, error) {
	query := `
		SELECT id, kind, full_name, student_id, email, faculty,
			study_program, year, phone, interests, photo_url, status, created_at
		FROM registrations
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка заявок: %w", err)
	}
	defer rows.Close()

	var result []*model.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования заявки: %w", err)
		}
		result = append(result, reg)
	}
	return result, rows.Err()
}

func (r *registrationRepo) UpdateStatus(ctx context.Context, id string, status model.Status) (*model.Registration, error) {
	// Невалидный UUID не может указывать на существующую запись
	if uuid.Validate(id) != nil {
		return nil, ErrNotFound
	}

	query := `
		UPDATE registrations
		SET status = $2
		WHERE id = $1
		RETURNING id, kind, full_name, student_id, email, faculty,
			study_program, year, phone, interests, photo_url, status, created_at`

	reg, err := scanRegistration(r.db.QueryRow(ctx, query, id, status))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка обновления статуса заявки: %w", err)
	}
	return reg, nil
}

// scanRegistration сканирует одну строку в model.Registration.
// NULL-колонки маппятся в пустые строки.
func scanRegistration(row pgx.Row) (*model.Registration, error) {
	reg := &model.Registration{}
	var email, faculty, studyProgram, phone, photoURL *string

	err := row.Scan(
		&reg.ID, &reg.Kind, &reg.FullName, &reg.StudentID, &email, &faculty,
		&studyProgram, &reg.Year, &phone, &reg.Interests, &photoURL,
		&reg.Status, &reg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	reg.Email = deref(email)
	reg.Faculty = deref(faculty)
	reg.StudyProgram = deref(studyProgram)
	reg.Phone = deref(phone)
	reg.PhotoURL = deref(photoURL)
	if reg.Interests == nil {
		reg.Interests = []string{}
	}
	return reg, nil
}

// nullIfEmpty преобразует пустую строку в NULL.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
