// admin.go — сервис админ-панели: список заявок, CSV-экспорт,
// переходы статуса approve/reject.
package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ukftt/registration-module/internal/domain/model"
	"github.com/ukftt/registration-module/internal/repository"
)

// ExportFilename — фиксированное имя файла CSV-экспорта.
const ExportFilename = "registrations.csv"

// csvColumns — фиксированный порядок колонок CSV-экспорта.
// Порядок — контракт для существующих потребителей, не менять.
var csvColumns = []string{
	"id", "fullName", "studentId", "email", "phone", "faculty",
	"studyProgram", "year", "interests", "status", "createdAt",
}

// AdminService — операции админ-панели над заявками.
type AdminService struct {
	repo   repository.RegistrationRepository
	logger *slog.Logger
}

// NewAdminService создаёт сервис админ-панели.
func NewAdminService(repo repository.RegistrationRepository, logger *slog.Logger) *AdminService {
	return &AdminService{
		repo:   repo,
		logger: logger.With(slog.String("component", "admin_service")),
	}
}

// List возвращает все заявки, от новых к старым.
func (s *AdminService) List(ctx context.Context) ([]*model.Registration, error) {
	regs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if regs == nil {
		regs = []*model.Registration{}
	}
	return regs, nil
}

// ExportCSV пишет в w все заявки в CSV с фиксированным порядком колонок,
// одна строка на заявку, от новых к старым.
func (s *AdminService) ExportCSV(ctx context.Context, w io.Writer) error {
	regs, err := s.repo.List(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return fmt.Errorf("ошибка записи заголовка CSV: %w", err)
	}

	for _, reg := range regs {
		year := ""
		if reg.Year != nil {
			year = strconv.Itoa(*reg.Year)
		}
		row := []string{
			reg.ID,
			reg.FullName,
			reg.StudentID,
			reg.Email,
			reg.Phone,
			reg.Faculty,
			reg.StudyProgram,
			year,
			strings.Join(reg.Interests, ","),
			string(reg.Status),
			reg.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("ошибка записи строки CSV: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Get возвращает одну заявку по идентификатору.
func (s *AdminService) Get(ctx context.Context, id string) (*model.Registration, error) {
	reg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

// Approve устанавливает статус заявки approved.
// Идемпотентна: повторное одобрение возвращает запись без изменений.
func (s *AdminService) Approve(ctx context.Context, id string) (*model.Registration, error) {
	return s.setStatus(ctx, id, model.StatusApproved)
}

// Reject устанавливает статус заявки rejected.
// Симметрична Approve и так же идемпотентна.
func (s *AdminService) Reject(ctx context.Context, id string) (*model.Registration, error) {
	return s.setStatus(ctx, id, model.StatusRejected)
}

func (s *AdminService) setStatus(ctx context.Context, id string, status model.Status) (*model.Registration, error) {
	reg, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Error("Ошибка обновления статуса",
			slog.String("registration_id", id),
			slog.String("status", string(status)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	statusTransitionsTotal.WithLabelValues(string(status)).Inc()

	s.logger.Info("Статус заявки обновлён",
		slog.String("registration_id", id),
		slog.String("status", string(status)),
	)

	return reg, nil
}
