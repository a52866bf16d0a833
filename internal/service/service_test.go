package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/ukftt/registration-module/internal/domain/model"
	"github.com/ukftt/registration-module/internal/repository"
	"github.com/ukftt/registration-module/internal/storage/photostore"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRepo — in-memory реализация RegistrationRepository.
// Воспроизводит семантику частичного уникального индекса:
// дубликат NIM среди членских регистраций — ErrConflict.
type fakeRepo struct {
	mu   sync.Mutex
	regs []*model.Registration

	// createErr подменяет результат Create для негативных сценариев
	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{}
}

func (f *fakeRepo) Create(_ context.Context, reg *model.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}

	if reg.Kind == model.KindMember {
		for _, existing := range f.regs {
			if existing.Kind == model.KindMember && existing.StudentID == reg.StudentID {
				return fmt.Errorf("%w: NIM %s уже зарегистрирован", repository.ErrConflict, reg.StudentID)
			}
		}
	}

	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = time.Now().UTC()
	}
	stored := *reg
	f.regs = append(f.regs, &stored)
	return nil
}

func (f *fakeRepo) StudentIDExists(_ context.Context, studentID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, reg := range f.regs {
		if reg.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*model.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, reg := range f.regs {
		if reg.ID == id {
			copied := *reg
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRepo) List(_ context.Context) ([]*model.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// От новых к старым
	result := make([]*model.Registration, 0, len(f.regs))
	for i := len(f.regs) - 1; i >= 0; i-- {
		copied := *f.regs[i]
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id string, status model.Status) (*model.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, reg := range f.regs {
		if reg.ID == id {
			reg.Status = status
			copied := *reg
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

// photosDirEntries возвращает имена файлов в директории загрузок.
func photosDirEntries(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// newTestService создаёт сервис с fake-репозиторием и photostore
// во временной директории.
func newTestService(t *testing.T) (*RegistrationService, *fakeRepo, *photostore.Store) {
	t.Helper()

	repo := newFakeRepo()
	photos, err := photostore.New(t.TempDir())
	if err != nil {
		t.Fatalf("Ошибка создания photostore: %v", err)
	}

	svc := NewRegistrationService(repo, photos, 5*1024*1024, testLogger())
	return svc, repo, photos
}
