package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ukftt/registration-module/internal/domain/model"
)

// newTestAdmin создаёт AdminService с fake-репозиторием.
func newTestAdmin(t *testing.T) (*AdminService, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	return NewAdminService(repo, testLogger()), repo
}

// seedRegistration добавляет заявку в репозиторий напрямую.
func seedRegistration(t *testing.T, repo *fakeRepo, reg *model.Registration) {
	t.Helper()
	if reg.Status == "" {
		reg.Status = model.StatusPending
	}
	if reg.Kind == "" {
		reg.Kind = model.KindMember
	}
	if reg.Interests == nil {
		reg.Interests = []string{}
	}
	if err := repo.Create(context.Background(), reg); err != nil {
		t.Fatalf("Ошибка добавления тестовой заявки: %v", err)
	}
}

func TestList_Empty(t *testing.T) {
	admin, _ := newTestAdmin(t)

	regs, err := admin.List(context.Background())
	if err != nil {
		t.Fatalf("List() вернул ошибку: %v", err)
	}
	if regs == nil {
		t.Fatal("List() вернул nil, ожидается пустой срез")
	}
	if len(regs) != 0 {
		t.Errorf("len = %d, ожидается 0", len(regs))
	}
}

func TestList_NewestFirst(t *testing.T) {
	admin, repo := newTestAdmin(t)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seedRegistration(t, repo, &model.Registration{
		ID: "id-old", FullName: "Старая", StudentID: "1", CreatedAt: base,
	})
	seedRegistration(t, repo, &model.Registration{
		ID: "id-new", FullName: "Новая", StudentID: "2", CreatedAt: base.Add(time.Hour),
	})

	regs, err := admin.List(context.Background())
	if err != nil {
		t.Fatalf("List() вернул ошибку: %v", err)
	}
	if len(regs) != 2 {
		t.Fatalf("len = %d, ожидается 2", len(regs))
	}
	if regs[0].ID != "id-new" || regs[1].ID != "id-old" {
		t.Errorf("Порядок = [%s, %s], ожидается [id-new, id-old]", regs[0].ID, regs[1].ID)
	}
}

func TestExportCSV(t *testing.T) {
	admin, repo := newTestAdmin(t)

	year := 2024
	seedRegistration(t, repo, &model.Registration{
		ID:           "reg-1",
		FullName:     "Budi Santoso",
		StudentID:    "21120001",
		Email:        "budi@example.com",
		Phone:        "08123456789",
		Faculty:      "Teknik",
		StudyProgram: "Informatika",
		Year:         &year,
		Interests:    []string{"tenis meja", "turnamen"},
		Status:       model.StatusApproved,
		CreatedAt:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	})

	var buf bytes.Buffer
	if err := admin.ExportCSV(context.Background(), &buf); err != nil {
		t.Fatalf("ExportCSV() вернул ошибку: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Ошибка разбора CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Строк CSV: %d, ожидается 2 (заголовок + заявка)", len(records))
	}

	wantHeader := "id,fullName,studentId,email,phone,faculty,studyProgram,year,interests,status,createdAt"
	if got := strings.Join(records[0], ","); got != wantHeader {
		t.Errorf("Заголовок CSV = %q, ожидается %q", got, wantHeader)
	}

	row := records[1]
	if row[0] != "reg-1" {
		t.Errorf("id = %q, ожидается reg-1", row[0])
	}
	if row[7] != "2024" {
		t.Errorf("year = %q, ожидается 2024", row[7])
	}
	if row[8] != "tenis meja,turnamen" {
		t.Errorf("interests = %q, ожидается tenis meja,turnamen", row[8])
	}
	if row[9] != "approved" {
		t.Errorf("status = %q, ожидается approved", row[9])
	}
	if row[10] != "2026-03-01T10:00:00Z" {
		t.Errorf("createdAt = %q, ожидается 2026-03-01T10:00:00Z", row[10])
	}
}

func TestExportCSV_EmptyFields(t *testing.T) {
	admin, repo := newTestAdmin(t)

	seedRegistration(t, repo, &model.Registration{
		ID: "reg-1", FullName: "Budi Santoso", StudentID: "21120001",
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	})

	var buf bytes.Buffer
	if err := admin.ExportCSV(context.Background(), &buf); err != nil {
		t.Fatalf("ExportCSV() вернул ошибку: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Ошибка разбора CSV: %v", err)
	}

	row := records[1]
	// Отсутствующие значения — пустые ячейки, год без нуля
	for _, idx := range []int{3, 4, 5, 6, 7, 8} {
		if row[idx] != "" {
			t.Errorf("Колонка %d = %q, ожидается пустая ячейка", idx, row[idx])
		}
	}
}

func TestGet(t *testing.T) {
	admin, repo := newTestAdmin(t)
	seedRegistration(t, repo, &model.Registration{
		ID: "reg-1", FullName: "Budi Santoso", StudentID: "21120001",
	})

	reg, err := admin.Get(context.Background(), "reg-1")
	if err != nil {
		t.Fatalf("Get() вернул ошибку: %v", err)
	}
	if reg.FullName != "Budi Santoso" {
		t.Errorf("FullName = %q, ожидается Budi Santoso", reg.FullName)
	}
}

func TestGet_NotFound(t *testing.T) {
	admin, _ := newTestAdmin(t)

	_, err := admin.Get(context.Background(), "missing-id")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() = %v, ожидается ErrNotFound", err)
	}
}

func TestApprove(t *testing.T) {
	admin, repo := newTestAdmin(t)
	seedRegistration(t, repo, &model.Registration{
		ID: "reg-1", FullName: "Budi Santoso", StudentID: "21120001",
	})

	reg, err := admin.Approve(context.Background(), "reg-1")
	if err != nil {
		t.Fatalf("Approve() вернул ошибку: %v", err)
	}
	if reg.Status != model.StatusApproved {
		t.Errorf("Status = %q, ожидается approved", reg.Status)
	}
}

func TestApprove_Idempotent(t *testing.T) {
	admin, repo := newTestAdmin(t)
	seedRegistration(t, repo, &model.Registration{
		ID: "reg-1", FullName: "Budi Santoso", StudentID: "21120001",
	})

	ctx := context.Background()
	if _, err := admin.Approve(ctx, "reg-1"); err != nil {
		t.Fatalf("Первый Approve() вернул ошибку: %v", err)
	}

	reg, err := admin.Approve(ctx, "reg-1")
	if err != nil {
		t.Fatalf("Повторный Approve() вернул ошибку: %v", err)
	}
	if reg.Status != model.StatusApproved {
		t.Errorf("Status = %q, ожидается approved", reg.Status)
	}
}

func TestReject(t *testing.T) {
	admin, repo := newTestAdmin(t)
	seedRegistration(t, repo, &model.Registration{
		ID: "reg-1", FullName: "Budi Santoso", StudentID: "21120001",
	})

	reg, err := admin.Reject(context.Background(), "reg-1")
	if err != nil {
		t.Fatalf("Reject() вернул ошибку: %v", err)
	}
	if reg.Status != model.StatusRejected {
		t.Errorf("Status = %q, ожидается rejected", reg.Status)
	}
}

func TestApprove_NotFound(t *testing.T) {
	admin, _ := newTestAdmin(t)

	_, err := admin.Approve(context.Background(), "missing-id")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Approve() = %v, ожидается ErrNotFound", err)
	}
}

func TestReject_NotFound(t *testing.T) {
	admin, _ := newTestAdmin(t)

	_, err := admin.Reject(context.Background(), "missing-id")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Reject() = %v, ожидается ErrNotFound", err)
	}
}
