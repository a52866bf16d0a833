// Пакет photostore — хранение загруженных фотографий на диске.
// Запись через временный файл с fsync и атомарным rename,
// имена файлов генерируются устойчиво к коллизиям.
package photostore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PublicPrefix — публичный префикс, по которому отдаются фотографии.
const PublicPrefix = "/uploads/"

// Store — управление файлами фотографий в директории загрузок.
type Store struct {
	// dir — директория хранения (RM_UPLOAD_DIR)
	dir string
}

// SaveResult — результат сохранения фотографии.
type SaveResult struct {
	// Filename — сгенерированное имя файла в dir
	Filename string
	// Size — размер записанных данных в байтах
	Size int64
}

// New создаёт новый Store. Проверяет и создаёт директорию,
// если она не существует.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("не удалось создать директорию загрузок %s: %w", dir, err)
	}

	return &Store{dir: dir}, nil
}

// Save записывает данные из reader на диск.
// Формат имени файла: {unix-ms}-{uuid8}{ext}
// Возвращает имя и размер записанного файла.
//
// Паттерн: temp файл → запись → fsync → atomic rename.
// При ошибке temp файл удаляется.
func (s *Store) Save(reader io.Reader, originalFilename string) (*SaveResult, error) {
	filename := generateFilename(originalFilename)
	fullPath := filepath.Join(s.dir, filename)
	tmpPath := fullPath + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания временного файла: %w", err)
	}

	size, err := io.Copy(f, reader)
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка записи данных: %w", err)
	}

	// fsync для гарантии записи на диск
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка fsync: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка закрытия файла: %w", err)
	}

	// Атомарный rename
	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("ошибка атомарного переименования: %w", err)
	}

	return &SaveResult{
		Filename: filename,
		Size:     size,
	}, nil
}

// Delete удаляет файл из директории загрузок.
// Возвращает nil, если файл уже не существует.
func (s *Store) Delete(filename string) error {
	err := os.Remove(filepath.Join(s.dir, filename))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("ошибка удаления файла %s: %w", filename, err)
	}
	return nil
}

// Exists проверяет существование файла в директории загрузок.
func (s *Store) Exists(filename string) bool {
	_, err := os.Stat(filepath.Join(s.dir, filename))
	return err == nil
}

// Dir возвращает путь к директории загрузок.
func (s *Store) Dir() string {
	return s.dir
}

// PublicURL возвращает публичный путь, по которому отдаётся файл.
func PublicURL(filename string) string {
	return PublicPrefix + filename
}

// CheckReady проверяет, что директория загрузок доступна для записи.
// Реализует интерфейс handlers.ReadinessChecker.
func (s *Store) CheckReady() (status string, message string) {
	f, err := os.CreateTemp(s.dir, ".readiness-*")
	if err != nil {
		return "fail", fmt.Sprintf("директория загрузок недоступна для записи: %v", err)
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return "ok", "директория загрузок доступна"
}

// generateFilename генерирует имя файла для хранения на диске.
// Формат: {unix-ms}-{uuid8}{ext}
// Пример: 1756712345678-a1b2c3d4.jpg
func generateFilename(originalFilename string) string {
	ext := sanitizeExt(filepath.Ext(originalFilename))

	ts := time.Now().UnixMilli()
	uid := uuid.New().String()[:8] // Короткий UUID для уникальности

	return fmt.Sprintf("%d-%s%s", ts, uid, ext)
}

// sanitizeExt оставляет в расширении только точку, буквы и цифры.
// Слишком длинные и подозрительные расширения отбрасываются.
func sanitizeExt(ext string) string {
	if ext == "" || len(ext) > 10 {
		return ""
	}
	var result strings.Builder
	result.WriteByte('.')
	for _, r := range ext[1:] {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			result.WriteRune(r)
		}
	}
	if result.Len() == 1 {
		return ""
	}
	return result.String()
}
