// Пакет model — доменные модели Registration Module.
package model

import "time"

// Status — статус рассмотрения заявки.
type Status string

const (
	// StatusPending — заявка подана и ожидает рассмотрения.
	StatusPending Status = "pending"
	// StatusApproved — заявка одобрена администратором.
	StatusApproved Status = "approved"
	// StatusRejected — заявка отклонена администратором.
	StatusRejected Status = "rejected"
)

// IsValid проверяет, является ли значение допустимым статусом.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Kind — тип заявки.
type Kind string

const (
	// KindMember — членская регистрация в клубе.
	// NIM уникален среди всех членских регистраций.
	KindMember Kind = "member"
	// KindTournament — заявка на участие в турнире.
	// Проверка уникальности NIM не выполняется.
	KindTournament Kind = "tournament"
)

// Registration — единственная персистентная сущность: заявка
// на членство в клубе или на участие в турнире.
type Registration struct {
	// ID — системный идентификатор (UUID), присваивается при создании.
	ID string `json:"id"`
	// Kind — тип заявки (member, tournament).
	Kind Kind `json:"kind"`
	// FullName — полное имя, обязательное поле.
	FullName string `json:"fullName"`
	// StudentID — NIM, обязательное поле.
	StudentID string `json:"studentId"`
	// Email — адрес почты. Формат валидируется клиентом,
	// сервер повторную валидацию не выполняет.
	Email string `json:"email,omitempty"`
	// Faculty — факультет.
	Faculty string `json:"faculty,omitempty"`
	// StudyProgram — учебная программа.
	StudyProgram string `json:"studyProgram,omitempty"`
	// Year — год поступления.
	Year *int `json:"year,omitempty"`
	// Phone — телефон.
	Phone string `json:"phone,omitempty"`
	// Interests — упорядоченный список тегов интересов. Для турнирных
	// заявок содержит служебный тег tournament:<id> и категорию.
	Interests []string `json:"interests"`
	// PhotoURL — публичный путь к загруженной фотографии (/uploads/...).
	// Заполняется только если фотография была загружена.
	PhotoURL string `json:"photoUrl,omitempty"`
	// Status — статус рассмотрения (pending при создании).
	Status Status `json:"status"`
	// CreatedAt — момент создания, присваивается базой данных.
	CreatedAt time.Time `json:"createdAt"`
}
