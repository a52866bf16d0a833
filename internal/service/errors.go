// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrValidation — отсутствует обязательное поле или некорректный ввод.
	ErrValidation = errors.New("ошибка валидации")
	// ErrConflict — NIM уже зарегистрирован среди членских заявок.
	ErrConflict = errors.New("конфликт — NIM уже зарегистрирован")
	// ErrNotFound — заявка не найдена.
	ErrNotFound = errors.New("заявка не найдена")
	// ErrPhotoTooLarge — фотография превышает допустимый размер.
	ErrPhotoTooLarge = errors.New("фотография превышает допустимый размер")
)
