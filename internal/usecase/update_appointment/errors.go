package update_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("update_appointment: appointment not found")

	// ErrAccessDenied возвращается, когда запись вне области видимости пользователя
	ErrAccessDenied = errors.New("update_appointment: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_appointment: invalid input data")

	// ErrStorageUnavailable возвращается при ошибках хранилища, запрос можно повторить
	ErrStorageUnavailable = errors.New("update_appointment: storage unavailable")
)
