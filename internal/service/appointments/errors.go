package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointments.service: appointment not found")

	// ErrAccessDenied возвращается, когда запись вне области видимости пользователя
	ErrAccessDenied = errors.New("appointments.service: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("appointments.service: invalid input data")

	// ErrStorageUnavailable возвращается при ошибках хранилища, запрос можно повторить
	ErrStorageUnavailable = errors.New("appointments.service: storage unavailable")
)
