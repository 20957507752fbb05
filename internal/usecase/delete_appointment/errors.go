package delete_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("delete_appointment: appointment not found")

	// ErrAccessDenied возвращается, когда запись вне области видимости пользователя
	ErrAccessDenied = errors.New("delete_appointment: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("delete_appointment: invalid input data")

	// ErrBusy возвращается, когда расписание дня сейчас меняется другим запросом
	ErrBusy = errors.New("delete_appointment: appointment is being changed, try again")

	// ErrStorageUnavailable возвращается при ошибках хранилища, запрос можно повторить
	ErrStorageUnavailable = errors.New("delete_appointment: storage unavailable")
)
