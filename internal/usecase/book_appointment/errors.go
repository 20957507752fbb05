package book_appointment

import "errors"

var (
	// ErrDoctorNotFound возвращается, когда врач не найден или пользователь не врач
	ErrDoctorNotFound = errors.New("book_appointment: doctor not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("book_appointment: invalid input data")

	// ErrStorageUnavailable возвращается при ошибках хранилища, запрос можно повторить
	ErrStorageUnavailable = errors.New("book_appointment: storage unavailable")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("book_appointment: internal error")
)
