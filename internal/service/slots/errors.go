package slots

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("slots.service: invalid input data")

	// ErrAccessDenied возвращается, когда пользователь не может менять расписание врача
	ErrAccessDenied = errors.New("slots.service: access denied")

	// ErrBusy возвращается, когда расписание сейчас изменяется другим запросом
	ErrBusy = errors.New("slots.service: schedule is being modified")

	// ErrStorageUnavailable возвращается при ошибках хранилища, запрос можно повторить
	ErrStorageUnavailable = errors.New("slots.service: storage unavailable")
)
