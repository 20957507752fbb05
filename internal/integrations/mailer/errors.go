package mailer

import "errors"

var (
	// ErrInvalidMessage письмо нельзя собрать (нет адресата или отправителя)
	ErrInvalidMessage = errors.New("mailer: invalid message")

	// ErrSend ошибка отправки через SMTP
	ErrSend = errors.New("mailer: send failed")
)
