package notifications

import (
	"context"

	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
)

// Channel канал доставки уведомлений (входящие, email)
type Channel interface {
	Name() string
	Send(ctx context.Context, n domain.Notification) error
}

// Metrics счётчик неудачных доставок
type Metrics interface {
	IncNotificationFailure(channel string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
