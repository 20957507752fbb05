package delete_appointment

import (
	"context"

	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	Delete(ctx context.Context, id string) error
}

// SlotStore кеш занятых слотов
type SlotStore interface {
	MarkReleased(ctx context.Context, cell domain.SlotCell) error
}

// Locker блокировка расписания врача на день
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчик сбоев обновления кеша слотов
type Metrics interface {
	IncSlotCacheFailure(operation string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
