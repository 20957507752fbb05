package update_appointment

import (
	"context"

	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	FindActiveAt(ctx context.Context, cell domain.SlotCell) (*domain.Appointment, error)
	Update(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) (domain.AppointmentStatus, *domain.Appointment, error)
}

// DoctorSlotRepository интерфейс репозитория расписаний
type DoctorSlotRepository interface {
	Get(ctx context.Context, day domain.DoctorDay) (*domain.DoctorSlot, error)
}

// SlotStore кеш занятых слотов
type SlotStore interface {
	MarkBooked(ctx context.Context, cell domain.SlotCell) error
	MarkReleased(ctx context.Context, cell domain.SlotCell) error
}

// Locker блокировка расписания врача на день
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier отправка уведомлений в фоне
type Notifier interface {
	Dispatch(n domain.Notification)
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
