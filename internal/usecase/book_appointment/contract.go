package book_appointment

import (
	"context"

	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
	"github.com/m04kA/SMC-HospitalBookingService/internal/integrations/directory"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	FindActiveAt(ctx context.Context, cell domain.SlotCell) (*domain.Appointment, error)
}

// DoctorSlotRepository интерфейс репозитория расписаний
type DoctorSlotRepository interface {
	Get(ctx context.Context, day domain.DoctorDay) (*domain.DoctorSlot, error)
}

// SlotStore кеш занятых слотов
type SlotStore interface {
	MarkBooked(ctx context.Context, cell domain.SlotCell) error
}

// DirectoryClient интерфейс справочника пользователей
type DirectoryClient interface {
	GetUser(ctx context.Context, id string) (*directory.User, error)
	FindPatientByEmail(ctx context.Context, email string) (*directory.User, error)
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

// Metrics счетчики результатов записи
type Metrics interface {
	IncBooking(outcome string)
	IncSlotCacheFailure(operation string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
