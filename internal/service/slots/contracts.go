package slots

import (
	"context"

	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
)

// DoctorSlotRepository интерфейс репозитория расписаний
type DoctorSlotRepository interface {
	Get(ctx context.Context, day domain.DoctorDay) (*domain.DoctorSlot, error)
	Upsert(ctx context.Context, slot *domain.DoctorSlot) (*domain.DoctorSlot, error)
}

// AppointmentRepository источник истины о занятых слотах
type AppointmentRepository interface {
	ActiveTimes(ctx context.Context, day domain.DoctorDay) ([]string, error)
}

// Locker блокировка расписания врача на день
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
