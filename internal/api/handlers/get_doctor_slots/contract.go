package get_doctor_slots

import (
	"context"

	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
)

type SlotService interface {
	GetOrInit(ctx context.Context, day domain.DoctorDay) (*domain.DoctorSlot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
