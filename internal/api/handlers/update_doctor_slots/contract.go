package update_doctor_slots

import (
	"context"

	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
)

type SlotService interface {
	SetAvailable(ctx context.Context, caller domain.Caller, day domain.DoctorDay, requested []string, isAvailable *bool) (*domain.DoctorSlot, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
