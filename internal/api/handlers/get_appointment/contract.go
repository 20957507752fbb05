package get_appointment

import (
	"context"

	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
	"github.com/m04kA/SMC-HospitalBookingService/internal/service/appointments/models"
)

type AppointmentService interface {
	GetByID(ctx context.Context, caller domain.Caller, id string) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
