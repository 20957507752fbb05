package update_appointment

import (
	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
	updateAppointment "github.com/m04kA/SMC-HospitalBookingService/internal/usecase/update_appointment"
)

// UpdateAppointmentRequest тело PUT /api/appointments/{id}, отсутствующие поля не меняются
type UpdateAppointmentRequest struct {
	PatientName  *string `json:"patientName,omitempty"`
	PatientEmail *string `json:"patientEmail,omitempty"`
	PatientPhone *string `json:"patientPhone,omitempty"`
	Date         *string `json:"date,omitempty"`
	Time         *string `json:"time,omitempty"`
	Status       *string `json:"status,omitempty"`
	Reason       *string `json:"reason,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Статус проверяется в use case.
func (r *UpdateAppointmentRequest) ToUseCaseRequest(caller domain.Caller, id string) *updateAppointment.Request {
	patch := domain.AppointmentPatch{
		PatientName:  r.PatientName,
		PatientEmail: r.PatientEmail,
		PatientPhone: r.PatientPhone,
		Date:         r.Date,
		Time:         r.Time,
		Reason:       r.Reason,
		Notes:        r.Notes,
	}
	if r.Status != nil {
		status := domain.AppointmentStatus(*r.Status)
		patch.Status = &status
	}

	return &updateAppointment.Request{
		Caller: caller,
		ID:     id,
		Patch:  patch,
	}
}
