package create_appointment

import (
	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
	bookAppointment "github.com/m04kA/SMC-HospitalBookingService/internal/usecase/book_appointment"
)

// CreateAppointmentRequest тело POST /api/appointments
type CreateAppointmentRequest struct {
	DoctorID    string  `json:"doctorId"`
	Date        string  `json:"date"` // "2025-06-01"
	Time        string  `json:"time"` // "09:30"
	PatientName *string `json:"patientName,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Reason      *string `json:"reason,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	Speciality  *string `json:"speciality,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(caller domain.Caller) *bookAppointment.Request {
	return &bookAppointment.Request{
		Caller:      caller,
		DoctorID:    r.DoctorID,
		Date:        r.Date,
		Time:        r.Time,
		PatientName: r.PatientName,
		Email:       r.Email,
		Phone:       r.Phone,
		Reason:      r.Reason,
		Notes:       r.Notes,
		Speciality:  r.Speciality,
	}
}
