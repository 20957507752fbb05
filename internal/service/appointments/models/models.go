package models

import (
	"time"

	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
)

// Request модели

// ListAppointmentsRequest параметры списка записей (query string)
type ListAppointmentsRequest struct {
	Email    *string
	DoctorID *string
	Status   *string
	Date     *string
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListAppointmentsRequest) ToDomainFilter() (domain.AppointmentFilter, error) {
	filter := domain.AppointmentFilter{
		PatientEmail: r.Email,
		DoctorID:     r.DoctorID,
	}

	if r.Status != nil {
		status, err := domain.ParseAppointmentStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	if r.Date != nil {
		if err := domain.ValidateDate(*r.Date); err != nil {
			return filter, err
		}
		filter.Date = r.Date
	}

	return filter, nil
}

// Response модели

// AppointmentResponse запись на приём в ответе API
type AppointmentResponse struct {
	ID           string  `json:"id"`
	PatientID    string  `json:"patientId"`
	PatientName  string  `json:"patientName"`
	PatientEmail string  `json:"patientEmail"`
	PatientPhone *string `json:"patientPhone,omitempty"`
	DoctorID     string  `json:"doctorId"`
	DoctorName   string  `json:"doctorName"`
	Speciality   string  `json:"speciality"`
	Date         string  `json:"date"` // "2025-06-01"
	Time         string  `json:"time"` // "09:30"
	Status       string  `json:"status"`
	Reason       *string `json:"reason,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

// AppointmentListResponse список записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse
}

// DoctorSlotResponse расписание врача на дату
type DoctorSlotResponse struct {
	DoctorID       string   `json:"doctorId"`
	Date           string   `json:"date"`
	AvailableSlots []string `json:"availableSlots"`
	BookedSlots    []string `json:"bookedSlots"`
	IsAvailable    bool     `json:"isAvailable"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	return &AppointmentResponse{
		ID:           a.ID,
		PatientID:    a.PatientID,
		PatientName:  a.PatientName,
		PatientEmail: a.PatientEmail,
		PatientPhone: a.PatientPhone,
		DoctorID:     a.DoctorID,
		DoctorName:   a.DoctorName,
		Speciality:   a.Speciality,
		Date:         a.Date,
		Time:         a.Time,
		Status:       string(a.Status),
		Reason:       a.Reason,
		Notes:        a.Notes,
		CreatedAt:    a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    a.UpdatedAt.Format(time.RFC3339),
	}
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(list []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(list)),
	}

	for _, a := range list {
		if dto := FromDomainAppointment(a); dto != nil {
			resp.Appointments = append(resp.Appointments, *dto)
		}
	}

	return resp
}

// FromDomainDoctorSlot конвертирует расписание в DTO
func FromDomainDoctorSlot(s *domain.DoctorSlot) *DoctorSlotResponse {
	if s == nil {
		return nil
	}

	resp := &DoctorSlotResponse{
		DoctorID:       s.DoctorID,
		Date:           s.Date,
		AvailableSlots: s.AvailableSlots,
		BookedSlots:    s.BookedSlots,
		IsAvailable:    s.IsAvailable,
	}
	if resp.AvailableSlots == nil {
		resp.AvailableSlots = []string{}
	}
	if resp.BookedSlots == nil {
		resp.BookedSlots = []string{}
	}

	return resp
}
