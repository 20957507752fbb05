package domain

import (
	"fmt"
	"strings"
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// IsActive returns true if the status occupies a doctor's slot
func (s AppointmentStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsClosed returns true if the status releases the slot
func (s AppointmentStatus) IsClosed() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// IsValid returns true for the four known statuses
func (s AppointmentStatus) IsValid() bool {
	return s.IsActive() || s.IsClosed()
}

// ParseAppointmentStatus validates a raw status string
func ParseAppointmentStatus(raw string) (AppointmentStatus, error) {
	s := AppointmentStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// Appointment represents a patient's visit to a doctor at a fixed slot
type Appointment struct {
	ID string

	PatientID    string
	PatientName  string
	PatientEmail string
	PatientPhone *string

	// Denormalized doctor data for history; not updated on doctor rename
	DoctorID   string
	DoctorName string
	Speciality string

	Date   string // YYYY-MM-DD
	Time   string // HH:MM, label from the slot vocabulary
	Status AppointmentStatus

	Reason *string
	Notes  *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment occupies its slot
func (a *Appointment) IsActive() bool {
	return a.Status.IsActive()
}

// Cell returns the (doctor, date, time) triple the appointment occupies
func (a *Appointment) Cell() SlotCell {
	return SlotCell{DoctorID: a.DoctorID, Date: a.Date, Time: a.Time}
}

// Day returns the (doctor, date) pair of the appointment
func (a *Appointment) Day() DoctorDay {
	return DoctorDay{DoctorID: a.DoctorID, Date: a.Date}
}

// SlotCell identifies a single bookable slot
type SlotCell struct {
	DoctorID string
	Date     string
	Time     string
}

// Day returns the (doctor, date) pair the cell belongs to
func (c SlotCell) Day() DoctorDay {
	return DoctorDay{DoctorID: c.DoctorID, Date: c.Date}
}

// DoctorDay identifies a doctor's schedule for one date
type DoctorDay struct {
	DoctorID string
	Date     string
}

// LockKey ключ блокировки расписания врача на день
func (d DoctorDay) LockKey() string {
	return "doctor-day:" + d.DoctorID + ":" + d.Date
}

// AppointmentFilter фильтр списка записей. nil-поля не ограничивают выборку.
type AppointmentFilter struct {
	PatientEmail *string
	DoctorID     *string
	Status       *AppointmentStatus
	Date         *string
}

// AppointmentPatch частичное обновление записи (PUT /appointments/{id})
type AppointmentPatch struct {
	PatientName  *string
	PatientEmail *string
	PatientPhone *string
	Date         *string
	Time         *string
	Status       *AppointmentStatus
	Reason       *string
	Notes        *string
}

// IsEmpty returns true if the patch changes nothing
func (p AppointmentPatch) IsEmpty() bool {
	return p.PatientName == nil && p.PatientEmail == nil && p.PatientPhone == nil &&
		p.Date == nil && p.Time == nil && p.Status == nil &&
		p.Reason == nil && p.Notes == nil
}

// Apply returns a copy of the appointment with the patch applied
func (p AppointmentPatch) Apply(a Appointment) Appointment {
	if p.PatientName != nil {
		a.PatientName = *p.PatientName
	}
	if p.PatientEmail != nil {
		a.PatientEmail = *p.PatientEmail
	}
	if p.PatientPhone != nil {
		a.PatientPhone = p.PatientPhone
	}
	if p.Date != nil {
		a.Date = *p.Date
	}
	if p.Time != nil {
		a.Time = *p.Time
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.Reason != nil {
		a.Reason = p.Reason
	}
	if p.Notes != nil {
		a.Notes = p.Notes
	}
	return a
}
