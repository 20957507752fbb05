package domain

import (
	"fmt"
	"strings"
)

// Role of an authenticated user
type Role string

const (
	RolePatient    Role = "patient"
	RoleDoctor     Role = "doctor"
	RoleAdmin      Role = "admin"
	RoleTechnician Role = "technician"
)

// ParseRole validates a raw role string
func ParseRole(raw string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin, RoleTechnician:
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, raw)
}

// Caller is the authenticated identity behind a request
type Caller struct {
	ID    string
	Email string
	Name  string
	Role  Role
}

// Scope limits which appointments a caller may see and touch
type Scope interface {
	// Filter narrows base to the scope. Scope fields win over base fields.
	Filter(base AppointmentFilter) AppointmentFilter
	// Allows reports whether a single appointment is inside the scope
	Allows(a *Appointment) bool

	isScope()
}

// PatientScope sees appointments booked under its email
type PatientScope struct {
	Email string
}

// DoctorScope sees appointments with itself as the doctor
type DoctorScope struct {
	DoctorID string
}

// AdminScope sees everything
type AdminScope struct{}

func (s PatientScope) Filter(base AppointmentFilter) AppointmentFilter {
	email := s.Email
	base.PatientEmail = &email
	return base
}

func (s PatientScope) Allows(a *Appointment) bool {
	return strings.EqualFold(a.PatientEmail, s.Email)
}

func (s DoctorScope) Filter(base AppointmentFilter) AppointmentFilter {
	id := s.DoctorID
	base.DoctorID = &id
	return base
}

func (s DoctorScope) Allows(a *Appointment) bool {
	return a.DoctorID == s.DoctorID
}

func (AdminScope) Filter(base AppointmentFilter) AppointmentFilter {
	return base
}

func (AdminScope) Allows(*Appointment) bool {
	return true
}

func (PatientScope) isScope() {}
func (DoctorScope) isScope()  {}
func (AdminScope) isScope()   {}

// ScopeFor maps a caller to its scope. Staff roles other than doctor see all.
func ScopeFor(c Caller) Scope {
	switch c.Role {
	case RolePatient:
		return PatientScope{Email: c.Email}
	case RoleDoctor:
		return DoctorScope{DoctorID: c.ID}
	default:
		return AdminScope{}
	}
}

// CanManageSlots reports whether the caller may edit the doctor's availability
func (c Caller) CanManageSlots(doctorID string) bool {
	switch c.Role {
	case RoleAdmin:
		return true
	case RoleDoctor:
		return c.ID == doctorID
	default:
		return false
	}
}
