package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSlotConflict слот недоступен для записи
	ErrSlotConflict = errors.New("domain: slot conflict")

	// ErrInvalidDate дата не в формате YYYY-MM-DD
	ErrInvalidDate = errors.New("domain: invalid date, expected YYYY-MM-DD")

	// ErrInvalidTime метка времени не в формате HH:MM
	ErrInvalidTime = errors.New("domain: invalid time, expected HH:MM")

	// ErrInvalidStatus неизвестный статус записи
	ErrInvalidStatus = errors.New("domain: invalid appointment status")

	// ErrInvalidRole неизвестная роль пользователя
	ErrInvalidRole = errors.New("domain: invalid role")
)

// Причины конфликта слота
const (
	ConflictNotOffered = "not_offered"
	ConflictBooked     = "booked"
	ConflictInProgress = "in_progress"
	ConflictDayClosed  = "day_closed"
)

// SlotConflictError конфликт записи на конкретное время.
// Сообщение показывается клиенту, чтобы он выбрал другое время.
type SlotConflictError struct {
	Time   string
	Reason string
}

// NewSlotConflict создает ошибку конфликта
func NewSlotConflict(t, reason string) *SlotConflictError {
	return &SlotConflictError{Time: t, Reason: reason}
}

func (e *SlotConflictError) Error() string {
	switch e.Reason {
	case ConflictBooked:
		return fmt.Sprintf("Time slot %s is already booked. Please select another time.", e.Time)
	case ConflictInProgress:
		return fmt.Sprintf("Time slot %s is being booked right now. Please try again or select another time.", e.Time)
	case ConflictDayClosed:
		return fmt.Sprintf("Time slot %s is not available: the doctor does not accept appointments on this date.", e.Time)
	default:
		return fmt.Sprintf("Time slot %s is not available for booking. Please select another time.", e.Time)
	}
}

func (e *SlotConflictError) Unwrap() error {
	return ErrSlotConflict
}
