package book_appointment

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
	"github.com/m04kA/SMC-HospitalBookingService/pkg/phone"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.Caller.ID == "" {
		return fmt.Errorf("%w: caller is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.DoctorID) == "" {
		return fmt.Errorf("%w: doctorId is required", ErrInvalidInput)
	}

	if err := domain.ValidateDate(req.Date); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := domain.ValidateTimeLabel(req.Time); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.Email != nil && *req.Email != "" {
		if _, err := mail.ParseAddress(*req.Email); err != nil {
			return fmt.Errorf("%w: invalid email %q", ErrInvalidInput, *req.Email)
		}
	}

	if req.PatientName != nil && len(*req.PatientName) > domain.MaxPatientNameLength {
		return fmt.Errorf("%w: patientName must be at most %d characters", ErrInvalidInput, domain.MaxPatientNameLength)
	}

	if req.Reason != nil && len(*req.Reason) > domain.MaxReasonLength {
		return fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// normalizePhone приводит номер к E.164. Пустой номер - не указан.
func normalizePhone(raw *string, region string) (*string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}

	normalized, err := phone.Normalize(*raw, region)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return &normalized, nil
}
