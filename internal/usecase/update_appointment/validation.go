package update_appointment

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
	"github.com/m04kA/SMC-HospitalBookingService/pkg/phone"
)

// validateRequest валидирует запрос и нормализует телефон
func validateRequest(req *Request, phoneRegion string) error {
	if strings.TrimSpace(req.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}

	p := &req.Patch
	if p.IsEmpty() {
		return fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	if p.Date != nil {
		if err := domain.ValidateDate(*p.Date); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	if p.Time != nil {
		if err := domain.ValidateTimeLabel(*p.Time); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	if p.Status != nil && !p.Status.IsValid() {
		return fmt.Errorf("%w: invalid status %q", ErrInvalidInput, *p.Status)
	}

	if p.PatientName != nil {
		name := strings.TrimSpace(*p.PatientName)
		if name == "" || len(name) > domain.MaxPatientNameLength {
			return fmt.Errorf("%w: patientName must be 1..%d characters", ErrInvalidInput, domain.MaxPatientNameLength)
		}
		p.PatientName = &name
	}

	if p.PatientEmail != nil {
		if _, err := mail.ParseAddress(*p.PatientEmail); err != nil {
			return fmt.Errorf("%w: invalid email %q", ErrInvalidInput, *p.PatientEmail)
		}
	}

	if p.PatientPhone != nil && strings.TrimSpace(*p.PatientPhone) != "" {
		normalized, err := phone.Normalize(*p.PatientPhone, phoneRegion)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		p.PatientPhone = &normalized
	}

	if p.Reason != nil && len(*p.Reason) > domain.MaxReasonLength {
		return fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	if p.Notes != nil && len(*p.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}
