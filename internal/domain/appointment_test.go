package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HospitalBookingService/pkg/ptr"
)

func TestParseAppointmentStatus(t *testing.T) {
	s, err := ParseAppointmentStatus(" Cancelled ")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, s)

	_, err = ParseAppointmentStatus("no_show")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestStatusClasses(t *testing.T) {
	assert.True(t, StatusPending.IsActive())
	assert.True(t, StatusConfirmed.IsActive())
	assert.True(t, StatusCompleted.IsClosed())
	assert.True(t, StatusCancelled.IsClosed())
	assert.False(t, StatusCancelled.IsActive())
}

func TestPatchApply(t *testing.T) {
	orig := Appointment{ID: "a1", Date: "2025-06-01", Time: "09:00", Status: StatusConfirmed}
	patch := AppointmentPatch{Time: ptr.Ptr("10:00"), Status: ptr.Ptr(StatusCancelled)}

	got := patch.Apply(orig)

	assert.Equal(t, "10:00", got.Time)
	assert.Equal(t, StatusCancelled, got.Status)
	assert.Equal(t, "2025-06-01", got.Date)
	assert.Equal(t, "09:00", orig.Time)
	assert.False(t, patch.IsEmpty())
	assert.True(t, AppointmentPatch{}.IsEmpty())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, ValidateDate("2025-06-01"))
	assert.ErrorIs(t, ValidateDate("2025-6-1"), ErrInvalidDate)
	assert.ErrorIs(t, ValidateDate("2025-02-30"), ErrInvalidDate)

	assert.NoError(t, ValidateTimeLabel("09:30"))
	assert.ErrorIs(t, ValidateTimeLabel("9:30"), ErrInvalidTime)
	assert.ErrorIs(t, ValidateTimeLabel("25:00"), ErrInvalidTime)
	assert.ErrorIs(t, ValidateTimeLabels([]string{"09:00", "bad"}), ErrInvalidTime)
}

func TestSlotConflictError(t *testing.T) {
	err := error(NewSlotConflict("09:00", ConflictBooked))

	assert.True(t, errors.Is(err, ErrSlotConflict))
	assert.Contains(t, err.Error(), "09:00")
	assert.Contains(t, NewSlotConflict("10:30", ConflictNotOffered).Error(), "10:30")

	var conflict *SlotConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, ConflictBooked, conflict.Reason)
}
