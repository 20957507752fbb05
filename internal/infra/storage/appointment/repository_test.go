package appointment

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
	"github.com/m04kA/SMC-HospitalBookingService/pkg/ptr"
)

func TestBuildFindQuery(t *testing.T) {
	tests := []struct {
		name     string
		filter   domain.AppointmentFilter
		wantSQL  string
		wantArgs []interface{}
	}{
		{
			name:     "no filter",
			filter:   domain.AppointmentFilter{},
			wantSQL:  "FROM appointments ORDER BY date DESC, time DESC",
			wantArgs: nil,
		},
		{
			name: "patient email and status",
			filter: domain.AppointmentFilter{
				PatientEmail: ptr.Ptr("ann@example.com"),
				Status:       ptr.Ptr(domain.StatusConfirmed),
			},
			wantSQL:  "FROM appointments WHERE LOWER(patient_email) = LOWER($1) AND status = $2 ORDER BY date DESC, time DESC",
			wantArgs: []interface{}{"ann@example.com", "confirmed"},
		},
		{
			name: "doctor and date",
			filter: domain.AppointmentFilter{
				DoctorID: ptr.Ptr("d1"),
				Date:     ptr.Ptr("2025-06-01"),
			},
			wantSQL:  "FROM appointments WHERE doctor_id = $1 AND date = $2 ORDER BY date DESC, time DESC",
			wantArgs: []interface{}{"d1", "2025-06-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildFindQuery(tt.filter).ToSql()
			require.NoError(t, err)
			assert.Contains(t, query, tt.wantSQL)
			if tt.wantArgs == nil {
				assert.Empty(t, args)
				return
			}
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestIsActiveSlotViolation(t *testing.T) {
	violation := &pq.Error{Code: "23505", Constraint: activeSlotIndex}

	assert.True(t, isActiveSlotViolation(violation))
	assert.True(t, isActiveSlotViolation(fmt.Errorf("insert: %w", violation)))
	assert.False(t, isActiveSlotViolation(&pq.Error{Code: "23505", Constraint: "appointments_pkey"}))
	assert.False(t, isActiveSlotViolation(errors.New("boom")))
}
