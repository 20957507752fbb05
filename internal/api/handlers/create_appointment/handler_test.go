package create_appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HospitalBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
	bookAppointment "github.com/m04kA/SMC-HospitalBookingService/internal/usecase/book_appointment"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type stubUseCase struct {
	got    *bookAppointment.Request
	result *domain.Appointment
	err    error
}

func (s *stubUseCase) Execute(_ context.Context, req *bookAppointment.Request) (*domain.Appointment, error) {
	s.got = req
	return s.result, s.err
}

var patient = domain.Caller{ID: "p1", Email: "ann@example.com", Name: "Ann", Role: domain.RolePatient}

func do(t *testing.T, uc *stubUseCase, body string, withCaller bool) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(body))
	if withCaller {
		req = req.WithContext(middleware.WithCaller(req.Context(), patient))
	}
	rec := httptest.NewRecorder()

	NewHandler(uc, nopLogger{}).Handle(rec, req)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestHandle_Created(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	uc := &stubUseCase{result: &domain.Appointment{
		ID: "a1", PatientID: "p1", PatientName: "Ann", PatientEmail: "ann@example.com",
		DoctorID: "d1", DoctorName: "Dr. House", Speciality: "Diagnostics",
		Date: "2025-06-01", Time: "09:30", Status: domain.StatusConfirmed,
		CreatedAt: now, UpdatedAt: now,
	}}

	rec, resp := do(t, uc, `{"doctorId":"d1","date":"2025-06-01","time":"09:30","reason":"checkup"}`, true)

	assert.Equal(t, http.StatusCreated, rec.Code)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "a1", data["id"])
	assert.Equal(t, "confirmed", data["status"])
	assert.Equal(t, "09:30", data["time"])

	require.NotNil(t, uc.got)
	assert.Equal(t, patient, uc.got.Caller)
	assert.Equal(t, "d1", uc.got.DoctorID)
	require.NotNil(t, uc.got.Reason)
	assert.Equal(t, "checkup", *uc.got.Reason)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "slot already booked",
			err:     domain.NewSlotConflict("09:30", domain.ConflictBooked),
			status:  http.StatusBadRequest,
			message: "Time slot 09:30 is already booked. Please select another time.",
		},
		{
			name:    "slot being booked",
			err:     domain.NewSlotConflict("09:30", domain.ConflictInProgress),
			status:  http.StatusBadRequest,
			message: "Time slot 09:30 is being booked right now. Please try again or select another time.",
		},
		{
			name:    "doctor not found",
			err:     bookAppointment.ErrDoctorNotFound,
			status:  http.StatusNotFound,
			message: "Doctor not found",
		},
		{
			name:    "validation",
			err:     fmt.Errorf("%w: doctorId is required", bookAppointment.ErrInvalidInput),
			status:  http.StatusBadRequest,
			message: "doctorId is required",
		},
		{
			name:    "storage",
			err:     fmt.Errorf("%w: BookAppointment - timeout", bookAppointment.ErrStorageUnavailable),
			status:  http.StatusInternalServerError,
			message: "internal server error",
		},
		{
			name:    "directory failure",
			err:     fmt.Errorf("%w: failed to get doctor: %v", bookAppointment.ErrInternal, errors.New("boom")),
			status:  http.StatusInternalServerError,
			message: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := do(t, &stubUseCase{err: tt.err}, `{"doctorId":"d1","date":"2025-06-01","time":"09:30"}`, true)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, false, resp["success"])
			assert.Equal(t, tt.message, resp["message"])
		})
	}
}

func TestHandle_BadBodyAndMissingCaller(t *testing.T) {
	uc := &stubUseCase{}

	rec, _ := do(t, uc, `{"doctorId":`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, uc, `{"doctorId":"d1"}`, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Nil(t, uc.got)
}
