package delete_appointment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HospitalBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
	deleteAppointment "github.com/m04kA/SMC-HospitalBookingService/internal/usecase/delete_appointment"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type stubUseCase struct {
	got *deleteAppointment.Request
	err error
}

func (s *stubUseCase) Execute(_ context.Context, req *deleteAppointment.Request) error {
	s.got = req
	return s.err
}

func TestHandle(t *testing.T) {
	admin := domain.Caller{ID: "u1", Role: domain.RoleAdmin}

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"deleted", nil, http.StatusOK, "Appointment deleted successfully"},
		{"not found", deleteAppointment.ErrAppointmentNotFound, http.StatusNotFound, "Appointment not found"},
		{"forbidden", deleteAppointment.ErrAccessDenied, http.StatusForbidden, "Not authorized to delete this appointment"},
		{"busy", deleteAppointment.ErrBusy, http.StatusConflict, "Appointment is being changed right now. Please try again."},
		{"storage", deleteAppointment.ErrStorageUnavailable, http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUseCase{err: tt.err}

			req := httptest.NewRequest(http.MethodDelete, "/api/appointments/a1", nil)
			req = mux.SetURLVars(req, map[string]string{"id": "a1"})
			req = req.WithContext(middleware.WithCaller(req.Context(), admin))
			rec := httptest.NewRecorder()

			NewHandler(uc, nopLogger{}).Handle(rec, req)

			var resp map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, resp["message"])
			assert.Equal(t, tt.err == nil, resp["success"])

			require.NotNil(t, uc.got)
			assert.Equal(t, "a1", uc.got.ID)
			assert.Equal(t, admin, uc.got.Caller)
		})
	}
}
