package get_doctor_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
	"github.com/m04kA/SMC-HospitalBookingService/internal/infra/lock"
	"github.com/m04kA/SMC-HospitalBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-HospitalBookingService/internal/service/slots"
	"github.com/m04kA/SMC-HospitalBookingService/pkg/logger"
)

type slotsBody struct {
	Success bool `json:"success"`
	Data    struct {
		DoctorID       string   `json:"doctorId"`
		Date           string   `json:"date"`
		AvailableSlots []string `json:"availableSlots"`
		BookedSlots    []string `json:"bookedSlots"`
		IsAvailable    bool     `json:"isAvailable"`
	} `json:"data"`
	Message string `json:"message"`
}

func get(t *testing.T, h *Handler, doctorID, date string) (*httptest.ResponseRecorder, slotsBody) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/doctor-slots/"+doctorID+"/"+date, nil)
	req = mux.SetURLVars(req, map[string]string{"doctorId": doctorID, "date": date})
	rec := httptest.NewRecorder()

	h.Handle(rec, req)

	var body slotsBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHandle_InitializesFromAppointments(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	log := logger.NewNop()

	_, err := store.Appointments().Create(ctx, &domain.Appointment{
		PatientID: "p1", PatientName: "Ann", PatientEmail: "ann@example.com",
		DoctorID: "d1", DoctorName: "Dr. House", Speciality: "Diagnostics",
		Date: "2025-06-01", Time: "10:00", Status: domain.StatusConfirmed,
	})
	require.NoError(t, err)

	service := slots.NewService(store.DoctorSlots(), store.Appointments(), lock.NewLocalLocker(0), domain.DefaultSlots, log)
	h := NewHandler(service, log)

	rec, body := get(t, h, "d1", "2025-06-01")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "d1", body.Data.DoctorID)
	assert.Equal(t, "2025-06-01", body.Data.Date)
	assert.Equal(t, []string{"10:00"}, body.Data.BookedSlots)
	assert.NotContains(t, body.Data.AvailableSlots, "10:00")
	assert.Len(t, body.Data.AvailableSlots, len(domain.DefaultSlots)-1)
	assert.True(t, body.Data.IsAvailable)

	// Повторный запрос возвращает сохранённую запись
	_, again := get(t, h, "d1", "2025-06-01")
	assert.Equal(t, body.Data, again.Data)
}

func TestHandle_InvalidDate(t *testing.T) {
	log := logger.NewNop()
	store := memory.NewStore()
	service := slots.NewService(store.DoctorSlots(), store.Appointments(), lock.NewLocalLocker(0), domain.DefaultSlots, log)

	rec, body := get(t, NewHandler(service, log), "d1", "01-06-2025")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, body.Success)
	assert.NotEmpty(t, body.Message)
}
