package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
)

func TestClient_Send(t *testing.T) {
	var got CreateNotificationRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/internal/notifications", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	err := c.Send(context.Background(), domain.Notification{
		UserID:        "p1",
		Title:         "Appointment Confirmed",
		Message:       "ok",
		Type:          domain.NotificationAppointment,
		AppointmentID: "a1",
	})

	require.NoError(t, err)
	assert.Equal(t, "p1", got.UserID)
	assert.Equal(t, "appointment", got.Type)
	assert.Equal(t, "a1", got.AppointmentID)
}

func TestClient_SendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, time.Second).Send(context.Background(), domain.Notification{UserID: "p1"})
	assert.ErrorIs(t, err, ErrInvalidResponse)
}
