package directory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HospitalBookingService/pkg/logger"
)

func TestClient_GetUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/internal/users/d1":
			spec := "Cardiology"
			_ = json.NewEncoder(w).Encode(User{ID: "d1", Name: "Dr. Who", Role: "doctor", Speciality: &spec})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, logger.NewNop())

	user, err := c.GetUser(context.Background(), "d1")
	require.NoError(t, err)
	assert.True(t, user.IsDoctor())
	assert.Equal(t, "Cardiology", user.SpecialityOr("General"))

	_, err = c.GetUser(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestClient_FindPatientByEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/users", r.URL.Path)
		assert.Equal(t, "patient", r.URL.Query().Get("role"))

		users := []User{}
		if r.URL.Query().Get("email") == "ann@example.com" {
			users = append(users, User{ID: "p1", Name: "Ann", Email: "ann@example.com", Role: "patient"})
		}
		_ = json.NewEncoder(w).Encode(users)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, logger.NewNop())

	user, err := c.FindPatientByEmail(context.Background(), "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, "p1", user.ID)

	_, err = c.FindPatientByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestClient_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, logger.NewNop())

	_, err := c.GetUser(context.Background(), "d1")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}
