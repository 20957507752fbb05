package mailer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (s *fakeSender) DialAndSend(m ...*gomail.Message) error {
	s.sent = append(s.sent, m...)
	return s.err
}

func notification() domain.Notification {
	return domain.Notification{
		Email:   "ann@example.com",
		Title:   "Appointment Confirmed",
		Message: "Your appointment has been confirmed.",
		Type:    domain.NotificationAppointment,
	}
}

func TestMailer_Send(t *testing.T) {
	s := &fakeSender{}
	m := &Mailer{from: "clinic@example.com", timeout: time.Second, sender: s}

	require.NoError(t, m.Send(context.Background(), notification()))
	require.Len(t, s.sent, 1)
	assert.Equal(t, []string{"ann@example.com"}, s.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"Appointment Confirmed"}, s.sent[0].GetHeader("Subject"))
}

func TestMailer_SendError(t *testing.T) {
	m := &Mailer{from: "clinic@example.com", timeout: time.Second, sender: &fakeSender{err: errors.New("dial tcp: refused")}}

	err := m.Send(context.Background(), notification())
	assert.ErrorIs(t, err, ErrSend)
}

func TestBuildMessage_Validation(t *testing.T) {
	_, err := buildMessage("", notification())
	assert.ErrorIs(t, err, ErrInvalidMessage)

	n := notification()
	n.Email = " "
	_, err = buildMessage("clinic@example.com", n)
	assert.ErrorIs(t, err, ErrInvalidMessage)
}
