package notifications

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
	"github.com/m04kA/SMC-HospitalBookingService/pkg/logger"
)

type recordingChannel struct {
	name string
	err  error
	mu   sync.Mutex
	sent []domain.Notification
}

func (c *recordingChannel) Name() string { return c.name }

func (c *recordingChannel) Send(ctx context.Context, n domain.Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, n)
	return c.err
}

type panicChannel struct{}

func (panicChannel) Name() string { return "broken" }
func (panicChannel) Send(context.Context, domain.Notification) error {
	panic("nil map")
}

type countingMetrics struct {
	mu       sync.Mutex
	failures map[string]int
}

func (m *countingMetrics) IncNotificationFailure(channel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures == nil {
		m.failures = map[string]int{}
	}
	m.failures[channel]++
}

func TestDispatch_FansOutToAllChannels(t *testing.T) {
	inbox := &recordingChannel{name: "inbox"}
	email := &recordingChannel{name: "email"}
	metrics := &countingMetrics{}

	d := NewDispatcher(time.Second, metrics, logger.NewNop(), inbox, email)
	d.Dispatch(domain.Notification{UserID: "p1", Title: "Appointment Confirmed"})
	d.Wait()

	assert.Len(t, inbox.sent, 1)
	assert.Len(t, email.sent, 1)
	assert.Empty(t, metrics.failures)
}

func TestDispatch_FailuresAreCountedNotPropagated(t *testing.T) {
	failing := &recordingChannel{name: "inbox", err: errors.New("503")}
	metrics := &countingMetrics{}

	d := NewDispatcher(time.Second, metrics, logger.NewNop(), failing, panicChannel{})

	assert.NotPanics(t, func() {
		d.Dispatch(domain.Notification{UserID: "p1"})
		d.Wait()
	})
	assert.Equal(t, 1, metrics.failures["inbox"])
	assert.Equal(t, 1, metrics.failures["broken"])
}
