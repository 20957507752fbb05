package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestIncBooking(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry(), "test")

	m.IncBooking(BookingCreated)
	m.IncBooking(BookingConflict)
	m.IncBooking(BookingConflict)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingsTotal.WithLabelValues(BookingCreated)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingsTotal.WithLabelValues(BookingConflict)))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.IncBooking(BookingCreated)
		m.IncNotificationFailure("inbox")
		m.IncSlotCacheFailure("mark_booked")
	})
}
