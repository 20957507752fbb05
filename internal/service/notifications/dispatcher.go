package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
)

// Dispatcher рассылает уведомления по всем каналам в фоне.
// Ошибки доставки логируются и считаются, но никогда не возвращаются вызывающему.
type Dispatcher struct {
	channels []Channel
	timeout  time.Duration
	metrics  Metrics
	logger   Logger
	wg       sync.WaitGroup
}

// NewDispatcher создает диспетчер. timeout ограничивает доставку по одному каналу.
func NewDispatcher(timeout time.Duration, metrics Metrics, logger Logger, channels ...Channel) *Dispatcher {
	return &Dispatcher{
		channels: channels,
		timeout:  timeout,
		metrics:  metrics,
		logger:   logger,
	}
}

// Dispatch отправляет уведомление и сразу возвращает управление
func (d *Dispatcher) Dispatch(n domain.Notification) {
	for _, ch := range d.channels {
		d.wg.Add(1)
		go d.deliver(ch, n)
	}
}

// Wait дожидается завершения фоновых доставок (graceful shutdown, тесты)
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) deliver(ch Channel, n domain.Notification) {
	defer d.wg.Done()
	defer func() {
		if p := recover(); p != nil {
			d.logger.Error("Dispatch: channel=%s panicked for appointment=%s: %v", ch.Name(), n.AppointmentID, p)
			d.metrics.IncNotificationFailure(ch.Name())
		}
	}()

	// Контекст запроса к этому моменту уже может быть отменён
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := ch.Send(ctx, n); err != nil {
		d.logger.Warn("Dispatch: channel=%s failed for user=%s appointment=%s: %v", ch.Name(), n.UserID, n.AppointmentID, err)
		d.metrics.IncNotificationFailure(ch.Name())
		return
	}

	d.logger.Info("Dispatch: channel=%s delivered %q to user=%s", ch.Name(), n.Title, n.UserID)
}
