package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
)

// Config параметры SMTP
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	SSL      bool
	Timeout  time.Duration
}

// sender отправляет собранные письма (gomail.Dialer)
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer канал доставки уведомлений на email пациента
type Mailer struct {
	from    string
	timeout time.Duration
	sender  sender
}

// New создает SMTP-отправителя
func New(cfg Config) *Mailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.SSL
	if cfg.SSL {
		d.TLSConfig = &tls.Config{ServerName: cfg.Host}
	}

	return &Mailer{
		from:    cfg.From,
		timeout: cfg.Timeout,
		sender:  d,
	}
}

// Name имя канала доставки для логов и метрик
func (m *Mailer) Name() string {
	return "email"
}

// Send отправляет уведомление письмом. Без email получателя - ErrInvalidMessage.
func (m *Mailer) Send(ctx context.Context, n domain.Notification) error {
	msg, err := buildMessage(m.from, n)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- m.sender.DialAndSend(msg)
	}()

	// Не ждём дольше, чем позволяет ctx или таймаут из конфига
	wait := m.timeout
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 && (wait <= 0 || d < wait) {
			wait = d
		}
	}
	if wait <= 0 {
		wait = 30 * time.Second
	}

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSend, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return context.DeadlineExceeded
	}
}

func buildMessage(from string, n domain.Notification) (*gomail.Message, error) {
	from = strings.TrimSpace(from)
	if from == "" {
		return nil, fmt.Errorf("%w: from is required", ErrInvalidMessage)
	}

	to := strings.TrimSpace(n.Email)
	if to == "" {
		return nil, fmt.Errorf("%w: recipient email is required", ErrInvalidMessage)
	}

	subject := strings.TrimSpace(n.Title)
	if subject == "" {
		return nil, fmt.Errorf("%w: subject is required", ErrInvalidMessage)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", n.Message)

	return msg, nil
}
