package health

import "context"

// CheckFunc проверка доступности зависимости
type CheckFunc func(ctx context.Context) error

type Logger interface {
	Warn(format string, v ...interface{})
}
