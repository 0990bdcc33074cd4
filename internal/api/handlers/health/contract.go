package health

import "context"

// Pinger проверка доступности зависимости (*sql.DB подходит)
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Logger interface {
	Error(format string, v ...interface{})
}
