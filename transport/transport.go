// Package transport реализует сеансы связи с прибором: запись строки команды
// и запрос с чтением одной строки ответа.
package transport

import (
	"context"
	"strings"
	"time"
)

// DefaultTimeout - таймаут одной операции, если он не задан явно.
const DefaultTimeout = 5 * time.Second

// Transport - блокирующий построчный сеанс с одним прибором.
type Transport interface {
	// Write отправляет строку без ожидания ответа.
	Write(ctx context.Context, line string) error
	// Query отправляет строку и возвращает одну строку ответа без завершающих пробелов.
	Query(ctx context.Context, line string) (string, error)
	Close() error
}

// DialFunc открывает новый сеанс.
type DialFunc func(ctx context.Context) (Transport, error)

// deadline выбирает ближайший срок из контекста и таймаута.
func deadline(ctx context.Context, timeout time.Duration) time.Time {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	d := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(d) {
		return ctxDeadline
	}
	return d
}

func terminate(line string) []byte {
	return []byte(strings.TrimRight(line, "\r\n") + "\n")
}
