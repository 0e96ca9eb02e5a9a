package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultAttempts - число попыток выполнить операцию с переподключением.
	DefaultAttempts = 3
	// DefaultSettleDelay - пауза между закрытием сеанса и повторным подключением.
	DefaultSettleDelay = 50 * time.Millisecond
)

// Reconnecting открывает сеанс при первом обращении и переоткрывает его
// после ошибки ввода-вывода, повторяя операцию до Attempts раз.
type Reconnecting struct {
	dial     DialFunc
	attempts int
	delay    time.Duration
	logger   logrus.FieldLogger

	mu      sync.Mutex
	current Transport
	closed  bool
}

// ReconnectOption настраивает Reconnecting.
type ReconnectOption func(*Reconnecting)

func WithAttempts(n int) ReconnectOption {
	return func(r *Reconnecting) {
		if n > 0 {
			r.attempts = n
		}
	}
}

func WithSettleDelay(d time.Duration) ReconnectOption {
	return func(r *Reconnecting) { r.delay = d }
}

func WithLogger(l logrus.FieldLogger) ReconnectOption {
	return func(r *Reconnecting) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewReconnecting создает обертку над dial. Сеанс открывается лениво.
func NewReconnecting(dial DialFunc, opts ...ReconnectOption) *Reconnecting {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	r := &Reconnecting{
		dial:     dial,
		attempts: DefaultAttempts,
		delay:    DefaultSettleDelay,
		logger:   discard,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Connect открывает сеанс, если он еще не открыт.
func (r *Reconnecting) Connect(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.connectLocked(ctx)
	return err
}

func (r *Reconnecting) connectLocked(ctx context.Context) (Transport, error) {
	if r.closed {
		return nil, errors.New("transport closed")
	}
	if r.current != nil {
		return r.current, nil
	}
	t, err := r.dial(ctx)
	if err != nil {
		return nil, err
	}
	r.current = t
	return t, nil
}

func (r *Reconnecting) dropLocked() {
	if r.current == nil {
		return
	}
	_ = r.current.Close()
	r.current = nil
}

// call выполняет f с переподключением при ошибке.
func (r *Reconnecting) call(ctx context.Context, f func(Transport) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		t, err := r.connectLocked(ctx)
		if err == nil {
			err = f(t)
			if err == nil {
				return nil
			}
		}
		lastErr = err
		if r.closed || errors.Is(err, context.Canceled) {
			break
		}

		r.logger.WithError(err).WithField("attempt", attempt).Warn("transport error, reconnecting")
		r.dropLocked()
		if attempt < r.attempts && r.delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.delay):
			}
		}
	}
	return fmt.Errorf("after %d attempts: %w", r.attempts, lastErr)
}

func (r *Reconnecting) Write(ctx context.Context, line string) error {
	return r.call(ctx, func(t Transport) error {
		return t.Write(ctx, line)
	})
}

func (r *Reconnecting) Query(ctx context.Context, line string) (string, error) {
	var resp string
	err := r.call(ctx, func(t Transport) error {
		var err error
		resp, err = t.Query(ctx, line)
		return err
	})
	return resp, err
}

func (r *Reconnecting) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	if r.current == nil {
		return nil
	}
	err := r.current.Close()
	r.current = nil
	return err
}
