package transport

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Locked сериализует обращения к одному сеансу.
type Locked struct {
	mu   sync.Mutex
	next Transport
}

func NewLocked(next Transport) *Locked {
	return &Locked{next: next}
}

func (l *Locked) Write(ctx context.Context, line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.next.Write(ctx, line)
}

func (l *Locked) Query(ctx context.Context, line string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.next.Query(ctx, line)
}

func (l *Locked) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.next.Close()
}

// Logged пишет в журнал каждую отправленную и полученную строку.
type Logged struct {
	next   Transport
	logger logrus.FieldLogger
}

func NewLogged(next Transport, logger logrus.FieldLogger) *Logged {
	return &Logged{next: next, logger: logger}
}

func (l *Logged) Write(ctx context.Context, line string) error {
	l.logger.WithField("line", line).Debug("SENT")
	err := l.next.Write(ctx, line)
	if err != nil {
		l.logger.WithError(err).WithField("line", line).Debug("write failed")
	}
	return err
}

func (l *Logged) Query(ctx context.Context, line string) (string, error) {
	l.logger.WithField("line", line).Debug("SENT")
	resp, err := l.next.Query(ctx, line)
	if err != nil {
		l.logger.WithError(err).WithField("line", line).Debug("query failed")
		return resp, err
	}
	l.logger.WithField("line", resp).Debug("RECEIVED")
	return resp, nil
}

func (l *Logged) Close() error {
	return l.next.Close()
}
