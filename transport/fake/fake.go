// Package fake содержит сценарный транспорт для тестов.
package fake

import (
	"context"
	"fmt"
	"strings"
	"sync"

	yakerrors "github.com/iwtcode/yakAdapter/pkg/errors"
)

// Transport отвечает на запросы по заранее заданным ответам и запоминает
// весь трафик. Ответы ищутся сначала в очереди для конкретной строки,
// затем в постоянных ответах.
type Transport struct {
	mu sync.Mutex

	responses map[string]string
	queued    map[string][]string
	errors    map[string]error

	// Fallback возвращается для запросов без заданного ответа.
	Fallback string
	// Err, если задан, возвращается любой операцией.
	Err error

	writes  []string
	queries []string
	closed  bool
}

func New() *Transport {
	return &Transport{
		responses: make(map[string]string),
		queued:    make(map[string][]string),
		errors:    make(map[string]error),
	}
}

// Respond задает постоянный ответ на запрос line.
func (t *Transport) Respond(line, response string) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.responses[line] = response
	return t
}

// Queue добавляет одноразовые ответы на запрос line.
func (t *Transport) Queue(line string, responses ...string) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.queued[line] = append(t.queued[line], responses...)
	return t
}

// FailOn задает ошибку для конкретной строки.
func (t *Transport) FailOn(line string, err error) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errors[line] = err
	return t
}

func (t *Transport) check(line string) error {
	if t.closed {
		return yakerrors.ErrNotConnected
	}
	if t.Err != nil {
		return t.Err
	}
	if err, ok := t.errors[line]; ok {
		return err
	}
	return nil
}

func (t *Transport) Write(_ context.Context, line string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writes = append(t.writes, line)
	return t.check(line)
}

func (t *Transport) Query(_ context.Context, line string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.queries = append(t.queries, line)
	if err := t.check(line); err != nil {
		return "", err
	}
	if q := t.queued[line]; len(q) > 0 {
		t.queued[line] = q[1:]
		return q[0], nil
	}
	if resp, ok := t.responses[line]; ok {
		return resp, nil
	}
	return t.Fallback, nil
}

func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	return nil
}

// Writes возвращает копию отправленных строк.
func (t *Transport) Writes() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.writes...)
}

// Queries возвращает копию строк запросов.
func (t *Transport) Queries() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.queries...)
}

// LastWrite возвращает последнюю отправленную строку или "".
func (t *Transport) LastWrite() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.writes) == 0 {
		return ""
	}
	return t.writes[len(t.writes)-1]
}

func (t *Transport) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// Reset очищает журнал трафика.
func (t *Transport) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.writes = nil
	t.queries = nil
}

func (t *Transport) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fmt.Sprintf("fake transport: writes=[%s] queries=[%s]",
		strings.Join(t.writes, " | "), strings.Join(t.queries, " | "))
}
