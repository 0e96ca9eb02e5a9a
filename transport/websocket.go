package transport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	yakerrors "github.com/iwtcode/yakAdapter/pkg/errors"
)

// Frame - сообщение протокола WebSocket моста к прибору.
type Frame struct {
	Op    string `json:"op,omitempty"`
	Line  string `json:"line"`
	Error string `json:"error,omitempty"`
}

const (
	OpWrite = "write"
	OpQuery = "query"
)

// WebSocket - сеанс через мост, который пересылает строки SCPI прибору
// и возвращает ответы JSON кадрами.
type WebSocket struct {
	url     string
	timeout time.Duration

	mu   sync.Mutex
	conn *websocket.Conn
}

// DialWebSocket подключается к мосту по ws:// или wss:// адресу.
func DialWebSocket(ctx context.Context, url string, timeout time.Duration) (*WebSocket, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	dialer := websocket.Dialer{HandshakeTimeout: timeout}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial %s: %w", url, err)
	}
	return &WebSocket{url: url, timeout: timeout, conn: conn}, nil
}

func (w *WebSocket) Write(ctx context.Context, line string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.roundTrip(ctx, Frame{Op: OpWrite, Line: line}); err != nil {
		return err
	}
	return nil
}

func (w *WebSocket) Query(ctx context.Context, line string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	resp, err := w.roundTrip(ctx, Frame{Op: OpQuery, Line: line})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Line), nil
}

// roundTrip отправляет кадр и ждет подтверждение или ответ моста.
func (w *WebSocket) roundTrip(ctx context.Context, req Frame) (Frame, error) {
	if w.conn == nil {
		return Frame{}, yakerrors.ErrNotConnected
	}
	until := deadline(ctx, w.timeout)
	if err := w.conn.SetWriteDeadline(until); err != nil {
		return Frame{}, err
	}
	if err := w.conn.WriteJSON(req); err != nil {
		return Frame{}, fmt.Errorf("websocket write %s: %w", w.url, err)
	}
	if err := w.conn.SetReadDeadline(until); err != nil {
		return Frame{}, err
	}
	var resp Frame
	if err := w.conn.ReadJSON(&resp); err != nil {
		return Frame{}, fmt.Errorf("websocket read %s: %w", w.url, err)
	}
	if resp.Error != "" {
		return Frame{}, fmt.Errorf("bridge %s: %w", w.url, errors.New(resp.Error))
	}
	return resp, nil
}

func (w *WebSocket) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conn == nil {
		return nil
	}
	_ = w.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	err := w.conn.Close()
	w.conn = nil
	return err
}
