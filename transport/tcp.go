package transport

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	yakerrors "github.com/iwtcode/yakAdapter/pkg/errors"
)

// DefaultSCPIPort - стандартный порт raw SCPI сокета.
const DefaultSCPIPort = "5025"

// TCP - сеанс через raw SCPI сокет.
type TCP struct {
	addr    string
	timeout time.Duration

	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Reader
}

// DialTCP подключается к прибору по адресу host[:port].
func DialTCP(ctx context.Context, addr string, timeout time.Duration) (*TCP, error) {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(addr, DefaultSCPIPort)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return &TCP{
		addr:    addr,
		timeout: timeout,
		conn:    conn,
		reader:  bufio.NewReader(conn),
	}, nil
}

// Addr возвращает адрес подключения.
func (t *TCP) Addr() string { return t.addr }

func (t *TCP) Write(ctx context.Context, line string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.writeLocked(ctx, line)
}

func (t *TCP) writeLocked(ctx context.Context, line string) error {
	if t.conn == nil {
		return yakerrors.ErrNotConnected
	}
	if err := t.conn.SetWriteDeadline(deadline(ctx, t.timeout)); err != nil {
		return err
	}
	if _, err := t.conn.Write(terminate(line)); err != nil {
		return fmt.Errorf("write %s: %w", t.addr, err)
	}
	return nil
}

func (t *TCP) Query(ctx context.Context, line string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.writeLocked(ctx, line); err != nil {
		return "", err
	}
	if err := t.conn.SetReadDeadline(deadline(ctx, t.timeout)); err != nil {
		return "", err
	}
	resp, err := t.reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read %s: %w", t.addr, err)
	}
	return strings.TrimSpace(resp), nil
}

func (t *TCP) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}
