//go:build linux

package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	yakerrors "github.com/iwtcode/yakAdapter/pkg/errors"
	"golang.org/x/sys/unix"
)

// DefaultBaudRate - скорость линии по умолчанию.
const DefaultBaudRate = 9600

var baudRates = map[int]uint32{
	1200:   unix.B1200,
	2400:   unix.B2400,
	4800:   unix.B4800,
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
	230400: unix.B230400,
}

// Serial - сеанс через последовательный порт (8N1, raw).
type Serial struct {
	device  string
	timeout time.Duration

	mu      sync.Mutex
	fd      int
	closed  bool
	pending []byte
	old     *unix.Termios
}

// OpenSerial открывает устройство и переводит его в raw режим.
func OpenSerial(device string, baud int, timeout time.Duration) (*Serial, error) {
	if device == "" {
		return nil, errors.New("serial: device path required")
	}
	if baud == 0 {
		baud = DefaultBaudRate
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	speed, ok := baudRates[baud]
	if !ok {
		return nil, fmt.Errorf("serial: unsupported baud rate %d", baud)
	}

	fd, err := unix.Open(device, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", device, err)
	}

	old, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("serial: get termios: %w", err)
	}

	tio := *old
	tio.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.PARMRK | unix.ISTRIP |
		unix.INLCR | unix.IGNCR | unix.ICRNL | unix.IXON | unix.IXOFF | unix.IXANY
	tio.Oflag &^= unix.OPOST
	tio.Cflag &^= unix.CSIZE | unix.PARENB | unix.PARODD | unix.CSTOPB | unix.CBAUD
	tio.Cflag |= unix.CS8 | unix.CREAD | unix.CLOCAL | speed
	tio.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.ISIG | unix.IEXTEN
	tio.Ispeed = speed
	tio.Ospeed = speed
	tio.Cc[unix.VMIN] = 0
	tio.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, &tio); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("serial: set termios: %w", err)
	}

	return &Serial{device: device, timeout: timeout, fd: fd, old: old}, nil
}

func (s *Serial) Write(ctx context.Context, line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(ctx, line)
}

func (s *Serial) writeLocked(ctx context.Context, line string) error {
	if s.closed {
		return yakerrors.ErrNotConnected
	}
	buf := terminate(line)
	until := deadline(ctx, s.timeout)
	for len(buf) > 0 {
		if err := s.wait(unix.POLLOUT, until); err != nil {
			return err
		}
		n, err := unix.Write(s.fd, buf)
		if err != nil && !errors.Is(err, unix.EAGAIN) {
			return fmt.Errorf("serial: write %s: %w", s.device, err)
		}
		if n > 0 {
			buf = buf[n:]
		}
	}
	return nil
}

func (s *Serial) Query(ctx context.Context, line string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = s.pending[:0]
	if err := s.writeLocked(ctx, line); err != nil {
		return "", err
	}

	until := deadline(ctx, s.timeout)
	chunk := make([]byte, 256)
	for {
		if i := bytes.IndexByte(s.pending, '\n'); i >= 0 {
			resp := string(s.pending[:i])
			s.pending = append(s.pending[:0], s.pending[i+1:]...)
			return strings.TrimSpace(resp), nil
		}
		if err := s.wait(unix.POLLIN, until); err != nil {
			return "", err
		}
		n, err := unix.Read(s.fd, chunk)
		if err != nil && !errors.Is(err, unix.EAGAIN) {
			return "", fmt.Errorf("serial: read %s: %w", s.device, err)
		}
		s.pending = append(s.pending, chunk[:max(n, 0)]...)
	}
}

// wait ждет готовности дескриптора до истечения срока.
func (s *Serial) wait(events int16, until time.Time) error {
	for {
		remaining := time.Until(until)
		if remaining <= 0 {
			return fmt.Errorf("serial: %s: %w", s.device, context.DeadlineExceeded)
		}
		pfd := []unix.PollFd{{Fd: int32(s.fd), Events: events}}
		n, err := unix.Poll(pfd, int(remaining.Milliseconds())+1)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return fmt.Errorf("serial: poll %s: %w", s.device, err)
		}
		if n > 0 {
			if pfd[0].Revents&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
				return fmt.Errorf("serial: %s: %w", s.device, yakerrors.ErrNotConnected)
			}
			return nil
		}
	}
}

func (s *Serial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.old != nil {
		_ = unix.IoctlSetTermios(s.fd, unix.TCSETS, s.old)
	}
	return unix.Close(s.fd)
}
