package transport

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Options - параметры открытия сеанса по адресу.
type Options struct {
	Timeout  time.Duration
	BaudRate int
}

// Open открывает сеанс по адресу прибора:
//
//	tcp://192.168.1.50:5025
//	serial:///dev/ttyUSB0?baud=9600
//	ws://bridge.local:8080/scpi
//
// Адрес без схемы считается TCP.
func Open(ctx context.Context, endpoint string, opts Options) (Transport, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("empty instrument endpoint")
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "tcp://" + endpoint
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "tcp", "socket":
		t, err := DialTCP(ctx, u.Host, opts.Timeout)
		if err != nil {
			return nil, err
		}
		return t, nil
	case "serial":
		baud := opts.BaudRate
		if b := u.Query().Get("baud"); b != "" {
			if baud, err = strconv.Atoi(b); err != nil {
				return nil, fmt.Errorf("parse baud %q: %w", b, err)
			}
		}
		device := u.Path
		if device == "" {
			device = u.Opaque
		}
		s, err := OpenSerial(device, baud, opts.Timeout)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "ws", "wss":
		w, err := DialWebSocket(ctx, u.String(), opts.Timeout)
		if err != nil {
			return nil, err
		}
		return w, nil
	default:
		return nil, fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}
}

// Dialer возвращает DialFunc для Open с фиксированными параметрами.
func Dialer(endpoint string, opts Options) DialFunc {
	return func(ctx context.Context) (Transport, error) {
		return Open(ctx, endpoint, opts)
	}
}
