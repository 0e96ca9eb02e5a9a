//go:build !linux

package transport

import (
	"errors"
	"time"
)

const DefaultBaudRate = 9600

// OpenSerial доступен только в Linux.
func OpenSerial(device string, baud int, timeout time.Duration) (Transport, error) {
	return nil, errors.New("serial: not supported on this platform")
}
