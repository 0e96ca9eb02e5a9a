package instrument_service

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound   = errors.New("сессия не найдена")
	ErrSessionUnhealthy  = errors.New("прибор недоступен")
	ErrAlreadyConnected  = errors.New("подключение уже активно")
	ErrPollingActive     = errors.New("опрос уже запущен")
	ErrEndpointMalformed = errors.New("неверный формат endpoint_url")
)

// SessionNotFound оборачивает ErrSessionNotFound идентификатором сессии.
func SessionNotFound(sessionID string) error {
	return fmt.Errorf("сессия '%s': %w", sessionID, ErrSessionNotFound)
}
