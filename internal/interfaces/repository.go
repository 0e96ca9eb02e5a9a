package interfaces

import (
	"github.com/iwtcode/yakAdapter/internal/domain/entities"
)

// InstrumentRepository определяет контракт для работы с сохраненными сеансами в БД
type InstrumentRepository interface {
	Create(instrument *entities.Instrument) error
	GetByEndpoint(endpointURL string) (*entities.Instrument, error)
	UpdatePollingState(sessionID, status string, interval int) error
	Delete(sessionID string) error
	GetBySessionID(sessionID string) (*entities.Instrument, error)
	GetAll() ([]entities.Instrument, error)
}
