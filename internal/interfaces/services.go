package interfaces

import (
	"context"
	"time"

	"github.com/iwtcode/yakAdapter/dispatch"
	"github.com/iwtcode/yakAdapter/instrument"
	"github.com/iwtcode/yakAdapter/internal/domain/entities"
	"github.com/iwtcode/yakAdapter/internal/domain/models"
	yak "github.com/iwtcode/yakAdapter/models"
)

// InstrumentService - это агрегирующий интерфейс для всей бизнес-логики.
type InstrumentService interface {
	ConnectionManager
	PollingManager
	CommandOperator
}

// ConnectionManager определяет контракт для управления пулом подключений.
type ConnectionManager interface {
	CreateConnection(req models.ConnectionRequest) (*models.ConnectionInfo, error)
	RestoreConnection(inst entities.Instrument) (*models.ConnectionInfo, error)
	GetConnection(sessionID string) (*models.ConnectionInfo, bool)
	GetAdapter(sessionID string) (*instrument.Adapter, bool)
	GetAllConnections() []*models.ConnectionInfo
	DeleteConnection(sessionID string) error
	CheckConnection(sessionID string) (*models.ConnectionInfo, error)
	CloseAll()
}

// PollingManager определяет контракт для сервиса, опрашивающего приборы.
type PollingManager interface {
	StartPolling(conn *models.ConnectionInfo, adapter *instrument.Adapter, interval time.Duration) error
	StopPolling(sessionID string) error
	IsPollingActive(sessionID string) bool
}

// CommandOperator выполняет операции над прибором в рамках сеанса.
type CommandOperator interface {
	Execute(ctx context.Context, req models.ExecuteRequest) (dispatch.Result, error)
	ReloadCommands(sessionID string) (*models.ReloadResult, error)
	Snapshot(ctx context.Context, sessionID string) (*yak.InstrumentSnapshot, error)
	Markers(ctx context.Context, sessionID string) ([]yak.MarkerReading, error)
	SetFrequency(ctx context.Context, sessionID string, req models.FrequencyRequest) (*yak.FrequencySettings, error)
}
