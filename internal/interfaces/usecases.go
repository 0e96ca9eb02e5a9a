package interfaces

import (
	"context"
	"time"

	"github.com/iwtcode/yakAdapter/dispatch"
	"github.com/iwtcode/yakAdapter/internal/domain/entities"
	"github.com/iwtcode/yakAdapter/internal/domain/models"
	yak "github.com/iwtcode/yakAdapter/models"
)

// Usecases - это агрегирующий интерфейс для всех use cases
type Usecases interface {
	CreateConnection(req models.ConnectionRequest) (*models.ConnectionInfo, error)
	RestoreConnection(inst entities.Instrument) (*models.ConnectionInfo, error)
	GetAllConnections() []*models.ConnectionInfo
	DeleteConnection(sessionID string) error
	CheckConnection(sessionID string) (*models.ConnectionInfo, error)
	StartPolling(sessionID string, interval time.Duration) error
	StopPolling(sessionID string) error
	Execute(ctx context.Context, req models.ExecuteRequest) (dispatch.Result, error)
	ReloadCommands(sessionID string) (*models.ReloadResult, error)
	Snapshot(ctx context.Context, sessionID string) (*yak.InstrumentSnapshot, error)
	Markers(ctx context.Context, sessionID string) ([]yak.MarkerReading, error)
	SetFrequency(ctx context.Context, sessionID string, req models.FrequencyRequest) (*yak.FrequencySettings, error)
}
