package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/iwtcode/yakAdapter/dispatch"
	"github.com/iwtcode/yakAdapter/internal/domain/entities"
	"github.com/iwtcode/yakAdapter/internal/domain/models"
	"github.com/iwtcode/yakAdapter/internal/interfaces"
	"github.com/iwtcode/yakAdapter/internal/services/instrument_service"
	yak "github.com/iwtcode/yakAdapter/models"
)

type Usecase struct {
	instrumentSvc interfaces.InstrumentService
}

func NewUsecase(instrumentSvc interfaces.InstrumentService) interfaces.Usecases {
	return &Usecase{
		instrumentSvc: instrumentSvc,
	}
}

func (u *Usecase) CreateConnection(req models.ConnectionRequest) (*models.ConnectionInfo, error) {
	return u.instrumentSvc.CreateConnection(req)
}

func (u *Usecase) RestoreConnection(inst entities.Instrument) (*models.ConnectionInfo, error) {
	return u.instrumentSvc.RestoreConnection(inst)
}

func (u *Usecase) GetAllConnections() []*models.ConnectionInfo {
	return u.instrumentSvc.GetAllConnections()
}

func (u *Usecase) DeleteConnection(sessionID string) error {
	return u.instrumentSvc.DeleteConnection(sessionID)
}

func (u *Usecase) CheckConnection(sessionID string) (*models.ConnectionInfo, error) {
	return u.instrumentSvc.CheckConnection(sessionID)
}

func (u *Usecase) StartPolling(sessionID string, interval time.Duration) error {
	conn, found := u.instrumentSvc.GetConnection(sessionID)
	if !found {
		return fmt.Errorf("не удалось запустить опрос: %w", instrument_service.SessionNotFound(sessionID))
	}
	adapter, _ := u.instrumentSvc.GetAdapter(sessionID)
	return u.instrumentSvc.StartPolling(conn, adapter, interval)
}

func (u *Usecase) StopPolling(sessionID string) error {
	return u.instrumentSvc.StopPolling(sessionID)
}

func (u *Usecase) Execute(ctx context.Context, req models.ExecuteRequest) (dispatch.Result, error) {
	return u.instrumentSvc.Execute(ctx, req)
}

func (u *Usecase) ReloadCommands(sessionID string) (*models.ReloadResult, error) {
	return u.instrumentSvc.ReloadCommands(sessionID)
}

func (u *Usecase) Snapshot(ctx context.Context, sessionID string) (*yak.InstrumentSnapshot, error) {
	return u.instrumentSvc.Snapshot(ctx, sessionID)
}

func (u *Usecase) Markers(ctx context.Context, sessionID string) ([]yak.MarkerReading, error) {
	return u.instrumentSvc.Markers(ctx, sessionID)
}

func (u *Usecase) SetFrequency(ctx context.Context, sessionID string, req models.FrequencyRequest) (*yak.FrequencySettings, error) {
	return u.instrumentSvc.SetFrequency(ctx, sessionID, req)
}
