package instrument_service

import (
	"context"
	"time"

	"github.com/iwtcode/yakAdapter/dispatch"
	"github.com/iwtcode/yakAdapter/instrument"
	"github.com/iwtcode/yakAdapter/internal/config"
	"github.com/iwtcode/yakAdapter/internal/domain/entities"
	"github.com/iwtcode/yakAdapter/internal/domain/models"
	"github.com/iwtcode/yakAdapter/internal/interfaces"
	"github.com/iwtcode/yakAdapter/internal/middleware/logging"
	yak "github.com/iwtcode/yakAdapter/models"
)

type instrumentService struct {
	connMgr  *ConnectionManager
	pollMgr  *PollingManager
	operator *Operator
}

func NewInstrumentService(cfg *config.AppConfig, repo interfaces.InstrumentRepository, producer interfaces.KafkaService, logger *logging.Logger) interfaces.InstrumentService {
	return newInstrumentService(cfg.Instrument, repo, producer, NewOpener(cfg.Instrument, logger), logger)
}

func newInstrumentService(settings config.InstrumentConf, repo interfaces.InstrumentRepository, producer interfaces.KafkaService, opener Opener, logger *logging.Logger) *instrumentService {
	pollingManager := NewPollingManager(repo, producer, logger)
	connectionManager := NewConnectionManager(pollingManager, repo, settings, opener, logger)

	return &instrumentService{
		connMgr:  connectionManager,
		pollMgr:  pollingManager,
		operator: NewOperator(connectionManager, logger),
	}
}

// --- Реализация методов интерфейса InstrumentService ---

func (s *instrumentService) CreateConnection(req models.ConnectionRequest) (*models.ConnectionInfo, error) {
	return s.connMgr.CreateConnection(req)
}

func (s *instrumentService) RestoreConnection(inst entities.Instrument) (*models.ConnectionInfo, error) {
	return s.connMgr.RestoreConnection(inst)
}

func (s *instrumentService) GetConnection(sessionID string) (*models.ConnectionInfo, bool) {
	return s.connMgr.GetConnection(sessionID)
}

func (s *instrumentService) GetAdapter(sessionID string) (*instrument.Adapter, bool) {
	return s.connMgr.GetAdapter(sessionID)
}

func (s *instrumentService) GetAllConnections() []*models.ConnectionInfo {
	return s.connMgr.GetAllConnections()
}

func (s *instrumentService) DeleteConnection(sessionID string) error {
	return s.connMgr.DeleteConnection(sessionID)
}

func (s *instrumentService) CheckConnection(sessionID string) (*models.ConnectionInfo, error) {
	return s.connMgr.CheckConnection(sessionID)
}

func (s *instrumentService) CloseAll() {
	s.pollMgr.StopAll()
	s.connMgr.CloseAll()
}

func (s *instrumentService) StartPolling(conn *models.ConnectionInfo, adapter *instrument.Adapter, interval time.Duration) error {
	return s.pollMgr.StartPolling(conn, adapter, interval)
}

func (s *instrumentService) StopPolling(sessionID string) error {
	return s.pollMgr.StopPolling(sessionID)
}

func (s *instrumentService) IsPollingActive(sessionID string) bool {
	return s.pollMgr.IsPollingActive(sessionID)
}

func (s *instrumentService) Execute(ctx context.Context, req models.ExecuteRequest) (dispatch.Result, error) {
	return s.operator.Execute(ctx, req)
}

func (s *instrumentService) ReloadCommands(sessionID string) (*models.ReloadResult, error) {
	return s.operator.ReloadCommands(sessionID)
}

func (s *instrumentService) Snapshot(ctx context.Context, sessionID string) (*yak.InstrumentSnapshot, error) {
	return s.operator.Snapshot(ctx, sessionID)
}

func (s *instrumentService) Markers(ctx context.Context, sessionID string) ([]yak.MarkerReading, error) {
	return s.operator.Markers(ctx, sessionID)
}

func (s *instrumentService) SetFrequency(ctx context.Context, sessionID string, req models.FrequencyRequest) (*yak.FrequencySettings, error) {
	return s.operator.SetFrequency(ctx, sessionID, req)
}
