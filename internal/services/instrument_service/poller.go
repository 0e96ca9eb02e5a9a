package instrument_service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/iwtcode/yakAdapter/instrument"
	"github.com/iwtcode/yakAdapter/internal/domain/entities"
	"github.com/iwtcode/yakAdapter/internal/domain/models"
	"github.com/iwtcode/yakAdapter/internal/interfaces"
	"github.com/iwtcode/yakAdapter/internal/middleware/logging"
)

type activePoll struct {
	cancel context.CancelFunc
	done   chan struct{}
}

type PollingManager struct {
	dbRepo      interfaces.InstrumentRepository
	producer    interfaces.KafkaService
	logger      *logging.Logger
	activePolls map[string]*activePoll
	pollsMutex  sync.Mutex
}

func NewPollingManager(dbRepo interfaces.InstrumentRepository, producer interfaces.KafkaService, logger *logging.Logger) *PollingManager {
	return &PollingManager{
		dbRepo:      dbRepo,
		producer:    producer,
		logger:      logger.WithPrefix("POLLER"),
		activePolls: make(map[string]*activePoll),
	}
}

func (pm *PollingManager) IsPollingActive(sessionID string) bool {
	pm.pollsMutex.Lock()
	defer pm.pollsMutex.Unlock()
	_, exists := pm.activePolls[sessionID]
	return exists
}

func (pm *PollingManager) StartPolling(conn *models.ConnectionInfo, adapter *instrument.Adapter, interval time.Duration) error {
	pm.pollsMutex.Lock()
	defer pm.pollsMutex.Unlock()

	sessionID := conn.SessionID
	if _, exists := pm.activePolls[sessionID]; exists {
		return fmt.Errorf("%w для сессии '%s'", ErrPollingActive, sessionID)
	}
	if adapter == nil {
		return fmt.Errorf("не удалось запустить опрос сессии '%s': %w", sessionID, ErrSessionUnhealthy)
	}

	if err := pm.dbRepo.UpdatePollingState(sessionID, entities.StatusPolled, int(interval.Milliseconds())); err != nil {
		return fmt.Errorf("не удалось обновить статус прибора в БД: %w", err)
	}

	pm.startPollingUnsafe(conn.SessionID, conn.Endpoint, adapter, interval)
	return nil
}

func (pm *PollingManager) StopPolling(sessionID string) error {
	pm.pollsMutex.Lock()
	defer pm.pollsMutex.Unlock()

	if err := pm.dbRepo.UpdatePollingState(sessionID, entities.StatusConnected, 0); err != nil {
		pm.logger.Error("Failed to update status in DB when stopping polling", "sessionID", sessionID, "error", err)
	}

	pm.stopPollingUnsafe(sessionID)
	return nil
}

func (pm *PollingManager) StopPollingForSession(sessionID string) {
	pm.pollsMutex.Lock()
	defer pm.pollsMutex.Unlock()
	pm.stopPollingUnsafe(sessionID)
}

// StopAll останавливает все опросы. Статус в БД не меняется, и опросы
// восстанавливаются при следующем запуске.
func (pm *PollingManager) StopAll() {
	pm.pollsMutex.Lock()
	defer pm.pollsMutex.Unlock()
	for sessionID := range pm.activePolls {
		pm.stopPollingUnsafe(sessionID)
	}
}

func (pm *PollingManager) stopPollingUnsafe(sessionID string) {
	poll, exists := pm.activePolls[sessionID]
	if !exists {
		return
	}
	poll.cancel()
	<-poll.done
	delete(pm.activePolls, sessionID)
	pm.logger.Info("Polling stopped", "sessionID", sessionID)
}

func (pm *PollingManager) startPollingUnsafe(sessionID, endpoint string, adapter *instrument.Adapter, interval time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	pm.activePolls[sessionID] = &activePoll{
		cancel: cancel,
		done:   done,
	}

	go func() {
		defer close(done)
		pm.logger.Info("Starting polling goroutine", "sessionID", sessionID, "endpoint", endpoint, "interval", interval)

		defer func() {
			pm.logger.Info("Polling goroutine stopped", "sessionID", sessionID)
		}()

		for res := range adapter.StartPolling(ctx, interval) {
			if res.Err != nil {
				pm.logger.Error("Error getting instrument snapshot", "sessionID", sessionID, "error", res.Err)
				continue // Пропускаем эту итерацию
			}
			for _, warning := range res.Data.Warnings {
				pm.logger.Warn("Partial snapshot", "sessionID", sessionID, "warning", warning)
			}

			jsonData, err := json.Marshal(models.SnapshotMessage{
				SessionID: sessionID,
				Endpoint:  endpoint,
				Timestamp: res.Data.Timestamp,
				Snapshot:  res.Data,
			})
			if err != nil {
				pm.logger.Error("Failed to serialize data for Kafka", "sessionID", sessionID, "error", err)
				continue
			}

			if err := pm.producer.Produce(ctx, []byte(sessionID), jsonData); err != nil && ctx.Err() == nil {
				pm.logger.Error("Failed to send data to Kafka", "sessionID", sessionID, "error", err)
			}
		}
	}()
}
