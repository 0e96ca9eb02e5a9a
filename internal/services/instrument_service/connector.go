package instrument_service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iwtcode/yakAdapter/commands"
	"github.com/iwtcode/yakAdapter/instrument"
	"github.com/iwtcode/yakAdapter/internal/config"
	"github.com/iwtcode/yakAdapter/internal/domain/entities"
	"github.com/iwtcode/yakAdapter/internal/domain/models"
	"github.com/iwtcode/yakAdapter/internal/interfaces"
	"github.com/iwtcode/yakAdapter/internal/middleware/logging"
	"github.com/iwtcode/yakAdapter/transport"
	"gorm.io/gorm"
)

// PollingStopper определяет методы, которые ConnectionManager может вызывать у PollingManager.
type PollingStopper interface {
	StopPollingForSession(sessionID string)
}

// session - открытый сеанс пула. adapter равен nil, пока прибор недоступен.
type session struct {
	info     *models.ConnectionInfo
	adapter  *instrument.Adapter
	registry *commands.Registry
	model    string
}

type ConnectionManager struct {
	mu         sync.RWMutex
	pool       map[string]*session
	pollingMgr PollingStopper
	dbRepo     interfaces.InstrumentRepository
	opener     Opener
	settings   config.InstrumentConf
	logger     *logging.Logger
}

func NewConnectionManager(pollingMgr PollingStopper, dbRepo interfaces.InstrumentRepository, settings config.InstrumentConf, opener Opener, logger *logging.Logger) *ConnectionManager {
	return &ConnectionManager{
		pool:       make(map[string]*session),
		pollingMgr: pollingMgr,
		dbRepo:     dbRepo,
		opener:     opener,
		settings:   settings,
		logger:     logger.WithPrefix("CONNECTOR"),
	}
}

func (cm *ConnectionManager) timeout() time.Duration {
	if cm.settings.TimeoutMs <= 0 {
		return transport.DefaultTimeout
	}
	return time.Duration(cm.settings.TimeoutMs) * time.Millisecond
}

func (cm *ConnectionManager) CreateConnection(req models.ConnectionRequest) (*models.ConnectionInfo, error) {
	endpoint := strings.TrimSpace(req.EndpointURL)
	if endpoint == "" {
		return nil, fmt.Errorf("%w: адрес не задан", ErrEndpointMalformed)
	}

	existing, err := cm.dbRepo.GetByEndpoint(endpoint)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("ошибка при проверке прибора в БД: %w", err)
	}
	if existing != nil {
		cm.mu.RLock()
		_, exists := cm.pool[existing.SessionID]
		cm.mu.RUnlock()
		if exists {
			return nil, fmt.Errorf("%w: '%s' с SessionID %s", ErrAlreadyConnected, endpoint, existing.SessionID)
		}
		cm.logger.Warn("Connection for endpoint exists in DB but not in pool. Deleting old DB record and creating a new session.", "endpoint", endpoint)
		_ = cm.dbRepo.Delete(existing.SessionID)
	}

	commandsFile := strings.TrimSpace(req.CommandsFile)
	if commandsFile == "" {
		commandsFile = cm.settings.CommandsFile
	}

	s, err := cm.openSession(endpoint, commandsFile, req.Model)
	if err != nil {
		return nil, fmt.Errorf("первичная проверка подключения провалена: %w", err)
	}

	sessionID := uuid.New().String()
	toSave := &entities.Instrument{
		SessionID:    sessionID,
		EndpointURL:  endpoint,
		CommandsFile: commandsFile,
		Model:        strings.TrimSpace(req.Model),
		Status:       entities.StatusConnected,
	}
	if err := cm.dbRepo.Create(toSave); err != nil {
		s.adapter.Close()
		return nil, fmt.Errorf("не удалось сохранить новое подключение %s в БД: %w", sessionID, err)
	}

	now := time.Now()
	s.info = &models.ConnectionInfo{
		SessionID:    sessionID,
		Endpoint:     endpoint,
		Model:        s.adapter.Model(),
		CommandsFile: commandsFile,
		CreatedAt:    now,
		LastUsed:     now,
		UseCount:     1,
		IsHealthy:    true,
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.pool[sessionID] = s

	cm.logger.Info("Connection created successfully", "sessionID", sessionID, "endpoint", endpoint, "model", s.info.Model)
	return s.info, nil
}

// openSession загружает таблицу команд, открывает транспорт и, если модель
// не задана, определяет ее по *IDN?.
func (cm *ConnectionManager) openSession(endpoint, commandsFile, model string) (*session, error) {
	entry := cm.logger.WithPrefix("INSTRUMENT").Entry().WithField("endpoint", endpoint)

	registry := commands.NewRegistry(commandsFile, entry)
	if err := registry.Refresh(); err != nil {
		return nil, fmt.Errorf("не удалось загрузить таблицу команд: %w", err)
	}

	adapter, err := cm.connect(endpoint, registry, model)
	if err != nil {
		return nil, err
	}
	return &session{adapter: adapter, registry: registry, model: strings.TrimSpace(model)}, nil
}

func (cm *ConnectionManager) connect(endpoint string, registry *commands.Registry, model string) (*instrument.Adapter, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cm.timeout())
	defer cancel()

	t, err := cm.opener(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	adapter := instrument.NewAdapter(transport.NewLocked(t), registry,
		instrument.WithLogger(cm.logger.WithPrefix("INSTRUMENT").Entry().WithField("endpoint", endpoint)),
		instrument.WithModel(model),
		instrument.WithAutoRefresh(cm.settings.AutoRefresh),
		instrument.WithMessageSink(func(msg string) { cm.logger.Info(msg, "endpoint", endpoint) }),
	)

	if strings.TrimSpace(model) == "" {
		_, err = adapter.Identify(ctx)
	} else {
		err = adapter.Ping(ctx)
	}
	if err != nil {
		adapter.Close()
		return nil, err
	}
	return adapter, nil
}

func (cm *ConnectionManager) RestoreConnection(inst entities.Instrument) (*models.ConnectionInfo, error) {
	s := &session{model: inst.Model}
	s.info = &models.ConnectionInfo{
		SessionID:    inst.SessionID,
		Endpoint:     inst.EndpointURL,
		Model:        inst.Model,
		CommandsFile: inst.CommandsFile,
		CreatedAt:    inst.CreatedAt,
		LastUsed:     time.Now(),
		IsHealthy:    false, // По умолчанию нездоровое, пока не проверим
	}

	opened, err := cm.openSession(inst.EndpointURL, inst.CommandsFile, inst.Model)
	if err == nil {
		s.adapter = opened.adapter
		s.registry = opened.registry
		s.info.Model = opened.adapter.Model()
		s.info.IsHealthy = true
	} else {
		cm.logger.Warn("Failed to open restored session", "sessionID", inst.SessionID, "error", err)
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.pool[inst.SessionID] = s

	return s.info, nil
}

func (cm *ConnectionManager) GetConnection(sessionID string) (*models.ConnectionInfo, bool) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	s, found := cm.pool[sessionID]
	if !found {
		return nil, false
	}
	return s.info, true
}

// GetAdapter возвращает сеанс прибора, если он открыт.
func (cm *ConnectionManager) GetAdapter(sessionID string) (*instrument.Adapter, bool) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	s, found := cm.pool[sessionID]
	if !found || s.adapter == nil {
		return nil, false
	}
	return s.adapter, true
}

// use находит открытый сеанс и отмечает обращение к нему.
func (cm *ConnectionManager) use(sessionID string) (*session, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	s, found := cm.pool[sessionID]
	if !found {
		return nil, SessionNotFound(sessionID)
	}
	if s.adapter == nil {
		return nil, fmt.Errorf("сессия '%s': %w", sessionID, ErrSessionUnhealthy)
	}
	s.info.LastUsed = time.Now()
	s.info.UseCount++
	return s, nil
}

func (cm *ConnectionManager) GetAllConnections() []*models.ConnectionInfo {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	conns := make([]*models.ConnectionInfo, 0, len(cm.pool))
	for _, s := range cm.pool {
		conns = append(conns, s.info)
	}
	return conns
}

func (cm *ConnectionManager) DeleteConnection(sessionID string) error {
	// Сначала останавливаем опрос, если он был
	cm.pollingMgr.StopPollingForSession(sessionID)

	cm.mu.Lock()
	defer cm.mu.Unlock()

	s, exists := cm.pool[sessionID]
	if !exists {
		err := cm.dbRepo.Delete(sessionID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w ни в активном пуле, ни в БД", SessionNotFound(sessionID))
		}
		if err != nil {
			return fmt.Errorf("ошибка удаления сессии '%s' из БД: %w", sessionID, err)
		}
		cm.logger.Info("Session (not in pool) successfully deleted from DB.", "sessionID", sessionID)
		return nil
	}

	if s.adapter != nil {
		if err := s.adapter.Close(); err != nil {
			cm.logger.Warn("Failed to close instrument transport", "sessionID", sessionID, "error", err)
		}
	}
	delete(cm.pool, sessionID)

	if err := cm.dbRepo.Delete(sessionID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("ошибка удаления сессии '%s' из БД: %w", sessionID, err)
	}

	cm.logger.Info("Session deleted successfully.", "sessionID", sessionID)
	return nil
}

// CheckConnection опрашивает *IDN? открытого сеанса или пытается открыть
// сеанс заново, если прибор был недоступен.
func (cm *ConnectionManager) CheckConnection(sessionID string) (*models.ConnectionInfo, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	s, exists := cm.pool[sessionID]
	if !exists {
		return nil, SessionNotFound(sessionID)
	}

	previousHealth := s.info.IsHealthy
	err := cm.checkSession(s)
	s.info.IsHealthy = err == nil
	s.info.LastUsed = time.Now()
	s.info.UseCount++

	if previousHealth != s.info.IsHealthy {
		cm.logger.Info("Session health status changed", "sessionID", sessionID, "from", previousHealth, "to", s.info.IsHealthy)
	}

	return s.info, err
}

func (cm *ConnectionManager) checkSession(s *session) error {
	if s.adapter == nil {
		opened, err := cm.openSession(s.info.Endpoint, s.info.CommandsFile, s.model)
		if err != nil {
			return err
		}
		s.adapter = opened.adapter
		s.registry = opened.registry
		s.info.Model = opened.adapter.Model()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cm.timeout())
	defer cancel()
	return s.adapter.Ping(ctx)
}

// CloseAll закрывает транспорты всех сеансов пула.
func (cm *ConnectionManager) CloseAll() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	for id, s := range cm.pool {
		if s.adapter != nil {
			if err := s.adapter.Close(); err != nil {
				cm.logger.Warn("Failed to close instrument transport", "sessionID", id, "error", err)
			}
		}
	}
}
