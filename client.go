package yak

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/iwtcode/yakAdapter/commands"
	"github.com/iwtcode/yakAdapter/dispatch"
	"github.com/iwtcode/yakAdapter/instrument"
	"github.com/iwtcode/yakAdapter/models"
	"github.com/iwtcode/yakAdapter/transport"
	"github.com/sirupsen/logrus"
)

// Client является основной точкой входа для взаимодействия с библиотекой.
type Client struct {
	adapter  *instrument.Adapter
	registry *commands.Registry
	config   *Config
	logger   *logrus.Logger
}

// NewLogger создает логгер с уровнем из конфигурации. Уровни off и none
// отключают вывод.
func NewLogger(levelName string) *logrus.Logger {
	logger := logrus.New()

	if levelName == "off" || levelName == "none" {
		logger.SetOutput(io.Discard)
	} else {
		level, err := logrus.ParseLevel(levelName)
		if err != nil {
			level = logrus.InfoLevel
		}
		logger.SetLevel(level)
		logger.SetOutput(os.Stdout)
	}

	// Настраиваем форматтер с понятным форматом времени
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		ForceColors:     true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return logger
}

// New создает клиент и устанавливает соединение с прибором по cfg.Endpoint.
// Если модель не задана, она определяется по ответу *IDN?.
func New(cfg *Config) (*Client, error) {
	logger := NewLogger(cfg.LogLevel)

	dial := transport.Dialer(cfg.Endpoint, transport.Options{Timeout: cfg.Timeout(), BaudRate: cfg.BaudRate})
	reconnecting := transport.NewReconnecting(dial,
		transport.WithAttempts(cfg.ReconnectAttempts),
		transport.WithLogger(logger),
	)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()
	if err := reconnecting.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Endpoint, err)
	}

	c, err := newClient(cfg, reconnecting, logger)
	if err != nil {
		reconnecting.Close()
		return nil, err
	}
	return c, nil
}

// NewWithTransport создает клиент поверх готового транспорта.
func NewWithTransport(cfg *Config, t transport.Transport) (*Client, error) {
	return newClient(cfg, t, NewLogger(cfg.LogLevel))
}

func newClient(cfg *Config, t transport.Transport, logger *logrus.Logger) (*Client, error) {
	registry := commands.NewRegistry(cfg.CommandsFile, logger)
	if err := registry.Refresh(); err != nil {
		return nil, fmt.Errorf("failed to load command table: %w", err)
	}

	t = transport.NewLocked(transport.NewLogged(t, logger))
	adapter := instrument.NewAdapter(t, registry,
		instrument.WithLogger(logger),
		instrument.WithModel(cfg.Model),
		instrument.WithAutoRefresh(cfg.AutoRefresh),
		instrument.WithMessageSink(func(msg string) { logger.Info(msg) }),
	)

	if cfg.Model == "" {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
		defer cancel()
		if _, err := adapter.Identify(ctx); err != nil {
			logger.WithError(err).Warnf("model detection failed, using %s", adapter.Model())
		}
	}

	return &Client{
		adapter:  adapter,
		registry: registry,
		config:   cfg,
		logger:   logger,
	}, nil
}

// Close закрывает соединение с прибором.
func (c *Client) Close() {
	if c.adapter != nil {
		c.adapter.Close()
	}
}

// GetLogger возвращает используемый логгер.
func (c *Client) GetLogger() *logrus.Logger {
	return c.logger
}

// Adapter возвращает сеанс прибора для вызовов, не вынесенных в Client.
func (c *Client) Adapter() *instrument.Adapter {
	return c.adapter
}

// Model возвращает модель, по которой разрешаются команды.
func (c *Client) Model() string {
	return c.adapter.Model()
}

// ReloadCommands перечитывает таблицу команд, если файл изменен позже since.
func (c *Client) ReloadCommands(since time.Time) (bool, error) {
	return c.registry.Reload(since)
}

// GetIdentity возвращает результат последнего опроса *IDN?.
func (c *Client) GetIdentity() *models.InstrumentIdentity {
	return c.adapter.Identity()
}

// SetCenterSpan задает центр и полосу обзора.
func (c *Client) SetCenterSpan(ctx context.Context, centerHz, spanHz float64) (*models.FrequencySettings, error) {
	return c.adapter.SetCenterSpan(ctx, centerHz, spanHz)
}

// SetStartStop задает границы обзора.
func (c *Client) SetStartStop(ctx context.Context, startHz, stopHz float64) (*models.FrequencySettings, error) {
	return c.adapter.SetStartStop(ctx, startHz, stopHz)
}

// GetFrequency возвращает текущие частотные настройки.
func (c *Client) GetFrequency(ctx context.Context) (*models.FrequencySettings, error) {
	return c.adapter.ReadFrequency(ctx)
}

// GetBandwidth возвращает настройки полос пропускания.
func (c *Client) GetBandwidth(ctx context.Context) (*models.BandwidthSettings, error) {
	return c.adapter.ReadBandwidth(ctx)
}

// GetAmplitude возвращает настройки амплитуды.
func (c *Client) GetAmplitude(ctx context.Context) (*models.AmplitudeSettings, error) {
	return c.adapter.ReadAmplitude(ctx)
}

// PlaceMarkers расставляет маркеры по частотам в МГц.
func (c *Client) PlaceMarkers(ctx context.Context, freqsMHz ...float64) error {
	return c.adapter.PlaceMarkers(ctx, freqsMHz...)
}

// GetMarkers возвращает показания всех маркеров.
func (c *Client) GetMarkers(ctx context.Context) ([]models.MarkerReading, error) {
	return c.adapter.ReadMarkers(ctx)
}

// GetTrace возвращает трассу n в диапазоне startHz..stopHz.
func (c *Client) GetTrace(ctx context.Context, n int, startHz, stopHz float64) (*models.TraceData, error) {
	return c.adapter.ReadTrace(ctx, n, startHz, stopHz)
}

// GetSnapshot возвращает сводное состояние прибора.
func (c *Client) GetSnapshot(ctx context.Context) (*models.InstrumentSnapshot, error) {
	return c.adapter.RefreshAll(ctx)
}

// StartPolling периодически опрашивает прибор до отмены ctx.
func (c *Client) StartPolling(ctx context.Context, interval time.Duration) <-chan instrument.PollingResult {
	return c.adapter.StartPolling(ctx, interval)
}

// Execute выполняет произвольную команду таблицы.
func (c *Client) Execute(ctx context.Context, action commands.ActionType, commandType string, args ...string) (dispatch.Result, error) {
	return c.adapter.Execute(ctx, action, commandType, args...)
}
