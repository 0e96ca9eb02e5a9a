package app

import (
	"context"
	"net/http"
	"time"

	"github.com/iwtcode/yakAdapter/internal/adapters/handlers"
	"github.com/iwtcode/yakAdapter/internal/adapters/repositories/postgres"
	"github.com/iwtcode/yakAdapter/internal/config"
	"github.com/iwtcode/yakAdapter/internal/domain/entities"
	"github.com/iwtcode/yakAdapter/internal/interfaces"
	"github.com/iwtcode/yakAdapter/internal/middleware/logging"
	"github.com/iwtcode/yakAdapter/internal/services/instrument_service"
	"github.com/iwtcode/yakAdapter/internal/services/kafka"
	"github.com/iwtcode/yakAdapter/internal/usecases"

	"go.uber.org/fx"
)

// New создает новый экземпляр fx.App
func New() *fx.App {
	return fx.New(
		ConfigModule,
		LoggingModule,
		RepositoryModule,
		ProducerModule,
		ServiceModule,
		UsecaseModule,
		HttpServerModule,
		fx.Invoke(InvokeRestoreConnections),
		fx.Invoke(InvokeShutdown),
	)
}

// --- Модули FX ---

var ConfigModule = fx.Module("config_module",
	fx.Provide(config.LoadConfiguration),
)

func ProvideLogger(cfg *config.AppConfig) *logging.Logger {
	loggerCfg := &logging.Config{
		Enabled:    cfg.Logging.Enable,
		Level:      cfg.Logging.Level,
		LogsDir:    cfg.Logging.LogsDir,
		SavingDays: uint(cfg.Logging.SavingDays),
	}
	return logging.NewLogger(loggerCfg, "YakServiceApp")
}

var LoggingModule = fx.Module("logging_module",
	fx.Provide(ProvideLogger),
)

var RepositoryModule = fx.Module("repository_module",
	fx.Provide(postgres.NewRepository),
)

var ProducerModule = fx.Module("producer_module",
	fx.Provide(kafka.NewKafkaProducer),
)

var ServiceModule = fx.Module("service_module",
	fx.Provide(instrument_service.NewInstrumentService),
)

var UsecaseModule = fx.Module("usecases_module",
	fx.Provide(usecases.NewUsecases),
)

var HttpServerModule = fx.Module("http_server_module",
	fx.Provide(
		handlers.NewHandler,
		handlers.ProvideRouter,
	),
	fx.Invoke(InvokeHttpServer),
)

// InvokeRestoreConnections поднимает сохраненные в БД сеансы при старте.
func InvokeRestoreConnections(lc fx.Lifecycle, uc interfaces.Usecases, dbRepo interfaces.InstrumentRepository, logger *logging.Logger) {
	log := logger.WithPrefix("RESTORE")
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			saved, err := dbRepo.GetAll()
			if err != nil {
				log.Error("Saved sessions are unavailable", "error", err)
				return nil
			}
			restored := 0
			for _, inst := range saved {
				if restoreSession(uc, inst, log) {
					restored++
				}
			}
			log.Info("Sessions restored", "total", len(saved), "healthy", restored)
			return nil
		},
	})
}

// restoreSession возвращает true, если прибор ответил. Недоступный сеанс
// остается в пуле и оживает при проверке через /connect/check.
func restoreSession(uc interfaces.Usecases, inst entities.Instrument, log *logging.Logger) bool {
	info, err := uc.RestoreConnection(inst)
	if info == nil {
		log.Error("Session dropped", "sessionID", inst.SessionID, "endpoint", inst.EndpointURL, "error", err)
		return false
	}
	if !info.IsHealthy {
		log.Warn("Session kept in pool without instrument", "sessionID", inst.SessionID, "endpoint", inst.EndpointURL)
	}

	if inst.Status == entities.StatusPolled && inst.Interval > 0 {
		interval := time.Duration(inst.Interval) * time.Millisecond
		if err := uc.StartPolling(info.SessionID, interval); err != nil {
			log.Warn("Polling not resumed", "sessionID", inst.SessionID, "error", err)
		}
	}
	return info.IsHealthy
}

// InvokeShutdown закрывает сеансы и producer при остановке приложения.
func InvokeShutdown(lc fx.Lifecycle, svc interfaces.InstrumentService, producer interfaces.KafkaService, logger *logging.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			svc.CloseAll()
			if err := producer.Close(); err != nil {
				logger.Warn("Kafka producer close failed", "error", err)
			}
			logger.Info("Instrument sessions closed")
			return logger.Close()
		},
	})
}

// InvokeHttpServer запускает HTTP-сервер.
func InvokeHttpServer(lc fx.Lifecycle, cfg *config.AppConfig, h http.Handler, logger *logging.Logger) {
	serverAddr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      h,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("HTTP Server is starting", "address", serverAddr)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("Failed to start server", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}
