package postgres

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/iwtcode/yakAdapter/internal/adapters/repositories/postgres/instrument"
	"github.com/iwtcode/yakAdapter/internal/config"
	"github.com/iwtcode/yakAdapter/internal/domain/entities"
	"github.com/iwtcode/yakAdapter/internal/interfaces"
	"github.com/iwtcode/yakAdapter/internal/middleware/logging"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Repository struct {
	interfaces.InstrumentRepository
}

func dsn(db config.DatabaseConfig, name string) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		db.Host, db.Username, db.Password, name, db.Port)
}

func NewRepository(cfg *config.AppConfig, appLogger *logging.Logger) (interfaces.InstrumentRepository, error) {
	dbLog := appLogger.WithPrefix("DB")

	// Шаг 1: Служебная БД 'postgres' для проверки и создания целевой БД
	if err := ensureDatabase(cfg.Database, dbLog); err != nil {
		return nil, err
	}

	// Шаг 2: Основное подключение к целевой базе данных
	appDb, err := gorm.Open(postgres.Open(dsn(cfg.Database, cfg.Database.DBName)), &gorm.Config{Logger: gormLogger(cfg.Logging.Level)})
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных '%s': %w", cfg.Database.DBName, err)
	}

	if err := appDb.AutoMigrate(&entities.Instrument{}); err != nil {
		return nil, fmt.Errorf("ошибка выполнения автомиграций: %w", err)
	}

	return &Repository{
		InstrumentRepository: instrument.NewInstrumentRepository(appDb),
	}, nil
}

func ensureDatabase(db config.DatabaseConfig, appLogger *logging.Logger) error {
	conn, err := gorm.Open(postgres.Open(dsn(db, "postgres")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("не удалось подключиться к служебной БД 'postgres': %w", err)
	}
	defer func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	var exists bool
	query := "SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = ?)"
	if err := conn.Raw(query, db.DBName).Scan(&exists).Error; err != nil {
		return fmt.Errorf("не удалось проверить существование БД '%s': %w", db.DBName, err)
	}
	if exists {
		appLogger.Info("Database already exists.", "db_name", db.DBName)
		return nil
	}

	appLogger.Info("Database not found. Creating...", "db_name", db.DBName)
	if err := conn.Exec(fmt.Sprintf("CREATE DATABASE %s", db.DBName)).Error; err != nil {
		return fmt.Errorf("не удалось создать БД '%s': %w", db.DBName, err)
	}
	appLogger.Info("Database created successfully.", "db_name", db.DBName)
	return nil
}

// gormLogger выводит SQL только при уровне DEBUG.
func gormLogger(level string) logger.Interface {
	logLevel := logger.Warn
	if level == "DEBUG" || level == "debug" {
		logLevel = logger.Info
	}
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
}
