package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// AppConfig содержит конфигурацию приложения
type AppConfig struct {
	ServerPort   string         `yaml:"server_port"`
	KafkaBroker  string         `yaml:"kafka_broker"`
	KafkaTopic   string         `yaml:"kafka_topic"`
	GinMode      string         `yaml:"gin_mode"`
	Instrument   InstrumentConf `yaml:"instrument"`
	Database     DatabaseConfig `yaml:"database"`
	Logging      LoggerConfig   `yaml:"logging"`
	ConfigSource string         `yaml:"-"`
}

// InstrumentConf содержит параметры сеансов с приборами
type InstrumentConf struct {
	CommandsFile      string `yaml:"commands_file"`
	TimeoutMs         int    `yaml:"timeout_ms"`
	BaudRate          int    `yaml:"baud_rate"`
	ReconnectAttempts int    `yaml:"reconnect_attempts"`
	AutoRefresh       bool   `yaml:"auto_refresh"`
}

// LoggerConfig содержит настройки логгера
type LoggerConfig struct {
	Enable     bool   `yaml:"enable"`
	LogsDir    string `yaml:"logs_dir"`
	Level      string `yaml:"level"`
	SavingDays int    `yaml:"saving_days"`
}

// DatabaseConfig содержит конфигурацию для подключения к базе данных
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DBName   string `yaml:"db_name"`
}

// LoadConfiguration загружает конфигурацию из .env файла или переменных окружения.
// Если задан YAK_CONFIG_FILE, значения из YAML файла применяются поверх.
func LoadConfiguration() (*AppConfig, error) {
	_ = godotenv.Load()

	config := &AppConfig{
		ServerPort:  getEnv("APP_PORT", "8082"),
		KafkaBroker: getEnv("KAFKA_BROKER", "localhost:9092"),
		KafkaTopic:  getEnv("KAFKA_TOPIC", "yak_snapshots"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		Instrument: InstrumentConf{
			CommandsFile:      getEnv("YAK_COMMANDS_FILE", "data/visa_commands.csv"),
			TimeoutMs:         getEnvAsInt("YAK_TIMEOUT_MS", 5000),
			BaudRate:          getEnvAsInt("YAK_BAUD_RATE", 9600),
			ReconnectAttempts: getEnvAsInt("YAK_RECONNECT_ATTEMPTS", 3),
			AutoRefresh:       getEnvAsBool("YAK_AUTO_REFRESH", true),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Username: getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "root"),
			DBName:   getEnv("DB_NAME", "yak_db"),
		},
		Logging: LoggerConfig{
			Enable:     getEnvAsBool("LOGGER_ENABLE", true),
			LogsDir:    getEnv("LOGGER_LOGS_DIR", "./logs"),
			Level:      getEnv("LOGGER_LOG_LEVEL", "DEBUG"),
			SavingDays: getEnvAsInt("LOGGER_SAVING_DAYS", 7),
		},
	}

	if path := getEnv("YAK_CONFIG_FILE", ""); path != "" {
		if err := applyFile(config, path); err != nil {
			return nil, err
		}
	}
	return config, nil
}

func applyFile(config *AppConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("не удалось прочитать файл конфигурации: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, config); err != nil {
		return fmt.Errorf("ошибка разбора файла конфигурации %s: %w", path, err)
	}
	config.ConfigSource = path
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(name string, defaultValue int) int {
	valueStr := getEnv(name, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	val, _ := strconv.ParseBool(value)
	return val
}
