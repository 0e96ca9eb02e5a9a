package yak

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// DefaultCommandsFile - путь к таблице команд по умолчанию.
const DefaultCommandsFile = "data/visa_commands.csv"

// Config хранит модель конфигурации клиента
type Config struct {
	Endpoint          string `yaml:"endpoint"`
	CommandsFile      string `yaml:"commands_file"`
	TimeoutMs         int    `yaml:"timeout_ms"`
	BaudRate          int    `yaml:"baud_rate"`
	Model             string `yaml:"model"`
	AutoRefresh       bool   `yaml:"auto_refresh"`
	ReconnectAttempts int    `yaml:"reconnect_attempts"`
	LogLevel          string `yaml:"log_level"`
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	endpoint := os.Getenv("YAK_ENDPOINT")
	if endpoint == "" {
		endpoint = "tcp://192.168.1.50:5025"
	}

	commandsFile := os.Getenv("YAK_COMMANDS_FILE")
	if commandsFile == "" {
		commandsFile = DefaultCommandsFile
	}

	timeout, err := strconv.Atoi(os.Getenv("YAK_TIMEOUT_MS"))
	if err != nil || timeout <= 0 {
		timeout = 5000
	}

	baud, err := strconv.Atoi(os.Getenv("YAK_BAUD_RATE"))
	if err != nil || baud <= 0 {
		baud = 9600
	}

	autoRefresh := true
	if v, err := strconv.ParseBool(os.Getenv("YAK_AUTO_REFRESH")); err == nil {
		autoRefresh = v
	}

	attempts, err := strconv.Atoi(os.Getenv("YAK_RECONNECT_ATTEMPTS"))
	if err != nil || attempts <= 0 {
		attempts = 3
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		Endpoint:          endpoint,
		CommandsFile:      commandsFile,
		TimeoutMs:         timeout,
		BaudRate:          baud,
		Model:             os.Getenv("YAK_MODEL"),
		AutoRefresh:       autoRefresh,
		ReconnectAttempts: attempts,
		LogLevel:          logLevel,
	}
}

// LoadFile читает YAML файл поверх значений из окружения.
func LoadFile(path string) (*Config, error) {
	cfg := Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет обязательные поля.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return fmt.Errorf("endpoint is required")
	}
	if strings.TrimSpace(c.CommandsFile) == "" {
		return fmt.Errorf("commands_file is required")
	}
	if c.TimeoutMs <= 0 {
		return fmt.Errorf("timeout_ms must be positive, got %d", c.TimeoutMs)
	}
	if c.ReconnectAttempts <= 0 {
		return fmt.Errorf("reconnect_attempts must be positive, got %d", c.ReconnectAttempts)
	}
	return nil
}

// Timeout возвращает таймаут операции ввода-вывода.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}
