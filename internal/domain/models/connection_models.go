package models

import "time"

// ConnectionRequest определяет структуру для нового запроса на подключение.
type ConnectionRequest struct {
	EndpointURL  string `json:"endpoint_url" binding:"required"` // "tcp://192.168.1.50:5025"
	CommandsFile string `json:"commands_file"`
	Model        string `json:"model"`
}

// SessionRequest определяет структуру для запросов, использующих SessionID.
type SessionRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// PollingRequest определяет структуру для запроса на запуск опроса.
type PollingRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Interval  int    `json:"interval" binding:"required,gt=0"` // в миллисекундах
}

// ExecuteRequest описывает произвольную команду таблицы.
type ExecuteRequest struct {
	SessionID   string   `json:"session_id" binding:"required"`
	Action      string   `json:"action" binding:"required"`
	CommandType string   `json:"command_type" binding:"required"`
	Args        []string `json:"args"`
}

// FrequencyRequest задает центр и полосу обзора в герцах.
type FrequencyRequest struct {
	CenterHz float64 `json:"center_hz" binding:"required,gt=0"`
	SpanHz   float64 `json:"span_hz" binding:"required,gt=0"`
}

// ConnectionInfo представляет активное подключение в пуле.
type ConnectionInfo struct {
	SessionID    string    `json:"session_id"`
	Endpoint     string    `json:"endpoint"`
	Model        string    `json:"model"`
	CommandsFile string    `json:"commands_file"`
	CreatedAt    time.Time `json:"created_at"`
	LastUsed     time.Time `json:"last_used"`
	UseCount     int64     `json:"use_count"`
	IsHealthy    bool      `json:"is_healthy"`
}
