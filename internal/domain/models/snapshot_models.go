package models

import (
	"time"

	yak "github.com/iwtcode/yakAdapter/models"
)

// SnapshotMessage - сообщение, публикуемое в Kafka на каждом шаге опроса.
type SnapshotMessage struct {
	SessionID string                  `json:"session_id"`
	Endpoint  string                  `json:"endpoint"`
	Timestamp time.Time               `json:"timestamp"`
	Snapshot  *yak.InstrumentSnapshot `json:"snapshot"`
}

// ReloadResult - результат проверки файла таблицы команд.
type ReloadResult struct {
	Reloaded  bool      `json:"reloaded"`
	Entries   int       `json:"entries"`
	ModTime   time.Time `json:"mod_time"`
	LoadCount int64     `json:"load_count"`
}
