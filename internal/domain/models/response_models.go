package models

import (
	"github.com/iwtcode/yakAdapter/dispatch"
	yak "github.com/iwtcode/yakAdapter/models"
)

const (
	StatusOK        = "ok"
	StatusError     = "error"
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// ErrorBody - код и текст ошибки.
type ErrorBody struct {
	Code    int    `json:"code" example:"404"`
	Message string `json:"message" example:"not_found"`
}

// ErrorResponse - ответ API с ошибкой.
type ErrorResponse struct {
	Status string    `json:"status" example:"error"`
	Error  ErrorBody `json:"error"`
}

type MessageResponse struct {
	Status  string `json:"status" example:"ok"`
	Message string `json:"message"`
}

type CreateConnectionResponse struct {
	Status         string          `json:"status" example:"ok"`
	ConnectionInfo *ConnectionInfo `json:"connection_info"`
}

type GetConnectionsResponse struct {
	Status      string            `json:"status" example:"ok"`
	PoolSize    int               `json:"pool_size"`
	Connections []*ConnectionInfo `json:"connections"`
}

// CheckConnectionResponse - итог проверки сеанса. Error заполнен для unhealthy.
type CheckConnectionResponse struct {
	Status         string          `json:"status" example:"healthy"`
	Error          string          `json:"error,omitempty"`
	ConnectionInfo *ConnectionInfo `json:"connection_info"`
}

type ExecuteResponse struct {
	Status string          `json:"status" example:"ok"`
	Result dispatch.Result `json:"result"`
}

type ReloadResponse struct {
	Status string        `json:"status" example:"ok"`
	Reload *ReloadResult `json:"reload"`
}

type SnapshotResponse struct {
	Status   string                  `json:"status" example:"ok"`
	Snapshot *yak.InstrumentSnapshot `json:"snapshot"`
}

type MarkersResponse struct {
	Status  string              `json:"status" example:"ok"`
	Markers []yak.MarkerReading `json:"markers"`
}

type FrequencyResponse struct {
	Status    string                 `json:"status" example:"ok"`
	Frequency *yak.FrequencySettings `json:"frequency"`
}
