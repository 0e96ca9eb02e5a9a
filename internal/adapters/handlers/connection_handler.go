package handlers

import (
	"errors"
	"net/http"

	"github.com/iwtcode/yakAdapter/internal/domain/models"
	"github.com/iwtcode/yakAdapter/internal/services/instrument_service"

	"github.com/gin-gonic/gin"
)

// CreateConnection открывает сеанс с анализатором: транспорт, таблица команд,
// модель по *IDN? (если не задана в запросе).
//
// @Summary Открыть сеанс
// @Tags Connection
// @Param input body models.ConnectionRequest true "tcp://host:port, serial:///dev/ttyUSB0 или ws://"
// @Success 200 {object} models.CreateConnectionResponse
// @Failure 400,409,500 {object} models.ErrorResponse
// @Router /connect [post]
func (h *Handler) CreateConnection(c *gin.Context) {
	var req models.ConnectionRequest
	if !h.bind(c, &req) {
		return
	}

	info, err := h.usecase.CreateConnection(req)
	if err != nil {
		h.OperationFailed(c, err)
		return
	}

	h.logger.Info("Session opened", "sessionID", info.SessionID, "endpoint", info.Endpoint, "model", info.Model)
	c.JSON(http.StatusOK, models.CreateConnectionResponse{Status: models.StatusOK, ConnectionInfo: info})
}

// @Summary Список сеансов
// @Tags Connection
// @Success 200 {object} models.GetConnectionsResponse
// @Router /connect [get]
func (h *Handler) GetConnections(c *gin.Context) {
	pool := h.usecase.GetAllConnections()
	c.JSON(http.StatusOK, models.GetConnectionsResponse{
		Status:      models.StatusOK,
		PoolSize:    len(pool),
		Connections: pool,
	})
}

// DeleteConnection закрывает сеанс вместе с его опросом.
//
// @Tags Connection
// @Param input body models.SessionRequest true "ID сессии"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /connect [delete]
func (h *Handler) DeleteConnection(c *gin.Context) {
	var req models.SessionRequest
	if !h.bind(c, &req) {
		return
	}

	if err := h.usecase.DeleteConnection(req.SessionID); err != nil {
		h.OperationFailed(c, err)
		return
	}

	h.logger.Info("Session closed", "sessionID", req.SessionID)
	c.JSON(http.StatusOK, models.MessageResponse{
		Status:  models.StatusOK,
		Message: "session " + req.SessionID + " closed",
	})
}

// CheckConnection опрашивает прибор. Недоступный прибор дает 200 со статусом unhealthy.
//
// @Tags Connection
// @Param input body models.SessionRequest true "ID сессии"
// @Success 200 {object} models.CheckConnectionResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /connect/check [post]
func (h *Handler) CheckConnection(c *gin.Context) {
	var req models.SessionRequest
	if !h.bind(c, &req) {
		return
	}

	info, err := h.usecase.CheckConnection(req.SessionID)
	switch {
	case info == nil || errors.Is(err, instrument_service.ErrSessionNotFound):
		h.NotFound(c, err)
	case err != nil:
		c.JSON(http.StatusOK, models.CheckConnectionResponse{
			Status:         models.StatusUnhealthy,
			Error:          err.Error(),
			ConnectionInfo: info,
		})
	default:
		c.JSON(http.StatusOK, models.CheckConnectionResponse{Status: models.StatusHealthy, ConnectionInfo: info})
	}
}
