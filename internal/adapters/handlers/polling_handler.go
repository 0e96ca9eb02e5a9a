package handlers

import (
	"net/http"
	"time"

	"github.com/iwtcode/yakAdapter/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// StartPolling включает публикацию снимков сеанса в Kafka.
//
// @Tags Polling
// @Param input body models.PollingRequest true "Интервал в миллисекундах"
// @Success 200 {object} models.MessageResponse
// @Failure 404,409,503 {object} models.ErrorResponse
// @Router /polling/start [post]
func (h *Handler) StartPolling(c *gin.Context) {
	var req models.PollingRequest
	if !h.bind(c, &req) {
		return
	}

	interval := time.Duration(req.Interval) * time.Millisecond
	if err := h.usecase.StartPolling(req.SessionID, interval); err != nil {
		h.OperationFailed(c, err)
		return
	}

	h.logger.Info("Polling enabled", "sessionID", req.SessionID, "interval", interval)
	c.JSON(http.StatusOK, models.MessageResponse{
		Status:  models.StatusOK,
		Message: "polling started every " + interval.String(),
	})
}

// @Tags Polling
// @Param input body models.SessionRequest true "ID сессии"
// @Success 200 {object} models.MessageResponse
// @Router /polling/stop [post]
func (h *Handler) StopPolling(c *gin.Context) {
	var req models.SessionRequest
	if !h.bind(c, &req) {
		return
	}

	if err := h.usecase.StopPolling(req.SessionID); err != nil {
		h.OperationFailed(c, err)
		return
	}

	h.logger.Info("Polling disabled", "sessionID", req.SessionID)
	c.JSON(http.StatusOK, models.MessageResponse{Status: models.StatusOK, Message: "polling stopped"})
}
