package handlers

import (
	"net/http"

	"github.com/iwtcode/yakAdapter/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// ExecuteCommand разрешает тип команды для модели сеанса и выполняет действие
// GET, SET, DO, NAB, BEG или RIG.
//
// @Tags Commands
// @Param input body models.ExecuteRequest true "Команда"
// @Success 200 {object} models.ExecuteResponse
// @Failure 400,404,502,503 {object} models.ErrorResponse
// @Router /commands/execute [post]
func (h *Handler) ExecuteCommand(c *gin.Context) {
	var req models.ExecuteRequest
	if !h.bind(c, &req) {
		return
	}

	res, err := h.usecase.Execute(c.Request.Context(), req)
	if err != nil {
		h.OperationFailed(c, err)
		return
	}

	h.logger.Debug("Command executed", "sessionID", req.SessionID, "command", res.Command)
	c.JSON(http.StatusOK, models.ExecuteResponse{Status: models.StatusOK, Result: res})
}

// ReloadCommands перечитывает CSV таблицу сеанса, если файл изменился.
//
// @Tags Commands
// @Param input body models.SessionRequest true "ID сессии"
// @Success 200 {object} models.ReloadResponse
// @Router /commands/reload [post]
func (h *Handler) ReloadCommands(c *gin.Context) {
	var req models.SessionRequest
	if !h.bind(c, &req) {
		return
	}

	res, err := h.usecase.ReloadCommands(req.SessionID)
	if err != nil {
		h.OperationFailed(c, err)
		return
	}

	h.logger.Info("Command table checked", "sessionID", req.SessionID, "reloaded", res.Reloaded, "entries", res.Entries)
	c.JSON(http.StatusOK, models.ReloadResponse{Status: models.StatusOK, Reload: res})
}
