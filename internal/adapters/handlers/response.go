package handlers

import (
	"errors"
	"net/http"

	"github.com/iwtcode/yakAdapter/internal/domain/models"
	"github.com/iwtcode/yakAdapter/internal/services/instrument_service"
	yakerrors "github.com/iwtcode/yakAdapter/pkg/errors"

	"github.com/gin-gonic/gin"
)

// bind разбирает JSON тела запроса. При ошибке ответ 400 уже отправлен.
func (h *Handler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.BadRequest(c, err, "invalid request payload")
		return false
	}
	return true
}

// ErrorResponse пишет ответ с ошибкой и прерывает цепочку обработчиков.
// detail добавляет текст err к сообщению.
func (h *Handler) ErrorResponse(c *gin.Context, err error, statusCode int, message string, detail bool) {
	text := message
	if detail && err != nil {
		text = message + ": " + err.Error()
	}

	if statusCode >= http.StatusInternalServerError {
		h.logger.Error(message, "path", c.FullPath(), "statusCode", statusCode, "error", err)
	} else {
		h.logger.Warn(message, "path", c.FullPath(), "statusCode", statusCode, "error", err)
	}
	c.AbortWithStatusJSON(statusCode, models.ErrorResponse{
		Status: models.StatusError,
		Error:  models.ErrorBody{Code: statusCode, Message: text},
	})
}

func (h *Handler) BadRequest(c *gin.Context, err error, message string) {
	if message == "" {
		message = yakerrors.BadRequest
	}
	h.ErrorResponse(c, err, http.StatusBadRequest, message, true)
}

// InternalError скрывает текст ошибки от клиента.
func (h *Handler) InternalError(c *gin.Context, err error) {
	h.ErrorResponse(c, err, http.StatusInternalServerError, yakerrors.InternalServerError, false)
}

func (h *Handler) NotFound(c *gin.Context, err error) {
	h.ErrorResponse(c, err, http.StatusNotFound, yakerrors.NotFound, true)
}

// OperationFailed подбирает код ответа по виду ошибки сеанса или команды.
func (h *Handler) OperationFailed(c *gin.Context, err error) {
	switch {
	case errors.Is(err, instrument_service.ErrSessionNotFound):
		h.NotFound(c, err)
	case errors.Is(err, instrument_service.ErrEndpointMalformed):
		h.BadRequest(c, err, "")
	case errors.Is(err, instrument_service.ErrSessionUnhealthy):
		h.ErrorResponse(c, err, http.StatusServiceUnavailable, yakerrors.BadGateway, true)
	case errors.Is(err, instrument_service.ErrAlreadyConnected), errors.Is(err, instrument_service.ErrPollingActive):
		h.ErrorResponse(c, err, http.StatusConflict, http.StatusText(http.StatusConflict), true)
	case yakerrors.KindOf(err) != yakerrors.KindUnknown:
		status := yakerrors.StatusFor(err)
		h.ErrorResponse(c, err, status, http.StatusText(status), status != http.StatusInternalServerError)
	default:
		h.InternalError(c, err)
	}
}
