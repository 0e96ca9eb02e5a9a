package handlers

import (
	"net/http"

	"github.com/iwtcode/yakAdapter/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// GetSnapshot читает сводное состояние прибора. Недоступные разделы
// перечислены в warnings.
//
// @Tags Instrument
// @Param session_id path string true "ID сессии"
// @Success 200 {object} models.SnapshotResponse
// @Router /instrument/{session_id}/snapshot [get]
func (h *Handler) GetSnapshot(c *gin.Context) {
	snapshot, err := h.usecase.Snapshot(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		h.OperationFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SnapshotResponse{Status: models.StatusOK, Snapshot: snapshot})
}

// @Tags Instrument
// @Success 200 {object} models.MarkersResponse
// @Router /instrument/{session_id}/markers [get]
func (h *Handler) GetMarkers(c *gin.Context) {
	markers, err := h.usecase.Markers(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		h.OperationFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MarkersResponse{Status: models.StatusOK, Markers: markers})
}

// SetFrequency задает центр и полосу обзора и возвращает прочитанные значения.
//
// @Tags Instrument
// @Param input body models.FrequencyRequest true "Центр и полоса в Гц"
// @Success 200 {object} models.FrequencyResponse
// @Router /instrument/{session_id}/frequency [post]
func (h *Handler) SetFrequency(c *gin.Context) {
	var req models.FrequencyRequest
	if !h.bind(c, &req) {
		return
	}

	settings, err := h.usecase.SetFrequency(c.Request.Context(), c.Param("session_id"), req)
	if err != nil {
		h.OperationFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, models.FrequencyResponse{Status: models.StatusOK, Frequency: settings})
}
