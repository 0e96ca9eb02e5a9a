package handlers

import (
	"net/http"

	"github.com/iwtcode/yakAdapter/internal/config"
	"github.com/iwtcode/yakAdapter/internal/interfaces"
	"github.com/iwtcode/yakAdapter/internal/middleware/logging"

	"github.com/gin-gonic/gin"
)

// Handler - структура для обработчиков HTTP-запросов
type Handler struct {
	usecase interfaces.Usecases
	logger  *logging.Logger
}

// NewHandler создает новый экземпляр Handler
func NewHandler(usecase interfaces.Usecases, logger *logging.Logger) *Handler {
	return &Handler{
		usecase: usecase,
		logger:  logger.WithPrefix("HANDLER"),
	}
}

// ProvideRouter настраивает и возвращает HTTP-роутер
func ProvideRouter(h *Handler, cfg *config.AppConfig) http.Handler {
	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.Use(gin.Recovery())

	// Logger Middleware
	router.Use(LoggingMiddleware(h.logger))

	// Группа API v1
	v1 := router.Group("/api/v1")
	{
		connections := v1.Group("/connect")
		{
			connections.POST("", h.CreateConnection)
			connections.GET("", h.GetConnections)
			connections.DELETE("", h.DeleteConnection)
			connections.POST("/check", h.CheckConnection)
		}

		cmds := v1.Group("/commands")
		{
			cmds.POST("/execute", h.ExecuteCommand)
			cmds.POST("/reload", h.ReloadCommands)
		}

		inst := v1.Group("/instrument/:session_id")
		{
			inst.GET("/snapshot", h.GetSnapshot)
			inst.GET("/markers", h.GetMarkers)
			inst.POST("/frequency", h.SetFrequency)
		}

		polling := v1.Group("/polling")
		{
			polling.POST("/start", h.StartPolling)
			polling.POST("/stop", h.StopPolling)
		}
	}

	return router
}
