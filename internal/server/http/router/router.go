package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/p2pdesk/internal/config"
	"github.com/polkiloo/p2pdesk/internal/server/http/handlers"
	"github.com/polkiloo/p2pdesk/internal/server/http/middleware"
)

// Action and review payloads are a few kilobytes at most.
const maxRequestBody = 16 << 10

type routerParams struct {
	fx.In

	Facade handlers.DeskFacade
	Config *config.Config
	Logger *slog.Logger
}

func newRouter(p routerParams) *gin.Engine {
	return Setup(p.Facade, p.Config.CORSOrigins, p.Logger)
}

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.DeskFacade, allowedOrigins []string, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest(maxRequestBody))

	healthHandler := handlers.NewHealthHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	streamHandler := handlers.NewStreamHandler(facade, logger, allowedOrigins)

	engine.GET("/healthz", healthHandler.Check)

	// The stream is registered outside the gzip group: compressing the
	// response writer breaks the websocket hijack.
	orders := engine.Group("/api/orders/:id")
	orders.Use(middleware.AuthRequired(facade))
	orders.GET("/stream", streamHandler.Stream)

	compressed := orders.Group("")
	compressed.Use(gzip.Gzip(gzip.DefaultCompression))
	compressed.GET("", orderHandler.Get)
	compressed.GET("/history", orderHandler.History)
	compressed.POST("/actions/:action", orderHandler.Invoke)
	compressed.POST("/review", orderHandler.Review)

	return engine
}
