// internal/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"printer-service/internal/config"
	"printer-service/internal/database"
	"printer-service/internal/handler"
	"printer-service/internal/middleware"
	"printer-service/internal/queue"
	"printer-service/internal/registry"
	"printer-service/internal/repository"
	"printer-service/internal/service"
	"printer-service/internal/utils"
)

// Router holds all dependencies for routing
type Router struct {
	config           *config.Config
	logger           *zap.Logger
	db               *database.DB
	registry         *registry.Registry
	store            repository.PrinterStore
	history          repository.JobHistoryStore
	queue            *queue.Queue
	printService     *service.PrintService
	discoveryService *service.DiscoveryService
	wsHandler        *handler.WebSocketHandler
	events           *handler.PrinterEventHandler
}

// NewRouter creates a new router instance
func NewRouter(
	config *config.Config,
	logger *zap.Logger,
	db *database.DB,
	reg *registry.Registry,
	store repository.PrinterStore,
	history repository.JobHistoryStore,
	jobQueue *queue.Queue,
	printService *service.PrintService,
	discoveryService *service.DiscoveryService,
	wsHandler *handler.WebSocketHandler,
	events *handler.PrinterEventHandler,
) *Router {
	return &Router{
		config:           config,
		logger:           logger,
		db:               db,
		registry:         reg,
		store:            store,
		history:          history,
		queue:            jobQueue,
		printService:     printService,
		discoveryService: discoveryService,
		wsHandler:        wsHandler,
		events:           events,
	}
}

// SetupRouter creates and configures the Gin router
func (r *Router) SetupRouter() *gin.Engine {
	if r.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	r.addMiddleware(router)
	r.addRoutes(router)

	return router
}

// addMiddleware adds middleware to the router
func (r *Router) addMiddleware(router *gin.Engine) {
	router.Use(middleware.RecoveryMiddleware(r.logger))
	router.Use(middleware.RequestIDMiddleware())

	serviceLogger := utils.NewServiceLogger(r.logger, "http-server")
	router.Use(middleware.LoggingMiddleware(serviceLogger))

	router.Use(middleware.CORSMiddleware(&r.config.Server))

	r.logger.Info("Middleware configured")
}

// addRoutes sets up all application routes
func (r *Router) addRoutes(router *gin.Engine) {
	healthHandler := handler.NewHealthHandler(r.db, r.config, r.registry, r.queue, r.logger)
	printerHandler := handler.NewPrinterHandler(r.registry, r.store, r.history, r.logger)
	printHandler := handler.NewPrintHandler(r.printService, r.events, r.logger)
	discoveryHandler := handler.NewDiscoveryHandler(r.discoveryService, r.logger)

	// Health check routes (no auth required)
	r.addHealthRoutes(router, healthHandler)

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	r.addPrinterRoutes(apiV1, printerHandler, printHandler)
	r.addDiscoveryRoutes(apiV1, discoveryHandler)

	// WebSocket routes
	r.addWebSocketRoutes(router)

	r.logger.Info("All routes configured successfully")
}

// addHealthRoutes sets up health check routes
func (r *Router) addHealthRoutes(router *gin.Engine, handler *handler.HealthHandler) {
	health := router.Group("")
	{
		health.GET("/health", handler.HealthCheck)
		health.GET("/health/db", handler.DatabaseHealthCheck)
		health.GET("/ready", handler.ReadinessCheck)
		health.GET("/live", handler.LivenessCheck)
	}
}

// addPrinterRoutes sets up printer management and print routes
func (r *Router) addPrinterRoutes(api *gin.RouterGroup, printerHandler *handler.PrinterHandler, printHandler *handler.PrintHandler) {
	printers := api.Group("/printers")
	{
		printers.POST("", printerHandler.RegisterPrinter)
		printers.GET("", printerHandler.ListPrinters)
		printers.PUT("/auto-reconnect", printerHandler.SetAutoReconnect)

		printer := printers.Group("/:printer_id")
		{
			// Printer management
			printer.GET("", printerHandler.GetPrinter)
			printer.DELETE("", printerHandler.RemovePrinter)
			printer.POST("/connect", printerHandler.ConnectPrinter)
			printer.POST("/disconnect", printerHandler.DisconnectPrinter)
			printer.GET("/history", printerHandler.GetPrintHistory)

			// Printing
			printer.POST("/print", printHandler.PrintOrder)
			printer.POST("/print/receipt", printHandler.PrintReceipt)
			printer.POST("/print/text", printHandler.PrintText)
			printer.POST("/print/raw", printHandler.PrintRaw)
			printer.POST("/test", printHandler.TestPrint)
		}
	}
}

// addDiscoveryRoutes sets up printer discovery routes
func (r *Router) addDiscoveryRoutes(api *gin.RouterGroup, handler *handler.DiscoveryHandler) {
	discovery := api.Group("/discovery")
	{
		discovery.POST("/scan", handler.StartScan)
		discovery.DELETE("/scan", handler.CancelScan)
		discovery.GET("/status", handler.GetStatus)
	}
}

// addWebSocketRoutes sets up WebSocket routes
func (r *Router) addWebSocketRoutes(router *gin.Engine) {
	ws := router.Group("/ws")
	{
		ws.GET("/printers/:printer_id", r.wsHandler.HandlePrinterConnection)
		ws.GET("/events", r.wsHandler.HandleEventConnection)
		ws.GET("/jobs", r.wsHandler.HandleJobConnection)
	}
}
