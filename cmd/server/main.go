// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"printer-service/internal/config"
	"printer-service/internal/database"
	"printer-service/internal/discovery"
	"printer-service/internal/discovery/bluetooth"
	"printer-service/internal/discovery/mdns"
	"printer-service/internal/discovery/network"
	serialscan "printer-service/internal/discovery/serial"
	"printer-service/internal/encoder"
	"printer-service/internal/handler"
	"printer-service/internal/normalizer"
	"printer-service/internal/queue"
	"printer-service/internal/registry"
	"printer-service/internal/repository"
	"printer-service/internal/routes"
	"printer-service/internal/service"
	"printer-service/internal/transport"
	"printer-service/internal/utils"
)

// Application represents the main application
type Application struct {
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
	database *database.DB

	// Core components
	registry  *registry.Registry
	queue     *queue.Queue
	discovery *discovery.Manager
	bridge    *transport.BridgeTransport

	// Repositories
	printerRepo repository.PrinterStore
	historyRepo repository.JobHistoryStore

	// Services
	printService     *service.PrintService
	discoveryService *service.DiscoveryService

	// Event layer
	eventBus  *handler.EventBus
	wsHandler *handler.WebSocketHandler
	events    *handler.PrinterEventHandler

	// stop cancels the background loops on shutdown
	stop context.CancelFunc
}

func main() {
	app, err := NewApplication()
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}
	defer utils.LogPanic(app.logger)

	if err := app.Start(); err != nil {
		app.logger.Fatal("Failed to start application", zap.Error(err))
	}
}

// NewApplication creates a new application instance
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := utils.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	serviceLogger := utils.NewServiceLogger(logger, "printer-service")
	serviceLogger.LogServiceStart(cfg.App.Version, cfg)

	app := &Application{
		config: cfg,
		logger: logger,
	}

	if err := app.initializeDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initializeRepositories(); err != nil {
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	if err := app.initializeCore(); err != nil {
		return nil, fmt.Errorf("failed to initialize core components: %w", err)
	}

	if err := app.initializeDiscovery(); err != nil {
		return nil, fmt.Errorf("failed to initialize discovery: %w", err)
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := app.initializeServer(); err != nil {
		return nil, fmt.Errorf("failed to initialize server: %w", err)
	}

	return app, nil
}

// initializeDatabase sets up database connection and runs migrations
func (app *Application) initializeDatabase() error {
	db, err := database.Connect(app.config, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create database connection: %w", err)
	}

	app.database = db

	migrator := database.NewMigrator(db, app.logger)
	if err := migrator.Up(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	app.logger.Info("Database initialized successfully")
	return nil
}

// initializeRepositories creates repository instances
func (app *Application) initializeRepositories() error {
	app.printerRepo = repository.NewPrinterRepository(app.database, app.logger)
	app.historyRepo = repository.NewHistoryRepository(app.database, app.logger)

	app.logger.Info("Repositories initialized successfully")
	return nil
}

// initializeCore wires transports, registry and the print queue
func (app *Application) initializeCore() error {
	// Transport fallback order: bridge, raw TCP, vendor HTTP, serial.
	// Development gets a simulated sink so printing works without
	// hardware.
	app.bridge = transport.NewBridgeTransport(nil, app.logger)

	tcpConfig := transport.DefaultTCPConfig()
	tcpConfig.DialTimeout = app.config.Printer.ConnectTimeout
	tcpConfig.WriteTimeout = app.config.Printer.WriteTimeout

	serialConfig := transport.DefaultSerialConfig()
	if app.config.Printer.Serial.BaudRate > 0 {
		serialConfig.BaudRate = app.config.Printer.Serial.BaudRate
		serialConfig.DataBits = app.config.Printer.Serial.DataBits
		serialConfig.StopBits = app.config.Printer.Serial.StopBits
		serialConfig.Parity = app.config.Printer.Serial.Parity
		serialConfig.Timeout = app.config.Printer.Serial.Timeout
	}

	transports := []transport.Transport{
		app.bridge,
		transport.NewTCPTransport(tcpConfig, app.logger),
		transport.NewHTTPTransport(app.config.Discovery.HTTPTimeout, app.logger),
		transport.NewSerialTransport(serialConfig, app.logger),
	}
	if app.config.IsDevelopment() {
		transports = append(transports, transport.NewSimulatedTransport(0, app.logger))
	}
	chain := transport.NewChain(app.logger, transports...)

	app.registry = registry.New(app.printerRepo, chain, app.logger)

	var cloud queue.CloudSubmitter
	if app.config.CloudPRNT.Enabled {
		cloud = transport.NewCloudPRNTClient(
			app.config.CloudPRNT.BaseURL,
			app.config.CloudPRNT.Timeout,
			app.logger,
		)
		app.logger.Info("CloudPRNT channel enabled",
			zap.String("base_url", app.config.CloudPRNT.BaseURL),
		)
	}

	encoders := service.NewEncoderSet(encoder.Config{
		PaperWidth: app.config.Printer.PaperWidth,
		QRURL:      app.config.Printer.QRURL,
	}, app.logger)

	app.queue = queue.New(
		app.registry,
		chain,
		cloud,
		encoders,
		app.historyRepo,
		queue.Config{
			MaxRetries: app.config.Queue.MaxRetries,
			RetryDelay: app.config.Queue.RetryDelay,
			IdleSleep:  app.config.Queue.IdleSleep,
		},
		app.logger,
	)

	app.logger.Info("Core components initialized successfully")
	return nil
}

// initializeDiscovery registers all scanner strategies
func (app *Application) initializeDiscovery() error {
	manager := discovery.NewManager(app.registry, app.logger)

	manager.RegisterScanner(network.NewScanner(&network.Config{
		ProbeTimeout:    app.config.Discovery.ProbeTimeout,
		HTTPTimeout:     app.config.Discovery.HTTPTimeout,
		StaticAddresses: app.config.Discovery.StaticAddresses,
		FallbackSubnets: app.config.Discovery.FallbackSubnets,
	}, app.bridge, manager.Notify, app.logger))

	// No BLE adapter is wired on the server build; the scanner reports
	// itself unavailable and the manager skips it.
	manager.RegisterScanner(bluetooth.NewScanner(nil, &bluetooth.Config{
		ScanDuration: app.config.Discovery.BluetoothScan,
	}, app.logger))

	manager.RegisterScanner(mdns.NewScanner(&mdns.Config{
		BrowseTimeout: app.config.Discovery.MDNSScan,
	}, app.logger))

	manager.RegisterScanner(serialscan.NewScanner(app.logger))

	app.discovery = manager
	app.logger.Info("Discovery initialized successfully")
	return nil
}

// initializeServices creates service instances and the event layer
func (app *Application) initializeServices() error {
	app.printService = service.NewPrintService(
		normalizer.New(app.logger),
		app.queue,
		app.registry,
		app.logger,
	)
	app.discoveryService = service.NewDiscoveryService(app.discovery, app.logger)

	app.eventBus = handler.NewEventBus()
	app.wsHandler = handler.NewWebSocketHandler(app.registry, app.printService, app.eventBus, app.logger)
	app.events = handler.NewPrinterEventHandler(app.eventBus, app.wsHandler)

	app.registry.Subscribe(app.events.OnStatusChanged)
	app.discovery.OnProgress(app.events.OnScanProgress)

	app.logger.Info("Services initialized successfully")
	return nil
}

// initializeServer sets up HTTP server and routes
func (app *Application) initializeServer() error {
	routerManager := routes.NewRouter(
		app.config,
		app.logger,
		app.database,
		app.registry,
		app.printerRepo,
		app.historyRepo,
		app.queue,
		app.printService,
		app.discoveryService,
		app.wsHandler,
		app.events,
	)

	router := routerManager.SetupRouter()

	app.server = &http.Server{
		Addr:         app.config.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  app.config.Server.ReadTimeout,
		WriteTimeout: app.config.Server.WriteTimeout,
		IdleTimeout:  app.config.Server.IdleTimeout,
	}

	app.logger.Info("HTTP server initialized",
		zap.String("address", app.config.GetServerAddr()),
	)

	return nil
}

// startBackgroundServices starts the queue loop, event bus and
// restores persisted printers
func (app *Application) startBackgroundServices(ctx context.Context) {
	go app.eventBus.Start()
	go app.queue.Run(ctx)

	go func() {
		restoreCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := app.registry.Restore(restoreCtx); err != nil {
			utils.LogError(app.logger, "Failed to restore printers", err)
		}
	}()

	app.logger.Info("Background services started")
}

// waitForShutdown waits for shutdown signal and performs graceful shutdown
func (app *Application) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	app.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	app.shutdown()
}

// shutdown performs graceful shutdown
func (app *Application) shutdown() {
	serviceLogger := utils.NewServiceLogger(app.logger, "printer-service")
	serviceLogger.LogServiceStop("shutdown signal received")

	// Stop the queue loop and any running scan
	app.discovery.Cancel()
	if app.stop != nil {
		app.stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		app.logger.Info("HTTP server stopped")
	}

	if app.database != nil {
		if err := app.database.Close(); err != nil {
			app.logger.Error("Database close error", zap.Error(err))
		} else {
			app.logger.Info("Database connection closed")
		}
	}

	if err := utils.CloseLogger(app.logger); err != nil {
		fmt.Printf("Logger close error: %v\n", err)
	}

	app.logger.Info("Application shutdown completed")
}

func (app *Application) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	app.stop = cancel

	go func() {
		app.logger.Info("Starting HTTP server",
			zap.String("address", app.server.Addr),
		)

		if err := app.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	app.startBackgroundServices(ctx)

	app.waitForShutdown()

	return nil
}
