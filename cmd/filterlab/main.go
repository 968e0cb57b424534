package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"filterlab/internal/config"
	"filterlab/internal/controllers"
	"filterlab/internal/logger"
	"filterlab/internal/models"
	"filterlab/internal/pipeline"
	"filterlab/internal/services"
	"filterlab/internal/shutdown"
	"filterlab/internal/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

const (
	AppName    = "Filter Lab"
	AppID      = "io.filterlab.desktop"
	AppVersion = "1.0.0"
)

// Application owns the window and every long-lived component.
type Application struct {
	fyneApp fyne.App
	window  fyne.Window
	logger  logger.Logger
	config  *config.Config

	controller *controllers.MainController
	view       *views.MainView

	imageService      *services.ImageService
	processingService *services.ProcessingService

	shutdown *shutdown.Manager
}

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	appLogger, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}

	application := NewApplication(cfg, appLogger)
	application.Run()
}

// NewApplication wires repositories, services, controller and view.
func NewApplication(cfg *config.Config, appLogger logger.Logger) *Application {
	app.SetMetadata(fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
	})
	fyneApp := app.NewWithID(AppID)

	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(float32(cfg.WindowWidth), float32(cfg.WindowHeight)))
	window.CenterOnScreen()

	fields := cfg.Fields()
	fields["version"] = AppVersion
	fields["go_version"] = runtime.Version()
	fields["num_cpu"] = runtime.NumCPU()
	appLogger.Info("Application", "starting", fields)

	imageRepo := models.NewImageRepository()
	processor := pipeline.NewProcessor(appLogger)

	imageService := services.NewImageService(imageRepo, appLogger, cfg.MaxUploadBytes, cfg.DownloadName)
	processingService := services.NewProcessingService(processor, imageRepo, appLogger)

	mainController := controllers.NewMainController(imageService, processingService, appLogger)
	mainView := views.NewMainView(window)
	mainController.SetMainView(mainView)

	application := &Application{
		fyneApp:           fyneApp,
		window:            window,
		logger:            appLogger,
		config:            cfg,
		controller:        mainController,
		view:              mainView,
		imageService:      imageService,
		processingService: processingService,
		shutdown:          shutdown.NewManager(appLogger),
	}

	// steps run newest first: the controller stops background work before the UI quits
	application.shutdown.RegisterFunc("application", fyneApp.Quit)
	application.shutdown.Register("controller", mainController)

	application.setupWindowEvents()

	appLogger.Info("Application", "initialized", map[string]interface{}{
		"workers": processingService.GetWorkerCount(),
	})

	return application
}

// Run shows the window and blocks until the application quits.
func (a *Application) Run() {
	a.shutdown.Listen()
	a.window.ShowAndRun()
	a.shutdown.Shutdown()

	stats := a.processingService.GetProcessingStats()
	a.logger.Info("Application", "terminated", map[string]interface{}{
		"successful_runs": stats.SuccessfulRuns,
		"superseded_runs": stats.SupersededRuns,
	})
}

func (a *Application) setupWindowEvents() {
	a.window.SetCloseIntercept(func() {
		a.logger.Info("Application", "window close requested", nil)
		go a.shutdown.Shutdown()
	})
}
