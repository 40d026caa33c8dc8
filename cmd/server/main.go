package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/herbolab/submission-workflow/internal/application/dispatcher"
	"github.com/herbolab/submission-workflow/internal/application/service"
	appworkflow "github.com/herbolab/submission-workflow/internal/application/workflow"
	"github.com/herbolab/submission-workflow/internal/config"
	"github.com/herbolab/submission-workflow/internal/document"
	"github.com/herbolab/submission-workflow/internal/domain/workflow"
	"github.com/herbolab/submission-workflow/internal/email"
	"github.com/herbolab/submission-workflow/internal/infrastructure/persistence/repository"
	"github.com/herbolab/submission-workflow/internal/infrastructure/persistence/sqlite"
	"github.com/herbolab/submission-workflow/internal/infrastructure/settings"
	"github.com/herbolab/submission-workflow/internal/infrastructure/worker"
	httpserver "github.com/herbolab/submission-workflow/internal/interfaces/http"
	"github.com/herbolab/submission-workflow/pkg/database"
	"github.com/herbolab/submission-workflow/pkg/utils"
)

func main() {
	// Load .env if present, then configuration
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Submission Workflow Service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	// Initialize database
	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Create document output directory
	if err := os.MkdirAll(cfg.Documents.OutputDir, 0755); err != nil {
		logger.Fatal("Failed to create output directory", zap.Error(err))
	}

	sugar := sugarLogger{logger.Sugar()}

	// Initialize repositories and transaction manager
	txManager := sqlite.NewDB(db.DB, logger)
	submissionRepo := repository.NewSubmissionRepository(db.DB, logger)
	bagRepo := repository.NewBagRepository(db.DB, logger)
	transitionRepo := repository.NewTransitionRepository(db.DB, logger)
	documentRepo := repository.NewDocumentRepository(db.DB, logger)
	notificationRepo := repository.NewNotificationRepository(db.DB, logger)

	// Initialize settings cache over the lab's settings endpoint
	settingsFetcher := settings.NewHTTPFetcher(
		cfg.Settings.BaseURL,
		cfg.Settings.APIToken,
		cfg.Settings.APITimeout,
	)
	settingsService := settings.NewService(settingsFetcher, cfg.Settings.CacheTTL, sugar)

	// Initialize event dispatcher and application services
	events := dispatcher.NewDispatcher(sugar)
	defer events.Close()

	submissionService := service.NewSubmissionService(
		submissionRepo,
		bagRepo,
		transitionRepo,
		txManager,
		events,
		sugar,
	)

	generator := document.NewGenerator(cfg.Documents.LabName, cfg.Documents.LabAddress, logger)
	documentService := service.NewDocumentService(
		submissionService,
		documentRepo,
		settingsService,
		generator,
		cfg.Documents.OutputDir,
		sugar,
	)

	mailSender := email.NewSender(email.Config{
		Host:      cfg.Email.Host,
		Port:      cfg.Email.Port,
		Username:  cfg.Email.Username,
		Password:  cfg.Email.Password,
		FromName:  cfg.Email.SenderName,
		FromEmail: cfg.Email.FromEmail,
	}, logger)
	notificationService := service.NewNotificationService(
		submissionService,
		documentRepo,
		notificationRepo,
		mailSender,
		sugar,
	)

	// The generation phases run automatically off phase-advanced events
	service.NewAutomation(documentService, sugar).Register(events)

	// Initialize workflow orchestration
	orchestrator := appworkflow.NewOrchestrator(sugar,
		appworkflow.WithConfirmTimeout(cfg.Workflow.ConfirmTimeout))
	contentRouter := workflow.DefaultRouter()

	// Background workers
	workers := worker.NewManager(logger)
	workers.Register(worker.NewSettingsWarmer(func(ctx context.Context) error {
		_, err := settingsService.Get(ctx)
		return err
	}, cfg.Settings.CacheTTL, logger))

	// Initialize HTTP server
	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		submissionService,
		documentService,
		notificationService,
		orchestrator,
		contentRouter,
		settingsService,
		sugar,
	)

	// Run until interrupted
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workers.StartAll(ctx); err != nil {
		logger.Fatal("Failed to start workers", zap.Error(err))
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("Shutting down server...")
		cancel()
	}()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server error", zap.Error(err))
	}

	if err := workers.StopAll(); err != nil {
		logger.Error("Worker shutdown error", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}

// sugarLogger adapts zap's sugared logger to the narrow logger interfaces
// the application packages declare
type sugarLogger struct {
	s *zap.SugaredLogger
}

func (l sugarLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Infow(msg, keysAndValues...)
}

func (l sugarLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.s.Warnw(msg, keysAndValues...)
}

func (l sugarLogger) Error(msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, keysAndValues...)
}
