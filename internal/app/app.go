package app

import (
	"context"

	"github.com/avelar/pricewatch/internal/config"
	"github.com/avelar/pricewatch/internal/delivery/rest"
	"github.com/avelar/pricewatch/internal/infra/db"
	"github.com/avelar/pricewatch/internal/infra/log"
	"github.com/avelar/pricewatch/internal/infra/notify"
	"github.com/avelar/pricewatch/internal/infra/scrape"
	"github.com/avelar/pricewatch/internal/retry"
	"github.com/avelar/pricewatch/internal/usecase"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App is the scheduled-run application: one Tracker pass per invocation.
type App struct {
	tracker   *usecase.Tracker
	logger    *zap.Logger
	cleanupFn func() error
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := log.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.Open(cfg, logger)
	if err != nil {
		return nil, err
	}

	watchlistRepo := db.NewWatchlistRepository(dbConn)
	historyRepo := db.NewHistoryRepository(dbConn)
	alertRepo := db.NewAlertRepository(dbConn)
	scraper := newScraper(cfg, logger)

	sender, err := buildSender(cfg, logger)
	if err != nil {
		return nil, err
	}
	dispatcher := usecase.NewAlertDispatcher(
		alertRepo,
		sender,
		retry.Policy{MaxAttempts: cfg.NotifyAttempts, BaseDelay: cfg.NotifyRetryDelay},
		logger,
	)
	tracker := usecase.NewTracker(
		watchlistRepo,
		historyRepo,
		dispatcher,
		scraper,
		cfg.FetchMinPause,
		cfg.FetchMaxPause,
		logger,
	)

	return &App{tracker: tracker, logger: logger, cleanupFn: closeDB(dbConn)}, nil
}

func (a *App) Run(ctx context.Context) (*usecase.RunSummary, error) {
	a.logger.Info("pricewatch run starting")
	return a.tracker.Run(ctx)
}

func (a *App) Shutdown() {
	if a.cleanupFn != nil {
		if err := a.cleanupFn(); err != nil {
			a.logger.Warn("failed to close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

// MaintenanceApp is the operator-facing watchlist server.
type MaintenanceApp struct {
	server    *rest.Server
	logger    *zap.Logger
	cleanupFn func() error
}

func NewMaintenance(ctx context.Context, cfg config.Config) (*MaintenanceApp, error) {
	logger, err := log.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.Open(cfg, logger)
	if err != nil {
		return nil, err
	}

	watchlistRepo := db.NewWatchlistRepository(dbConn)
	historyRepo := db.NewHistoryRepository(dbConn)
	scraper := newScraper(cfg, logger)

	watchlistUC := usecase.NewWatchlistUsecase(watchlistRepo, scraper, logger)
	handlers := rest.NewHandlers(watchlistUC, historyRepo, logger)
	server := rest.NewServer(cfg.HTTPAddr, handlers, logger)

	return &MaintenanceApp{server: server, logger: logger, cleanupFn: closeDB(dbConn)}, nil
}

func (a *MaintenanceApp) Run(ctx context.Context) error {
	a.logger.Info("watchlist maintenance service starting")
	return a.server.Run(ctx)
}

func (a *MaintenanceApp) Shutdown() {
	a.logger.Info("watchlist maintenance service shutting down")
	if a.cleanupFn != nil {
		if err := a.cleanupFn(); err != nil {
			a.logger.Warn("failed to close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

func newScraper(cfg config.Config, logger *zap.Logger) *scrape.Client {
	return scrape.NewClient(scrape.Options{
		BaseURL:     cfg.ScraperBaseURL,
		APIKey:      cfg.ScraperAPIKey,
		DeviceType:  cfg.ScraperDeviceType,
		CountryCode: cfg.ScraperCountryCode,
		Render:      cfg.ScraperRender,
		Timeout:     cfg.FetchTimeout,
		MaxAttempts: cfg.FetchMaxAttempts,
		RetryDelay:  cfg.FetchRetryDelay,
	}, logger)
}

func buildSender(cfg config.Config, logger *zap.Logger) (usecase.Sender, error) {
	email := notify.NewEmailSender(
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPassword,
		cfg.AlertFrom,
		cfg.AlertRecipient,
		logger,
	)
	if cfg.TelegramToken == "" {
		return email, nil
	}

	api, err := notify.NewTelegramAPI(cfg.TelegramToken)
	if err != nil {
		return nil, err
	}
	telegram := notify.NewTelegramSender(api, cfg.TelegramChatID, logger)
	return notify.NewMulti(email, telegram), nil
}

func closeDB(dbConn *gorm.DB) func() error {
	return func() error {
		sqlDB, err := dbConn.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
}
