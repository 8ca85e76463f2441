// Package server wires storage, the Drive client, the registration flow,
// the Telegram bot and the admin gRPC API into one process, and handles
// graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/driveaccess/internal/admin"
	"github.com/dmitrijs2005/driveaccess/internal/drive"
	"github.com/dmitrijs2005/driveaccess/internal/i18n"
	"github.com/dmitrijs2005/driveaccess/internal/logging"
	"github.com/dmitrijs2005/driveaccess/internal/registration"
	"github.com/dmitrijs2005/driveaccess/internal/server/auth"
	"github.com/dmitrijs2005/driveaccess/internal/server/config"
	"github.com/dmitrijs2005/driveaccess/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/driveaccess/internal/session"
	"github.com/dmitrijs2005/driveaccess/internal/telegram"

	gs "github.com/dmitrijs2005/driveaccess/internal/server/grpc"
)

// runner is a long-lived component stopped by cancelling its context.
type runner interface {
	Run(ctx context.Context) error
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	storage *repomanager.Storage
	admin   *admin.Service
	bot     runner
	grpc    runner
	notice  string
}

var openStorage = repomanager.Open

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogLevel, c.LogFormat)

	tr, err := i18n.New(c.Locale)
	if err != nil {
		return nil, fmt.Errorf("i18n init error: %w", err)
	}

	storage, err := openStorage(ctx, c.StorageDriver, c.DatabaseDSN, logger)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := newApp(c, logger, tr, storage)
	if err != nil {
		storage.Close()
		return nil, err
	}
	return app, nil
}

func newApp(c *config.Config, logger logging.Logger, tr *i18n.Translator, storage *repomanager.Storage) (*App, error) {
	baseDir, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	driveClient := drive.NewClient(
		drive.NewFolders(c.FolderMap, c.DefaultFolder),
		drive.Credentials{Path: c.CredentialsPath, Subject: c.DelegatedUser, BaseDir: baseDir},
		drive.Options{
			MaxAttempts:    c.MaxGrantAttempts,
			BackoffUnit:    c.GrantBackoffUnit,
			BackoffCap:     c.GrantBackoffCap,
			AttemptTimeout: c.GrantAttemptTimeout,
		},
		logger,
	)

	api, err := telegram.NewBotAPI(c.BotToken)
	if err != nil {
		return nil, fmt.Errorf("telegram init error: %w", err)
	}

	var exporter admin.Exporter
	if c.ExportEnabled() {
		exporter, err = admin.NewS3Exporter(admin.S3Config{
			Bucket:    c.ExportS3Bucket,
			Region:    c.ExportS3Region,
			Endpoint:  c.ExportS3Endpoint,
			AccessKey: c.ExportS3AccessKey,
			SecretKey: c.ExportS3SecretKey,
		})
		if err != nil {
			return nil, err
		}
	}

	broadcaster := admin.NewBroadcaster(telegram.NewSender(api), c.BroadcastInterval, logger)
	adminService := admin.NewService(storage.Profiles, exporter, broadcaster, logger)

	machine := registration.NewMachine(
		registration.Config{Teams: c.Teams, PhoneRegion: c.PhoneRegion},
		storage.Profiles,
		driveClient,
		session.NewStore(),
		tr,
		logger,
	)

	notice := tr.T(i18n.MsgBotRunning) + "\n" + tr.T(i18n.MsgAccessInstructions)

	bot := telegram.New(api, machine, driveClient, adminService, tr, telegram.Options{
		Teams:          c.Teams,
		AdminIDs:       c.AdminIDs,
		FilePanelLimit: c.FilePanelLimit,
		Notice:         notice,
	}, logger)

	var tokenKey []byte
	if c.AdminTokenSecret != "" {
		if tokenKey, err = auth.DeriveKey(c.AdminTokenSecret); err != nil {
			return nil, err
		}
	} else {
		logger.Warn(context.Background(), "ADMIN_TOKEN_SECRET is empty, admin API calls will be refused")
	}

	grpcServer := gs.NewGRPCServer(gs.Options{
		Address:  c.GRPCAddr,
		TokenKey: tokenKey,
		AdminIDs: c.AdminIDs,
		Notice:   notice,
	}, adminService, logger)

	return &App{
		config:  c,
		logger:  logger,
		storage: storage,
		admin:   adminService,
		bot:     bot,
		grpc:    grpcServer,
		notice:  notice,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// startComponent runs r and cancels the whole app when it fails.
func (app *App) startComponent(ctx context.Context, cancelFunc context.CancelFunc, name string, r runner) {
	if err := r.Run(ctx); err != nil {
		app.logger.Error(ctx, "component failed", "component", name, "error", err)
		cancelFunc()
	}
}

func (app *App) notifyOnStart(ctx context.Context) {
	rep, err := app.admin.Broadcast(ctx, app.notice)
	if err != nil {
		app.logger.Warn(ctx, "start notice failed", "error", err)
		return
	}
	app.logger.Info(ctx, "start notice sent", "sent", rep.Sent, "total", rep.Total)
}

// Run blocks until a termination signal arrives, ctx is cancelled or a
// component fails, then waits for the components and closes storage.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startComponent(ctx, cancelFunc, "grpc", app.grpc)
	}()
	go func() {
		defer wg.Done()
		app.startComponent(ctx, cancelFunc, "bot", app.bot)
	}()

	if app.config.AutoNotifyOnStart {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.notifyOnStart(ctx)
		}()
	}

	wg.Wait()

	if err := app.storage.Close(); err != nil {
		app.logger.Error(context.Background(), "storage close error", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
