package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dailywarden/warden/config"
	"github.com/dailywarden/warden/internal/application/command"
	"github.com/dailywarden/warden/internal/application/query"
	"github.com/dailywarden/warden/internal/domain/cycle"
	"github.com/dailywarden/warden/internal/domain/ledger"
	"github.com/dailywarden/warden/internal/domain/participant"
	"github.com/dailywarden/warden/internal/domain/reminder"
	"github.com/dailywarden/warden/internal/domain/shared"
	"github.com/dailywarden/warden/internal/infrastructure/external/telegram"
	"github.com/dailywarden/warden/internal/infrastructure/persistence"
	"github.com/dailywarden/warden/internal/infrastructure/persistence/postgres"
	"github.com/dailywarden/warden/internal/infrastructure/persistence/redis"
	"github.com/dailywarden/warden/internal/infrastructure/scheduler"
	"github.com/dailywarden/warden/internal/infrastructure/scheduler/jobs"
	"github.com/dailywarden/warden/internal/infrastructure/service"
	httpserver "github.com/dailywarden/warden/internal/interface/http"
	"github.com/dailywarden/warden/internal/interface/http/handlers"
	"github.com/dailywarden/warden/internal/interface/telegram/presenter"
	"github.com/dailywarden/warden/pkg/logger"
	"github.com/dailywarden/warden/pkg/retry"
	"github.com/dailywarden/warden/pkg/timeutil"
)

const submitHint = "Post your update with POST /api/v1/participants/{id}/updates."

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the tracker, reminders and HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// BOOTSTRAP
// ══════════════════════════════════════════════════════════════════════════════

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	opts := logger.DefaultOptions()
	opts.Level = cfg.Log.Level
	opts.Format = logger.Format(cfg.Log.Format)
	return logger.New(opts)
}

func storeOptions(cfg *config.Config) (persistence.Options, error) {
	driver, err := persistence.ParseDriver(cfg.Storage.Driver)
	if err != nil {
		return persistence.Options{}, err
	}

	redisCfg := redis.DefaultConfig()
	redisCfg.Host = cfg.Storage.Redis.Host
	redisCfg.Port = cfg.Storage.Redis.Port
	redisCfg.Password = cfg.Storage.Redis.Password
	redisCfg.DB = cfg.Storage.Redis.DB

	pgCfg := postgres.DefaultConfig()
	pgCfg.URL = cfg.Storage.Postgres.URL
	if cfg.Storage.Postgres.MaxConns > 0 {
		pgCfg.MaxConns = cfg.Storage.Postgres.MaxConns
	}
	if cfg.Storage.Postgres.ConnectTimeout > 0 {
		pgCfg.ConnectTimeout = cfg.Storage.Postgres.ConnectTimeout
	}

	return persistence.Options{
		Driver:     driver,
		Name:       cfg.Storage.Name,
		FilePath:   cfg.Storage.FilePath,
		SQLitePath: cfg.Storage.SQLitePath,
		Redis:      redisCfg,
		Postgres:   pgCfg,
	}, nil
}

// openLedger opens the configured store and loads the ledger from it.
func openLedger(ctx context.Context, cfg *config.Config, log *zap.Logger) (*persistence.Store, *ledger.Ledger, error) {
	opts, err := storeOptions(cfg)
	if err != nil {
		return nil, nil, err
	}
	retrier := retry.StoreConnectRetrier(
		retry.WithRetryIf(func(err error) bool { return !shared.IsInvalidConfiguration(err) }),
		retry.WithOnRetry(func(err error, delay time.Duration) {
			log.Warn("store not reachable, retrying", zap.Error(err), zap.Duration("delay", delay))
		}),
	)
	store, err := retry.DoWithData(ctx, retrier, func(ctx context.Context) (*persistence.Store, error) {
		return persistence.Open(ctx, opts, log)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	l := ledger.New(store, cfg.App.Location)
	if err := l.Load(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("load ledger: %w", err)
	}
	log.Info("ledger loaded",
		logger.StoreDriver(string(store.Driver())),
		zap.Int("days", len(l.Days())),
	)
	return store, l, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// RUN
// ══════════════════════════════════════════════════════════════════════════════

func run(parent context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	log = log.With(zap.String("app", cfg.App.Name))
	log.Info("starting", zap.String("env", string(cfg.App.Environment)), zap.String("timezone", cfg.App.Location.String()))

	store, l, err := openLedger(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	clock := timeutil.NewSystemClock(cfg.App.Location)
	registry := participant.NewRegistry()
	target := reminder.NewTarget(cfg.Telegram.ChatID)

	policy, err := reminder.NewPolicy(cfg.Tracker.ReminderHours, cfg.Tracker.UrgentThresholdHours)
	if err != nil {
		return err
	}
	reset, err := cycle.NewDailyReset(cfg.Tracker.ResetHour, cfg.App.Location, func(_ context.Context, day shared.DayKey) error {
		log.Info("daily cycle started", logger.Day(day.String()), zap.Int("members", registry.Len()))
		return nil
	})
	if err != nil {
		return err
	}

	// Outbound channel
	var (
		notifier jobs.Notifier = service.NewLogNotifier(log)
		gate                   = scheduler.OpenGate
		tg       *telegram.Client
	)
	if cfg.Telegram.Enabled() {
		tgCfg := telegram.DefaultClientConfig(cfg.Telegram.Token)
		tgCfg.BaseURL = cfg.Telegram.BaseURL
		tgCfg.Timeout = cfg.Telegram.Timeout
		tgCfg.ReadyPollInterval = cfg.Telegram.ReadyPollInterval
		tgCfg.Logger = log
		tg, err = telegram.NewClient(tgCfg)
		if err != nil {
			return err
		}
		notifier = service.NewReminderNotifier(tg, presenter.NewReminderPresenter(submitHint), log)
		gate = tg
	} else {
		log.Warn("telegram disabled, reminders are only logged")
	}

	// Scheduler
	sched := scheduler.NewScheduler(scheduler.Config{Logger: log, Clock: clock, Gate: gate})
	hourly := scheduler.NewHourlySchedule(cfg.App.Location)
	if err := sched.Register(jobs.NewSendRemindersJob(jobs.SendRemindersConfig{
		Policy:   policy,
		Ledger:   l,
		Members:  registry,
		Target:   target,
		Clock:    clock,
		Notifier: notifier,
		Logger:   log,
		Timeout:  cfg.Telegram.Timeout,
	}), hourly); err != nil {
		return err
	}
	if err := sched.Register(jobs.NewDailyResetJob(reset, clock, log), hourly); err != nil {
		return err
	}
	sched.Start(ctx)
	defer sched.Stop()

	// HTTP
	var server *httpserver.Server
	if cfg.HTTP.Enabled {
		health := handlers.NewCompositeHealthChecker(cfg.App.Name)
		health.AddCheck("store", handlers.NewPingCheck(store))
		health.AddCheck("scheduler", handlers.NewFlagCheck(sched.IsRunning, "scheduler not running"))
		if tg != nil {
			health.AddCheck("telegram", handlers.NewFlagCheck(tg.IsReady, "telegram not ready"))
		}

		httpCfg := httpserver.DefaultConfig()
		httpCfg.Address = cfg.HTTP.Address
		httpCfg.RequestTimeout = cfg.HTTP.RequestTimeout
		httpCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins

		server, err = httpserver.NewServer(httpCfg, httpserver.Dependencies{
			Register:   command.NewRegisterHandler(registry),
			Unregister: command.NewUnregisterHandler(registry),
			Submit:     command.NewSubmitUpdateHandler(l, registry, clock),
			SetTarget:  command.NewSetTargetHandler(target),
			Status:     query.NewGetStatusHandler(l, registry, clock),
			Today:      query.NewGetTodayReportHandler(l, registry, clock),
			History:    query.NewGetHistoryHandler(l, clock),
			Health:     health,
			Logger:     log,
		})
		if err != nil {
			return err
		}
		if err := server.Start(); err != nil {
			return err
		}
	}

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg))
	defer cancel()

	var errs []error
	if server != nil {
		if err := server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}
	sched.Stop()
	return errors.Join(errs...)
}

func shutdownTimeout(cfg *config.Config) time.Duration {
	if cfg.App.ShutdownTimeout > 0 {
		return cfg.App.ShutdownTimeout
	}
	return 10 * time.Second
}
