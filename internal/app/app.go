package app

import (
	"context"
	"errors"
	"strings"

	"hwbot/internal/config"
	"hwbot/internal/poller"
	"hwbot/internal/source"
	kit "hwbot/internal/transport"
	telegram "hwbot/internal/transport/telegram/adapter"
	logx "hwbot/pkg/logx"
)

type Options struct {
	ConfigPath      string
	EnvFile         string
	EnvFileRequired bool
	// Once runs a single cycle and returns instead of looping.
	Once bool
	// Lookup overrides os.LookupEnv.
	Lookup config.LookupFunc
}

type App struct {
	opts Options
	cfg  *config.Config
	rt   config.Runtime

	logs *logx.Service
	log  logx.Logger

	adapter *telegram.Adapter
	ctrl    *poller.Controller
	pacer   *poller.IntervalPacer
	sd      *systemdNotifier
}

// New loads configuration and wires the components. A missing secret
// yields a failure.KindConfiguration error and nothing is started.
func New(opts Options, bootLog logx.Logger) (*App, error) {
	if bootLog.IsZero() {
		bootLog = logx.NewConsole("INFO")
	}

	cfg, err := config.Load(config.LoadOptions{
		Path:            opts.ConfigPath,
		EnvFile:         opts.EnvFile,
		EnvFileRequired: opts.EnvFileRequired,
		Lookup:          opts.Lookup,
	})
	if err != nil {
		return nil, err
	}
	rt, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}

	// STARTING: nothing below can work without the three secrets.
	if err := cfg.Secrets().Validate(); err != nil {
		return nil, err
	}

	ad, err := telegram.New(telegram.Config{Token: cfg.Telegram.Token, URL: cfg.Telegram.APIURL}, bootLog.With(logx.String("comp", "telegram")))
	if err != nil {
		return nil, err
	}

	logs, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
		Telegram: logx.TelegramConfig{
			Enabled:    cfg.Logging.Telegram.Enabled,
			ChatID:     cfg.Logging.Telegram.ChatID,
			ThreadID:   cfg.Logging.Telegram.ThreadID,
			MinLevel:   cfg.Logging.Telegram.MinLevel,
			RatePerSec: cfg.Logging.Telegram.RatePerSec,
		},
	}, ad)

	a := &App{
		opts:    opts,
		cfg:     cfg,
		rt:      rt,
		logs:    logs,
		log:     log,
		adapter: ad,
		pacer:   poller.NewIntervalPacer(rt.PollInterval),
		sd:      newSystemdNotifier(log.With(logx.String("comp", "systemd"))),
	}

	client := source.NewClient(source.Config{
		Endpoint: rt.Endpoint,
		Token:    cfg.Source.Token,
		Timeout:  rt.SourceTimeout,
	}, log.With(logx.String("comp", "source")))

	notifier := kit.NewChatNotifier(ad, kit.ChatTarget{
		ChatID:   strings.TrimSpace(cfg.Telegram.ChatID),
		ThreadID: cfg.Telegram.ThreadID,
	})

	a.ctrl = poller.New(poller.Config{Secrets: cfg.Secrets()}, poller.Deps{
		Source:   client,
		Notifier: notifier,
		Pacer:    a.pacer,
		Log:      log,
		Observer: poller.ObserverFunc(a.cycleDone),
	})
	return a, nil
}

func (a *App) Logger() logx.Logger { return a.log }

func (a *App) Controller() *poller.Controller { return a.ctrl }

// Run blocks until ctx is cancelled, or returns after one cycle in Once mode.
func (a *App) Run(ctx context.Context) error {
	a.log.Info("hwbot starting",
		logx.String("endpoint", a.rt.Endpoint),
		logx.Duration("interval", a.pacer.Interval()),
		logx.Bool("once", a.opts.Once),
		logx.Bool("telegram_log", a.cfg.Logging.Telegram.Enabled),
	)

	if a.opts.Once {
		if err := a.ctrl.Start(); err != nil {
			return err
		}
		if out := a.ctrl.Cycle(ctx); out.Result == poller.ResultFailed {
			return out.Err
		}
		return nil
	}

	a.sd.Ready()
	defer a.sd.Stopping()
	return a.ctrl.Run(ctx)
}

func (a *App) cycleDone(o poller.Outcome) {
	a.sd.Status(o, a.pacer.Interval())
}

func (a *App) Close() error {
	var errs []error
	if a.logs != nil {
		errs = append(errs, a.logs.Close())
	}
	return errors.Join(errs...)
}
