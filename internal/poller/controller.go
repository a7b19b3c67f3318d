package poller

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"hwbot/internal/config"
	"hwbot/internal/failure"
	"hwbot/internal/homework"
	"hwbot/internal/source"
	logx "hwbot/pkg/logx"
)

// Notifier delivers a rendered message. Failures are logged by the
// controller and never retried.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Observer is told about every finished cycle.
type Observer interface {
	CycleDone(o Outcome)
}

type ObserverFunc func(o Outcome)

func (f ObserverFunc) CycleDone(o Outcome) { f(o) }

// Outcome describes one cycle.
type Outcome struct {
	CycleID  string
	Result   Result
	Record   homework.Record // set for ResultNotified and ResultUnchanged
	Err      error
	Since    int64 // from_date used for the fetch
	Started  time.Time
	Duration time.Duration
}

type Config struct {
	Secrets config.Secrets
}

type Deps struct {
	Source   source.Fetcher
	Notifier Notifier
	Pacer    Pacer
	Log      logx.Logger

	// Optional.
	Observer Observer
	Clock    func() time.Time
	Render   func(homework.Record) string
}

var ErrNotStarted = errors.New("poller: controller not started")

// Controller owns the poll loop. It is not safe for concurrent use; one
// goroutine drives it.
type Controller struct {
	cfg  Config
	deps Deps
	log  logx.Logger

	state    State
	startErr error
	since    int64
	prior    *homework.Record
}

func New(cfg Config, deps Deps) *Controller {
	if deps.Log.IsZero() {
		deps.Log = logx.Nop()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Render == nil {
		deps.Render = homework.Render
	}
	if deps.Pacer == nil {
		deps.Pacer = NewIntervalPacer(config.DefaultPollInterval)
	}
	return &Controller{
		cfg:   cfg,
		deps:  deps,
		log:   deps.Log.With(logx.String("comp", "poller")),
		state: StateStarting,
	}
}

func (c *Controller) State() State { return c.state }

// Since returns the from_date the next fetch will use.
func (c *Controller) Since() int64 { return c.since }

// Prior returns the last record seen by a successful cycle.
func (c *Controller) Prior() (homework.Record, bool) {
	if c.prior == nil {
		return homework.Record{}, false
	}
	return *c.prior, true
}

// Start performs the STARTING checks. A missing secret moves the controller
// to TERMINATED and returns a configuration failure. TERMINATED is final:
// later calls return the start failure again, or ErrNotStarted.
func (c *Controller) Start() error {
	switch c.state {
	case StateStarting:
	case StateTerminated:
		if c.startErr != nil {
			return c.startErr
		}
		return ErrNotStarted
	default:
		return nil
	}
	if err := c.cfg.Secrets.Validate(); err != nil {
		c.state = StateTerminated
		c.startErr = err
		c.log.Error("required configuration missing", logx.String("kind", failure.KindOf(err).String()), logx.Err(err))
		return err
	}
	c.since = c.deps.Clock().Unix()
	c.state = StatePolling
	c.log.Info("configuration check passed", logx.Int64("from_date", c.since))
	return nil
}

// Run starts the controller and loops until ctx is cancelled. It returns a
// non-nil error only for a fatal start failure or a controller that has
// already terminated.
func (c *Controller) Run(ctx context.Context) error {
	if err := c.Start(); err != nil {
		return err
	}
	defer func() { c.state = StateTerminated }()

	for ctx.Err() == nil {
		c.Cycle(ctx)

		c.state = StateBackoff
		if err := c.deps.Pacer.Wait(ctx); err != nil {
			break
		}
		c.state = StatePolling
	}
	c.log.Info("poll loop stopped")
	return nil
}

// Cycle runs one fetch-validate-diff-notify pass without waiting afterwards.
func (c *Controller) Cycle(ctx context.Context) Outcome {
	started := c.deps.Clock()
	out := Outcome{
		CycleID: uuid.NewString(),
		Since:   c.since,
		Started: started,
	}
	if c.state == StateStarting || c.state == StateTerminated {
		out.Err = ErrNotStarted
		return out
	}
	log := c.log.With(logx.String("cycle_id", out.CycleID), logx.Int64("from_date", c.since))

	c.state = StatePolling
	out.Result, out.Record, out.Err = c.poll(ctx, log)
	if out.Result != ResultFailed {
		c.advance(started)
	}

	out.Duration = c.deps.Clock().Sub(started)
	if c.deps.Observer != nil {
		c.deps.Observer.CycleDone(out)
	}
	return out
}

func (c *Controller) poll(ctx context.Context, log logx.Logger) (Result, homework.Record, error) {
	payload, err := c.deps.Source.Fetch(ctx, c.since)
	if err != nil {
		logFailure(log, "homework API unavailable", err)
		return ResultFailed, homework.Record{}, err
	}

	rec, err := homework.Validate(payload)
	switch {
	case err == nil:
	case failure.Is(err, failure.KindEmptySequence):
		log.Info("no homework updates")
		return ResultNoUpdate, homework.Record{}, nil
	default:
		logFailure(log, "invalid homework API response", err)
		return ResultFailed, homework.Record{}, err
	}

	if c.prior != nil && *c.prior == rec {
		log.Debug("homework status unchanged", logx.String("homework", rec.Name), logx.String("status", string(rec.Status)))
		return ResultUnchanged, rec, nil
	}

	c.state = StateNotifying
	err = c.notify(ctx, log, rec)
	c.prior = &rec
	return ResultNotified, rec, err
}

func (c *Controller) notify(ctx context.Context, log logx.Logger, rec homework.Record) error {
	msg := c.deps.Render(rec)
	log = log.With(logx.String("homework", rec.Name), logx.String("status", string(rec.Status)))

	if err := c.deps.Notifier.Notify(ctx, msg); err != nil {
		ferr := failure.Wrap(failure.KindNotificationDelivery, "poller.notify", "", err)
		logFailure(log, "notification delivery failed", ferr)
		return ferr
	}
	log.Info("notification sent")
	return nil
}

// advance moves from_date forward to the start of the cycle that just
// succeeded. It never moves backwards, even if the clock does.
func (c *Controller) advance(started time.Time) {
	if ts := started.Unix(); ts > c.since {
		c.since = ts
	}
}

func logFailure(log logx.Logger, msg string, err error) {
	fields := []logx.Field{logx.String("kind", failure.KindOf(err).String()), logx.Err(err)}
	if d := failure.DetailOf(err); d != "" {
		fields = append(fields, logx.String("reason", d))
	}
	log.Error(msg, fields...)
}
