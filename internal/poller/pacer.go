package poller

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// Pacer implements the BACKOFF wait.
type Pacer interface {
	Wait(ctx context.Context) error
}

// IntervalPacer waits a constant interval, whatever the previous cycle did.
// The delay follows cron.ConstantDelaySchedule: intervals below one second are
// rounded up to one second, and each wait ends on a whole second. The wait
// itself is a context-aware timer.
type IntervalPacer struct {
	schedule cron.ConstantDelaySchedule
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

func NewIntervalPacer(interval time.Duration) *IntervalPacer {
	return &IntervalPacer{
		schedule: cron.Every(interval),
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// Interval returns the effective delay.
func (p *IntervalPacer) Interval() time.Duration { return p.schedule.Delay }

// Next returns how long Wait would sleep if called now.
func (p *IntervalPacer) Next() time.Duration {
	now := p.now()
	return p.schedule.Next(now).Sub(now)
}

func (p *IntervalPacer) Wait(ctx context.Context) error {
	return p.sleep(ctx, p.Next())
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
