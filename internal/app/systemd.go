package app

import (
	"fmt"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"hwbot/internal/poller"
	logx "hwbot/pkg/logx"
)

// systemdNotifier reports readiness and per-cycle status to systemd when the
// process runs as a Type=notify unit. Outside systemd every call is a no-op.
type systemdNotifier struct {
	log    logx.Logger
	notify func(state string) (bool, error)
}

func newSystemdNotifier(log logx.Logger) *systemdNotifier {
	return &systemdNotifier{
		log:    log,
		notify: func(state string) (bool, error) { return daemon.SdNotify(false, state) },
	}
}

func (s *systemdNotifier) send(state string) {
	sent, err := s.notify(state)
	if err != nil {
		s.log.Warn("sd_notify failed", logx.Err(err))
		return
	}
	if sent {
		s.log.Debug("sd_notify", logx.String("state", state))
	}
}

func (s *systemdNotifier) Ready()    { s.send(daemon.SdNotifyReady) }
func (s *systemdNotifier) Stopping() { s.send(daemon.SdNotifyStopping) }

func (s *systemdNotifier) Status(o poller.Outcome, interval time.Duration) {
	s.send("STATUS=" + statusLine(o, interval))
}

func statusLine(o poller.Outcome, interval time.Duration) string {
	line := fmt.Sprintf("last cycle %s at %s", o.Result, o.Started.Format(time.RFC3339))
	if o.Result == poller.ResultNotified || o.Result == poller.ResultUnchanged {
		line += fmt.Sprintf(" (%s: %s)", o.Record.Name, o.Record.Status)
	}
	return line + fmt.Sprintf("; next poll in %s", interval)
}
