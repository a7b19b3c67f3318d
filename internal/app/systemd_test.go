package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	"hwbot/internal/homework"
	"hwbot/internal/poller"
	logx "hwbot/pkg/logx"
)

func TestStatusLine(t *testing.T) {
	started := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	got := statusLine(poller.Outcome{
		Result:  poller.ResultNotified,
		Record:  homework.Record{Name: "hw1", Status: homework.StatusApproved},
		Started: started,
	}, 10*time.Minute)
	want := "last cycle notified at 2026-10-18T12:00:00Z (hw1: approved); next poll in 10m0s"
	if got != want {
		t.Fatalf("statusLine = %q\nwant         %q", got, want)
	}

	failed := statusLine(poller.Outcome{Result: poller.ResultFailed, Started: started}, time.Minute)
	if strings.Contains(failed, "(") {
		t.Fatalf("failed cycle should not mention a record: %q", failed)
	}
}

func TestSystemdNotifierSendsStates(t *testing.T) {
	var states []string
	sd := &systemdNotifier{log: logx.Nop(), notify: func(state string) (bool, error) {
		states = append(states, state)
		return true, nil
	}}

	sd.Ready()
	sd.Status(poller.Outcome{Result: poller.ResultNoUpdate}, time.Minute)
	sd.Stopping()

	if len(states) != 3 || states[0] != "READY=1" || states[2] != "STOPPING=1" {
		t.Fatalf("states = %q", states)
	}
	if !strings.HasPrefix(states[1], "STATUS=last cycle no_update") {
		t.Fatalf("status = %q", states[1])
	}
}

func TestSystemdNotifierSwallowsErrors(t *testing.T) {
	sd := &systemdNotifier{log: logx.Nop(), notify: func(string) (bool, error) {
		return false, errors.New("socket gone")
	}}
	sd.Ready()
}
