package poller

type State int

const (
	StateStarting State = iota
	StatePolling
	StateNotifying
	StateBackoff
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "STARTING"
	case StatePolling:
		return "POLLING"
	case StateNotifying:
		return "NOTIFYING"
	case StateBackoff:
		return "BACKOFF"
	case StateTerminated:
		return "TERMINATED"
	default:
		return "UNKNOWN"
	}
}

// Result summarises how a cycle ended.
type Result int

const (
	// ResultFailed: source unavailable, schema error or unknown status.
	ResultFailed Result = iota
	// ResultNoUpdate: the source returned an empty record list.
	ResultNoUpdate
	// ResultUnchanged: the record equals the previous one.
	ResultUnchanged
	// ResultNotified: the record changed and the notifier was invoked.
	// Err may still hold a delivery failure.
	ResultNotified
)

func (r Result) String() string {
	switch r {
	case ResultFailed:
		return "failed"
	case ResultNoUpdate:
		return "no_update"
	case ResultUnchanged:
		return "unchanged"
	case ResultNotified:
		return "notified"
	default:
		return "unknown"
	}
}
