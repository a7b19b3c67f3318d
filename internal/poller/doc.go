// Package poller runs the poll-validate-diff-notify cycle.
//
// A Controller moves through STARTING, POLLING, NOTIFYING, BACKOFF and
// TERMINATED. Only a missing secret at start is fatal; every other failure
// is logged, the cycle is abandoned, and the loop waits the fixed interval
// before polling again.
//
// The controller keeps two pieces of state between cycles, both in memory
// and both owned by the single loop goroutine:
//   - the from_date timestamp sent to the source, advanced after successful
//     cycles only
//   - the last validated record, used to decide whether anything changed
package poller
