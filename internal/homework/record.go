// Package homework turns an untrusted status payload into a typed Record and
// renders Records into chat messages.
package homework

// Status is a review state reported by the API.
type Status string

const (
	StatusApproved  Status = "approved"
	StatusReviewing Status = "reviewing"
	StatusRejected  Status = "rejected"
)

// Known reports whether s is one of the statuses the bot can render.
func (s Status) Known() bool {
	_, ok := verdicts[s]
	return ok
}

// Record is a validated homework status. Only Validate builds one, so a
// Record in hand always has a non-empty Name and a known Status. Records are
// compared with ==.
type Record struct {
	Name   string
	Status Status
}
