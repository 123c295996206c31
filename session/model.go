package session

import "time"

// Record is the persisted form of one authenticated session: the opaque
// token and the server-supplied expiry.
type Record struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the record is unusable at now.
func (r Record) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}
