package model

import "time"

// RateLimit is the core REST API quota of the authenticated client.
type RateLimit struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	Reset     time.Time `json:"reset"`
}

// Exhausted reports whether no request remains in the current window.
func (x *RateLimit) Exhausted() bool {
	return x.Remaining == 0
}
