// Package walker drives the two zone-enumeration strategies (NSEC and
// NSEC3) against a live authoritative server through a queryprovider,
// classifying every response and reacting per §4.4/§4.5.
package walker

import "errors"

// Fatal walker-level errors (§7's taxonomy: walker-level misbehaviour and
// invariant violations bubble up and abort the walk).
var (
	ErrNSECWalk          = errors.New("walker: NSEC walk error")
	ErrNSEC3Walk         = errors.New("walker: NSEC3 walk error")
	ErrZoneChanged       = errors.New("walker: zone changed mid-walk")
	ErrMinimallyCovering = errors.New("walker: zone serves minimally covering NSEC3 (RFC 7129 white lies)")
)

// ErrHashLimitReached signals the configured hashlimit was exceeded. It is
// an expected termination, not a failure (§7).
var ErrHashLimitReached = errors.New("walker: hash limit reached")
