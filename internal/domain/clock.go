package domain

import "github.com/jonboulle/clockwork"

// clock stamps snapshots with their preparation time. Tests freeze it via
// SetClock so serialized output stays stable.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used by NewSnapshot. Pass nil to reset to
// real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
