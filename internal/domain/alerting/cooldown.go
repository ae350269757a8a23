package alerting

import (
	"sync"
	"time"
)

// Key identifies one alert kind for cooldown purposes.
type Key struct {
	Source Source
	Type   Type
}

// CooldownTable suppresses re-emission of an alert kind until its cooldown
// window has elapsed, even while the triggering condition stays true.
type CooldownTable struct {
	mu       sync.Mutex
	window   time.Duration
	lastFire map[Key]time.Time
}

// NewCooldownTable creates a table with the given window.
func NewCooldownTable(window time.Duration) *CooldownTable {
	return &CooldownTable{
		window:   window,
		lastFire: make(map[Key]time.Time),
	}
}

// Allow reports whether an alert of the given kind may fire now, and if so
// records the emission.
func (t *CooldownTable) Allow(key Key) bool {
	return t.AllowAt(key, time.Now())
}

// AllowAt is Allow with an explicit clock, for tests.
func (t *CooldownTable) AllowAt(key Key, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if last, ok := t.lastFire[key]; ok && now.Sub(last) < t.window {
		return false
	}
	t.lastFire[key] = now
	return true
}
