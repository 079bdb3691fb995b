package alerting

import (
	"sync"
	"time"

	"github.com/fundwatch/fundwatch/internal/datastore/entities"
)

// CooldownTracker suppresses repeat fires of a rule inside its cooldown
// window. The in-memory view is seeded from the persisted LastTriggered
// stamps at startup so a restart does not re-fire everything at once.
type CooldownTracker struct {
	mu        sync.RWMutex
	lastFired map[string]time.Time
}

// NewCooldownTracker creates an empty tracker.
func NewCooldownTracker() *CooldownTracker {
	return &CooldownTracker{lastFired: make(map[string]time.Time)}
}

// Seed records the persisted last-trigger times of the given rules.
// Rules that never fired are left untracked.
func (c *CooldownTracker) Seed(rules []entities.AlertRule) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range rules {
		if rules[i].LastTriggered != nil {
			c.lastFired[rules[i].ID] = *rules[i].LastTriggered
		}
	}
}

// InCooldown reports whether the rule fired within the cooldown window
// ending at now. A zero cooldown never suppresses.
func (c *CooldownTracker) InCooldown(ruleID string, cooldown time.Duration, now time.Time) bool {
	if cooldown <= 0 {
		return false
	}
	c.mu.RLock()
	last, ok := c.lastFired[ruleID]
	c.mu.RUnlock()
	return ok && now.Sub(last) < cooldown
}

// MarkFired records that the rule fired at now.
func (c *CooldownTracker) MarkFired(ruleID string, now time.Time) {
	c.mu.Lock()
	c.lastFired[ruleID] = now
	c.mu.Unlock()
}

// Clear drops a rule's cooldown state, typically after the rule is
// updated or deleted.
func (c *CooldownTracker) Clear(ruleID string) {
	c.mu.Lock()
	delete(c.lastFired, ruleID)
	c.mu.Unlock()
}
