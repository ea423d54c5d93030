package security

import (
	"sync"
	"time"
)

// trackerKey identifies a sliding window by guild and user/actor.
type trackerKey struct {
	GuildID string
	UserID  string
}

// BurstTracker keeps a sliding time window of privileged-action timestamps
// per (guild, actor). The state is process-local and intentionally volatile:
// burst detection is a soft real-time heuristic, not an audit record, and it
// resets on restart. The mutex is required because discordgo dispatches
// handlers on separate goroutines.
type BurstTracker struct {
	mu      sync.Mutex
	actions map[trackerKey][]time.Time
}

// NewBurstTracker creates an empty tracker.
func NewBurstTracker() *BurstTracker {
	return &BurstTracker{actions: make(map[trackerKey][]time.Time)}
}

// RecordAndCheck appends "now" to the actor's window, prunes entries older
// than the window, and reports whether the burst threshold was reached. On a
// hit the window is cleared so a single burst triggers exactly one
// remediation, not one per subsequent action.
func (t *BurstTracker) RecordAndCheck(guildID, actorID string, threshold int, window time.Duration, now time.Time) bool {
	if threshold <= 0 {
		return false
	}

	key := trackerKey{GuildID: guildID, UserID: actorID}

	t.mu.Lock()
	defer t.mu.Unlock()

	stamps := append(t.actions[key], now)
	cutoff := now.Add(-window)

	pruned := stamps[:0]
	for _, ts := range stamps {
		if !ts.Before(cutoff) {
			pruned = append(pruned, ts)
		}
	}

	if len(pruned) >= threshold {
		delete(t.actions, key)
		return true
	}

	t.actions[key] = pruned
	return false
}

// Len returns the current window size for an actor. Test helper.
func (t *BurstTracker) Len(guildID, actorID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.actions[trackerKey{GuildID: guildID, UserID: actorID}])
}
