package keystore

import (
	"sync"
	"time"

	"github.com/lightningnetwork/lnd/clock"
)

// SessionDuration bounds how long a decrypted seed stays in memory before the
// wallet locks again. Compiled-in, not configurable.
const SessionDuration = 15 * time.Minute

// SessionCache is a single-slot, process-local cache of the decrypted seed
// phrase. It exists so a user is not re-prompted for the password on every
// signature within a bounded window; the slot is zeroed on expiry and clear.
//
// The clock is injected so tests can drive expiry without waiting.
type SessionCache struct {
	mu        sync.Mutex
	clock     clock.Clock
	seed      []byte
	expiresAt time.Time
}

// NewSessionCache creates a SessionCache with the given clock.
func NewSessionCache(clk clock.Clock) *SessionCache {
	return &SessionCache{clock: clk}
}

// Set stores a copy of the seed and starts a fresh expiry window. Any prior
// entry is zeroed first.
func (c *SessionCache) Set(seed []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.wipeLocked()
	c.seed = make([]byte, len(seed))
	copy(c.seed, seed)
	c.expiresAt = c.clock.Now().Add(SessionDuration)
}

// Get returns a copy of the cached seed, or nil if the slot is empty or the
// window has expired. Expiry is lazy: an expired slot is zeroed on the read
// that discovers it. Get never extends the window; extension is a deliberate,
// separate call so that idle sessions still lock.
//
// The caller must zero the returned copy after use.
func (c *SessionCache) Get() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.seed == nil {
		return nil
	}
	if c.clock.Now().After(c.expiresAt) {
		c.wipeLocked()
		return nil
	}

	out := make([]byte, len(c.seed))
	copy(out, c.seed)
	return out
}

// Extend resets the expiry window. Called on explicit user activity, e.g.
// right before a new signing operation. Expiry is terminal: extending an
// already expired slot wipes it instead of reviving it, so activity after
// the window closed still requires the password.
func (c *SessionCache) Extend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.seed == nil {
		return
	}
	if c.clock.Now().After(c.expiresAt) {
		c.wipeLocked()
		return
	}
	c.expiresAt = c.clock.Now().Add(SessionDuration)
}

// Clear overwrites the cached seed bytes and empties the slot. Must be called
// on logout and process teardown.
func (c *SessionCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.wipeLocked()
}

// Active reports whether a non-expired seed is cached.
func (c *SessionCache) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seed != nil && !c.clock.Now().After(c.expiresAt)
}

// wipeLocked overwrites the buffer before dropping the reference, so the
// plaintext does not linger until the GC gets to it. Caller holds mu.
func (c *SessionCache) wipeLocked() {
	clear(c.seed)
	c.seed = nil
	c.expiresAt = time.Time{}
}
