package main

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// clickInterval is the sustained rate a single user may click components at.
	clickInterval = 500 * time.Millisecond

	// clickBurst is how many clicks a user may make back to back.
	clickBurst = 3

	// throttleIdle is how long a user's limiter is kept after their last click.
	throttleIdle = 10 * time.Minute
)

type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clickThrottle limits how fast each user can click buttons and selects.
type clickThrottle struct {
	limit rate.Limit
	burst int
	idle  time.Duration
	now   func() time.Time

	mtx       sync.Mutex
	users     map[string]*userLimiter
	lastPrune time.Time
}

func newClickThrottle() *clickThrottle {
	return &clickThrottle{
		limit: rate.Every(clickInterval),
		burst: clickBurst,
		idle:  throttleIdle,
		now:   time.Now,
		users: make(map[string]*userLimiter),
	}
}

// Allow reports whether the user may click now. Clicks without a user are always allowed.
func (c *clickThrottle) Allow(userID string) bool {
	if userID == "" {
		return true
	}

	c.mtx.Lock()
	defer c.mtx.Unlock()

	now := c.now()
	c.prune(now)

	u, ok := c.users[userID]
	if !ok {
		u = &userLimiter{limiter: rate.NewLimiter(c.limit, c.burst)}
		c.users[userID] = u
	}
	u.lastSeen = now
	return u.limiter.AllowN(now, 1)
}

func (c *clickThrottle) prune(now time.Time) {
	if now.Sub(c.lastPrune) < c.idle {
		return
	}
	c.lastPrune = now

	for id, u := range c.users {
		if now.Sub(u.lastSeen) > c.idle {
			delete(c.users, id)
		}
	}
}
