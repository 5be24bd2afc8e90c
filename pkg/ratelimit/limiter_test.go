package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newTestLimiter(rps float64, burst int, ttl time.Duration) (*UserLimiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewUserLimiter(rps, burst, ttl)
	l.now = clock.Now
	return l, clock
}

func TestUserLimiterBurstThenRefill(t *testing.T) {
	l, clock := newTestLimiter(1, 2, time.Minute)

	assert.True(t, l.Allow("user:a"))
	assert.True(t, l.Allow("user:a"))
	assert.False(t, l.Allow("user:a"))
	assert.True(t, l.Allow("user:b"))

	clock.now = clock.now.Add(time.Second)
	assert.True(t, l.Allow("user:a"))
	assert.False(t, l.Allow("user:a"))
}

func TestUserLimiterDisabled(t *testing.T) {
	l, _ := newTestLimiter(0, 1, time.Minute)
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("user:a"))
	}

	var nilLimiter *UserLimiter
	assert.True(t, nilLimiter.Allow("user:a"))
}

func TestUserLimiterSweep(t *testing.T) {
	l, clock := newTestLimiter(5, 5, time.Minute)

	l.Allow("user:old")
	clock.now = clock.now.Add(45 * time.Second)
	l.Allow("user:recent")
	assert.Equal(t, 2, l.Len())

	clock.now = clock.now.Add(30 * time.Second)
	assert.Equal(t, 1, l.Sweep())
	assert.Equal(t, 1, l.Len())

	clock.now = clock.now.Add(2 * time.Minute)
	assert.Equal(t, 1, l.Sweep())
	assert.Zero(t, l.Len())
}
