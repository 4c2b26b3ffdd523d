package core

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"macrofeed/utils"
)

// NewID generates a new ULID with the given prefix.
// The format is: prefix_ULID
// Example: core.NewID("req") returns "req_01G0EZ1XTM37C5X11SQTDNCTM1"
func NewID(prefix string) string {
	utils.AssertInvariant(prefix != "" && strings.TrimSpace(prefix) != "", "prefix cannot be empty")

	entropy := ulid.Monotonic(rand.Reader, 0)
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)

	return strings.ToLower(strings.TrimSpace(prefix)) + "_" + id.String()
}

// UpdateIDGenerator hands out millisecond-based integer IDs that never repeat within a process.
// When two calls land in the same millisecond the second one is bumped past the first.
type UpdateIDGenerator struct {
	mu     sync.Mutex
	last   int64
	nowFun func() time.Time
}

func NewUpdateIDGenerator() *UpdateIDGenerator {
	return &UpdateIDGenerator{nowFun: time.Now}
}

// NewUpdateIDGeneratorWithClock is used by tests to pin the clock
func NewUpdateIDGeneratorWithClock(nowFun func() time.Time) *UpdateIDGenerator {
	utils.AssertInvariant(nowFun != nil, "clock cannot be nil")
	return &UpdateIDGenerator{nowFun: nowFun}
}

// Next returns the next ID together with the receipt time it was derived from
func (g *UpdateIDGenerator) Next() (int64, time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.nowFun()
	id := now.UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id

	return id, now
}
