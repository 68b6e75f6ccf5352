package store

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TimeLayout is the ISO-8601 layout used for createdAt/updatedAt.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// NewID returns a time-prefixed identifier with a random suffix.
func NewID() string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), suffix)
}

// clock issues strictly increasing timestamps, so two writes to the same
// record never share an updatedAt even within one millisecond.
type clock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

func newClock() *clock {
	return &clock{now: time.Now}
}

func (c *clock) stamp() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC().Truncate(time.Millisecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Millisecond)
	}
	c.last = t
	return t.Format(TimeLayout)
}
