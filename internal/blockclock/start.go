package blockclock

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// Sync applies the wall-clock time of t, in t's location.
func Sync(c *Clock, t time.Time) bool {
	h, m, s := t.Clock()
	return c.SetTime(h, m, s)
}

// Start samples clk every interval and applies the time to c until ctx is
// done. It applies the current time once before the first tick. loc may be
// nil for the clock's own location.
func Start(ctx context.Context, clk clockwork.Clock, c *Clock, interval time.Duration, loc *time.Location) error {
	now := func() time.Time {
		t := clk.Now()
		if loc != nil {
			t = t.In(loc)
		}
		return t
	}

	ticker := clk.NewTicker(interval)
	defer ticker.Stop()

	Sync(c, now())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			Sync(c, now())
		}
	}
}
