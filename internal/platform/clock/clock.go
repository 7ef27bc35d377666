package clock

import (
	"context"
	"time"
)

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Ticks emits clk.Now() every interval until ctx is done. The first value is
// sent immediately.
func Ticks(ctx context.Context, clk Clock, every time.Duration) <-chan time.Time {
	ch := make(chan time.Time)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case ch <- clk.Now():
			case <-ctx.Done():
				return
			}
			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
