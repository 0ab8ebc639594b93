package common

import (
	"context"
	"sync/atomic"
	"time"
)

// RestartDelay is the pause between a finished handler run and the next one.
var RestartDelay = 500 * time.Millisecond

// RestartWithContext calls handler in a loop, calling afterLoop between runs, until handler returns an error or ctx is done.
// The outcome is sent on result: nil when ctx finished first, handler's error otherwise.
func RestartWithContext(ctx context.Context, handler func() error, afterLoop func(), result chan<- error) {
	loopingDone := make(chan error, 1) // buffered, so the looping goroutine does not leak when ctx is done first
	stopped := &atomic.Bool{}

	go func() {
		defer close(loopingDone)

		for {
			err := handler()
			if err != nil {
				loopingDone <- err
				return
			}

			if stopped.Load() {
				return
			}

			afterLoop()

			select {
			case <-ctx.Done():
				return
			case <-time.After(RestartDelay):
			}
		}
	}()

	select {
	case <-ctx.Done():
		stopped.Store(true)
		result <- nil
	case err := <-loopingDone:
		result <- err
	}
}
