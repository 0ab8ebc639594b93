package utils

import (
	"context"
	"sync"
)

// Background runs goroutines on a context of their own, cancelled only by Close.
// Engine connections started with it stay usable until the session has been shut down.
type Background struct {
	cancel context.CancelFunc
	ctx    context.Context
	wg     *sync.WaitGroup
}

func NewBackground() *Background {
	ctx, cancel := context.WithCancel(context.Background())

	return &Background{
		cancel: cancel,
		ctx:    ctx,
		wg:     &sync.WaitGroup{},
	}
}

// Go runs routine until the context passed to it is done.
func (b *Background) Go(routine func(ctx context.Context)) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		routine(b.ctx)
	}()
}

// Close calls shutdown first, then cancels the context of routines and waits for them to return.
func (b *Background) Close(shutdown func()) {
	if shutdown != nil {
		shutdown()
	}

	b.cancel()
	b.wg.Wait()
}
