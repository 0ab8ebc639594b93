package common

import (
	"sync"
)

// DefaultObserverBuffer is the number of changes an observer can lag behind before changes get dropped for it.
const DefaultObserverBuffer = 32

// Broadcaster fans changes out to observers identified by address.
// Send never blocks: an observer that does not keep up loses changes instead of stalling the sender.
type Broadcaster[CT any] struct {
	bufferSize int
	dropped    func(address string, change CT)
	lock       *sync.RWMutex
	observers  map[string]chan CT
}

// NewBroadcaster creates a broadcaster. Dropped, when not nil, is called for every change an observer missed.
func NewBroadcaster[CT any](bufferSize int, dropped func(address string, change CT)) *Broadcaster[CT] {
	if bufferSize <= 0 {
		bufferSize = DefaultObserverBuffer
	}

	return &Broadcaster[CT]{
		bufferSize: bufferSize,
		dropped:    dropped,
		lock:       &sync.RWMutex{},
		observers:  map[string]chan CT{},
	}
}

// Observe registers observer under the address and returns the channel on which it receives changes.
// Observing again with the same address replaces (and closes) the previous channel.
func (b *Broadcaster[CT]) Observe(address string) <-chan CT {
	changes := make(chan CT, b.bufferSize)

	b.lock.Lock()
	defer b.lock.Unlock()

	if previous, ok := b.observers[address]; ok {
		close(previous)
	}
	b.observers[address] = changes

	return changes
}

// Forget removes the observer and closes its channel.
func (b *Broadcaster[CT]) Forget(address string) {
	b.lock.Lock()
	defer b.lock.Unlock()

	changes, ok := b.observers[address]
	if !ok {
		return
	}

	close(changes)
	delete(b.observers, address)
}

func (b *Broadcaster[CT]) Send(change CT) {
	b.lock.RLock()
	defer b.lock.RUnlock()

	for address, observer := range b.observers {
		select {
		case observer <- change:
		default:
			if b.dropped != nil {
				b.dropped(address, change)
			}
		}
	}
}

// Observers returns number of registered observers.
func (b *Broadcaster[CT]) Observers() int {
	b.lock.RLock()
	defer b.lock.RUnlock()

	return len(b.observers)
}

// Close forgets every observer.
func (b *Broadcaster[CT]) Close() {
	b.lock.Lock()
	defer b.lock.Unlock()

	for address, changes := range b.observers {
		close(changes)
		delete(b.observers, address)
	}
}
