package engine

import "sync"

// Queue is an unbounded FIFO of notifications.
// Push never blocks, so threads owned by an engine cannot be stalled by a busy consumer.
type Queue struct {
	closeOnce *sync.Once
	done      chan struct{}
	items     []Notification
	lock      *sync.Mutex
	out       chan Notification
	pending   chan struct{}
}

// NewQueue creates a queue and starts delivering pushed notifications on Out.
func NewQueue() *Queue {
	q := &Queue{
		closeOnce: &sync.Once{},
		done:      make(chan struct{}),
		lock:      &sync.Mutex{},
		out:       make(chan Notification),
		pending:   make(chan struct{}, 1),
	}

	go q.deliver()

	return q
}

// Push appends notification to the queue. Pushing to a closed queue drops the notification.
func (q *Queue) Push(n Notification) {
	select {
	case <-q.done:
		return
	default:
	}

	q.lock.Lock()
	q.items = append(q.items, n)
	q.lock.Unlock()

	select {
	case q.pending <- struct{}{}:
	default:
	}
}

// Out returns the channel on which notifications are delivered in push order.
// The channel is closed after Close.
func (q *Queue) Out() <-chan Notification {
	return q.out
}

// Close stops delivery. Notifications not yet delivered are dropped.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.done)
	})
}

func (q *Queue) deliver() {
	defer close(q.out)

	for {
		n, ok := q.pop()
		if !ok {
			select {
			case <-q.pending:
				continue
			case <-q.done:
				return
			}
		}

		select {
		case q.out <- n:
		case <-q.done:
			return
		}
	}
}

func (q *Queue) pop() (Notification, bool) {
	q.lock.Lock()
	defer q.lock.Unlock()

	if len(q.items) == 0 {
		return Notification{}, false
	}

	n := q.items[0]
	q.items[0] = Notification{}
	q.items = q.items[1:]

	return n, true
}
