package sse

// ChannelVariant names a stream of events an observer can subscribe to.
type ChannelVariant string

// change is a single event sent on a channel.
type change struct {
	Event   string
	Payload any
}

type channel interface {
	Close()
	Forget(address string)
	Observe(address string) <-chan change
	Replay(res ResponseWriter) error
	Variant() ChannelVariant
}
