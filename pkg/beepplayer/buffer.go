package beepplayer

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep/v2"
)

const (
	decodeChunkSize = 4096
)

// bufferedStreamer decouples decoding (which may wait for the network) from the audio output.
// It outputs silence instead of blocking the output when the buffer runs dry,
// and does not resume until the buffer has been refilled to resumeFill samples.
type bufferedStreamer struct {
	buffering  atomic.Bool
	drained    atomic.Bool
	err        error
	errLock    *sync.Mutex
	finished   atomic.Bool
	resumeFill int
	samples    chan [2]float64
}

func newBufferedStreamer(size int) *bufferedStreamer {
	b := &bufferedStreamer{
		errLock:    &sync.Mutex{},
		resumeFill: size / 2,
		samples:    make(chan [2]float64, size),
	}
	b.buffering.Store(true)

	return b
}

// decode moves samples from the decoder into the buffer until the decoder is exhausted or ctx is done.
func (b *bufferedStreamer) decode(ctx context.Context, decoder beep.StreamSeekCloser) {
	defer func() {
		decoder.Close()
		b.finished.Store(true)
		close(b.samples)
	}()

	decoded := make([][2]float64, decodeChunkSize)
	for {
		n, ok := decoder.Stream(decoded)
		for i := 0; i < n; i++ {
			select {
			case <-ctx.Done():
				return
			case b.samples <- decoded[i]:
			}
		}

		if !ok {
			if err := decoder.Err(); err != nil {
				b.setErr(err)
			}

			return
		}
	}
}

func (b *bufferedStreamer) Stream(samples [][2]float64) (int, bool) {
	if b.drained.Load() {
		return 0, false
	}

	if b.buffering.Load() {
		if len(b.samples) < b.resumeFill && !b.finished.Load() {
			silence(samples)
			return len(samples), true
		}

		b.buffering.Store(false)
	}

	for i := range samples {
		select {
		case sample, ok := <-b.samples:
			if !ok {
				b.drained.Store(true)
				if i == 0 {
					return 0, false
				}

				silence(samples[i:])
				return len(samples), true
			}

			samples[i] = sample
		default:
			b.buffering.Store(true)
			silence(samples[i:])
			return len(samples), true
		}
	}

	return len(samples), true
}

func (b *bufferedStreamer) Err() error {
	return nil
}

// stalled reports whether the output is held on silence waiting for the buffer to refill.
func (b *bufferedStreamer) stalled() bool {
	return b.buffering.Load() && len(b.samples) < b.resumeFill && !b.finished.Load()
}

// fill returns how close the buffer is to the level at which output resumes, in percents.
func (b *bufferedStreamer) fill() int {
	if b.finished.Load() || b.resumeFill == 0 {
		return 100
	}

	return min(len(b.samples)*100/b.resumeFill, 100)
}

func (b *bufferedStreamer) decodeErr() error {
	b.errLock.Lock()
	defer b.errLock.Unlock()

	return b.err
}

func (b *bufferedStreamer) setErr(err error) {
	b.errLock.Lock()
	defer b.errLock.Unlock()

	b.err = err
}

func silence(samples [][2]float64) {
	for i := range samples {
		samples[i] = [2]float64{}
	}
}
