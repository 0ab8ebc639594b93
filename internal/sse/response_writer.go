package sse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
)

var (
	errResponseJSONCreationFailed = errors.New("could not create JSON for response")
	errClientWritingFailed        = errors.New("could not write to the client")
	errConvertToFlusherFailed     = errors.New("could not instantiate http sse flusher")
)

// ResponseWriter is used to send data through keep-alive SSE connection.
// The writer and flusher are protected by lock since multiple go routines use the same connection to send events.
type ResponseWriter struct {
	res     http.ResponseWriter
	flusher http.Flusher
	lock    *sync.Mutex
}

func newResponseWriter(res http.ResponseWriter) (ResponseWriter, error) {
	flusher, ok := res.(http.Flusher)
	if !ok {
		return ResponseWriter{}, errConvertToFlusherFailed
	}

	res.Header().Set("Connection", "keep-alive")
	res.Header().Set("Content-Type", "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")

	return ResponseWriter{
		res:     res,
		flusher: flusher,
		lock:    &sync.Mutex{},
	}, nil
}

// Write sends data through the connection
func (f ResponseWriter) Write(data []byte) (int, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	n, err := f.res.Write(data)
	if err == nil {
		f.flusher.Flush()
	}

	return n, err
}

// SendChange is responsible for propagating change payload through SSE connection.
func (f ResponseWriter) SendChange(payload any, channelVariant ChannelVariant, eventName string) error {
	out, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %s", errResponseJSONCreationFailed, err)
	}

	_, err = f.Write(formatSseEvent(channelVariant, eventName, out))
	if err != nil {
		return fmt.Errorf("writing %s on %s channel failed: %w: %s", eventName, channelVariant, errClientWritingFailed, err)
	}

	return nil
}

func formatSseEvent(channel ChannelVariant, eventName string, data []byte) []byte {
	var out bytes.Buffer

	fmt.Fprintf(&out, "event:%s.%s\n", channel, eventName)
	for _, dataEntry := range bytes.Split(data, []byte("\n")) {
		fmt.Fprintf(&out, "data:%s\n", dataEntry)
	}
	out.WriteString("\n")

	return out.Bytes()
}
