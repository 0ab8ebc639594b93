package mpv

import (
	"bytes"
	"encoding/json"
	"io"
)

const (
	bufSize = 512
)

var (
	newline = []byte("\n")
)

type responsesIterator struct {
	accumulator []byte
	reader      io.Reader
}

// NewResponsesIterator creates an iterator which returns ResponsePayload processed from
// provided connection.
func NewResponsesIterator(reader io.Reader) *responsesIterator {
	return &responsesIterator{
		reader: reader,
	}
}

// Next returns ResponsePayload fetched from a mpv socket connection.
// It blocks until a valid, newline-separated JSON is provided through the connection.
// If the newline-separated data does not form a correct JSON response, it fetches newline separated
// chunks of data and aggregates them until a correct JSON response is formed.
// Not every call to Next results in reading from a socket - if previous call to Next
// resulted in more than one newline-separated payloads being read, Next will process
// payload right after the one returned on previous call without reading new data from socket.
func (ri *responsesIterator) Next() (ResponsePayload, error) {
	var payload []byte

	for {
		chunk, err := ri.getNonEmptyChunkFromAccumulator()
		if err != nil {
			return ResponsePayload{}, err
		}

		payload = append(payload, chunk...)
		if json.Valid(payload) {
			break
		}
	}

	return getResponsePayload(payload)
}

func (ri *responsesIterator) fetchIntoAccumulator() (int, error) {
	buf := make([]byte, bufSize)

	nRead, err := ri.reader.Read(buf)
	if nRead > 0 {
		ri.accumulator = append(ri.accumulator, buf[:nRead]...)
	}

	if err != nil {
		return nRead, err
	}

	return nRead, nil
}

// getNonEmptyChunkFromAccumulator reads accumulator until newline-separated non-empty chunk can be returned.
// Accumulator is read without making a read from socket as long as it contains any newlines.
// When accumulator does not contain any newlines anymore, socket is being read until it contains a non-empty newline.
func (ri *responsesIterator) getNonEmptyChunkFromAccumulator() ([]byte, error) {
	firstNewByteIdx := 0

	for {
		newlineIdx := bytes.Index(ri.accumulator[firstNewByteIdx:], newline)
		if newlineIdx != -1 {
			chunk := ri.takeFromAccumulator(newlineIdx + firstNewByteIdx)
			firstNewByteIdx = 0
			if len(chunk) == 0 {
				continue // consecutive newlines - discard and continue searching/fetching.
			}

			return chunk, nil
		}

		nRead, err := ri.fetchIntoAccumulator()
		if err != nil {
			return nil, err
		}

		firstNewByteIdx = len(ri.accumulator) - nRead // A newline can only be on last nRead bytes, otherwise the read from socket would not occur.
	}
}

// takeFromAccumulator takes bytes up to newlineIdx and discards the newline at newlineIdx.
func (ri *responsesIterator) takeFromAccumulator(newlineIdx int) []byte {
	result := append([]byte(nil), ri.accumulator[:newlineIdx]...)
	ri.accumulator = append([]byte(nil), ri.accumulator[newlineIdx+1:]...)

	return result
}
