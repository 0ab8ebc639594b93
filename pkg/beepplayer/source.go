package beepplayer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

const (
	userAgentHeader = "User-Agent"
	userAgent       = "ost-player"
)

var (
	// ErrUnsupportedFormat informs about a track in a format none of the decoders handles.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)

type decodeFunc func(io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

var (
	decodersByExtension = map[string]decodeFunc{
		".mp3":  mp3.Decode,
		".flac": decodeFlac,
		".wav":  decodeWav,
		".ogg":  vorbis.Decode,
		".oga":  vorbis.Decode,
	}

	decodersByContentType = map[string]decodeFunc{
		"audio/mpeg":   mp3.Decode,
		"audio/mp3":    mp3.Decode,
		"audio/flac":   decodeFlac,
		"audio/x-flac": decodeFlac,
		"audio/wav":    decodeWav,
		"audio/x-wav":  decodeWav,
		"audio/wave":   decodeWav,
		"audio/ogg":    vorbis.Decode,
		"audio/vorbis": vorbis.Decode,
	}
)

type httpStatusError struct {
	StatusCode int
	Status     string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("track returned status %d: %s", e.StatusCode, e.Status)
}

// source is an opened track together with a decoder able to read it.
type source struct {
	body   io.ReadCloser
	decode decodeFunc
}

func openSource(ctx context.Context, client *http.Client, uri string) (source, error) {
	u, err := url.Parse(uri)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return openRemoteSource(ctx, client, u)
	}

	filePath := uri
	if err == nil && u.Scheme == "file" {
		filePath = u.Path
	}

	decode, ok := decodersByExtension[strings.ToLower(path.Ext(filePath))]
	if !ok {
		return source{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return source{}, fmt.Errorf("could not open track: %w", err)
	}

	return source{body: file, decode: decode}, nil
}

func openRemoteSource(ctx context.Context, client *http.Client, u *url.URL) (source, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return source{}, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set(userAgentHeader, userAgent)

	res, err := client.Do(req)
	if err != nil {
		return source{}, fmt.Errorf("could not fetch track: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		res.Body.Close()
		return source{}, &httpStatusError{StatusCode: res.StatusCode, Status: res.Status}
	}

	decode, ok := decodersByExtension[strings.ToLower(path.Ext(u.Path))]
	if !ok {
		mediaType, _, _ := mime.ParseMediaType(res.Header.Get("Content-Type"))
		decode, ok = decodersByContentType[mediaType]
	}

	if !ok {
		res.Body.Close()
		return source{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, u.Redacted())
	}

	return source{body: res.Body, decode: decode}, nil
}

func decodeFlac(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	return flac.Decode(rc)
}

func decodeWav(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	return wav.Decode(rc)
}
