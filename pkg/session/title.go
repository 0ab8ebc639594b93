package session

import (
	"net/url"
	"path"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/unicode/norm"
)

var (
	audioExtensions = []string{".mp3", ".flac", ".wav", ".aac", ".ogg", ".opus", ".m4a"}
)

// DeriveTitle makes a human readable title out of a track uri:
// the last path element without query, fragment and a known audio extension, with underscores turned into spaces.
// The uri itself is returned when nothing readable is left.
func DeriveTitle(uri string) string {
	title := uri
	if idx := strings.IndexAny(title, "?#"); idx != -1 {
		title = title[:idx]
	}

	title = strings.ReplaceAll(title, "\\", "/")
	title = path.Base(strings.TrimRight(title, "/"))
	if unescaped, err := url.PathUnescape(title); err == nil {
		title = unescaped
	}

	ext := path.Ext(title)
	if lo.Contains(audioExtensions, strings.ToLower(ext)) {
		title = strings.TrimSuffix(title, ext)
	}

	title = strings.ReplaceAll(title, "_", " ")
	title = strings.Join(strings.Fields(title), " ")
	title = norm.NFC.String(title)

	if title == "" || title == "." || title == "/" {
		return uri
	}

	return title
}
