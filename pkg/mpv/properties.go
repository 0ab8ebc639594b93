package mpv

const (
	// CacheBufferingStateProperty informs about cache fill level in percents, while the playback waits for the cache.
	CacheBufferingStateProperty = "cache-buffering-state"

	// MediaTitleProperty is the title of the loaded file as reported by its metadata, or the filename when no metadata is present.
	MediaTitleProperty = "media-title"

	// PauseProperty is used for pausing or unpausing playback.
	PauseProperty = "pause"

	// PausedForCacheProperty informs whether the playback is paused due to the cache being underrun.
	PausedForCacheProperty = "paused-for-cache"

	// VolumeProperty is used for setting and reading volume in percents.
	VolumeProperty = "volume"
)
