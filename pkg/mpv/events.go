package mpv

const (
	// EndFileEvent is emitted when the file is unloaded, Reason tells why.
	EndFileEvent = "end-file"

	// PlaybackRestartEvent is emitted when audio output starts after loading or seeking.
	PlaybackRestartEvent = "playback-restart"

	// StartFileEvent is emitted when mpv starts loading a file.
	StartFileEvent = "start-file"

	propertyChangeEvent = "property-change"
)

const (
	// EndFileReasonEOF means the file has been played to its end.
	EndFileReasonEOF = "eof"

	// EndFileReasonError means the playback has failed, FileError holds the reason.
	EndFileReasonError = "error"

	// EndFileReasonStop means the playback has been stopped by a command (stop, loadfile replace).
	EndFileReasonStop = "stop"
)

// Event is an asynchronous message sent by mpv, other than a property change.
type Event struct {
	Name      string
	Reason    string
	FileError string
}

func eventFromPayload(payload ResponsePayload) Event {
	return Event{
		Name:      payload.Event,
		Reason:    payload.Reason,
		FileError: payload.FileError,
	}
}
