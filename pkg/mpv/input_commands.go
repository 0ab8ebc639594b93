package mpv

const (
	loadfileCommand        = "loadfile"
	setPropertyCommand     = "set_property"
	observePropertyCommand = "observe_property_string"
	stopCommand            = "stop"
)
