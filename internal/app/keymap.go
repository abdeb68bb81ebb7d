package app

// Key binding constants used in handleKey.
const (
	KeyQuit         = "q"
	KeyQuitUpper    = "Q"
	KeyCtrlC        = "ctrl+c"
	KeySpace        = " "
	KeyPlayStop     = "s"
	KeyTab          = "tab"
	KeyCopy         = "y"
	KeyMultiSelect  = "m"
	KeyMultiPlay    = "M"
	KeyPresentation = "p"
	KeyPropagate    = "P"
	KeyTimeCode     = "t"
	KeySave         = "w"
	KeyCloseWindow  = "c"
	KeyEditToggle   = "e"
	KeySeekBack     = "left"
	KeySeekFwd      = "right"
)
