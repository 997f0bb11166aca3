package helpers

// Key constants shared by the TUI models
const (
	KeyCtrlC = "ctrl+c"
	KeyEnter = "enter"
	KeyEsc   = "esc"
	KeySpace = " "
)
