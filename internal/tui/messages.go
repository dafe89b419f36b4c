package tui

// FileChangedMsg signals that the followed file was written.
type FileChangedMsg struct{}

// ContentLoadedMsg carries the followed file's lines.
type ContentLoadedMsg struct {
	Lines []string
	Size  int64
}

// ErrorMsg carries an error to display.
type ErrorMsg struct {
	Err error
}
