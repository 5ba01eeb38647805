package config

// SetPathForTest points the app configuration at a file.
func (a *App) SetPathForTest(path string) {
	a.path = path
}

// NewLoggerForTest builds a Logger bypassing flag parsing.
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}

// NewNotifyForTest builds a Notify bypassing flag parsing.
func NewNotifyForTest(channel string) *Notify {
	return &Notify{channel: channel}
}
