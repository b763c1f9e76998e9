// Package notify collects the toast-style messages shown to the user after a
// page load or an action.
package notify

import "sync"

// Level is the severity of a notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Notice is one user-visible message.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier receives user-visible messages.
type Notifier interface {
	Notify(level Level, message string)
}

// Buffer is a Notifier that keeps notices in arrival order. The zero value is
// ready to use.
type Buffer struct {
	mu      sync.Mutex
	notices []Notice
}

// Notify appends a notice. Empty messages are dropped.
func (b *Buffer) Notify(level Level, message string) {
	if message == "" {
		return
	}
	b.mu.Lock()
	b.notices = append(b.notices, Notice{Level: level, Message: message})
	b.mu.Unlock()
}

// Success is shorthand for Notify(LevelSuccess, message).
func (b *Buffer) Success(message string) { b.Notify(LevelSuccess, message) }

// Error is shorthand for Notify(LevelError, message).
func (b *Buffer) Error(message string) { b.Notify(LevelError, message) }

// Notices returns a copy of the collected notices.
func (b *Buffer) Notices() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Notice, len(b.notices))
	copy(out, b.notices)
	return out
}

// Discard drops every notice.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(Level, string) {}
