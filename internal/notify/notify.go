// Package notify carries user-visible notices (toasts) from the core to the UI.
package notify

import (
	"log/slog"
	"sync"
	"time"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Notice struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier receives notices.
type Notifier interface {
	Notify(n Notice)
}

// Func adapts a function to Notifier.
type Func func(Notice)

func (f Func) Notify(n Notice) { f(n) }

func Success(n Notifier, msg string) { send(n, LevelSuccess, msg) }
func Warning(n Notifier, msg string) { send(n, LevelWarning, msg) }
func Error(n Notifier, msg string)   { send(n, LevelError, msg) }

func send(n Notifier, level Level, msg string) {
	if n == nil {
		return
	}
	n.Notify(Notice{Level: level, Message: msg, At: time.Now().UTC()})
}

// Inbox buffers the most recent notices until the UI drains them.
type Inbox struct {
	mu      sync.Mutex
	limit   int
	notices []Notice
	log     *slog.Logger
}

// NewInbox keeps at most limit notices; older ones are dropped first.
func NewInbox(limit int, log *slog.Logger) *Inbox {
	if limit <= 0 {
		limit = 50
	}
	if log == nil {
		log = slog.Default()
	}
	return &Inbox{limit: limit, log: log}
}

func (b *Inbox) Notify(n Notice) {
	switch n.Level {
	case LevelError:
		b.log.Warn("notice", "level", n.Level, "message", n.Message)
	default:
		b.log.Debug("notice", "level", n.Level, "message", n.Message)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices = append(b.notices, n)
	if over := len(b.notices) - b.limit; over > 0 {
		b.notices = append([]Notice(nil), b.notices[over:]...)
	}
}

// Drain returns buffered notices oldest first and empties the inbox.
func (b *Inbox) Drain() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.notices
	b.notices = nil
	if out == nil {
		out = []Notice{}
	}
	return out
}
