// Package report is the message channel between the engine and its host.
// Warnings and progress go through a Reporter; fatal conditions are returned
// as errors instead.
package report

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/indaco/stamp/internal/printer"
)

// Reporter receives user-facing messages from a run.
type Reporter interface {
	// Info reports a high-importance progress message.
	Info(msg string)
	// Warn reports a recoverable problem; processing continues.
	Warn(msg string)
	// Debug reports a low-importance trace message with optional key/value pairs.
	Debug(msg string, keyvals ...any)
}

// Console prints Info and Warn through the printer styles and routes Debug
// to a charmbracelet/log logger that is only enabled in verbose mode.
type Console struct {
	logger *log.Logger
}

// NewConsole creates a Console. Debug output goes to w (stderr when nil).
func NewConsole(w io.Writer, verbose bool) *Console {
	if w == nil {
		w = os.Stderr
	}
	logger := log.NewWithOptions(w, log.Options{
		Prefix: "stamp",
		Level:  log.InfoLevel,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return &Console{logger: logger}
}

func (c *Console) Info(msg string) {
	printer.Print(printer.Info, msg)
}

func (c *Console) Warn(msg string) {
	printer.Print(printer.Warning, "warning: "+msg)
}

func (c *Console) Debug(msg string, keyvals ...any) {
	c.logger.Debug(msg, keyvals...)
}

// Discard drops every message. It backs the "silent" option.
type Discard struct{}

func (Discard) Info(string)          {}
func (Discard) Warn(string)          {}
func (Discard) Debug(string, ...any) {}

// Level classifies a recorded message.
type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelDebug Level = "debug"
)

// Entry is one recorded message.
type Entry struct {
	Level   Level
	Message string
}

// Recorder keeps every message in memory.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Info(msg string)            { r.add(LevelInfo, msg) }
func (r *Recorder) Warn(msg string)            { r.add(LevelWarn, msg) }
func (r *Recorder) Debug(msg string, _ ...any) { r.add(LevelDebug, msg) }

func (r *Recorder) add(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: msg})
}

// Entries returns a copy of the recorded messages.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Messages returns the recorded messages of the given level.
func (r *Recorder) Messages(level Level) []string {
	var msgs []string
	for _, e := range r.Entries() {
		if e.Level == level {
			msgs = append(msgs, e.Message)
		}
	}
	return msgs
}
