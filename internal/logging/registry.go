// Package logging keeps a registry of named loggers backed by logrus.
//
// Loggers are created lazily and shared by name: the first GetOrCreate for
// a name decides its options, and every later call with the same name
// returns that logger and ignores the options it was given.
package logging

import (
	"io"
	"os"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// FieldLogger is the field name that carries the logger name.
const FieldLogger = "logger"

// Option configures the logrus logger behind a new named logger.
type Option func(*logrus.Logger)

// WithLevel sets the minimum level.
func WithLevel(level logrus.Level) Option {
	return func(l *logrus.Logger) { l.SetLevel(level) }
}

// WithJSON switches the output to JSON lines.
func WithJSON() Option {
	return func(l *logrus.Logger) { l.SetFormatter(&logrus.JSONFormatter{}) }
}

// WithOutput redirects the logger to w.
func WithOutput(w io.Writer) Option {
	return func(l *logrus.Logger) { l.SetOutput(w) }
}

// Logger is a named line emitter.
type Logger struct {
	name  string
	entry *logrus.Entry
}

// Name returns the name the logger was registered under.
func (l *Logger) Name() string { return l.name }

// Log emits text as one info line tagged with the logger name.
func (l *Logger) Log(text string) {
	l.entry.Info(text)
}

// Entry returns the underlying logrus entry for structured logging.
func (l *Logger) Entry() *logrus.Entry { return l.entry }

// Registry owns the named loggers of one application.
type Registry struct {
	mu       sync.Mutex
	out      io.Writer
	defaults []Option
	loggers  map[string]*Logger
}

// NewRegistry creates a registry whose loggers write to out (stderr when
// nil). defaults are applied to every new logger before its own options.
func NewRegistry(out io.Writer, defaults ...Option) *Registry {
	if out == nil {
		out = os.Stderr
	}
	return &Registry{
		out:      out,
		defaults: defaults,
		loggers:  make(map[string]*Logger),
	}
}

// GetOrCreate returns the logger registered under name, creating it with
// opts if it does not exist yet. opts are discarded for existing names.
func (r *Registry) GetOrCreate(name string, opts ...Option) *Logger {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.loggers[name]; ok {
		return l
	}

	base := logrus.New()
	base.SetOutput(r.out)
	base.SetFormatter(&logrus.TextFormatter{DisableColors: true})
	for _, opt := range r.defaults {
		opt(base)
	}
	for _, opt := range opts {
		opt(base)
	}

	l := &Logger{
		name:  name,
		entry: base.WithField(FieldLogger, name),
	}
	r.loggers[name] = l
	return l
}

// Names returns the registered logger names in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.loggers))
	for name := range r.loggers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Discard returns a logger that drops everything. Used as the default when
// a component is not given a registry.
func Discard(name string) *Logger {
	base := logrus.New()
	base.SetOutput(io.Discard)
	return &Logger{name: name, entry: base.WithField(FieldLogger, name)}
}

// ParseLevel wraps logrus.ParseLevel, defaulting to info for an empty string.
func ParseLevel(s string) (logrus.Level, error) {
	if s == "" {
		return logrus.InfoLevel, nil
	}
	return logrus.ParseLevel(s)
}
