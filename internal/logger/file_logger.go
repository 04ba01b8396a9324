package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLogDir is where run logs are written when file logging is enabled
const DefaultLogDir = "logs"

// Options configures a run logger
type Options struct {
	Name    string    // used in the log file name
	Level   string    // debug, info, warn, error
	Dir     string    // log directory; empty disables the file sink
	Console io.Writer // human-readable sink; nil means stderr
}

// Logger is a zerolog logger writing to the console and, optionally, to a
// per-day run log file.
type Logger struct {
	zerolog.Logger
	file *os.File
	path string
}

// New creates a logger for a backtest run
func New(opts Options) (*Logger, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		lvl, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = lvl
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	writers := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339}}

	l := &Logger{}
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		name := opts.Name
		if name == "" {
			name = "backtest"
		}
		filename := fmt.Sprintf("%s_%s.log", name, time.Now().Format("2006-01-02"))
		l.path = filepath.Join(opts.Dir, filename)

		file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		l.file = file
		writers = append(writers, file)
	}

	l.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Str("run", opts.Name).
		Logger()

	return l, nil
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// Path returns the log file path, or "" when file logging is disabled
func (l *Logger) Path() string {
	return l.path
}

// Close flushes and closes the log file
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
