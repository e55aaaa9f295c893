// Package logging wraps a process-wide zerolog logger.
//
// Diagnostics go to stderr (or a rotated file) so they never mix with command
// output on stdout. The default level is warn; -debug or EMBY_LOG_LEVEL raise it.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls logger construction.
type Config struct {
	// Level is one of trace, debug, info, warn, error, disabled. Default: warn.
	Level string

	// Format is console or json. Default: console.
	Format string

	// File, when set, sends logs to a size-rotated file instead of Output.
	File string

	// Output is used when File is empty. Default: os.Stderr.
	Output io.Writer
}

const (
	defaultLevel   = "warn"
	defaultFormat  = "console"
	fileMaxSizeMB  = 5
	fileMaxBackups = 3
	fileMaxAgeDays = 28
)

var (
	log zerolog.Logger
	mu  sync.RWMutex

	// fileWriter is kept so that Close can flush a rotated file.
	fileWriter *lumberjack.Logger
)

func init() {
	initLogger(Config{})
}

// Init replaces the global logger.
func Init(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	initLogger(cfg)
}

func initLogger(cfg Config) {
	if strings.TrimSpace(cfg.Level) == "" {
		cfg.Level = defaultLevel
	}
	if cfg.Format == "" {
		cfg.Format = defaultFormat
	}
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	if fileWriter != nil {
		_ = fileWriter.Close()
		fileWriter = nil
	}

	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339

	out := cfg.Output
	noColor := false
	if path := strings.TrimSpace(cfg.File); path != "" {
		fileWriter = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    fileMaxSizeMB,
			MaxBackups: fileMaxBackups,
			MaxAge:     fileMaxAgeDays,
		}
		out = fileWriter
		noColor = true
	}
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05", NoColor: noColor}
	}

	log = zerolog.New(out).With().Timestamp().Logger()
}

// ParseLevel maps a level name to a zerolog level. Unknown names map to warn.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.WarnLevel
	}
}

// Logger returns the current global logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Mute sends log output to io.Discard until the returned restore func runs.
// File logging is left alone.
func Mute() (restore func()) {
	mu.Lock()
	defer mu.Unlock()
	if fileWriter != nil {
		return func() {}
	}
	prev := log
	log = log.Output(io.Discard)
	return func() {
		mu.Lock()
		defer mu.Unlock()
		log = prev
	}
}

// Close releases a rotated log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if fileWriter == nil {
		return nil
	}
	err := fileWriter.Close()
	fileWriter = nil
	return err
}

func Debug() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.Debug()
}

func Info() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.Info()
}

func Warn() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.Warn()
}

func Error() *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.Error()
}
