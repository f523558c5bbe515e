package telemetry

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Options controls the process-wide logger.
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

var (
	mu     sync.RWMutex
	logger zerolog.Logger
)

func init() {
	zerolog.TimestampFieldName = "ts"
	zerolog.MessageFieldName = "msg"
	logger = newLogger(Options{})
}

// Init reconfigures the logger. Safe to call more than once.
func Init(opts Options) {
	l := newLogger(opts)
	mu.Lock()
	logger = l
	mu.Unlock()
}

// SetOutput redirects log lines, keeping the current level. Mostly useful in tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	logger = logger.Output(w)
	mu.Unlock()
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	get().Info().Fields(fields).Msg(msg)
}

// Warn writes a warn-level log line with the given fields.
func Warn(msg string, fields map[string]any) {
	get().Warn().Fields(fields).Msg(msg)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	get().Error().Fields(fields).Msg(msg)
}

func get() *zerolog.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	return &l
}

func newLogger(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if strings.EqualFold(strings.TrimSpace(opts.Format), "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
