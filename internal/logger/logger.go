// Package logger configures the process-wide zerolog logger and carries
// request-scoped loggers through context.Context.
package logger

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	once         sync.Once
	globalLogger = zerolog.New(os.Stdout).With().Timestamp().Logger()
)

// Init sets up the global logger. Output goes to console and is also
// appended to logFilePath when one is given. A nil console means stdout.
// Only the first call has effect.
func Init(level, logFilePath string, console io.Writer) {
	once.Do(func() {
		l := newLogger(level, logFilePath, console)
		globalLogger = l
		log.Logger = l
	})
}

func newLogger(level, logFilePath string, console io.Writer) zerolog.Logger {
	if console == nil {
		console = os.Stdout
	}
	writers := []io.Writer{console}

	if logFilePath != "" {
		file, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o664)
		if err != nil {
			os.Stderr.WriteString("failed to open log file: " + err.Error() + "\n")
		} else {
			writers = append(writers, file)
		}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger().Level(lvl)
}

// Get returns the global logger.
func Get() *zerolog.Logger {
	return &globalLogger
}

// WithFields returns a context carrying a child of the global logger with the
// given fields attached.
func WithFields(ctx context.Context, fields map[string]any) context.Context {
	l := FromContext(ctx).With().Fields(fields).Logger()
	return l.WithContext(ctx)
}

// FromContext returns the logger stored in ctx, falling back to the global one.
func FromContext(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return &globalLogger
	}
	return l
}
