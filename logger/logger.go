// Package logger configures the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Options selects the output format, minimum level and optional Sentry DSN.
type Options struct {
	Level     string // debug|info|warn|error
	Format    string // text|json
	SentryDSN string
	Output    io.Writer // defaults to os.Stdout
}

// New builds a logger from opts. When SentryDSN is set, records at error
// level are also sent to Sentry.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	hopts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	var handlers []slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		handlers = append(handlers, slog.NewJSONHandler(out, hopts))
	} else {
		handlers = append(handlers, slog.NewTextHandler(out, hopts))
	}

	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              opts.SentryDSN,
			TracesSampleRate: 1.0,
		})
		if err == nil {
			handlers = append(handlers, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
		} else {
			slog.New(handlers[0]).Warn("sentry disabled", "error", err)
		}
	}

	if len(handlers) == 1 {
		return slog.New(handlers[0])
	}
	return slog.New(slogmulti.Fanout(handlers...))
}

// flushTimeout bounds how long the flush returned by Init waits for Sentry.
const flushTimeout = 2 * time.Second

// Init builds a logger with New and installs it as the slog default. The
// returned flush delivers buffered Sentry events; defer it before exiting.
func Init(opts Options) (*slog.Logger, func()) {
	l := New(opts)
	slog.SetDefault(l)
	flush := func() {}
	if opts.SentryDSN != "" {
		flush = func() { sentry.Flush(flushTimeout) }
	}
	return l, flush
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
