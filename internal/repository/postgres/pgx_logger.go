package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// queryLogger sends pgx trace events to zerolog as one line per statement.
// Multi-line SQL is folded onto a single line, and pgx's camelCase keys become
// the snake_case fields the rest of the service logs with.
type queryLogger struct {
	logger zerolog.Logger
}

func newPgxLogger(logger zerolog.Logger) *queryLogger {
	return &queryLogger{logger: logger.With().Str("component", "pgx").Str("store", "postgres").Logger()}
}

// Log implements tracelog.Logger.
func (l *queryLogger) Log(_ context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	zl, ok := zerologLevel(level)
	if !ok {
		return
	}
	event := l.logger.WithLevel(zl)
	if zl == zerolog.NoLevel {
		event = event.Str("pgx_log_level", level.String())
	}

	for k, v := range data {
		switch k {
		case "sql":
			if s, ok := v.(string); ok {
				event = event.Str("sql", foldSQL(s))
				continue
			}
			event = event.Interface("sql", v)
		case "args":
			// statement arguments carry user data; only the trace level shows them
			if zl == zerolog.TraceLevel {
				event = event.Interface("args", v)
			}
		case "time":
			if d, ok := v.(time.Duration); ok {
				event = event.Dur("took", d)
				continue
			}
			event = event.Interface("took", v)
		case "commandTag":
			event = event.Interface("command_tag", v)
		case "err":
			if err, ok := v.(error); ok {
				event = event.Err(err)
				continue
			}
			event = event.Interface("error", v)
		default:
			event = event.Interface(k, v)
		}
	}
	event.Msg(msg)
}

func zerologLevel(level tracelog.LogLevel) (zerolog.Level, bool) {
	switch level {
	case tracelog.LogLevelNone:
		return zerolog.Disabled, false
	case tracelog.LogLevelTrace:
		return zerolog.TraceLevel, true
	case tracelog.LogLevelDebug:
		return zerolog.DebugLevel, true
	case tracelog.LogLevelInfo:
		return zerolog.InfoLevel, true
	case tracelog.LogLevelWarn:
		return zerolog.WarnLevel, true
	case tracelog.LogLevelError:
		return zerolog.ErrorLevel, true
	default:
		return zerolog.NoLevel, true
	}
}

// foldSQL collapses runs of whitespace so a statement fits on one log line.
func foldSQL(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
