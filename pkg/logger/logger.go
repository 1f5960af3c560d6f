package logger

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

func init() {
	// Usable before Init for early startup errors.
	log = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// Init configures the global logger for the given environment.
// Development gets human-readable console output at debug level.
func Init(environment string) {
	if environment == "development" {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Logger()
		return
	}

	log = zerolog.New(os.Stderr).
		Level(zerolog.InfoLevel).
		With().Timestamp().Logger()
}

// withFields attaches alternating key/value pairs to an event.
func withFields(e *zerolog.Event, keysAndValues ...any) *zerolog.Event {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", keysAndValues[i])
		}
		e = e.Interface(key, keysAndValues[i+1])
	}
	return e
}

func Debug(msg string, keysAndValues ...any) {
	withFields(log.Debug(), keysAndValues...).Msg(msg)
}

func Info(msg string, keysAndValues ...any) {
	withFields(log.Info(), keysAndValues...).Msg(msg)
}

func Warn(msg string, keysAndValues ...any) {
	withFields(log.Warn(), keysAndValues...).Msg(msg)
}

func Error(msg string, keysAndValues ...any) {
	withFields(log.Error(), keysAndValues...).Msg(msg)
}

func Fatal(msg string, keysAndValues ...any) {
	withFields(log.Fatal(), keysAndValues...).Msg(msg)
}
