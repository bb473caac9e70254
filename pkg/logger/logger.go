// backend-go/pkg/logger/logger.go
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

var (
	// Log is the global logger instance
	Log zerolog.Logger
)

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339

	// Default to console output with color
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02 15:04:05",
	}

	Log = zerolog.New(output).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Caller().
		Logger()
}

// SetLevel sets the log level. The gin-style server modes are accepted
// alongside zerolog level names: "debug" enables debug logging, "release"
// maps to info.
func SetLevel(levelStr string) {
	var level zerolog.Level
	switch levelStr {
	case "debug":
		level = zerolog.DebugLevel
	case "release", "":
		level = zerolog.InfoLevel
	default:
		parsed, err := zerolog.ParseLevel(levelStr)
		if err != nil {
			Log.Warn().Str("level", levelStr).Msg("invalid log level, defaulting to info")
			parsed = zerolog.InfoLevel
		}
		level = parsed
	}
	zerolog.SetGlobalLevel(level)
	Log = Log.Level(level)
}
