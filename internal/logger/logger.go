// Package logger configures the global zerolog logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init sets up the global logger from the environment. LOG_LEVEL picks the
// level (default info), LOG_FILE tees output to a file, DEV=true enables
// colored console output.
func Init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }

	level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	dev := os.Getenv("DEV") == "true"
	var out io.Writer = zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05.000",
		NoColor:    !dev,
	}

	if path := os.Getenv("LOG_FILE"); path != "" {
		if f, ferr := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); ferr == nil {
			out = io.MultiWriter(out, f)
		} else {
			log.Warn().Err(ferr).Str("path", path).Msg("Cannot open log file, console only")
		}
	}

	log.Logger = log.Output(out).With().Caller().Logger()
	log.Info().Str("level", level.String()).Msg("Logger initialized")
}
