package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// Init configures the global logger. An empty level means debug.
func Init(level string, pretty bool) error {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	lvl := zerolog.DebugLevel
	if level != "" {
		var err error
		lvl, err = zerolog.ParseLevel(level)
		if err != nil {
			return err
		}
	}
	zerolog.SetGlobalLevel(lvl)

	var out io.Writer = os.Stderr
	if pretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return nil
}

func Logger() zerolog.Logger {
	return log.Logger
}

func Panic(err error) {
	log.Error().Stack().Err(err).Send()
	panic(err)
}

func Error(err error) {
	log.Error().Stack().Err(err).Send()
}
