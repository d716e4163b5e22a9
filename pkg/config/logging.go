package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogging points the global zerolog logger at stderr using the
// configured level and format.
func (c *Config) SetupLogging() error {
	return setupLogging(os.Stderr, c.LogLevel, c.LogFormat)
}

func setupLogging(out io.Writer, level, format string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339
	if strings.ToLower(format) == "json" {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen})
	}
	return nil
}
