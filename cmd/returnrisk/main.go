package main

import (
	"os"

	"github.com/rs/zerolog/log"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("returnrisk failed")
		os.Exit(1)
	}
}
