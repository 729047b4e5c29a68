package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup installs the global logger. Console output is the default; jsonOutput
// switches to one JSON object per line for log shippers.
func Setup(verbose, jsonOutput bool) {
	SetupWriter(os.Stdout, verbose, jsonOutput)
}

func SetupWriter(out io.Writer, verbose, jsonOutput bool) {
	zerolog.TimeFieldFormat = time.RFC3339

	var w io.Writer = out
	if !jsonOutput {
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
