// Package main provides the command-line entry point for the ABSA evaluation tool.
//
// The tool converts XML ground-truth annotations into the JSON interchange
// format and scores prediction files against it:
//
//	absa-eval convert --xml laptops-trial.xml --out laptops-trial.json
//	absa-eval missing --ground-truth laptops-trial.json --predictions gemini_result.json
//	absa-eval compare --ground-truth laptops-trial.json --predictions gemini_result.json
//	absa-eval run
//
// Every path and setting also reads from the environment (see internal/platform/config);
// flags take precedence.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const errFmt = "%v\n"

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, errFmt, err)
		os.Exit(1)
	}
}

func newLogger(appEnv, level string) zerolog.Logger {
	var logger zerolog.Logger

	if appEnv == "local" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	return logger.Level(lvl)
}
