package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"medassist/config"
	"medassist/diagnosis"
	"medassist/inference"
	"medassist/pdftext"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "medassist",
		Short:         "Medical record analysis web application",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(diagnoseCmd())
	rootCmd.AddCommand(mailCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newLogger writes JSON in production and at info level; elsewhere it logs
// debug events, in console form during development.
func newLogger(cfg *config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	if cfg.IsProduction() {
		return logger.Level(zerolog.InfoLevel)
	}
	return logger.Level(zerolog.DebugLevel)
}

// newDiagnoser wires the PDF extractor and the rate-limited model client.
func newDiagnoser(cfg *config.Config) *diagnosis.Service {
	var gen inference.Generator = inference.Unavailable{}
	if cfg.InferenceURL != "" {
		gen = inference.NewHTTPGenerator(cfg.InferenceURL,
			inference.WithToken(cfg.InferenceToken),
			inference.WithMaxNewTokens(cfg.InferenceMaxTokens),
			inference.WithTemperature(cfg.InferenceTemperature),
		)
	}
	limited := inference.NewLimited(gen, cfg.InferenceConcurrency, cfg.InferenceTimeout)
	return diagnosis.NewService(pdftext.New(), limited)
}
