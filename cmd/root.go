package cmd

import (
	"os"
	"time"

	"github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/zkmopro/anon-aadhaar-prover/artifact"
	"github.com/zkmopro/anon-aadhaar-prover/config"
	"github.com/zkmopro/anon-aadhaar-prover/prover"
	"github.com/zkmopro/anon-aadhaar-prover/srs"
)

var (
	fConfig   string
	fSRSPath  string
	fSource   string
	fArtifact string
	fLogLevel string

	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:          "anon-aadhaar",
	Short:        "proves and verifies anon-aadhaar statements with gnark PLONK",
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig layers the command line flags over the config file.
func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(fConfig)
	if err != nil {
		return err
	}
	flags := rootCmd.PersistentFlags()
	if flags.Changed("srs") {
		loaded.SRSPath = fSRSPath
	}
	if flags.Changed("srs-source") {
		loaded.SRSSource = fSource
	}
	if flags.Changed("artifact") {
		loaded.ArtifactPath = fArtifact
	}
	if flags.Changed("log-level") {
		loaded.LogLevel = fLogLevel
	}
	lvl, err := loaded.Level()
	if err != nil {
		return err
	}
	l := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).With().Timestamp().Logger()
	log.Logger = l
	logger.Set(l)

	cfg = loaded
	return nil
}

// loadCircuit opens the configured artifact, or compiles the built-in
// circuit when none is configured.
func loadCircuit() (*artifact.Circuit, error) {
	if cfg.ArtifactPath == "" {
		return artifact.Default()
	}
	log.Info().Msg("Loading artifact from " + cfg.ArtifactPath)
	return artifact.LoadFile(cfg.ArtifactPath)
}

func newOrchestrator() (*prover.Orchestrator, error) {
	c, err := loadCircuit()
	if err != nil {
		return nil, err
	}
	if cfg.SRSSource == "" {
		return prover.New(c), nil
	}
	log.Info().Msg("Cutting reference strings from " + cfg.SRSSource)
	m := srs.NewManager(srs.WithSource(srs.Ceremony(cfg.SRSSource)))
	return prover.New(c, prover.WithReferenceStrings(m)), nil
}

func init() {
	rootCmd.PersistentPreRunE = loadConfig
	rootCmd.PersistentFlags().StringVar(&fConfig, "config", "", "path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&fSRSPath, "srs", config.DefaultSRSPath, "path of the cached reference string")
	rootCmd.PersistentFlags().StringVar(&fSource, "srs-source", "", "ceremony reference string to cut from, development setup when empty")
	rootCmd.PersistentFlags().StringVar(&fArtifact, "artifact", "", "compiled circuit artifact, built-in circuit when empty")
	rootCmd.PersistentFlags().StringVar(&fLogLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
}
