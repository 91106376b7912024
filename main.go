package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nstehr/bastion/agent"
	"github.com/nstehr/bastion/config"
	"github.com/nstehr/bastion/rules"
)

const banner = `
 ____    _    ____ _____ ___ ___  _   _
| __ )  / \  / ___|_   _|_ _/ _ \| \ | |
|  _ \ / _ \ \___ \ | |  | | | | |  \| |
| |_) / ___ \ ___) || |  | | |_| | |\  |
|____/_/   \_\____/ |_| |___\___/|_| \_|

Phase-Driven Tower Defence Agent`

var (
	// Global flags
	cfgFile  string
	logLevel string
	seed     int64
)

var rootCmd = &cobra.Command{
	Use:   "bastion",
	Short: "Turn-based build agent for the two-player tower defence grid game",
	Long: `bastion reads a match snapshot and answers with one build command.

Each turn is classified as attack, defend, save or nop, and the matching
generator picks a free cell for the building.

Commands:
  turn   Decide a single turn from the runner's state file
  serve  Answer snapshots over a unix socket until interrupted`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ./bastion.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Random seed (0 derives one from the clock)")
}

// loadConfig resolves configuration with the global flags on top and installs
// the process-wide logger.
func loadConfig(overrides *config.Config) (*config.Config, error) {
	overrides.Seed = seed
	overrides.LogLevel = logLevel

	cfg, err := config.Load(cfgFile, overrides)
	if err != nil {
		return nil, err
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	// Logs go to stderr; stdout belongs to the runner.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
		slog.Info("derived seed from clock", "seed", cfg.Seed)
	}
	return cfg, nil
}

// newClassifier compiles the configured doctrine.
func newClassifier(cfg *config.Config) (*rules.Classifier, error) {
	classifier, err := rules.NewClassifier(rules.CompileDoctrine(cfg.Doctrine))
	if err != nil {
		return nil, fmt.Errorf("compile doctrine: %w", err)
	}
	return classifier, nil
}

// newAgent returns an agent whose random source is seeded from seed.
func newAgent(classifier *rules.Classifier, seed int64) *agent.Agent {
	return agent.New(classifier, rand.New(rand.NewSource(seed)))
}
