package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nstehr/bastion/config"
	"github.com/nstehr/bastion/model"
)

var (
	turnState string
	turnOut   string
)

var turnCmd = &cobra.Command{
	Use:   "turn",
	Short: "Decide a single turn from the runner's state file",
	Long: `Read the snapshot the game runner wrote for this turn and write the
chosen command to the command file. An empty command file means no-op.`,
	Args: cobra.NoArgs,
	RunE: runTurn,
}

func init() {
	turnCmd.Flags().StringVar(&turnState, "state", "", "Snapshot file (default: state.json)")
	turnCmd.Flags().StringVar(&turnOut, "out", "", "Command file (default: command.txt)")
	rootCmd.AddCommand(turnCmd)
}

func runTurn(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(&config.Config{
		Files: config.FilesConfig{State: turnState, Command: turnOut},
	})
	if err != nil {
		return err
	}

	gs, err := readState(cfg.Files.State)
	if err != nil {
		return err
	}

	classifier, err := newClassifier(cfg)
	if err != nil {
		return err
	}

	command, err := newAgent(classifier, cfg.Seed).DecideTurn(gs)
	if err != nil {
		return err
	}

	if err := os.WriteFile(cfg.Files.Command, []byte(command), 0o644); err != nil {
		return fmt.Errorf("write command: %w", err)
	}
	slog.Debug("command written", "path", cfg.Files.Command, "command", command)
	return nil
}

func readState(path string) (model.GameState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.GameState{}, fmt.Errorf("read state: %w", err)
	}
	var gs model.GameState
	if err := json.Unmarshal(data, &gs); err != nil {
		return model.GameState{}, fmt.Errorf("unmarshal state %s: %w", path, err)
	}
	return gs, nil
}
