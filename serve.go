package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nstehr/bastion/config"
	"github.com/nstehr/bastion/ipc"
	"github.com/nstehr/bastion/rules"
)

var serveSocket string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Answer snapshots over a unix socket until interrupted",
	Long: `Listen on a unix domain socket. Each connection is one match: the runner
sends a hello, then one game_state envelope per turn, and receives a command
envelope in reply.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveSocket, "socket", "", "Socket path (default: /tmp/bastion.sock)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(&config.Config{
		Serve: config.ServeConfig{Socket: serveSocket},
	})
	if err != nil {
		return err
	}

	classifier, err := newClassifier(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.ErrOrStderr(), banner)

	socketPath := cfg.Serve.Socket

	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(socketPath); err != nil {
		return fmt.Errorf("clean up socket %s: %w", socketPath, err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", socketPath, err)
	}
	defer listener.Close()
	defer os.Remove(socketPath)

	slog.Info("listening on domain socket", "path", socketPath, "seed", cfg.Seed)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go acceptLoop(ctx, listener, classifier, cfg.Seed)

	<-ctx.Done()
	slog.Info("shutting down")
	return nil
}

// acceptBackoff spaces out retries after a failed Accept.
const acceptBackoff = 50 * time.Millisecond

// acceptLoop gives every connection its own agent. Connection n is seeded
// with seed+n so a session can be replayed from the logged seed. It returns
// once the listener is closed or ctx is done.
func acceptLoop(ctx context.Context, listener net.Listener, classifier *rules.Classifier, seed int64) {
	var n atomic.Int64
	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			slog.Error("failed to accept connection", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(acceptBackoff):
				continue
			}
		}
		connSeed := seed + n.Add(1) - 1
		slog.Info("new connection accepted", "seed", connSeed)
		go handleConn(ctx, conn, classifier, connSeed)
	}
}

func handleConn(ctx context.Context, conn net.Conn, classifier *rules.Classifier, seed int64) {
	s := ipc.NewSession(conn)
	a := newAgent(classifier, seed)
	s.Handle(ipc.TypeHello, a.HandleHello)
	s.Handle(ipc.TypeGameState, a.HandleGameState)
	if err := s.Run(ctx); err != nil {
		slog.Warn("session ended", "player", a.Player, "turns", s.Served(), "error", err)
		return
	}
	slog.Info("session closed", "player", a.Player, "turns", s.Served())
}
