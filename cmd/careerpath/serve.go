package main

import (
	"fmt"
	"log/slog"
	"net"

	"github.com/spf13/cobra"

	"github.com/amishk599/careerpath/internal/ratelimit"
	"github.com/amishk599/careerpath/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the advisor over a JSON HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd.ErrOrStderr(), slog.LevelInfo, debug)

	a, err := newApp(logger)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	cfg := a.cfg

	if cfg.History.Enabled {
		n, err := a.history.Cleanup(ctx, cfg.History.Retention)
		if err != nil {
			logger.Warn("history cleanup failed", "error", err)
		} else if n > 0 {
			logger.Info("pruned history", "removed", n, "older_than", cfg.History.Retention)
		}
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	rl := cfg.Server.RateLimit
	limiter := ratelimit.NewClientLimiter(rl.RPS, rl.Burst)
	srv := server.New(a.advisor, limiter, rl.RPS, rl.TTL, logger)

	return srv.Run(ctx, ln)
}
