package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/amishk599/careerpath/internal/config"
	"github.com/amishk599/careerpath/internal/retry"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the config file and print a summary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolveConfigPath(cfgPath)
		cfg, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		printConfigSummary(cmd.OutOrStdout(), path, cfg)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configCheckCmd)
	rootCmd.AddCommand(configCmd)
}

func printConfigSummary(w io.Writer, path string, cfg *config.Config) {
	if path == "" {
		path = "(none, defaults and environment)"
	}
	fmt.Fprintf(w, "Config:     %s\n", path)

	if cfg.AI.Configured() {
		deadline, needed := generationDeadline(cfg.AI, retry.DefaultPolicy())
		fmt.Fprintf(w, "AI:         %s via %s (timeout %s, deadline %s)\n",
			cfg.AI.Model, cfg.AI.BaseURL, cfg.AI.Timeout, deadline)
		if deadline < needed {
			fmt.Fprintf(w, "            warning: retries need up to %s, later attempts will be cut off\n", needed)
		}
	} else {
		fmt.Fprintln(w, "AI:         not configured, fallback responses only")
	}

	enabled := 0
	for _, b := range cfg.JobSearch.Boards {
		if b.Enabled {
			enabled++
		}
	}
	adzuna := "off"
	if cfg.JobSearch.Adzuna.Configured() {
		adzuna = "on (" + cfg.JobSearch.Adzuna.Country + ")"
	}
	fmt.Fprintf(w, "Job search: adzuna %s, %d of %d boards enabled, %d results\n",
		adzuna, enabled, len(cfg.JobSearch.Boards), cfg.JobSearch.Results)

	rl := cfg.Server.RateLimit
	fmt.Fprintf(w, "Server:     %s (%g req/s per client, burst %d)\n", cfg.Server.Addr, rl.RPS, rl.Burst)

	if cfg.History.Enabled {
		fmt.Fprintf(w, "History:    %s (keep %s)\n", cfg.History.Path, cfg.History.Retention)
	} else {
		fmt.Fprintln(w, "History:    disabled")
	}
}
