package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/amishk599/careerpath/internal/ai"
	"github.com/amishk599/careerpath/internal/model"
	"github.com/amishk599/careerpath/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask the career advisor a question",
	Long: "With a message argument, print a single reply. On an interactive terminal without\n" +
		"arguments, open a chat session. Otherwise answer each line read from stdin.",
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	interactive := len(args) == 0 &&
		isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())

	// Log lines would tear the full-screen UI.
	logger := setupLogger(debug)
	if interactive && !debug {
		logger = newLogger(io.Discard, 0, false)
	}

	a, err := newApp(logger)
	if err != nil {
		return err
	}
	defer a.Close()

	send := func(ctx context.Context, message string) string {
		return a.advisor.Chat(ctx, model.ChatRequest{Message: message})
	}

	switch {
	case len(args) > 0:
		message := strings.Join(args, " ")
		reply, err := withSpinner(cmd.Context(), "Thinking", func(ctx context.Context) string {
			return send(ctx, message)
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), reply)
		return nil
	case interactive:
		return tui.RunChat(cmd.Context(), send)
	default:
		return chatLines(cmd.Context(), a.advisor, cmd.InOrStdin(), cmd.OutOrStdout())
	}
}

// chatLines answers every non-blank line of r, one reply per line.
func chatLines(ctx context.Context, advisor *ai.Advisor, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintln(w, advisor.Chat(ctx, model.ChatRequest{Message: line}))
	}
	return scanner.Err()
}
