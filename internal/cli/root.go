// Package cli wires the ctrev commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/ctrev/internal/config"
	"github.com/sprite-ai/ctrev/internal/logging"
	"github.com/sprite-ai/ctrev/internal/structtext"
)

// exit is swapped out in tests.
var exit = os.Exit

var rootCmd = &cobra.Command{
	Use:   "ctrev",
	Short: "Validate, flatten, and auto-review structured text",
	Long: `ctrev checks structured text documents before they are published.

It validates document shape and size, reduces documents to plain text
segments for scanning, and runs automatic reviewers that produce a
verdict with per-issue feedback.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().String("log-file", "", "append run logs to this file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "echo run logs to stderr")

	rootCmd.AddCommand(validateCmd, flattenCmd, reviewCmd, encodeCmd, decodeCmd, outlineCmd, serveCmd, versionCmd)
}

// Execute runs the root command, cancelling on interrupt.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func openLogger(cmd *cobra.Command) (*logging.Logger, error) {
	path, _ := cmd.Flags().GetString("log-file")
	verbose, _ := cmd.Flags().GetBool("verbose")
	var echo io.Writer
	if verbose {
		echo = cmd.ErrOrStderr()
	}
	return logging.New(path, echo)
}

// readInput reads a file, or stdin when name is "-".
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

func readDocument(cmd *cobra.Command, name string) (structtext.Node, error) {
	data, err := readInput(cmd, name)
	if err != nil {
		return nil, err
	}
	root, err := structtext.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return root, nil
}
