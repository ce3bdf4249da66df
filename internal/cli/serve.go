package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/ctrev/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing document validation and flattening.

Endpoints:
  GET  /health        Health check
  POST /api/validate  Check a document against the validator limits
  POST /api/flatten   Reduce a document to text segments and links
  POST /api/encode    Compress a document to its portable text form
  POST /api/decode    Expand the portable text form
  GET  /api/ws        WebSocket for live validation sessions`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "", "address to listen on (default from config, 127.0.0.1)")
	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (default from config, 6143)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port, _ = cmd.Flags().GetInt("port")
	}

	logger, err := openLogger(cmd)
	if err != nil {
		return err
	}
	defer logger.Close()

	srv := api.New(cfg.ServerAddr(), cfg.ValidatorOptions(), logger)
	fmt.Fprintf(cmd.ErrOrStderr(), "Listening on http://%s\n", cfg.ServerAddr())
	return srv.ListenAndServe()
}
