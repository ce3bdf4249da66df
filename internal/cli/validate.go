package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/ctrev/internal/precheck"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE|-",
	Short: "Check a document against the configured limits",
	Long: `Decode a document and check its shape and size against the validator
limits from the config file.

Exit codes:
  0 - the document can be published
  2 - the document was rejected`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().Bool("json", false, "print the result as JSON")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	_, res, err := precheck.New(cfg.ValidatorOptions()).CheckJSON(data)
	var rej *precheck.Rejection
	if err != nil && !errors.As(err, &rej) {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		v := map[string]any{"valid": rej == nil}
		if rej != nil {
			v["rejection"] = rej
		} else {
			v["report"] = res.Report
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return err
		}
	} else if rej != nil {
		fmt.Fprintf(out, "REJECTED %s\n  %s\n", rej.Code, rej.Message)
		if rej.Detail != "" {
			fmt.Fprintf(out, "  (%s)\n", rej.Detail)
		}
	} else {
		r := res.Report
		fmt.Fprintf(out, "OK: %d characters, %d nodes, depth %d\n", r.TotalTextLength, r.Nodes, r.MaxDepth)
	}

	if rej != nil {
		exit(2)
	}
	return nil
}
