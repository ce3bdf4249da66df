package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/ctrev/internal/structtext"
)

var flattenCmd = &cobra.Command{
	Use:   "flatten FILE|-",
	Short: "Print a document's text segments and link targets",
	Args:  cobra.ExactArgs(1),
	RunE:  runFlatten,
}

func init() {
	flattenCmd.Flags().Bool("json", false, "print segments and links as JSON")
}

func runFlatten(cmd *cobra.Command, args []string) error {
	root, err := readDocument(cmd, args[0])
	if err != nil {
		return err
	}
	flat := structtext.Flatten(root)
	out := cmd.OutOrStdout()

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		if flat.Texts == nil {
			flat.Texts = []string{}
		}
		if flat.Links == nil {
			flat.Links = []string{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(flat)
	}

	for _, s := range flat.Texts {
		fmt.Fprintln(out, s)
	}
	if len(flat.Links) > 0 {
		fmt.Fprintf(out, "\nLinks (%d):\n", len(flat.Links))
		for _, l := range flat.Links {
			fmt.Fprintf(out, "  %s\n", l)
		}
	}
	return nil
}
