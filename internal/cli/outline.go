package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/ctrev/internal/outline"
)

var outlineCmd = &cobra.Command{
	Use:   "outline FILE|-",
	Short: "Print a document as an indented node tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := readDocument(cmd, args[0])
		if err != nil {
			return err
		}
		noColor, _ := cmd.Flags().GetBool("no-color")
		width, _ := cmd.Flags().GetInt("width")
		fmt.Fprint(cmd.OutOrStdout(), outline.Render(root, outline.Options{Color: !noColor, MaxContent: width}))
		return nil
	},
}

func init() {
	outlineCmd.Flags().Bool("no-color", false, "disable styling and syntax highlighting")
	outlineCmd.Flags().Int("width", 60, "truncate node content to this many characters (0 for no limit)")
}
