package cli

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/ctrev/internal/structtext"
)

var encodeCmd = &cobra.Command{
	Use:   "encode FILE|-",
	Short: "Compress a document into its portable text form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := readDocument(cmd, args[0])
		if err != nil {
			return err
		}
		enc, err := structtext.EncodeCompressed(root)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), enc)
		return nil
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode TEXT|-",
	Short: "Expand the portable text form back into document JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := args[0]
		if text == "-" {
			data, err := readInput(cmd, text)
			if err != nil {
				return err
			}
			text = string(data)
		}
		root, err := structtext.DecodeCompressed(text)
		if err != nil {
			return err
		}
		raw, err := structtext.Encode(root)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return err
		}
		buf.WriteByte('\n')
		_, err = buf.WriteTo(cmd.OutOrStdout())
		return err
	},
}
