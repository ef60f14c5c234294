package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/deliverai/deliverai/internal/recipient"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Print the valid recipients found in a file or stdin",
		Long: `parse splits the input on newlines, commas and semicolons and prints
every piece that contains an "@", one per line, in input order with
duplicates kept. The count goes to stderr.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			raw, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("read recipients: %w", err)
			}

			list := recipient.Parse(string(raw))
			out := cmd.OutOrStdout()
			for _, r := range list {
				if _, err := fmt.Fprintln(out, r); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d valid recipients\n", len(list))
			return nil
		},
	}
}
