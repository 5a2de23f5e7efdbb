package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/phys-eval/internal/normalize"
)

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <text>",
		Short: "Normalize a raw answer and show its category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := normalize.Normalize(args[0])
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Category: %s\n", a.Category)
			fmt.Fprintf(out, "Value: %s\n", a.String())
			if a.Unit != "" {
				fmt.Fprintf(out, "Unit: %s\n", a.Unit)
			}
			return nil
		},
	}
}
