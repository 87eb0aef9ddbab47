package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file...>",
		Short: "Load and validate one or more MEF XML fault-tree documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			for _, filename := range args {
				m, err := loadModel(ctx, filename)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d fault tree(s), %d gate(s), %d basic event(s))\n",
					filename, len(m.FaultTrees), len(m.Gates.All()), len(m.Basics.All()))
			}
			return nil
		},
	}
}
