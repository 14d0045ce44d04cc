package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report whether the screp binary can be found",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := a.runner(a.driver())
			if !r.Available() {
				return fmt.Errorf("%s: not found", r.Command())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", r.Command())
			return nil
		},
	}
}
