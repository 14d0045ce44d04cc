package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/WangQiHao-Charlie/screpd/internal/format"
)

func newVersionCmd(a *app) *cobra.Command {
	var markdown bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show the version information screp reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := a.runner(a.driver()).Version(cmd.Context())
			if v == nil {
				return errors.New("screp version unavailable")
			}
			mode := format.ASCII
			if markdown {
				mode = format.Markdown
			}
			fmt.Fprintln(cmd.OutOrStdout(), format.Version(v, mode))
			return nil
		},
	}
	cmd.Flags().BoolVar(&markdown, "markdown", false, "render as a Markdown table")
	return cmd
}
