package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/WangQiHao-Charlie/screpd/pkg/screp"
)

func newArgsCmd() *cobra.Command {
	var (
		opts  optionFlags
		stdin bool
	)
	cmd := &cobra.Command{
		Use:   "args",
		Short: "Print the screp switches the given options produce",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, err := opts.options(cmd.Flags())
			if err != nil {
				return err
			}
			args, err := screp.BuildArguments(screp.Resolve(o), stdin)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(args, " "))
			return nil
		},
	}
	opts.register(cmd.Flags())
	cmd.Flags().BoolVar(&stdin, "stdin", false, "render for a replay piped on stdin")
	return cmd
}
