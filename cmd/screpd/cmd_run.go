package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/WangQiHao-Charlie/screpd/internal/format"
	"github.com/WangQiHao-Charlie/screpd/pkg/screp"
)

// errNoValidResult makes the command exit non-zero after printing what
// screp produced.
var errNoValidResult = errors.New("screp produced no valid result")

// runOutput is the JSON envelope printed by "screpd run".
type runOutput struct {
	ExitCode       *int            `json:"exitCode"`
	AbortSignal    *string         `json:"abortSignal"`
	Diagnostics    string          `json:"diagnostics"`
	HasValidResult bool            `json:"hasValidResult"`
	Options        screp.Options   `json:"options"`
	Data           json.RawMessage `json:"data"`
}

func newRunCmd(a *app) *cobra.Command {
	var (
		opts     optionFlags
		summary  bool
		markdown bool
	)
	cmd := &cobra.Command{
		Use:   "run <replay|->",
		Short: "Run screp on a replay file, or on stdin with -",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := opts.options(cmd.Flags())
			if err != nil {
				return err
			}
			in := screp.FileInput(args[0])
			if args[0] == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				in = screp.BytesInput(data)
			}

			res, err := a.runner(a.driver()).Run(cmd.Context(), in, o)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if summary {
				mode := format.ASCII
				if markdown {
					mode = format.Markdown
				}
				fmt.Fprintln(out, format.Summary(res, mode))
			} else if err := writeResult(out, res); err != nil {
				return err
			}
			if !res.HasValidResult() {
				return errNoValidResult
			}
			return nil
		},
	}
	opts.register(cmd.Flags())
	f := cmd.Flags()
	f.BoolVar(&summary, "summary", false, "print a table instead of JSON")
	f.BoolVar(&markdown, "markdown", false, "render --summary tables as Markdown")
	return cmd
}

func writeResult(w io.Writer, res *screp.Result) error {
	env := runOutput{
		ExitCode:       res.ExitCode,
		Diagnostics:    res.Diagnostics,
		HasValidResult: res.HasValidResult(),
		Options:        res.Options,
		Data:           res.Raw,
	}
	if res.AbortSignal != "" {
		env.AbortSignal = &res.AbortSignal
	}
	if env.Data == nil {
		env.Data = json.RawMessage("null")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
