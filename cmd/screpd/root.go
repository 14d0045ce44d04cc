package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/WangQiHao-Charlie/screpd/internal/config"
	"github.com/WangQiHao-Charlie/screpd/internal/logging"
	"github.com/WangQiHao-Charlie/screpd/pkg/driver"
	"github.com/WangQiHao-Charlie/screpd/pkg/screp"
)

// app carries settings resolved from the environment and global flags.
type app struct {
	cfg config.Config

	screpPath string
	timeout   time.Duration
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "screpd",
		Short: "Typed runner for the screp replay parser",
		Long:  "screpd invokes screp with validated options and separates its\ndiagnostics from the JSON document it prints.",
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		Version:           version,
		PersistentPreRunE: a.setup,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.screpPath, "screp-path", "", "screp binary (default $SCREP_PATH or screp)")
	pf.DurationVar(&a.timeout, "timeout", 0, "per-invocation timeout (default $SCREP_TIMEOUT)")
	pf.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (default $SCREPD_LOG_LEVEL)")
	pf.StringVar(&a.logFormat, "log-format", "", "text or json (default $SCREPD_LOG_FORMAT)")

	root.AddCommand(newRunCmd(a))
	root.AddCommand(newVersionCmd(a))
	root.AddCommand(newCheckCmd(a))
	root.AddCommand(newArgsCmd())
	root.AddCommand(newServeCmd(a))
	return root
}

// setup loads the environment configuration and lets explicit flags win.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("timeout") {
		cfg.Timeout = a.timeout
	}
	if a.screpPath != "" {
		cfg.ScrepPath = a.screpPath
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.logFormat != "" {
		cfg.LogFormat = a.logFormat
	}
	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr()); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	a.cfg = cfg
	return nil
}

func (a *app) driver() *driver.ExecDriver {
	return driver.NewExecDriver(driver.Config{
		AllowedBinaries:  a.cfg.AllowedBinaries,
		MaxConcurrency:   a.cfg.MaxConcurrency,
		TerminationGrace: a.cfg.TerminationWait,
		Logger:           logging.New(logging.ComponentExec),
	})
}

func (a *app) runner(drv driver.Driver) *screp.Runner {
	return screp.New(drv, screp.Config{
		ScrepPath: a.cfg.ScrepPath,
		Timeout:   a.cfg.Timeout,
		Logger:    logging.New(logging.ComponentRunner),
	})
}
