// 18 Oct 2026
// Decode MMTF field maps and print a summary of each.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/andrew-torda/mmtf_read/pkg/common"
	"github.com/andrew-torda/mmtf_read/pkg/config"
	"github.com/andrew-torda/mmtf_read/pkg/mmtfsum"
)

func newRootCmd(ret *int) *cobra.Command {
	var (
		cfgFile string
		workers int
		logDest string
		metrics string
		verbose bool
		stop    bool
	)
	cmd := &cobra.Command{
		Use:   "mmtfsum [flags] file...",
		Short: "Summarize MMTF structures",
		Long: `Read MMTF field maps from YAML files (optionally gzipped),
decode them in parallel and print a short summary of each structure.
A file name of "-" reads standard input.`,
		Example: `  mmtfsum 1tst.yaml
  mmtfsum --workers 4 --log stdout -v *.yaml.gz
  zcat 1tst.yaml.gz | mmtfsum -`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("workers") {
				if workers < 1 {
					return fmt.Errorf("--workers must be at least 1")
				}
				cfg.Workers = workers
			}
			if flags.Changed("log") {
				cfg.Log = logDest
			}
			if flags.Changed("metrics") {
				cfg.Metrics = metrics
			}
			if flags.Changed("stop-on-error") {
				cfg.StopOnError = stop
			}
			if verbose {
				cfg.LogLevel = logrus.DebugLevel
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()
			*ret = mmtfsum.MyMain(ctx, cfg, args, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&cfgFile, "config", "c", "", "TOML config file")
	f.IntVarP(&workers, "workers", "w", 0, "structures to decode at once (default: number of CPUs)")
	f.StringVar(&logDest, "log", "", `where to log: "", "stdout" or a file name`)
	f.StringVar(&metrics, "metrics", "", "write prometheus counters to this file")
	f.BoolVarP(&verbose, "verbose", "v", false, "log every field")
	f.BoolVar(&stop, "stop-on-error", false, "stop at the first broken structure")
	return cmd
}

func main() {
	ret := common.ExitSuccess
	cmd := newRootCmd(&ret)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(common.ExitUsageError)
	}
	os.Exit(ret)
}
