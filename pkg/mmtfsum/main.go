// 18 Oct 2026

package mmtfsum

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"

	"github.com/andrew-torda/mmtf_read/pkg/batch"
	"github.com/andrew-torda/mmtf_read/pkg/common"
	"github.com/andrew-torda/mmtf_read/pkg/config"
	"github.com/andrew-torda/mmtf_read/pkg/logging"
	"github.com/andrew-torda/mmtf_read/pkg/summary"
)

// stdinName is the file name meaning standard input.
const stdinName = "-"

// MyMain is the top level main, after parsing the command line.
// A file called "-" is read from in. Summaries go to out, complaints
// to errOut.
func MyMain(ctx context.Context, cfg config.Config, files []string, in io.Reader, out, errOut io.Writer) int {
	if len(files) == 0 {
		fmt.Fprintln(errOut, "no input files")
		return common.ExitUsageError
	}
	if lo.Count(files, stdinName) > 1 {
		fmt.Fprintln(errOut, "standard input can only be read once")
		return common.ExitUsageError
	}
	log := logging.Where(cfg.Log, cfg.LogLevel, cfg.MaxLogMB)
	defer logging.Close(log)

	reg := prometheus.NewRegistry()
	d := &batch.Decoder{
		Workers:     cfg.Workers,
		StopOnError: cfg.StopOnError,
		Log:         log,
		Metrics:     batch.NewMetrics(reg),
	}
	jobs := make([]batch.Job, len(files))
	for i, f := range files {
		if f == stdinName {
			jobs[i] = batch.FromReader("stdin", in)
			continue
		}
		jobs[i] = batch.FromFile(f)
	}
	results, runErr := d.Run(ctx, jobs)

	ret := common.ExitSuccess
	for _, r := range results {
		if r.Err != nil {
			if r.Err != batch.ErrNotRun {
				fmt.Fprintf(errOut, "%s: %v\n", r.Name, r.Err)
			}
			ret = common.ExitFailure
			continue
		}
		rep, err := summary.Summarize(r.Structure)
		if err != nil {
			fmt.Fprintf(errOut, "%s: %v\n", r.Name, err)
			ret = common.ExitFailure
			continue
		}
		if _, err := rep.WriteTo(out); err != nil {
			fmt.Fprintln(errOut, "writing summary:", err)
			return common.ExitFailure
		}
	}
	if runErr != nil {
		log.WithError(runErr).Warn("batch stopped early")
		ret = common.ExitFailure
	}

	if cfg.Metrics != "" {
		if err := prometheus.WriteToTextfile(cfg.Metrics, reg); err != nil {
			fmt.Fprintln(errOut, "writing metrics:", err)
			ret = common.ExitFailure
		}
	}
	return ret
}
