// Package batch decodes many structures at once. Each structure is
// decoded by itself, so one broken file does not stop the rest unless
// asked to.
package batch

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/andrew-torda/mmtf_read/pkg/fieldmap"
	"github.com/andrew-torda/mmtf_read/pkg/mmtf"
)

// ErrNotRun is the error of a job that was never started because the
// batch was cancelled or stopped.
var ErrNotRun = errors.New("batch: job not run")

// Job is one structure. Load is called in a worker.
type Job struct {
	Name string
	Load func() (map[string]interface{}, error)
}

// FromFile is a job reading a fieldmap file.
func FromFile(fname string) Job {
	return Job{Name: fname, Load: func() (map[string]interface{}, error) {
		return fieldmap.Load(fname)
	}}
}

// FromReader is a job reading a fieldmap stream, such as standard
// input. The stream can only be read once.
func FromReader(name string, r io.Reader) Job {
	return Job{Name: name, Load: func() (map[string]interface{}, error) {
		return fieldmap.Read(r)
	}}
}

// FromFields is a job for a map already in memory.
func FromFields(name string, fields map[string]interface{}) Job {
	return Job{Name: name, Load: func() (map[string]interface{}, error) {
		return fields, nil
	}}
}

// Result is what happened to one job. Exactly one of Structure and
// Err is set.
type Result struct {
	Name      string
	Structure *mmtf.Structure
	Err       error
}

// Decoder runs jobs. The zero value works, with one worker, no
// logging and no metrics.
type Decoder struct {
	Workers     int
	StopOnError bool // cancel the rest at the first failure
	Log         logrus.FieldLogger
	Metrics     *Metrics
}

// Run decodes the jobs and returns one result per job, in the same
// order. The error is nil unless StopOnError was set and a job failed,
// or ctx was cancelled. Either way results has every job in it.
func (d *Decoder) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	log := d.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	workers := d.Workers
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(jobs))
	for i, j := range jobs {
		results[i] = Result{Name: j.Name, Err: ErrNotRun}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			results[i] = d.one(jobs[i], log)
			if results[i].Err != nil && d.StopOnError {
				return errors.Wrapf(results[i].Err, "%s", jobs[i].Name)
			}
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return results, err
}

func (d *Decoder) one(job Job, log logrus.FieldLogger) Result {
	start := time.Now()
	flog := log.WithField("file", job.Name)
	res := Result{Name: job.Name}
	fields, err := job.Load()
	if err == nil {
		res.Structure, err = mmtf.Decode(fields, mmtf.WithLogger(flog))
	}
	d.Metrics.record(err, time.Since(start).Seconds())
	if err != nil {
		flog.WithField("kind", ErrKind(err)).WithError(err).Warn("decode failed")
		res.Err = err
		return res
	}
	flog.WithField("atoms", res.Structure.NumAtoms).Info("decoded")
	return res
}
