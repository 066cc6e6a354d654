package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"go-vacancy-collector/internal/export"
	"go-vacancy-collector/internal/reporter"
	"go-vacancy-collector/internal/scraper"
	"go-vacancy-collector/pkg/logging"
)

// Runner is a source ready to run: a scraper.Pipeline or a source that
// prepares one first.
type Runner interface {
	Run(ctx context.Context) (*scraper.ResultSet, scraper.Stats, error)
}

type Notifier interface {
	SendSummary(s reporter.Summary) error
}

type Run struct {
	Source string
	Runner Runner
	// Output is written first and always.
	Output  export.Exporter
	Mirrors []export.Exporter

	Notifier    Notifier
	Sentinel    string
	PreviewRows int
	PreviewOut  io.Writer
	Logger      *logging.Logger
}

type Report struct {
	RunID   uuid.UUID
	Stats   scraper.Stats
	Elapsed time.Duration
}

// Collect runs the source and exports whatever it accumulated, even when the
// source failed part way. Crossing the failure threshold is a normal stop
// and is not returned as an error.
func Collect(ctx context.Context, r Run) (*scraper.ResultSet, Report, error) {
	started := time.Now()
	report := Report{RunID: uuid.New()}

	log := r.Logger
	if log == nil {
		log = logging.Nop()
	}
	log = log.With("run_id", report.RunID.String(), "source", r.Source)
	log.Info("run started")

	rs, stats, runErr := r.Runner.Run(ctx)
	if rs == nil {
		rs = scraper.NewResultSet(r.Source)
	}
	report.Stats = stats

	var errs []error
	switch {
	case runErr == nil:
	case errors.Is(runErr, scraper.ErrThresholdExceeded):
		log.Warn("run stopped early", "error", runErr)
	default:
		log.Error("run failed", "error", runErr)
		errs = append(errs, fmt.Errorf("collector: %s: %w", r.Source, runErr))
	}

	// Exports must complete even after an interrupt.
	exportCtx := context.WithoutCancel(ctx)
	meta := export.Meta{RunID: report.RunID, CollectedAt: started.UTC(), Sentinel: r.Sentinel}

	sinks := append([]export.Exporter{r.Output}, r.Mirrors...)
	for _, sink := range sinks {
		if sink == nil {
			continue
		}
		if err := sink.Export(exportCtx, rs, meta); err != nil {
			log.Error("export failed", "sink", sink.Name(), "error", err)
			errs = append(errs, err)
			continue
		}
		log.Info("exported", "sink", sink.Name(), "vacancies", rs.Len())
	}

	if r.PreviewOut != nil {
		export.Preview(r.PreviewOut, rs, r.PreviewRows, r.Sentinel)
	}

	report.Elapsed = time.Since(started)
	err := errors.Join(errs...)
	log.Info("run finished", "vacancies", rs.Len(), "elapsed", report.Elapsed.Round(time.Millisecond))

	if r.Notifier != nil {
		summary := reporter.Summary{
			Source:  r.Source,
			RunID:   report.RunID.String(),
			Records: rs.Len(),
			Units:   stats.Units,
			Failed:  stats.Failed,
			Halted:  stats.Halted,
			Elapsed: report.Elapsed,
			Err:     err,
		}
		if o, ok := r.Output.(export.CSV); ok {
			summary.Output = o.Path
		}
		if nerr := r.Notifier.SendSummary(summary); nerr != nil {
			log.Warn("telegram summary not sent", "error", nerr)
		}
	}

	return rs, report, err
}
