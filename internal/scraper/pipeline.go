package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-vacancy-collector/pkg/logging"
)

const DefaultMaxConsecutiveFailures = 5

// Stats summarises one pipeline run.
type Stats struct {
	Units     int
	Succeeded int
	Failed    int
	Records   int
	Halted    bool
	Elapsed   time.Duration
}

// Pipeline drives Enumerator -> Fetcher -> Extractor sequentially and
// accumulates the extracted vacancies. One unit is in flight at a time.
type Pipeline[U, P any] struct {
	Name      string
	Units     Enumerator[U]
	Fetcher   Fetcher[U, P]
	Extractor Extractor[P]
	// Columns fixes the ResultSet header. Optional.
	Columns []string
	// MaxConsecutiveFailures is the number of back-to-back failures
	// tolerated; one more halts the run. Zero means the default.
	MaxConsecutiveFailures int
	Logger                 *logging.Logger
}

// Run executes the loop until the enumerator is exhausted, the failure
// threshold is crossed or ctx is done. The returned ResultSet is never nil
// and holds everything accumulated so far, whatever the error.
func (p *Pipeline[U, P]) Run(ctx context.Context) (*ResultSet, Stats, error) {
	started := time.Now()
	results := NewResultSet(p.Name, p.Columns...)
	var stats Stats

	log := p.Logger
	if log == nil {
		log = logging.Nop()
	}
	log = log.With("source", p.Name)

	threshold := p.MaxConsecutiveFailures
	if threshold <= 0 {
		threshold = DefaultMaxConsecutiveFailures
	}

	finish := func(err error) (*ResultSet, Stats, error) {
		stats.Records = results.Len()
		stats.Elapsed = time.Since(started)
		return results, stats, err
	}

	consecutive := 0
	// fail records a unit failure and returns a non-nil error once the
	// threshold is crossed.
	fail := func(err *UnitError) error {
		stats.Failed++
		consecutive++
		if consecutive > threshold {
			log.Error("too many consecutive failures, stopping", "threshold", threshold, "last_err", err)
			stats.Halted = true
			return fmt.Errorf("%w: %w", ErrThresholdExceeded, err)
		}
		log.Warn("unit failed", "stage", err.Stage, "unit", err.Unit, "err", err.Err, "consecutive", consecutive)
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			log.Warn("run cancelled", "err", err)
			return finish(err)
		}

		unit, ok, err := p.Units.Next(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return finish(ctxErr)
			}
			if haltErr := fail(&UnitError{Stage: StageEnumerate, Err: err}); haltErr != nil {
				return finish(haltErr)
			}
			continue
		}
		if !ok {
			break
		}

		stats.Units++
		label := unitLabel(unit)

		payload, err := p.Fetcher.Fetch(ctx, unit)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return finish(ctxErr)
			}
			if haltErr := fail(&UnitError{Unit: label, Stage: StageFetch, Err: err}); haltErr != nil {
				return finish(haltErr)
			}
			continue
		}

		vacancies, err := p.Extractor.Extract(payload)
		if err != nil {
			if haltErr := fail(&UnitError{Unit: label, Stage: StageExtract, Err: err}); haltErr != nil {
				return finish(haltErr)
			}
			continue
		}

		consecutive = 0
		stats.Succeeded++
		results.Append(vacancies...)
		log.Debug("unit done", "unit", label, "vacancies", len(vacancies), "total", results.Len())
	}

	log.Info("enumeration exhausted", "units", stats.Units, "failed", stats.Failed, "vacancies", results.Len())
	return finish(nil)
}
