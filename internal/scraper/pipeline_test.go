package scraper

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

// scriptedFetcher fails the listed units and records every call.
type scriptedFetcher struct {
	fail  map[int]bool
	calls []int
}

func (f *scriptedFetcher) Fetch(_ context.Context, unit int) (int, error) {
	f.calls = append(f.calls, unit)
	if f.fail[unit] {
		return 0, errBoom
	}
	return unit, nil
}

// twoPerUnit yields two vacancies per payload.
var twoPerUnit = ExtractorFunc[int](func(p int) ([]Vacancy, error) {
	return []Vacancy{
		{{Name: "id", Value: fmt.Sprintf("%d-a", p)}},
		{{Name: "id", Value: fmt.Sprintf("%d-b", p)}},
	}, nil
})

func ids(rs *ResultSet) []string {
	var out []string
	for _, v := range rs.Records() {
		id, _ := v.Get("id")
		out = append(out, id)
	}
	return out
}

func TestPipeline_Run_PreservesEnumerationOrder(t *testing.T) {
	fetcher := &scriptedFetcher{}
	p := &Pipeline[int, int]{
		Name:      "test",
		Units:     NewSliceEnumerator(1, 2, 3, 4),
		Fetcher:   fetcher,
		Extractor: twoPerUnit,
	}

	rs, stats, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"1-a", "1-b", "2-a", "2-b", "3-a", "3-b", "4-a", "4-b"}, ids(rs))
	assert.Equal(t, 4, stats.Units)
	assert.Equal(t, 4, stats.Succeeded)
	assert.Equal(t, 8, stats.Records)
	assert.False(t, stats.Halted)
}

func TestPipeline_Run_FailedUnitIsSkipped(t *testing.T) {
	fetcher := &scriptedFetcher{fail: map[int]bool{2: true}}
	p := &Pipeline[int, int]{
		Name:                   "test",
		Units:                  NewSliceEnumerator(1, 2, 3),
		Fetcher:                WithRetry[int, int](fetcher, RetryPolicy{Attempts: 2, InitialInterval: time.Millisecond}),
		Extractor:              twoPerUnit,
		MaxConsecutiveFailures: 5,
	}

	rs, stats, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"1-a", "1-b", "3-a", "3-b"}, ids(rs))
	assert.Equal(t, []int{1, 2, 2, 3}, fetcher.calls, "unit 2 fails twice in a row, then the run moves on")
	assert.Equal(t, 1, stats.Failed)
	assert.False(t, stats.Halted)
}

func TestPipeline_Run_HaltsAfterThresholdPlusOne(t *testing.T) {
	fail := map[int]bool{}
	for i := 1; i <= 6; i++ {
		fail[i] = true
	}
	fetcher := &scriptedFetcher{fail: fail}
	p := &Pipeline[int, int]{
		Name:                   "test",
		Units:                  NewSliceEnumerator(1, 2, 3, 4, 5, 6, 7, 8),
		Fetcher:                fetcher,
		Extractor:              twoPerUnit,
		MaxConsecutiveFailures: 5,
	}

	rs, stats, err := p.Run(context.Background())

	assert.ErrorIs(t, err, ErrThresholdExceeded)
	var unitErr *UnitError
	require.ErrorAs(t, err, &unitErr)
	assert.Equal(t, "6", unitErr.Unit)
	assert.Equal(t, StageFetch, unitErr.Stage)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 0, rs.Len())
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, fetcher.calls, "units 7 and 8 must never be fetched")
	assert.True(t, stats.Halted)
	assert.Equal(t, 6, stats.Failed)
}

func TestPipeline_Run_ExactlyThresholdFailuresDoesNotHalt(t *testing.T) {
	fetcher := &scriptedFetcher{fail: map[int]bool{1: true, 2: true, 3: true}}
	p := &Pipeline[int, int]{
		Name:                   "test",
		Units:                  NewSliceEnumerator(1, 2, 3, 4),
		Fetcher:                fetcher,
		Extractor:              twoPerUnit,
		MaxConsecutiveFailures: 3,
	}

	rs, stats, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"4-a", "4-b"}, ids(rs))
	assert.False(t, stats.Halted)
}

func TestPipeline_Run_SuccessResetsCounter(t *testing.T) {
	// 3 failures, 1 success, 3 failures, 1 success: never 4 in a row.
	fetcher := &scriptedFetcher{fail: map[int]bool{1: true, 2: true, 3: true, 5: true, 6: true, 7: true}}
	p := &Pipeline[int, int]{
		Name:                   "test",
		Units:                  NewSliceEnumerator(1, 2, 3, 4, 5, 6, 7, 8),
		Fetcher:                fetcher,
		Extractor:              twoPerUnit,
		MaxConsecutiveFailures: 3,
	}

	rs, stats, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"4-a", "4-b", "8-a", "8-b"}, ids(rs))
	assert.Equal(t, 6, stats.Failed)
	assert.False(t, stats.Halted)
}

func TestPipeline_Run_ExtractErrorCountsAsFailure(t *testing.T) {
	extract := ExtractorFunc[int](func(p int) ([]Vacancy, error) {
		if p == 1 {
			return nil, errors.New("missing top-level key")
		}
		return []Vacancy{{{Name: "id", Value: fmt.Sprint(p)}}}, nil
	})
	p := &Pipeline[int, int]{
		Name:                   "test",
		Units:                  NewSliceEnumerator(1, 2),
		Fetcher:                &scriptedFetcher{},
		Extractor:              extract,
		MaxConsecutiveFailures: 0,
	}

	rs, stats, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids(rs))
	assert.Equal(t, 1, stats.Failed)
}

func TestPipeline_Run_EmptyExtractionIsSuccess(t *testing.T) {
	none := ExtractorFunc[int](func(int) ([]Vacancy, error) { return nil, nil })
	fetcher := &scriptedFetcher{}
	p := &Pipeline[int, int]{
		Name:      "test",
		Units:     NewSliceEnumerator(1, 2, 3),
		Fetcher:   fetcher,
		Extractor: none,
	}

	rs, stats, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, rs.Len())
	assert.Equal(t, []int{1, 2, 3}, fetcher.calls, "an empty page does not end enumeration")
	assert.Equal(t, 3, stats.Succeeded)
}

func TestPipeline_Run_CancelledContextKeepsPartialResults(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetch := FetcherFunc[int, int](func(_ context.Context, u int) (int, error) {
		if u == 2 {
			cancel()
		}
		return u, nil
	})
	p := &Pipeline[int, int]{
		Name:      "test",
		Units:     NewSliceEnumerator(1, 2, 3),
		Fetcher:   fetch,
		Extractor: twoPerUnit,
	}

	rs, _, err := p.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"1-a", "1-b", "2-a", "2-b"}, ids(rs))
}

type flakyEnumerator struct {
	calls int
}

func (e *flakyEnumerator) Next(context.Context) (int, bool, error) {
	e.calls++
	switch e.calls {
	case 1:
		return 0, false, errors.New("probe failed")
	case 2:
		return 7, true, nil
	default:
		return 0, false, nil
	}
}

func TestPipeline_Run_EnumeratorErrorIsAFailure(t *testing.T) {
	p := &Pipeline[int, int]{
		Name:      "test",
		Units:     &flakyEnumerator{},
		Fetcher:   &scriptedFetcher{},
		Extractor: twoPerUnit,
	}

	rs, stats, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"7-a", "7-b"}, ids(rs))
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.Units)
}
