// Shared shape of every vacancy source:
// Enumerator -> Fetcher -> Extractor -> ResultSet

package scraper

import (
	"context"
	"fmt"
)

// DefaultSentinel marks a field the source did not provide.
const DefaultSentinel = "Не указано"

// Field is one named value of a vacancy.
type Field struct {
	Name  string
	Value string
}

// Vacancy is an ordered set of fields. It is never modified once extracted.
type Vacancy []Field

// Get returns the value stored under name.
func (v Vacancy) Get(name string) (string, bool) {
	for _, f := range v {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Names lists the field names in extraction order.
func (v Vacancy) Names() []string {
	names := make([]string, len(v))
	for i, f := range v {
		names[i] = f.Name
	}
	return names
}

// Enumerator yields work units in a fixed order. ok is false once the
// sequence is exhausted. A returned error counts as a failed unit; the
// enumerator must still advance past whatever caused it.
type Enumerator[U any] interface {
	Next(ctx context.Context) (unit U, ok bool, err error)
}

// Fetcher performs exactly one retrieval for a unit and never retries.
type Fetcher[U, P any] interface {
	Fetch(ctx context.Context, unit U) (P, error)
}

// Extractor maps a raw payload to zero or more vacancies. Missing optional
// fields are not errors; only a malformed payload is.
type Extractor[P any] interface {
	Extract(payload P) ([]Vacancy, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc[U, P any] func(ctx context.Context, unit U) (P, error)

func (f FetcherFunc[U, P]) Fetch(ctx context.Context, unit U) (P, error) {
	return f(ctx, unit)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc[P any] func(payload P) ([]Vacancy, error)

func (f ExtractorFunc[P]) Extract(payload P) ([]Vacancy, error) {
	return f(payload)
}

// SliceEnumerator walks a fixed list of units.
type SliceEnumerator[U any] struct {
	units []U
	pos   int
}

func NewSliceEnumerator[U any](units ...U) *SliceEnumerator[U] {
	return &SliceEnumerator[U]{units: units}
}

func (e *SliceEnumerator[U]) Next(_ context.Context) (U, bool, error) {
	var zero U
	if e.pos >= len(e.units) {
		return zero, false, nil
	}
	u := e.units[e.pos]
	e.pos++
	return u, true, nil
}

func unitLabel(u any) string {
	if s, ok := u.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(u)
}
