package scraper

import (
	"errors"
	"fmt"
)

// ErrThresholdExceeded is returned when too many units failed back to back.
// The partial ResultSet is still valid and should be exported.
var ErrThresholdExceeded = errors.New("consecutive failure threshold exceeded")

// Stage names the step of the chain a unit failed in.
type Stage string

const (
	StageEnumerate Stage = "enumerate"
	StageFetch     Stage = "fetch"
	StageExtract   Stage = "extract"
)

// UnitError wraps the failure of a single work unit.
type UnitError struct {
	Unit  string
	Stage Stage
	Err   error
}

func (e *UnitError) Error() string {
	if e.Unit == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Unit, e.Err)
}

func (e *UnitError) Unwrap() error {
	return e.Err
}
