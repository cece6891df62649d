// Package anticheat gates score submissions with heuristic run
// validation. The checks are intentionally approximate: they catch
// blatant replay/injection, not a determined adversary.
package anticheat

import (
	"fmt"
	"math"
	"time"

	"github.com/sasakorman/taxrunner/internal/model"
)

const (
	// ScorePerSecond caps how fast a legitimate run can accumulate score
	ScorePerSecond = 6.0

	// MinRunSeconds is the floor on required run duration
	MinRunSeconds = 8.0

	// GraceSeconds absorbs network and scheduling jitter
	GraceSeconds = 2.0

	// MinRhythmSamples is how many interval samples the rhythm rule needs
	MinRhythmSamples = 10

	// RhythmStdDevThreshold is the population stddev below which input
	// cadence counts as mechanical (same unit as the samples)
	RhythmStdDevThreshold = 50.0
)

// TooFastError reports a run shorter than the submitted score allows
type TooFastError struct {
	RequiredSeconds float64
	ElapsedSeconds  float64
}

func (e *TooFastError) Error() string {
	return fmt.Sprintf("run too fast: need %.1fs for this score, got %.1fs",
		e.RequiredSeconds, e.ElapsedSeconds)
}

func (e *TooFastError) Unwrap() error { return model.ErrTooFast }

// UnnaturalRhythmError reports mechanically uniform input cadence
type UnnaturalRhythmError struct {
	StdDev float64
}

func (e *UnnaturalRhythmError) Error() string {
	return fmt.Sprintf("unnatural input rhythm: stddev %.2f below %.0f",
		e.StdDev, RhythmStdDevThreshold)
}

func (e *UnnaturalRhythmError) Unwrap() error { return model.ErrUnnaturalRhythm }

// Validate applies the run-validation rules in order:
//  1. minimum time: required = max(score/6, 8) seconds, with a 2 second
//     grace window on the observed elapsed time
//  2. rhythm: with at least 10 interval samples, a population stddev
//     under the threshold fails
//
// Run existence and ownership are the caller's concern; admins bypass
// this function entirely.
func Validate(elapsed time.Duration, score float64, intervals []float64) error {
	required := math.Max(score/ScorePerSecond, MinRunSeconds)
	observed := elapsed.Seconds()
	if observed+GraceSeconds < required {
		return &TooFastError{RequiredSeconds: required, ElapsedSeconds: observed}
	}

	if len(intervals) >= MinRhythmSamples {
		if sd := popStdDev(intervals); sd < RhythmStdDevThreshold {
			return &UnnaturalRhythmError{StdDev: sd}
		}
	}
	return nil
}

// popStdDev computes the population standard deviation
func popStdDev(samples []float64) float64 {
	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))

	variance := 0.0
	for _, v := range samples {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(samples))
	return math.Sqrt(variance)
}
