// Package cycle models the four phases of the menstrual cycle used to tune workout plans.
package cycle

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Phase is a menstrual cycle phase.
//
// A Phase may hold an unrecognized value. Consumers treat unrecognized phases as neutral.
type Phase string

// Cycle phases in the order they occur.
const (
	Menstrual  Phase = "menstrual"
	Follicular Phase = "follicular"
	Ovulation  Phase = "ovulation"
	Luteal     Phase = "luteal"
)

// Phases returns the recognized phases in cycle order.
func Phases() []Phase {
	return []Phase{Menstrual, Follicular, Ovulation, Luteal}
}

// Parse normalises s and reports whether it names a recognized phase.
//
// The normalised phase is returned even when it is not recognized.
func Parse(s string) (Phase, bool) {
	p := Phase(strings.ToLower(strings.TrimSpace(s)))
	return p, p.Known()
}

// Known reports whether p is one of the four recognized phases.
func (p Phase) Known() bool {
	switch p {
	case Menstrual, Follicular, Ovulation, Luteal:
		return true
	default:
		return false
	}
}

// Next returns the phase following p. Unrecognized phases have no successor and are returned as is.
func (p Phase) Next() Phase {
	switch p {
	case Menstrual:
		return Follicular
	case Follicular:
		return Ovulation
	case Ovulation:
		return Luteal
	case Luteal:
		return Menstrual
	default:
		return p
	}
}

func (p Phase) String() string {
	return string(p)
}

// Boundaries configures how days since the last period start map to phases.
type Boundaries struct {
	// MenstrualDays is the number of days the menstrual phase lasts counted from day 0.
	MenstrualDays int
	// FollicularEndDay is the first day after the follicular phase.
	FollicularEndDay int
	// OvulationEndDay is the first day of the luteal phase.
	OvulationEndDay int
	// CycleLengthDays is the full cycle length.
	CycleLengthDays int
}

// Default boundaries of a 28-day cycle.
const (
	DefaultMenstrualDays    = 5
	DefaultFollicularEndDay = 14
	DefaultOvulationEndDay  = 17
	DefaultCycleLengthDays  = 28
)

// DefaultBoundaries returns the boundaries of a typical 28-day cycle.
func DefaultBoundaries() Boundaries {
	return Boundaries{
		MenstrualDays:    DefaultMenstrualDays,
		FollicularEndDay: DefaultFollicularEndDay,
		OvulationEndDay:  DefaultOvulationEndDay,
		CycleLengthDays:  DefaultCycleLengthDays,
	}
}

// WithCycleLength returns a copy of b with the cycle length replaced when length is positive.
func (b Boundaries) WithCycleLength(length int) Boundaries {
	if length > 0 {
		b.CycleLengthDays = length
	}
	return b
}

// ErrInvalidBoundaries is returned by Validate.
var ErrInvalidBoundaries = errors.New("invalid cycle boundaries")

// Validate checks that the phases are non-empty and ordered within the cycle.
func (b Boundaries) Validate() error {
	if b.MenstrualDays <= 0 || b.FollicularEndDay <= b.MenstrualDays ||
		b.OvulationEndDay <= b.FollicularEndDay || b.CycleLengthDays <= b.OvulationEndDay {
		return fmt.Errorf("%w: menstrual %d, follicular end %d, ovulation end %d, length %d",
			ErrInvalidBoundaries, b.MenstrualDays, b.FollicularEndDay, b.OvulationEndDay, b.CycleLengthDays)
	}
	return nil
}

// PhaseOn derives the phase on day given the start date of the last period.
//
// Days are counted in whole calendar days modulo the cycle length, so dates before
// lastPeriodStart wrap around into the previous cycle.
func PhaseOn(lastPeriodStart, day time.Time, b Boundaries) Phase {
	length := b.CycleLengthDays
	if length <= 0 {
		length = DefaultCycleLengthDays
	}

	days := daysBetween(lastPeriodStart, day) % length
	if days < 0 {
		days += length
	}

	switch {
	case days < b.MenstrualDays:
		return Menstrual
	case days < b.FollicularEndDay:
		return Follicular
	case days < b.OvulationEndDay:
		return Ovulation
	default:
		return Luteal
	}
}

// daysBetween counts calendar days from a to b ignoring the time of day.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24) //nolint:mnd // hours per day
}
