package cycle_test

import (
	"errors"
	"testing"
	"time"

	"github.com/myrjola/cyclefit/internal/cycle"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in    string
		want  cycle.Phase
		known bool
	}{
		{in: "menstrual", want: cycle.Menstrual, known: true},
		{in: "  Follicular ", want: cycle.Follicular, known: true},
		{in: "OVULATION", want: cycle.Ovulation, known: true},
		{in: "luteal", want: cycle.Luteal, known: true},
		{in: "pregnant", want: cycle.Phase("pregnant"), known: false},
		{in: "", want: cycle.Phase(""), known: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, known := cycle.Parse(tt.in)
			if got != tt.want || known != tt.known {
				t.Errorf("Parse(%q) = %q, %v; want %q, %v", tt.in, got, known, tt.want, tt.known)
			}
		})
	}
}

func TestNext(t *testing.T) {
	p := cycle.Menstrual
	var seen []cycle.Phase
	for range 4 {
		seen = append(seen, p)
		p = p.Next()
	}
	if p != cycle.Menstrual {
		t.Errorf("expected the cycle to wrap back to menstrual, got %q", p)
	}
	for i, want := range cycle.Phases() {
		if seen[i] != want {
			t.Errorf("step %d: got %q, want %q", i, seen[i], want)
		}
	}
	if got := cycle.Phase("unknown").Next(); got != "unknown" {
		t.Errorf("unknown phase should not advance, got %q", got)
	}
}

func TestPhaseOn(t *testing.T) {
	start := time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC)
	b := cycle.DefaultBoundaries()

	tests := []struct {
		name string
		day  int
		want cycle.Phase
	}{
		{name: "first day", day: 0, want: cycle.Menstrual},
		{name: "last menstrual day", day: 4, want: cycle.Menstrual},
		{name: "follicular starts", day: 5, want: cycle.Follicular},
		{name: "last follicular day", day: 13, want: cycle.Follicular},
		{name: "ovulation starts", day: 14, want: cycle.Ovulation},
		{name: "last ovulation day", day: 16, want: cycle.Ovulation},
		{name: "luteal starts", day: 17, want: cycle.Luteal},
		{name: "last cycle day", day: 27, want: cycle.Luteal},
		{name: "next cycle", day: 28, want: cycle.Menstrual},
		{name: "before start wraps around", day: -1, want: cycle.Luteal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day := time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC).AddDate(0, 0, tt.day)
			if got := cycle.PhaseOn(start, day, b); got != tt.want {
				t.Errorf("PhaseOn(day %d) = %q, want %q", tt.day, got, tt.want)
			}
		})
	}
}

func TestPhaseOn_CustomCycleLength(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := cycle.DefaultBoundaries().WithCycleLength(35)

	if got := cycle.PhaseOn(start, start.AddDate(0, 0, 30), b); got != cycle.Luteal {
		t.Errorf("day 30 of a 35-day cycle: got %q, want luteal", got)
	}
	if got := cycle.PhaseOn(start, start.AddDate(0, 0, 35), b); got != cycle.Menstrual {
		t.Errorf("day 35 of a 35-day cycle: got %q, want menstrual", got)
	}
	if got := cycle.DefaultBoundaries().WithCycleLength(0).CycleLengthDays; got != cycle.DefaultCycleLengthDays {
		t.Errorf("non-positive length should keep the default, got %d", got)
	}
}

func TestBoundaries_Validate(t *testing.T) {
	tests := []struct {
		name    string
		b       cycle.Boundaries
		wantErr bool
	}{
		{name: "default", b: cycle.DefaultBoundaries(), wantErr: false},
		{name: "single day phases", b: cycle.Boundaries{
			MenstrualDays: 1, FollicularEndDay: 2, OvulationEndDay: 3, CycleLengthDays: 4}, wantErr: false},
		{name: "no menstrual days", b: cycle.Boundaries{
			MenstrualDays: 0, FollicularEndDay: 14, OvulationEndDay: 17, CycleLengthDays: 28}, wantErr: true},
		{name: "empty ovulation", b: cycle.Boundaries{
			MenstrualDays: 5, FollicularEndDay: 14, OvulationEndDay: 14, CycleLengthDays: 28}, wantErr: true},
		{name: "no luteal days", b: cycle.DefaultBoundaries().WithCycleLength(17), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.b.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, cycle.ErrInvalidBoundaries) {
				t.Errorf("Validate() error = %v, want ErrInvalidBoundaries", err)
			}
		})
	}
}
