package workout_test

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/myrjola/cyclefit/internal/workout"
)

func TestReps_JSON(t *testing.T) {
	tests := []struct {
		name string
		reps workout.Reps
		json string
	}{
		{name: "count", reps: workout.RepCount(12), json: `12`},
		{name: "duration", reps: workout.RepSeconds(30), json: `"30 seconds"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.reps)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(data) != tt.json {
				t.Errorf("Marshal() = %s, want %s", data, tt.json)
			}
			var got workout.Reps
			if err = json.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if got != tt.reps {
				t.Errorf("Unmarshal() = %+v, want %+v", got, tt.reps)
			}
		})
	}

	var r workout.Reps
	if err := json.Unmarshal([]byte(`{}`), &r); err == nil {
		t.Error("expected an error for an object")
	}
}

func TestReps_Seconds(t *testing.T) {
	tests := []struct {
		text   string
		want   int
		wantOK bool
	}{
		{text: "45 seconds", want: 45, wantOK: true},
		{text: "5seconds", wantOK: false},
		{text: "seconds", wantOK: false},
		{text: "1 minute", wantOK: false},
	}
	for _, tt := range tests {
		got, ok := workout.Reps{Text: tt.text}.Seconds()
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Seconds(%q) = %d, %v; want %d, %v", tt.text, got, ok, tt.want, tt.wantOK)
		}
	}
}
