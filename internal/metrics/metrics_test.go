package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordPlanGenerated(t *testing.T) {
	before := testutil.ToFloat64(PlansGenerated.WithLabelValues("Toning", "none"))
	RecordPlanGenerated("Toning", "", 4, 10*time.Millisecond)
	after := testutil.ToFloat64(PlansGenerated.WithLabelValues("Toning", "none"))
	if after-before != 1 {
		t.Errorf("plans generated delta = %v, want 1", after-before)
	}
}

func TestRecordDifficultyPrediction(t *testing.T) {
	tests := []struct {
		name  string
		label int
		want  string
	}{
		{name: "easy", label: 1, want: "1"},
		{name: "hard", label: 5, want: "5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(DifficultyPredictions.WithLabelValues(tt.want))
			RecordDifficultyPrediction(tt.label)
			if got := testutil.ToFloat64(DifficultyPredictions.WithLabelValues(tt.want)) - before; got != 1 {
				t.Errorf("delta = %v, want 1", got)
			}
		})
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "GET /api/healthy", "200"))
	RecordHTTPRequest("GET", "GET /api/healthy", 200, time.Millisecond)
	RecordHTTPRequest("GET", "GET /api/healthy", 200, time.Millisecond)
	if got := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "GET /api/healthy", "200")) - before; got != 2 {
		t.Errorf("delta = %v, want 2", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(HTTPActiveRequests); got != before+1 {
		t.Errorf("after inc = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(HTTPActiveRequests); got != before {
		t.Errorf("after dec = %v, want %v", got, before)
	}
}
