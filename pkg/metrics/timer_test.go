package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewTimerStartsNow(t *testing.T) {
	timer := NewTimer()
	if timer.start.IsZero() {
		t.Fatal("NewTimer() start time is zero")
	}
	if time.Since(timer.start) > time.Second {
		t.Error("NewTimer() start time is not recent")
	}
}

func TestTimerDurationGrowsWithElapsedTime(t *testing.T) {
	timer := NewTimer()
	time.Sleep(50 * time.Millisecond)
	first := timer.Duration()
	if first < 50*time.Millisecond {
		t.Errorf("Duration() = %v, want >= 50ms", first)
	}

	time.Sleep(50 * time.Millisecond)
	second := timer.Duration()
	if second <= first {
		t.Errorf("second Duration() %v should exceed first %v", second, first)
	}
}

func TestTimerObserveDurationRecordsIntoHistogram(t *testing.T) {
	h := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: "test_stage_seconds",
		Help: "test histogram",
	})

	timer := NewTimer()
	time.Sleep(10 * time.Millisecond)
	timer.ObserveDuration(h)

	if n := testutil.CollectAndCount(h); n != 1 {
		t.Errorf("CollectAndCount() = %d, want 1", n)
	}
}

// TestTimerObserveDurationVecLabelsByStage exercises the exact call shape
// pipeline.Worker.Run uses: one histogram vec, one label per stage.
func TestTimerObserveDurationVecLabelsByStage(t *testing.T) {
	vec := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "test_stage_duration_seconds", Help: "test"},
		[]string{"stage"},
	)

	timer := NewTimer()
	time.Sleep(10 * time.Millisecond)
	timer.ObserveDurationVec(vec, "s3_public_tracking")

	if n := testutil.CollectAndCount(vec, "test_stage_duration_seconds"); n != 1 {
		t.Errorf("CollectAndCount() = %d, want 1 observation under s3_public_tracking", n)
	}
}

func TestTimerZeroDurationBeforeAnyWork(t *testing.T) {
	timer := NewTimer()
	if d := timer.Duration(); d < 0 || d > time.Millisecond {
		t.Errorf("Duration() = %v, want in [0, 1ms)", d)
	}
}

func TestIndependentTimersDoNotShareState(t *testing.T) {
	first := NewTimer()
	time.Sleep(30 * time.Millisecond)
	second := NewTimer()
	time.Sleep(30 * time.Millisecond)

	if first.Duration() <= second.Duration() {
		t.Error("the earlier timer should report a longer duration")
	}
}
