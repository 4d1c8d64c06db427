package momentum

import (
	"testing"
	"time"
)

func TestVelocityTracker_NoSamples(t *testing.T) {
	vt := NewVelocityTracker(5)
	if score := vt.Score(); score != 0 {
		t.Errorf("expected score 0 with no samples, got %f", score)
	}
}

func TestVelocityTracker_SingleSample(t *testing.T) {
	vt := NewVelocityTracker(5)
	vt.Append(50, time.Now(), false)
	if score := vt.Score(); score != 0 {
		t.Errorf("expected score 0 with a single sample, got %f", score)
	}
}

func TestVelocityTracker_RisingFairValue(t *testing.T) {
	vt := NewVelocityTracker(5)
	now := time.Now()
	vt.Append(50, now, false)
	vt.Append(55, now.Add(1*time.Second), false)

	score := vt.Score()
	if score <= 0 {
		t.Errorf("expected positive score for rising fair value, got %f", score)
	}
}

func TestVelocityTracker_FallingFairValue(t *testing.T) {
	vt := NewVelocityTracker(5)
	now := time.Now()
	vt.Append(60, now, false)
	vt.Append(50, now.Add(1*time.Second), false)

	score := vt.Score()
	if score >= 0 {
		t.Errorf("expected negative score for falling fair value, got %f", score)
	}
}

func TestVelocityTracker_ClampsToRange(t *testing.T) {
	vt := NewVelocityTracker(5)
	now := time.Now()
	vt.Append(0, now, false)
	vt.Append(100, now.Add(1*time.Millisecond), false)

	if score := vt.Score(); score != 100 {
		t.Errorf("expected score clamped to 100, got %f", score)
	}
}

func TestVelocityTracker_DeduplicatesConsecutiveSamples(t *testing.T) {
	vt := NewVelocityTracker(5)
	now := time.Now()
	vt.Append(50, now, false)
	vt.Append(50, now.Add(1*time.Second), false)
	vt.Append(50, now.Add(2*time.Second), false)

	if len(vt.samples) != 1 {
		t.Errorf("expected duplicate consecutive samples to be dropped, got %d samples", len(vt.samples))
	}
}

func TestVelocityTracker_ReplaySamplesAreSuppressed(t *testing.T) {
	vt := NewVelocityTracker(5)
	now := time.Now()
	vt.Append(50, now, false)
	vt.Append(80, now.Add(1*time.Second), true)

	if len(vt.samples) != 1 {
		t.Errorf("expected replay append to be suppressed, got %d samples", len(vt.samples))
	}
	if score := vt.Score(); score != 0 {
		t.Errorf("expected score 0 since only one real sample landed, got %f", score)
	}
}

func TestVelocityTracker_RingEviction(t *testing.T) {
	vt := NewVelocityTracker(3)
	now := time.Now()
	for i, fv := range []int{10, 20, 30, 40} {
		vt.Append(fv, now.Add(time.Duration(i)*time.Second), false)
	}
	if len(vt.samples) != 3 {
		t.Fatalf("expected ring capped at 3 samples, got %d", len(vt.samples))
	}
	if vt.samples[0].FairValue != 20 {
		t.Errorf("expected oldest sample evicted, first remaining is %d", vt.samples[0].FairValue)
	}
}
