package momentum

import "testing"

func TestComposite_Weighting(t *testing.T) {
	// spec §4.4: momentum = 0.6*velocity + 0.4*book_pressure
	got := Composite(50, 0)
	want := 30.0
	if got != want {
		t.Errorf("expected velocity-only composite %f, got %f", want, got)
	}

	got = Composite(0, 50)
	want = 20.0
	if got != want {
		t.Errorf("expected book-pressure-only composite %f, got %f", want, got)
	}
}

func TestComposite_ClampsToRange(t *testing.T) {
	if got := Composite(100, 100); got != 100 {
		t.Errorf("expected composite clamped to 100, got %f", got)
	}
	if got := Composite(-100, -100); got != -100 {
		t.Errorf("expected composite clamped to -100, got %f", got)
	}
}

func TestComposite_OppositeSignsPartiallyCancel(t *testing.T) {
	got := Composite(100, -100)
	want := 20.0 // 0.6*100 - 0.4*100
	if got != want {
		t.Errorf("expected opposing velocity/book-pressure to partially cancel to %f, got %f", want, got)
	}
}
