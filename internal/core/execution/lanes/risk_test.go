package lanes

import "testing"

func TestRiskGuard_CanPlaceUpToLimit(t *testing.T) {
	g := NewRiskGuard(2, 100)

	if !g.CanPlace() {
		t.Fatal("expected an empty guard to allow placement")
	}
	g.RecordPlacement()
	if !g.CanPlace() {
		t.Error("expected placement to still be allowed at 1 of 2 open orders")
	}
	g.RecordPlacement()
	if g.CanPlace() {
		t.Error("expected placement to be denied at the open-order limit")
	}
}

func TestRiskGuard_FillAndCancelFreeASlot(t *testing.T) {
	g := NewRiskGuard(1, 100)
	g.RecordPlacement()
	if g.CanPlace() {
		t.Fatal("expected the single slot to be occupied")
	}

	g.RecordFill()
	if !g.CanPlace() {
		t.Error("expected a fill to free the slot")
	}

	g.RecordPlacement()
	g.RecordCancel()
	if !g.CanPlace() {
		t.Error("expected a cancel to free the slot")
	}
}

func TestRiskGuard_MaxOrderCents(t *testing.T) {
	g := NewRiskGuard(5, 250)
	if got := g.MaxOrderCents(); got != 250 {
		t.Errorf("expected MaxOrderCents 250, got %d", got)
	}
}
