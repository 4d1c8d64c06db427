package execution

import (
	"context"
	"testing"
	"time"

	"github.com/arbengine/engine/internal/core/broadcast"
	"github.com/arbengine/engine/internal/core/execution/lanes"
	"github.com/arbengine/engine/internal/core/signal"
	"github.com/arbengine/engine/internal/sport"
)

type fakePlacer struct {
	calls chan OrderRequest
	res   OrderResult
	err   error
}

func newFakePlacer() *fakePlacer {
	return &fakePlacer{calls: make(chan OrderRequest, 4)}
}

func (f *fakePlacer) PlaceOrder(ctx context.Context, req OrderRequest) (OrderResult, error) {
	f.calls <- req
	return f.res, f.err
}

func TestExecute_SkipActionNeverRoutesOrPlaces(t *testing.T) {
	router := NewLaneRouter()
	placer := newFakePlacer()
	svc := NewService(router, placer, broadcast.New(), 0)

	svc.Execute(context.Background(), sport.Basketball, "", "T1", 0, 0, signal.Signal{Action: signal.Skip})

	select {
	case <-placer.calls:
		t.Fatal("expected Skip to never reach the order placer")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestExecute_NoLaneConfiguredRejects(t *testing.T) {
	router := NewLaneRouter() // nothing registered
	placer := newFakePlacer()
	svc := NewService(router, placer, broadcast.New(), 0)

	svc.Execute(context.Background(), sport.Basketball, "", "T1", 0, 0, signal.Signal{Action: signal.TakerBuy, Price: 50, Quantity: 1})

	select {
	case <-placer.calls:
		t.Fatal("expected an unrouted sport/league to never reach the order placer")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestExecute_OverLaneCapRejects(t *testing.T) {
	router := NewLaneRouter()
	router.Register(sport.Basketball, "*", lanes.NewLane(10, 40, 10_000, 0)) // cap 40¢/order
	placer := newFakePlacer()
	svc := NewService(router, placer, broadcast.New(), 0)

	svc.Execute(context.Background(), sport.Basketball, "", "T1", 0, 0, signal.Signal{Action: signal.TakerBuy, Price: 50, Quantity: 1}) // 50¢ order

	select {
	case <-placer.calls:
		t.Fatal("expected an order exceeding the lane's per-order cap to be rejected")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestExecute_AcceptedOrderReachesPlacer(t *testing.T) {
	router := NewLaneRouter()
	router.Register(sport.Basketball, "*", lanes.NewLane(10, 1000, 10_000, 0))
	placer := newFakePlacer()
	placer.res = OrderResult{OrderID: "o1", FillCount: 1, RemainingCount: 0}
	svc := NewService(router, placer, broadcast.New(), 0)

	svc.Execute(context.Background(), sport.Basketball, "", "T1", 0, 0, signal.Signal{Action: signal.TakerBuy, Price: 50, Quantity: 1})

	select {
	case req := <-placer.calls:
		if req.Ticker != "T1" || req.PriceCents != 50 || req.Count != 1 {
			t.Errorf("unexpected order request: %+v", req)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("expected the accepted order to reach the placer")
	}
}

func TestExecute_DuplicateScoreIsIdempotent(t *testing.T) {
	router := NewLaneRouter()
	router.Register(sport.Basketball, "*", lanes.NewLane(10, 1000, 10_000, 0))
	placer := newFakePlacer()
	placer.res = OrderResult{OrderID: "o1"}
	svc := NewService(router, placer, broadcast.New(), 0)

	sig := signal.Signal{Action: signal.TakerBuy, Price: 50, Quantity: 1}
	svc.Execute(context.Background(), sport.Basketball, "", "T1", 3, 2, sig)
	<-placer.calls // drain the first accepted order

	svc.Execute(context.Background(), sport.Basketball, "", "T1", 3, 2, sig) // identical ticker+score

	select {
	case <-placer.calls:
		t.Fatal("expected a duplicate (ticker, score) order to be rejected by lane idempotency")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestClampPriceCents_Bounds(t *testing.T) {
	if got := clampPriceCents(0); got != 1 {
		t.Errorf("expected 0 clamped to 1, got %d", got)
	}
	if got := clampPriceCents(150); got != 99 {
		t.Errorf("expected 150 clamped to 99, got %d", got)
	}
	if got := clampPriceCents(50); got != 50 {
		t.Errorf("expected an in-range price to pass through unchanged, got %d", got)
	}
}
