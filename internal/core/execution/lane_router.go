package execution

import (
	"fmt"
	"sync"

	"github.com/arbengine/engine/internal/core/execution/lanes"
	"github.com/arbengine/engine/internal/sport"
)

// LaneRouter maps (sport, league) to a dedicated execution lane. Each
// lane owns its own risk/spend/throttle/idempotency state (DOMAIN
// EXPANSION, spec §6's place_order path is gated through one of these
// lanes before reaching the venue).
type LaneRouter struct {
	mu    sync.RWMutex
	lanes map[string]*lanes.Lane // "basketball:nba" -> Lane
}

// NewLaneRouter returns an empty router.
func NewLaneRouter() *LaneRouter {
	return &LaneRouter{lanes: make(map[string]*lanes.Lane)}
}

func laneKey(s sport.Sport, league string) string {
	return fmt.Sprintf("%s:%s", s, league)
}

// Register wires a lane for one (sport, league) pair. league "*" is the
// fallback lane used when no league-specific lane is registered.
func (lr *LaneRouter) Register(s sport.Sport, league string, lane *lanes.Lane) {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	lr.lanes[laneKey(s, league)] = lane
}

// Route returns the lane for (sport, league), falling back to the
// sport-wide "*" lane, or nil if neither is registered.
func (lr *LaneRouter) Route(s sport.Sport, league string) *lanes.Lane {
	lr.mu.RLock()
	defer lr.mu.RUnlock()
	if lane, ok := lr.lanes[laneKey(s, league)]; ok {
		return lane
	}
	if lane, ok := lr.lanes[laneKey(s, "*")]; ok {
		return lane
	}
	return nil
}

// RegisterFromLimits builds and registers one lane per configured
// league under sport, plus a sport-wide fallback lane, from the
// loaded risk-limits config (spec §6 [risk] section, DOMAIN EXPANSION
// per-league granularity).
func RegisterFromLimits(router *LaneRouter, s sport.Sport, limits LaneLimits) {
	if len(limits.Leagues) == 0 {
		router.Register(s, "*", lanes.NewLane(limits.MaxOpenOrders, limits.MaxOrderCents, limits.MaxSportSpendCents, limits.ThrottleMs))
		return
	}
	for league, ll := range limits.Leagues {
		router.Register(s, league, lanes.NewLane(ll.MaxOpenOrders, ll.MaxOrderCents, limits.MaxSportSpendCents, ll.ThrottleMs))
	}
	router.Register(s, "*", lanes.NewLane(limits.MaxOpenOrders, limits.MaxOrderCents, limits.MaxSportSpendCents, limits.ThrottleMs))
}

// LaneLimits configures one sport's lane(s) (mirrors config.SportLaneConfig's
// per-sport YAML shape).
type LaneLimits struct {
	MaxOpenOrders      int
	MaxOrderCents      int
	MaxSportSpendCents int
	ThrottleMs         int64
	Leagues            map[string]LeagueLaneLimits
}

// LeagueLaneLimits overrides a sport's defaults for one league.
type LeagueLaneLimits struct {
	MaxOpenOrders int
	MaxOrderCents int
	ThrottleMs    int64
}
