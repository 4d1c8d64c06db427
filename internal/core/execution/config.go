package execution

import (
	"github.com/arbengine/engine/internal/config"
	"github.com/arbengine/engine/internal/sport"
)

// RegisterAllFromConfig builds and registers one lane set per sport
// named in cfg.Risk.Lanes, falling back to a conservative default lane
// for any enabled sport left unconfigured.
func RegisterAllFromConfig(router *LaneRouter, cfg config.RiskConfig, enabled map[sport.Sport]bool) {
	for s, on := range enabled {
		if !on {
			continue
		}
		sl, ok := cfg.Lanes[string(s)]
		if !ok {
			RegisterFromLimits(router, s, defaultLaneLimits(cfg))
			continue
		}
		RegisterFromLimits(router, s, laneLimitsFromConfig(sl))
	}
}

func laneLimitsFromConfig(sl config.SportLaneConfig) LaneLimits {
	leagues := make(map[string]LeagueLaneLimits, len(sl.Leagues))
	for league, ll := range sl.Leagues {
		leagues[league] = LeagueLaneLimits{
			MaxOpenOrders: ll.MaxOpenOrders,
			MaxOrderCents: ll.MaxOrderCents,
			ThrottleMs:    ll.ThrottleMs,
		}
	}
	return LaneLimits{
		MaxOpenOrders:      sl.MaxOpenOrders,
		MaxOrderCents:      sl.MaxOrderCents,
		MaxSportSpendCents: sl.MaxSportSpendCents,
		ThrottleMs:         sl.ThrottleMs,
		Leagues:            leagues,
	}
}

func defaultLaneLimits(cfg config.RiskConfig) LaneLimits {
	return LaneLimits{
		MaxOpenOrders:      cfg.MaxConcurrentMarkets,
		MaxOrderCents:      cfg.MaxTotalExposureCents,
		MaxSportSpendCents: cfg.MaxTotalExposureCents,
		ThrottleMs:         250,
	}
}
