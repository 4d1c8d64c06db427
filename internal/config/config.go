package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the engine's YAML-configured strategy/risk/execution/
// momentum/score-feed/sports sections (spec §6 Configuration) plus the
// env-loaded venue/sportsbook credentials that never belong in a file
// checked into version control.
type Config struct {
	Strategy   StrategyConfig   `yaml:"strategy"`
	Risk       RiskConfig       `yaml:"risk"`
	Execution  ExecutionConfig  `yaml:"execution"`
	Momentum   MomentumConfig   `yaml:"momentum"`
	ScoreFeed  ScoreFeedConfig  `yaml:"score_feed"`
	Sports     map[string]bool  `yaml:"sports"`

	// Env-only fields, never round-tripped to the YAML file.
	VenueBaseURL       string `yaml:"-"`
	VenueWSURL         string `yaml:"-"`
	VenueKeyID         string `yaml:"-"`
	VenueKeyFile       string `yaml:"-"`
	SportsbookAPIKey   string `yaml:"-"`
	Simulate           bool   `yaml:"-"`
	SimBankrollCents   int    `yaml:"-"`
	LogLevel           string `yaml:"-"`
}

// StrategyConfig mirrors spec §6's [strategy] section (cents).
type StrategyConfig struct {
	TakerEdgeThresholdCents int `yaml:"taker_edge_threshold_cents"`
	MakerEdgeThresholdCents int `yaml:"maker_edge_threshold_cents"`
	MinEdgeAfterFeesCents   int `yaml:"min_edge_after_fees_cents"`
}

// RiskConfig mirrors spec §6's [risk] section.
type RiskConfig struct {
	MaxContractsPerMarket int     `yaml:"max_contracts_per_market"`
	MaxTotalExposureCents int     `yaml:"max_total_exposure_cents"`
	MaxConcurrentMarkets  int     `yaml:"max_concurrent_markets"`
	KellyFraction         float64 `yaml:"kelly_fraction"`

	// Lanes is the DOMAIN EXPANSION per (sport, league) execution-lane
	// sizing table; absent entries fall back to a conservative default
	// lane built from the fields above.
	Lanes map[string]SportLaneConfig `yaml:"lanes"`
}

// SportLaneConfig configures one sport's execution lane(s).
type SportLaneConfig struct {
	MaxOpenOrders      int                        `yaml:"max_open_orders"`
	MaxOrderCents      int                        `yaml:"max_order_cents"`
	MaxSportSpendCents int                        `yaml:"max_sport_spend_cents"`
	ThrottleMs         int64                      `yaml:"throttle_ms"`
	Leagues            map[string]LeagueLaneConfig `yaml:"leagues"`
}

// LeagueLaneConfig overrides a sport lane's defaults for one league.
type LeagueLaneConfig struct {
	MaxOpenOrders int   `yaml:"max_open_orders"`
	MaxOrderCents int   `yaml:"max_order_cents"`
	ThrottleMs    int64 `yaml:"throttle_ms"`
}

// ExecutionConfig mirrors spec §6's [execution] section.
type ExecutionConfig struct {
	MakerTimeoutMs       int `yaml:"maker_timeout_ms"`
	StaleOddsThresholdMs int `yaml:"stale_odds_threshold_ms"`
}

// MomentumConfig mirrors spec §6's [momentum] section.
type MomentumConfig struct {
	VelocityWindowSize      int     `yaml:"velocity_window_size"`
	MakerMomentumThreshold  float64 `yaml:"maker_momentum_threshold"`
	TakerMomentumThreshold  float64 `yaml:"taker_momentum_threshold"`
}

// ScoreFeedConfig mirrors spec §6's [score_feed] section.
type ScoreFeedConfig struct {
	PrimaryURL             string `yaml:"primary_url"`
	SecondaryURL           string `yaml:"secondary_url"`
	LivePollIntervalSec    int    `yaml:"live_poll_interval_s"`
	PreGamePollIntervalSec int    `yaml:"pre_game_poll_interval_s"`
	FailoverThreshold      int    `yaml:"failover_threshold"`
	RequestTimeoutMs       int    `yaml:"request_timeout_ms"`
}

// Load reads the YAML config at path and overlays env-only secrets
// (via a .env file if present, per the teacher's godotenv use).
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Sports == nil {
		cfg.Sports = map[string]bool{}
	}

	mode := envStr("VENUE_MODE", "prod")
	if mode == "prod" {
		cfg.VenueBaseURL = envStr("VENUE_BASE_URL", "https://api.elections.kalshi.com")
		cfg.VenueWSURL = envStr("VENUE_WS_URL", "wss://api.elections.kalshi.com/trade-api/ws/v2")
		cfg.VenueKeyID = envStr("VENUE_PROD_KEYID", "")
		cfg.VenueKeyFile = envStr("VENUE_PROD_KEYFILE", "")
	} else {
		cfg.VenueBaseURL = envStr("VENUE_BASE_URL", "https://demo-api.kalshi.co")
		cfg.VenueWSURL = envStr("VENUE_WS_URL", "wss://demo-api.kalshi.co/trade-api/ws/v2")
		cfg.VenueKeyID = envStr("VENUE_DEMO_KEYID", "")
		cfg.VenueKeyFile = envStr("VENUE_DEMO_KEYFILE", "")
	}
	cfg.SportsbookAPIKey = envStr("SPORTSBOOK_API_KEY", "")
	cfg.Simulate = envStr("SIMULATE", "") == "true"
	cfg.SimBankrollCents = envInt("SIMULATE_BANKROLL_CENTS", 10_000_00)
	cfg.LogLevel = envStr("LOG_LEVEL", "info")

	return &cfg, nil
}

// SaveSports rewrites only the "sports" mapping in the YAML file at
// path, leaving every other section (and its comments/ordering)
// untouched — spec §6: sport toggles are "rewritten to disk on every
// UI change preserving unrelated sections."
func SaveSports(path string, enabled map[string]bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if len(root.Content) == 0 {
		return fmt.Errorf("empty config document")
	}
	doc := root.Content[0]

	sportsNode := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for sportKey, on := range enabled {
		sportsNode.Content = append(sportsNode.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: sportKey},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(on)},
		)
	}

	replaced := false
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if doc.Content[i].Value == "sports" {
			doc.Content[i+1] = sportsNode
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "sports"},
			sportsNode,
		)
	}

	out, err := yaml.Marshal(&root)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, out, 0o644)
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

