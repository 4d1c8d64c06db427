// Package calibration persists a diagnostic history of signal-engine
// decisions and score-drop verdicts to SQLite. This is additive
// logging only — the engine's correctness across a restart never
// depends on it (SPEC_FULL.md Non-goals: "no persistent storage
// required for correct operation across restarts"). Grounded on the
// teacher's internal/core/overturn/store.go (WAL-mode sqlite, single
// open connection, CREATE TABLE IF NOT EXISTS schema).
package calibration

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/arbengine/engine/internal/telemetry"
)

// DecisionRow is one signal-engine decision (spec §4.3 Output), logged
// alongside the market/game context that produced it.
type DecisionRow struct {
	Ts                time.Time
	Sport             string
	Ticker            string
	HomeTeam          string
	AwayTeam          string
	HomeScore         int
	AwayScore         int
	FairValueCents    int
	BidCents          int
	AskCents          int
	Action            string // "skip" | "maker_buy" | "taker_buy"
	PriceCents        int
	Quantity          int
	EdgeCents         int
	NetProfitEstimate int
	Momentum          float64
	IsReplay          bool
}

// ScoreDropRow is one score-drop verdict (spec §9 Open Question /
// SPEC_FULL.md DOMAIN EXPANSION "score-drop / overturn confirmation").
type ScoreDropRow struct {
	Ts           time.Time
	Sport        string
	GameID       string
	Verdict      string // "pending" | "confirmed"
	OldHomeScore int
	OldAwayScore int
	NewHomeScore int
	NewAwayScore int
}

// Store persists decision and score-drop history in a SQLite database.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates (if needed) and opens the sqlite database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create calibration store dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS decisions (
			id                  INTEGER PRIMARY KEY AUTOINCREMENT,
			ts                  TEXT    NOT NULL,
			sport               TEXT    NOT NULL,
			ticker              TEXT    NOT NULL,
			home_team           TEXT,
			away_team           TEXT,
			home_score          INTEGER,
			away_score          INTEGER,
			fair_value_cents    INTEGER NOT NULL,
			bid_cents           INTEGER NOT NULL,
			ask_cents           INTEGER NOT NULL,
			action              TEXT    NOT NULL,
			price_cents         INTEGER,
			quantity            INTEGER,
			edge_cents          INTEGER,
			net_profit_estimate INTEGER,
			momentum            REAL,
			is_replay           INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_ticker ON decisions(ticker)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_ts ON decisions(ts)`,
		`CREATE TABLE IF NOT EXISTS score_drops (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			ts              TEXT    NOT NULL,
			sport           TEXT    NOT NULL,
			game_id         TEXT    NOT NULL,
			verdict         TEXT    NOT NULL,
			old_home_score  INTEGER NOT NULL,
			old_away_score  INTEGER NOT NULL,
			new_home_score  INTEGER NOT NULL,
			new_away_score  INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_score_drops_game_id ON score_drops(game_id)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("init schema (%s): %w", stmt, err)
		}
	}

	var count int64
	if err := db.QueryRow(`SELECT COUNT(*) FROM decisions`).Scan(&count); err != nil {
		db.Close()
		return nil, fmt.Errorf("read row count: %w", err)
	}
	telemetry.Infof("opened calibration store path=%s rows=%d", path, count)

	return &Store{db: db}, nil
}

// InsertDecision logs one signal-engine decision.
func (s *Store) InsertDecision(row DecisionRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	isReplay := 0
	if row.IsReplay {
		isReplay = 1
	}
	_, err := s.db.Exec(
		`INSERT INTO decisions (
			ts, sport, ticker, home_team, away_team, home_score, away_score,
			fair_value_cents, bid_cents, ask_cents,
			action, price_cents, quantity, edge_cents, net_profit_estimate,
			momentum, is_replay
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		row.Ts.UTC().Format(time.RFC3339Nano),
		row.Sport, row.Ticker, row.HomeTeam, row.AwayTeam, row.HomeScore, row.AwayScore,
		row.FairValueCents, row.BidCents, row.AskCents,
		row.Action, row.PriceCents, row.Quantity, row.EdgeCents, row.NetProfitEstimate,
		row.Momentum, isReplay,
	)
	return err
}

// InsertScoreDrop logs one score-drop verdict.
func (s *Store) InsertScoreDrop(row ScoreDropRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO score_drops (
			ts, sport, game_id, verdict,
			old_home_score, old_away_score, new_home_score, new_away_score
		) VALUES (?,?,?,?,?,?,?,?)`,
		row.Ts.UTC().Format(time.RFC3339Nano),
		row.Sport, row.GameID, row.Verdict,
		row.OldHomeScore, row.OldAwayScore, row.NewHomeScore, row.NewAwayScore,
	)
	return err
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
