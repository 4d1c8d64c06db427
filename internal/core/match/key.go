package match

import (
	"time"

	"github.com/arbengine/engine/internal/sport"
)

// MarketKey identifies one game across sources: sport, the game's local
// calendar date, and the canonicalized, order-independent team pair
// (spec §3).
type MarketKey struct {
	Sport    sport.Sport
	DateISO  string // local (eastern) calendar date, "2006-01-02"
	TeamA    string // canonicalized codes, sorted lexically
	TeamB    string
}

// eastern is used to compute the game's local calendar date regardless
// of the process's configured time zone.
var eastern = mustLoadEastern()

func mustLoadEastern() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.FixedZone("EST", -5*3600)
	}
	return loc
}

// GenerateKey canonicalizes teamA/teamB for sport s and sorts them so key
// generation is commutative in team order (spec §4.1 key symmetry
// invariant). Returns false if either team fails to normalize to a
// non-empty code.
func GenerateKey(s sport.Sport, teamA, teamB string, date time.Time) (MarketKey, bool) {
	codeA := Normalize(s, teamA)
	codeB := Normalize(s, teamB)
	if codeA == "" || codeB == "" {
		return MarketKey{}, false
	}
	if codeA > codeB {
		codeA, codeB = codeB, codeA
	}
	return MarketKey{
		Sport:   s,
		DateISO: date.In(eastern).Format("2006-01-02"),
		TeamA:   codeA,
		TeamB:   codeB,
	}, true
}
