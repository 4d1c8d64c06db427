// Package sport defines the set of sports the engine trades and a small
// registry of per-sport metadata (venue series prefix, display label,
// UI hotkey).
package sport

// Sport is a stable lowercase identifier for a tradable sport.
type Sport string

const (
	Basketball        Sport = "basketball"
	IceHockey         Sport = "ice-hockey"
	SoccerEPL         Sport = "soccer-epl"
	MMA               Sport = "mma"
	Baseball          Sport = "baseball"
	AmericanFootball  Sport = "american-football"
	CollegeBasketball Sport = "college-basketball"
)

// ScoreDriven sports have a score feed dense enough to support the static
// score-table fair-value path (spec §4.2); others rely solely on
// sportsbook devig.
var scoreDriven = map[Sport]bool{
	Basketball:        true,
	IceHockey:         true,
	SoccerEPL:         true,
	Baseball:          true,
	AmericanFootball:  true,
	CollegeBasketball: true,
}

// ThreeWay sports settle with a draw outcome in addition to home/away.
var threeWay = map[Sport]bool{
	SoccerEPL: true,
}

// Meta describes fixed per-sport configuration.
type Meta struct {
	Sport         Sport
	Label         string
	Hotkey        rune
	SeriesPrefix  string // venue REST series ticker prefix, e.g. "KXNHLGAME"
	ScoreDriven   bool
	ThreeWay      bool
	RegulationLen int // seconds of regulation play, used by time-bucket clamp
}

var registry = map[Sport]Meta{
	Basketball:        {Basketball, "Basketball", 'b', "KXNBAGAME", true, false, 2880},
	IceHockey:         {IceHockey, "Ice Hockey", 'h', "KXNHLGAME", true, false, 3600},
	SoccerEPL:         {SoccerEPL, "Soccer (EPL)", 's', "KXEPLGAME", true, true, 5400},
	MMA:               {MMA, "MMA", 'm', "KXMMAMATCH", false, false, 0},
	Baseball:          {Baseball, "Baseball", 'l', "KXMLBGAME", true, false, 0},
	AmericanFootball:  {AmericanFootball, "American Football", 'f', "KXNFLGAME", true, false, 3600},
	CollegeBasketball: {CollegeBasketball, "College Basketball", 'c', "KXCBBGAME", true, false, 2400},
}

// All returns every registered sport in a stable order.
func All() []Sport {
	out := make([]Sport, 0, len(registry))
	for _, s := range order {
		out = append(out, s)
	}
	return out
}

var order = []Sport{Basketball, IceHockey, SoccerEPL, MMA, Baseball, AmericanFootball, CollegeBasketball}

// Lookup returns the metadata for s and whether s is registered.
func Lookup(s Sport) (Meta, bool) {
	m, ok := registry[s]
	return m, ok
}

// IsScoreDriven reports whether s uses the static score-table fair-value
// path rather than sportsbook-only devig.
func IsScoreDriven(s Sport) bool { return scoreDriven[s] }

// IsThreeWay reports whether s settles with a draw outcome.
func IsThreeWay(s Sport) bool { return threeWay[s] }
