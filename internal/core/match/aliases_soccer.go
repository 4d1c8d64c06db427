package match

import "strings"

// rawSoccerAliases maps alternate Premier League spellings to one
// canonical full name apiece. Ported from the Premier League section of
// the teacher's team-name alias table (originally sourced from a Python
// HFTKalshi live-modeling script); other leagues in the source table were
// dropped since this engine only trades soccer-epl and carrying them
// risked cross-league name collisions (e.g. "Newcastle Jets" vs
// "Newcastle United") the single-sport scope doesn't need to resolve.
var rawSoccerAliases = map[string]string{
	"man united": "manchester united", "man utd": "manchester united", "manchester utd": "manchester united",
	"man city": "manchester city", "manchester c": "manchester city",
	"wolves": "wolverhampton wanderers", "wolverhampton": "wolverhampton wanderers",
	"brighton": "brighton & hove albion", "brighton hove albion": "brighton & hove albion", "brighton and hove albion": "brighton & hove albion",
	"nottm forest": "nottingham forest", "nott'm forest": "nottingham forest", "nottingham": "nottingham forest",
	"spurs": "tottenham hotspur", "tottenham": "tottenham hotspur",
	"west ham":  "west ham united",
	"newcastle": "newcastle united", "newcastle utd": "newcastle united",
	"leicester":     "leicester city",
	"leeds":         "leeds united",
	"sheffield utd": "sheffield united", "sheffield": "sheffield united",
	"afc bournemouth": "bournemouth",
	"villa":           "aston villa",
	"palace":          "crystal palace",
	"saints":          "southampton",
	"clarets":         "burnley",
	"town":            "ipswich town", "ipswich": "ipswich town",
}

// eplCanonical lists every current Premier League club's canonical full
// name so it normalizes to a stable code even when referenced directly
// (not via an alias).
var eplCanonical = []string{
	"arsenal", "chelsea", "liverpool", "manchester united", "manchester city",
	"aston villa", "everton", "fulham", "brentford", "crystal palace",
	"wolverhampton wanderers", "brighton & hove albion", "nottingham forest",
	"tottenham hotspur", "west ham united", "newcastle united",
	"leicester city", "leeds united", "sheffield united", "bournemouth",
	"ipswich town", "southampton", "burnley",
}

var soccerAliases = buildSoccerAliases()

func buildSoccerAliases() map[string]string {
	out := make(map[string]string, len(rawSoccerAliases)+len(eplCanonical))
	for alias, canonical := range rawSoccerAliases {
		code := stripNonAlnum(strings.ToUpper(canonical))
		out[foldKey(alias)] = code
		out[foldKey(canonical)] = code
	}
	for _, canonical := range eplCanonical {
		code := stripNonAlnum(strings.ToUpper(canonical))
		out[foldKey(canonical)] = code
	}
	return out
}
