// Package match implements the market index & matcher (spec §4.1): team
// name canonicalization, market-key generation, the venue market index,
// and the resolver that ties sportsbook team names to venue contracts.
package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/arbengine/engine/internal/sport"
)

// aliasesForSport returns the curated alias table for s, or nil if s has
// no curated table (college leagues, MMA, long-tail sports fall back to
// suffix stripping in Normalize).
func aliasesForSport(s sport.Sport) map[string]string {
	switch s {
	case sport.IceHockey:
		return hockeyAliases
	case sport.SoccerEPL:
		return soccerAliases
	case sport.Basketball:
		return basketballAliases
	case sport.Baseball:
		return baseballAliases
	case sport.AmericanFootball:
		return footballAliases
	default:
		return nil
	}
}

// stripDiacritics removes combining marks after NFD decomposition, so
// "Á" and "A" normalize identically.
func stripDiacritics(s string) string {
	t := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(t))
	for _, r := range t {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func foldKey(s string) string {
	return collapseWhitespace(strings.ToLower(stripDiacritics(strings.TrimSpace(s))))
}

// knownSuffixes are mascot/descriptor tokens stripped by the fallback
// normalizer for sports without a curated alias table.
var knownSuffixes = map[string]bool{
	"fc": true, "sc": true, "cf": true, "afc": true, "fk": true, "bk": true,
	"if": true, "sk": true, "cd": true, "ad": true, "ud": true, "sv": true,
	"ca": true, "rc": true, "united": true, "city": true, "athletic": true,
}

// suffixStripFallback is the deterministic fallback normalizer used for
// sports without a curated alias table (spec §4.1: "remove known
// mascot/last-word tokens, uppercase, strip non-alphanumerics").
func suffixStripFallback(s sport.Sport, name string) string {
	folded := foldKey(name)
	if s == sport.MMA {
		return mmaLastName(folded)
	}
	words := strings.Fields(folded)
	for len(words) > 1 && knownSuffixes[words[len(words)-1]] {
		words = words[:len(words)-1]
	}
	joined := strings.Join(words, "")
	return stripNonAlnum(strings.ToUpper(joined))
}

// mmaLastName collapses a fighter's full name to their last name — MMA
// markets identify fighters by surname only (spec §4.1).
func mmaLastName(folded string) string {
	words := strings.Fields(folded)
	if len(words) == 0 {
		return ""
	}
	last := words[len(words)-1]
	return stripNonAlnum(strings.ToUpper(last))
}

func stripNonAlnum(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize canonicalizes a team name for sport s to a short ticker
// code. For (sportsbook_name, venue_name) pairs designating the same
// team, Normalize(s, sportsbook_name) == Normalize(s, venue_name) is the
// contract every alias table and the fallback path MUST satisfy.
func Normalize(s sport.Sport, name string) string {
	if aliases := aliasesForSport(s); aliases != nil {
		key := foldKey(name)
		if code, ok := aliases[key]; ok {
			return code
		}
		// Not in the curated table: still fall back rather than failing
		// outright, so long-tail teams in a mostly-curated sport don't
		// silently drop out of the index.
	}
	return suffixStripFallback(s, name)
}
