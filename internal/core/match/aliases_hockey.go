package match

// hockeyTeams maps each NHL team's canonical ticker code to every known
// spelling variant seen across sportsbook feeds and venue titles,
// including the venue's own disambiguating abbreviations for multi-team
// cities (spec §4.1: "New York R" vs "New York I").
var hockeyTeams = map[string][]string{
	"ANA": {"anaheim ducks", "anaheim", "ducks"},
	"ARI": {"arizona coyotes", "arizona", "coyotes", "utah hockey club", "utah", "utah hc"},
	"BOS": {"boston bruins", "boston", "bruins"},
	"BUF": {"buffalo sabres", "buffalo", "sabres"},
	"CGY": {"calgary flames", "calgary", "flames"},
	"CAR": {"carolina hurricanes", "carolina", "hurricanes", "canes"},
	"CHI": {"chicago blackhawks", "chicago", "blackhawks", "hawks"},
	"COL": {"colorado avalanche", "colorado", "avalanche", "avs"},
	"CBJ": {"columbus blue jackets", "columbus", "blue jackets", "jackets"},
	"DAL": {"dallas stars", "dallas", "stars"},
	"DET": {"detroit red wings", "detroit", "red wings", "wings"},
	"EDM": {"edmonton oilers", "edmonton", "oilers"},
	"FLA": {"florida panthers", "florida", "panthers"},
	"LAK": {"los angeles kings", "los angeles k", "la kings", "kings"},
	"MIN": {"minnesota wild", "minnesota", "wild"},
	"MTL": {"montreal canadiens", "montreal", "canadiens", "habs"},
	"NSH": {"nashville predators", "nashville", "predators", "preds"},
	"NJD": {"new jersey devils", "new jersey", "devils"},
	"NYI": {"new york islanders", "new york i", "ny islanders", "islanders"},
	"NYR": {"new york rangers", "new york r", "ny rangers", "rangers"},
	"OTT": {"ottawa senators", "ottawa", "senators", "sens"},
	"PHI": {"philadelphia flyers", "philadelphia", "flyers"},
	"PIT": {"pittsburgh penguins", "pittsburgh", "penguins", "pens"},
	"SJS": {"san jose sharks", "san jose", "sharks"},
	"SEA": {"seattle kraken", "seattle", "kraken"},
	"STL": {"st louis blues", "st. louis blues", "st louis", "st. louis", "blues"},
	"TBL": {"tampa bay lightning", "tampa bay", "tampa", "lightning", "bolts"},
	"TOR": {"toronto maple leafs", "toronto", "maple leafs", "leafs"},
	"VAN": {"vancouver canucks", "vancouver", "canucks"},
	"VGK": {"vegas golden knights", "vegas", "golden knights", "knights"},
	"WSH": {"washington capitals", "washington", "capitals", "caps"},
	"WPG": {"winnipeg jets", "winnipeg", "jets"},
}

var hockeyAliases = buildTeamAliases(hockeyTeams)

// buildTeamAliases flattens a code→variants table into the folded-name→
// code lookup Normalize consults.
func buildTeamAliases(teams map[string][]string) map[string]string {
	out := make(map[string]string)
	for code, variants := range teams {
		for _, v := range variants {
			out[foldKey(v)] = code
		}
	}
	return out
}
