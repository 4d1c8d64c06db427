package match

// basketballTeams maps each NBA team's canonical ticker code to its known
// spellings, including the venue's disambiguators for the two Los
// Angeles franchises (spec §4.1: "Los Angeles L" vs "Los Angeles C").
var basketballTeams = map[string][]string{
	"ATL": {"atlanta hawks", "atlanta", "hawks"},
	"BOS": {"boston celtics", "boston", "celtics"},
	"BKN": {"brooklyn nets", "brooklyn", "nets"},
	"CHA": {"charlotte hornets", "charlotte", "hornets"},
	"CHI": {"chicago bulls", "chicago", "bulls"},
	"CLE": {"cleveland cavaliers", "cleveland", "cavaliers", "cavs"},
	"DAL": {"dallas mavericks", "dallas", "mavericks", "mavs"},
	"DEN": {"denver nuggets", "denver", "nuggets"},
	"DET": {"detroit pistons", "detroit", "pistons"},
	"GSW": {"golden state warriors", "golden state", "warriors"},
	"HOU": {"houston rockets", "houston", "rockets"},
	"IND": {"indiana pacers", "indiana", "pacers"},
	"LAC": {"los angeles clippers", "los angeles c", "la clippers", "clippers"},
	"LAL": {"los angeles lakers", "los angeles l", "la lakers", "lakers"},
	"MEM": {"memphis grizzlies", "memphis", "grizzlies"},
	"MIA": {"miami heat", "miami", "heat"},
	"MIL": {"milwaukee bucks", "milwaukee", "bucks"},
	"MIN": {"minnesota timberwolves", "minnesota", "timberwolves", "wolves"},
	"NOP": {"new orleans pelicans", "new orleans", "pelicans"},
	"NYK": {"new york knicks", "new york", "knicks"},
	"OKC": {"oklahoma city thunder", "oklahoma city", "thunder"},
	"ORL": {"orlando magic", "orlando", "magic"},
	"PHI": {"philadelphia 76ers", "philadelphia", "76ers", "sixers"},
	"PHX": {"phoenix suns", "phoenix", "suns"},
	"POR": {"portland trail blazers", "portland", "trail blazers", "blazers"},
	"SAC": {"sacramento kings", "sacramento", "kings"},
	"SAS": {"san antonio spurs", "san antonio", "spurs"},
	"TOR": {"toronto raptors", "toronto", "raptors"},
	"UTA": {"utah jazz", "utah", "jazz"},
	"WAS": {"washington wizards", "washington", "wizards"},
}

var basketballAliases = buildTeamAliases(basketballTeams)
