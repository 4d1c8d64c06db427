package match

// footballTeams maps each NFL team's canonical ticker code to its known
// spellings, with disambiguators for shared cities (New York Giants/Jets,
// Los Angeles Rams/Chargers).
var footballTeams = map[string][]string{
	"ARI": {"arizona cardinals", "arizona", "cardinals"},
	"ATL": {"atlanta falcons", "atlanta", "falcons"},
	"BAL": {"baltimore ravens", "baltimore", "ravens"},
	"BUF": {"buffalo bills", "buffalo", "bills"},
	"CAR": {"carolina panthers", "carolina", "panthers"},
	"CHI": {"chicago bears", "chicago", "bears"},
	"CIN": {"cincinnati bengals", "cincinnati", "bengals"},
	"CLE": {"cleveland browns", "cleveland", "browns"},
	"DAL": {"dallas cowboys", "dallas", "cowboys"},
	"DEN": {"denver broncos", "denver", "broncos"},
	"DET": {"detroit lions", "detroit", "lions"},
	"GBP": {"green bay packers", "green bay", "packers"},
	"HOU": {"houston texans", "houston", "texans"},
	"IND": {"indianapolis colts", "indianapolis", "colts"},
	"JAX": {"jacksonville jaguars", "jacksonville", "jaguars", "jags"},
	"KCC": {"kansas city chiefs", "kansas city", "chiefs"},
	"LVR": {"las vegas raiders", "las vegas", "raiders"},
	"LAC": {"los angeles chargers", "los angeles c", "la chargers", "chargers"},
	"LAR": {"los angeles rams", "los angeles r", "la rams", "rams"},
	"MIA": {"miami dolphins", "miami", "dolphins"},
	"MIN": {"minnesota vikings", "minnesota", "vikings"},
	"NEP": {"new england patriots", "new england", "patriots", "pats"},
	"NOS": {"new orleans saints", "new orleans", "saints"},
	"NYG": {"new york giants", "new york g", "ny giants", "giants"},
	"NYJ": {"new york jets", "new york j", "ny jets", "jets"},
	"PHI": {"philadelphia eagles", "philadelphia", "eagles"},
	"PIT": {"pittsburgh steelers", "pittsburgh", "steelers"},
	"SFO": {"san francisco 49ers", "san francisco", "49ers", "niners"},
	"SEA": {"seattle seahawks", "seattle", "seahawks"},
	"TBB": {"tampa bay buccaneers", "tampa bay", "buccaneers", "bucs"},
	"TEN": {"tennessee titans", "tennessee", "titans"},
	"WAS": {"washington commanders", "washington", "commanders"},
}

var footballAliases = buildTeamAliases(footballTeams)
