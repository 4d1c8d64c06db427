package match

// baseballTeams maps each MLB team's canonical ticker code to its known
// spellings, with disambiguators for shared cities (Chicago Cubs/White
// Sox, New York Yankees/Mets, Los Angeles Dodgers/Angels).
var baseballTeams = map[string][]string{
	"ARI": {"arizona diamondbacks", "arizona", "diamondbacks", "d-backs"},
	"ATL": {"atlanta braves", "atlanta", "braves"},
	"BAL": {"baltimore orioles", "baltimore", "orioles", "o's"},
	"BOS": {"boston red sox", "boston", "red sox"},
	"CHC": {"chicago cubs", "chicago c", "cubs"},
	"CWS": {"chicago white sox", "chicago w", "white sox"},
	"CIN": {"cincinnati reds", "cincinnati", "reds"},
	"CLE": {"cleveland guardians", "cleveland", "guardians"},
	"COL": {"colorado rockies", "colorado", "rockies"},
	"DET": {"detroit tigers", "detroit", "tigers"},
	"HOU": {"houston astros", "houston", "astros"},
	"KCR": {"kansas city royals", "kansas city", "royals"},
	"LAA": {"los angeles angels", "los angeles a", "la angels", "angels"},
	"LAD": {"los angeles dodgers", "los angeles d", "la dodgers", "dodgers"},
	"MIA": {"miami marlins", "miami", "marlins"},
	"MIL": {"milwaukee brewers", "milwaukee", "brewers"},
	"MIN": {"minnesota twins", "minnesota", "twins"},
	"NYM": {"new york mets", "new york m", "ny mets", "mets"},
	"NYY": {"new york yankees", "new york y", "ny yankees", "yankees"},
	"ATH": {"athletics", "oakland athletics", "oakland", "a's", "las vegas athletics"},
	"PHI": {"philadelphia phillies", "philadelphia", "phillies"},
	"PIT": {"pittsburgh pirates", "pittsburgh", "pirates"},
	"SDP": {"san diego padres", "san diego", "padres"},
	"SFG": {"san francisco giants", "san francisco", "giants"},
	"SEA": {"seattle mariners", "seattle", "mariners"},
	"STL": {"st louis cardinals", "st. louis cardinals", "st louis", "st. louis", "cardinals"},
	"TBR": {"tampa bay rays", "tampa bay", "rays"},
	"TEX": {"texas rangers", "texas", "rangers"},
	"TOR": {"toronto blue jays", "toronto", "blue jays"},
	"WSN": {"washington nationals", "washington", "nationals", "nats"},
}

var baseballAliases = buildTeamAliases(baseballTeams)
