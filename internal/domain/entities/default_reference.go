package entities

// DefaultBetTypes are the stat/market types seeded on first run. Aliases cover
// the spellings the major sportsbooks use on bet slips.
var DefaultBetTypes = []CanonicalEntity{
	{Kind: KindStat, Canonical: "Points", Sport: SportNBA, Aliases: []string{"Pts", "Total Points", "Player Points"}, Description: "Points scored"},
	{Kind: KindStat, Canonical: "Rebounds", Sport: SportNBA, Aliases: []string{"Rebs", "Reb", "Total Rebounds"}, Description: "Total rebounds"},
	{Kind: KindStat, Canonical: "Assists", Sport: SportNBA, Aliases: []string{"Asts", "Ast"}, Description: "Assists"},
	{Kind: KindStat, Canonical: "3-Pointers Made", Sport: SportNBA, Aliases: []string{"Threes", "3PM", "Threes Made", "3-PT Made"}, Description: "Three-point field goals made"},
	{Kind: KindStat, Canonical: "Steals", Sport: SportNBA, Aliases: []string{"Stl"}, Description: "Steals"},
	{Kind: KindStat, Canonical: "Blocks", Sport: SportNBA, Aliases: []string{"Blk", "Blocked Shots"}, Description: "Blocked shots"},
	{Kind: KindStat, Canonical: "Turnovers", Sport: SportNBA, Aliases: []string{"TO", "Tov"}, Description: "Turnovers"},
	{Kind: KindStat, Canonical: "Pts+Reb+Ast", Sport: SportNBA, Aliases: []string{"PRA", "Points + Rebounds + Assists", "Pts + Reb + Ast"}, Description: "Points, rebounds and assists combined"},
	{Kind: KindStat, Canonical: "Pts+Reb", Sport: SportNBA, Aliases: []string{"PR", "Points + Rebounds"}, Description: "Points and rebounds combined"},
	{Kind: KindStat, Canonical: "Pts+Ast", Sport: SportNBA, Aliases: []string{"PA", "Points + Assists"}, Description: "Points and assists combined"},
	{Kind: KindStat, Canonical: "Reb+Ast", Sport: SportNBA, Aliases: []string{"RA", "Rebounds + Assists"}, Description: "Rebounds and assists combined"},
	{Kind: KindStat, Canonical: "Double Double", Sport: SportNBA, Aliases: []string{"Double-Double", "DD"}, Description: "Two stat categories in double figures"},
	{Kind: KindStat, Canonical: "Triple Double", Sport: SportNBA, Aliases: []string{"Triple-Double", "TD"}, Description: "Three stat categories in double figures"},
	{Kind: KindStat, Canonical: "Moneyline", Sport: SportNBA, Aliases: []string{"ML", "Money Line"}, Description: "Straight-up winner"},
	{Kind: KindStat, Canonical: "Spread", Sport: SportNBA, Aliases: []string{"Point Spread", "Handicap"}, Description: "Point spread"},
	{Kind: KindStat, Canonical: "Total", Sport: SportNBA, Aliases: []string{"Over/Under", "O/U", "Game Total"}, Description: "Combined score"},
}

// DefaultTeams are the NBA teams seeded on first run.
var DefaultTeams = []CanonicalEntity{
	nbaTeam("Atlanta Hawks", []string{"ATL"}, "Hawks"),
	nbaTeam("Boston Celtics", []string{"BOS"}, "Celtics"),
	nbaTeam("Brooklyn Nets", []string{"BKN", "BRK"}, "Nets"),
	nbaTeam("Charlotte Hornets", []string{"CHA", "CHO"}, "Hornets"),
	nbaTeam("Chicago Bulls", []string{"CHI"}, "Bulls"),
	nbaTeam("Cleveland Cavaliers", []string{"CLE"}, "Cavaliers", "Cavs"),
	nbaTeam("Dallas Mavericks", []string{"DAL"}, "Mavericks", "Mavs"),
	nbaTeam("Denver Nuggets", []string{"DEN"}, "Nuggets"),
	nbaTeam("Detroit Pistons", []string{"DET"}, "Pistons"),
	nbaTeam("Golden State Warriors", []string{"GSW", "GS"}, "Warriors", "GS Warriors"),
	nbaTeam("Houston Rockets", []string{"HOU"}, "Rockets"),
	nbaTeam("Indiana Pacers", []string{"IND"}, "Pacers"),
	nbaTeam("Los Angeles Clippers", []string{"LAC"}, "Clippers", "LA Clippers"),
	nbaTeam("Los Angeles Lakers", []string{"LAL"}, "Lakers", "LA Lakers"),
	nbaTeam("Memphis Grizzlies", []string{"MEM"}, "Grizzlies"),
	nbaTeam("Miami Heat", []string{"MIA"}, "Heat"),
	nbaTeam("Milwaukee Bucks", []string{"MIL"}, "Bucks"),
	nbaTeam("Minnesota Timberwolves", []string{"MIN"}, "Timberwolves", "Wolves"),
	nbaTeam("New Orleans Pelicans", []string{"NOP", "NO"}, "Pelicans"),
	nbaTeam("New York Knicks", []string{"NYK", "NY"}, "Knicks", "NY Knicks"),
	nbaTeam("Oklahoma City Thunder", []string{"OKC"}, "Thunder"),
	nbaTeam("Orlando Magic", []string{"ORL"}, "Magic"),
	nbaTeam("Philadelphia 76ers", []string{"PHI"}, "76ers", "Sixers"),
	nbaTeam("Phoenix Suns", []string{"PHX", "PHO"}, "Suns"),
	nbaTeam("Portland Trail Blazers", []string{"POR"}, "Trail Blazers", "Blazers"),
	nbaTeam("Sacramento Kings", []string{"SAC"}, "Kings"),
	nbaTeam("San Antonio Spurs", []string{"SAS", "SA"}, "Spurs"),
	nbaTeam("Toronto Raptors", []string{"TOR"}, "Raptors"),
	nbaTeam("Utah Jazz", []string{"UTA", "UTAH"}, "Jazz"),
	nbaTeam("Washington Wizards", []string{"WAS", "WSH"}, "Wizards"),
}

func nbaTeam(canonical string, abbreviations []string, aliases ...string) CanonicalEntity {
	return CanonicalEntity{
		Kind:          KindTeam,
		Canonical:     canonical,
		Sport:         SportNBA,
		Aliases:       aliases,
		Abbreviations: abbreviations,
	}
}

// DefaultReferenceData returns fresh copies of every default entity, teams
// first.
func DefaultReferenceData() []CanonicalEntity {
	out := make([]CanonicalEntity, 0, len(DefaultTeams)+len(DefaultBetTypes))
	for i := range DefaultTeams {
		out = append(out, DefaultTeams[i].Clone())
	}
	for i := range DefaultBetTypes {
		out = append(out, DefaultBetTypes[i].Clone())
	}
	return out
}
