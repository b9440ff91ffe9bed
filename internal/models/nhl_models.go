package models

type StandingsResponse struct {
	WildCardIndicator bool            `json:"wildCardIndicator"`
	Standings         []StandingEntry `json:"standings"`
}

type LocalizedName struct {
	Default string `json:"default"`
}

type StandingEntry struct {
	TeamName       LocalizedName `json:"teamName"`
	TeamAbbrev     LocalizedName `json:"teamAbbrev"`
	ConferenceName string        `json:"conferenceName"`
	DivisionName   string        `json:"divisionName"`
	Points         int           `json:"points"`
	GamesPlayed    int           `json:"gamesPlayed"`
	Wins           int           `json:"wins"`
	Losses         int           `json:"losses"`
	OTLosses       int           `json:"otLosses"`
	TeamLogo       string        `json:"teamLogo"`
	LeagueSequence int           `json:"leagueSequence"`
}
