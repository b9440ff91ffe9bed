package models

import "time"

// TeamRecord is one team's row in a standings snapshot.
type TeamRecord struct {
	Name        string `json:"name"`
	Abbrev      string `json:"abbrev,omitempty"`
	Conference  string `json:"conference"`
	Division    string `json:"division"`
	Points      int    `json:"points"`
	GamesPlayed int    `json:"gamesPlayed"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
	OTLosses    int    `json:"otLosses"`
	LogoURL     string `json:"logo,omitempty"`
}

// SimulationScenario holds the user-chosen projection parameters.
// ScheduleStrength scales the pace of non-focus teams; zero means 1.0.
// ClampFocus drops focus results that do not fit the simulated window
// instead of rejecting the scenario.
type SimulationScenario struct {
	GamesToSimulate  int     `json:"gamesToSimulate"`
	FocusTeam        string  `json:"focusTeam,omitempty"`
	FocusWins        int     `json:"focusWins"`
	FocusOTLosses    int     `json:"focusOtLosses"`
	ScheduleStrength float64 `json:"scheduleStrength,omitempty"`
	ClampFocus       bool    `json:"clampFocus,omitempty"`
}

// StrengthFactor returns the effective schedule strength multiplier.
func (s SimulationScenario) StrengthFactor() float64 {
	if s.ScheduleStrength == 0 {
		return 1.0
	}
	return s.ScheduleStrength
}

type ProjectedRecord struct {
	TeamRecord
	AddedPoints    int  `json:"addedPoints"`
	SimulatedGames int  `json:"simulatedGames"`
	Focus          bool `json:"focus,omitempty"`
}

type SeedSlot struct {
	Team  ProjectedRecord `json:"team"`
	Label string          `json:"seed"`
}

type Matchup struct {
	High SeedSlot `json:"high"`
	Low  SeedSlot `json:"low"`
}

// DivisionBracket is a division winner plus its division's 2 vs 3 series.
type DivisionBracket struct {
	Division string   `json:"division"`
	Code     string   `json:"code"`
	Leader   SeedSlot `json:"leader"`
	Matchup  Matchup  `json:"matchup"`
}

// DivisionalSeeding is one conference's round-1 picture under division seeding.
// LeaderMatchups[0] pairs the stronger division winner with WC2, and
// Divisions is ordered the same way.
type DivisionalSeeding struct {
	Conference     string             `json:"conference"`
	LeaderMatchups [2]Matchup         `json:"leaderMatchups"`
	Divisions      [2]DivisionBracket `json:"divisions"`
}

type BubbleStatus string

const (
	BubbleQualified  BubbleStatus = "qualified"
	BubbleEliminated BubbleStatus = "eliminated-on-bubble"
)

type BubbleEntry struct {
	Team               ProjectedRecord `json:"team"`
	Rank               int             `json:"rank"`
	PointsBehindCutoff int             `json:"pointsBehindCutoff"`
	Status             BubbleStatus    `json:"status"`
}

type ConferenceBracket struct {
	Conference string            `json:"conference"`
	Flat       [4]Matchup        `json:"flat"`
	Divisional DivisionalSeeding `json:"divisional"`
	Bubble     []BubbleEntry     `json:"bubble"`
}

// Snapshot is a standings table as fetched from the provider.
type Snapshot struct {
	Teams       []TeamRecord
	LastUpdated time.Time
}
