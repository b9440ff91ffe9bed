// Package projector extrapolates a standings snapshot over a simulated
// stretch of games.
package projector

import (
	"math"

	"github.com/omarshaarawi/puckbot/internal/models"
)

// DefaultSeasonLimit is the regular-season game count.
const DefaultSeasonLimit = 82

type options struct {
	seasonLimit int
}

type Option func(*options)

// WithSeasonLimit overrides the number of games in a season.
func WithSeasonLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.seasonLimit = n
		}
	}
}

// Project returns the projected standings for records under scenario.
// The focus team receives the scenario's explicit results; every other team
// earns points at its current pace. Output order matches input order.
func Project(records []models.TeamRecord, scenario models.SimulationScenario, opts ...Option) ([]models.ProjectedRecord, error) {
	o := options{seasonLimit: DefaultSeasonLimit}
	for _, opt := range opts {
		opt(&o)
	}

	if err := validateRecords(records); err != nil {
		return nil, err
	}
	if err := validateScenario(records, scenario); err != nil {
		return nil, err
	}

	projected := make([]models.ProjectedRecord, len(records))
	for i, team := range records {
		window := effectiveWindow(team.GamesPlayed, scenario.GamesToSimulate, o.seasonLimit)

		var (
			p   models.ProjectedRecord
			err error
		)
		if scenario.FocusTeam != "" && team.Name == scenario.FocusTeam {
			p, err = projectFocus(team, scenario, window)
		} else {
			p, err = projectPaced(team, scenario.StrengthFactor(), window)
		}
		if err != nil {
			return nil, err
		}
		projected[i] = p
	}

	return projected, nil
}

// Pace is a team's points percentage.
func Pace(team models.TeamRecord) (float64, error) {
	if team.GamesPlayed <= 0 {
		return 0, models.InvalidInput("team %q has no games played", team.Name)
	}
	return float64(team.Points) / float64(team.GamesPlayed*2), nil
}

// Window is how many of games the team can still play before its season ends.
func Window(team models.TeamRecord, games int, opts ...Option) int {
	o := options{seasonLimit: DefaultSeasonLimit}
	for _, opt := range opts {
		opt(&o)
	}
	return effectiveWindow(team.GamesPlayed, games, o.seasonLimit)
}

func effectiveWindow(gamesPlayed, games, seasonLimit int) int {
	remaining := max(0, seasonLimit-gamesPlayed)
	return min(games, remaining)
}

func projectFocus(team models.TeamRecord, scenario models.SimulationScenario, window int) (models.ProjectedRecord, error) {
	wins, otl := scenario.FocusWins, scenario.FocusOTLosses
	if wins+otl > window {
		if !scenario.ClampFocus {
			return models.ProjectedRecord{}, models.ScenarioInconsistency(
				"focus results %d-%d exceed the %d games left to simulate for %q",
				wins, otl, window, team.Name)
		}
		wins = min(wins, window)
		otl = min(otl, window-wins)
	}

	p := models.ProjectedRecord{TeamRecord: team, SimulatedGames: window, Focus: true}
	p.AddedPoints = 2*wins + otl
	p.Points += p.AddedPoints
	p.Wins += wins
	p.OTLosses += otl
	p.Losses += window - wins - otl
	p.GamesPlayed += window
	return p, nil
}

func projectPaced(team models.TeamRecord, strength float64, window int) (models.ProjectedRecord, error) {
	p := models.ProjectedRecord{TeamRecord: team, SimulatedGames: window}
	if window == 0 {
		return p, nil
	}

	pace, err := Pace(team)
	if err != nil {
		return models.ProjectedRecord{}, err
	}
	adjusted := math.Min(math.Max(pace*strength, 0), 1)

	added := int(math.RoundToEven(adjusted * float64(window) * 2))
	wins, otl := added/2, added%2

	p.AddedPoints = added
	p.Points += added
	p.Wins += wins
	p.OTLosses += otl
	p.Losses += max(0, window-wins-otl)
	p.GamesPlayed += window
	return p, nil
}
