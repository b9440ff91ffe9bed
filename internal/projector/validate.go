package projector

import (
	"github.com/omarshaarawi/puckbot/internal/models"
)

func validateRecords(records []models.TeamRecord) error {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r.Name == "" {
			return models.InvalidInput("team record without a name")
		}
		if _, dup := seen[r.Name]; dup {
			return models.InvalidInput("duplicate team %q", r.Name)
		}
		seen[r.Name] = struct{}{}

		if r.Conference == "" || r.Division == "" {
			return models.InvalidInput("team %q is missing a conference or division", r.Name)
		}
		if r.Points < 0 || r.GamesPlayed < 0 || r.Wins < 0 || r.Losses < 0 || r.OTLosses < 0 {
			return models.InvalidInput("team %q has a negative counter", r.Name)
		}
	}
	return nil
}

func validateScenario(records []models.TeamRecord, s models.SimulationScenario) error {
	switch {
	case s.GamesToSimulate < 0:
		return models.ScenarioInconsistency("games to simulate must not be negative, got %d", s.GamesToSimulate)
	case s.FocusWins < 0 || s.FocusOTLosses < 0:
		return models.ScenarioInconsistency("focus results must not be negative, got %d-%d", s.FocusWins, s.FocusOTLosses)
	case s.ScheduleStrength < 0:
		return models.ScenarioInconsistency("schedule strength must not be negative, got %g", s.ScheduleStrength)
	}

	if s.FocusTeam == "" {
		return nil
	}
	for _, r := range records {
		if r.Name == s.FocusTeam {
			return nil
		}
	}
	return models.ScenarioInconsistency("focus team %q is not in the standings", s.FocusTeam)
}
