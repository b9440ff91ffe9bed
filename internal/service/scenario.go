package service

import (
	"context"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/omarshaarawi/puckbot/internal/models"
	"github.com/omarshaarawi/puckbot/internal/projector"
)

// Scenario returns the chat's scenario, or the default one when the chat has none.
func (s *BracketService) Scenario(ctx context.Context, chatID int64) (models.SimulationScenario, error) {
	if scenario, ok := s.repo.GetScenario(chatID); ok {
		return scenario, nil
	}
	return s.DefaultScenario(ctx)
}

// DefaultScenario simulates nothing and focuses the configured team when it is in the standings.
func (s *BracketService) DefaultScenario(ctx context.Context) (models.SimulationScenario, error) {
	var scenario models.SimulationScenario
	if s.defaultFocus == "" {
		return scenario, nil
	}
	snapshot, err := s.Standings(ctx)
	if err != nil {
		return scenario, err
	}
	for _, t := range snapshot.Teams {
		if t.Name == s.defaultFocus {
			scenario.FocusTeam = t.Name
			break
		}
	}
	return scenario, nil
}

// SetGames changes the simulated horizon. Focus results that no longer fit
// in the focus team's remaining games are cleared.
func (s *BracketService) SetGames(ctx context.Context, chatID int64, games int) (models.SimulationScenario, error) {
	if games < 0 || games > MaxSimGames {
		return models.SimulationScenario{}, models.ScenarioInconsistency("games to simulate must be between 0 and %d", MaxSimGames)
	}
	return s.update(ctx, chatID, func(sc *models.SimulationScenario) error {
		sc.GamesToSimulate = games
		window, err := s.focusWindow(ctx, *sc)
		if err != nil {
			return err
		}
		if sc.FocusWins+sc.FocusOTLosses > window {
			sc.FocusWins = 0
			sc.FocusOTLosses = 0
		}
		return nil
	})
}

// SetFocus resolves query to a team and makes it the chat's focus team.
// Explicit focus results are cleared.
func (s *BracketService) SetFocus(ctx context.Context, chatID int64, query string) (models.SimulationScenario, error) {
	name, err := s.ResolveTeam(ctx, query)
	if err != nil {
		return models.SimulationScenario{}, err
	}
	return s.update(ctx, chatID, func(sc *models.SimulationScenario) error {
		sc.FocusTeam = name
		sc.FocusWins = 0
		sc.FocusOTLosses = 0
		return nil
	})
}

func (s *BracketService) SetFocusRecord(ctx context.Context, chatID int64, wins, otLosses int) (models.SimulationScenario, error) {
	if wins < 0 || wins > MaxFocusWins {
		return models.SimulationScenario{}, models.ScenarioInconsistency("focus wins must be between 0 and %d", MaxFocusWins)
	}
	if otLosses < 0 || otLosses > MaxFocusOTLosses {
		return models.SimulationScenario{}, models.ScenarioInconsistency("focus OT losses must be between 0 and %d", MaxFocusOTLosses)
	}
	current, err := s.Scenario(ctx, chatID)
	if err != nil {
		return models.SimulationScenario{}, err
	}
	if current.FocusTeam == "" {
		return models.SimulationScenario{}, models.ScenarioInconsistency("pick a focus team first")
	}
	window, err := s.focusWindow(ctx, current)
	if err != nil {
		return models.SimulationScenario{}, err
	}
	if wins+otLosses > window {
		return models.SimulationScenario{}, models.ScenarioInconsistency(
			"%d wins and %d OT losses do not fit in the %d games %s has left to simulate", wins, otLosses, window, current.FocusTeam)
	}
	return s.update(ctx, chatID, func(sc *models.SimulationScenario) error {
		sc.FocusWins = wins
		sc.FocusOTLosses = otLosses
		return nil
	})
}

func (s *BracketService) SetStrength(ctx context.Context, chatID int64, factor float64) (models.SimulationScenario, error) {
	if factor < MinStrength || factor > MaxStrength {
		return models.SimulationScenario{}, models.ScenarioInconsistency("schedule strength must be between %.2f and %.2f", MinStrength, MaxStrength)
	}
	return s.update(ctx, chatID, func(sc *models.SimulationScenario) error {
		sc.ScheduleStrength = factor
		return nil
	})
}

func (s *BracketService) ResetScenario(chatID int64) {
	s.repo.DeleteScenario(chatID)
}

// update applies an edit to the chat's scenario and saves it. Saved scenarios
// clamp focus results so a later snapshot with fewer games left still projects.
func (s *BracketService) update(ctx context.Context, chatID int64, apply func(*models.SimulationScenario) error) (models.SimulationScenario, error) {
	scenario, err := s.Scenario(ctx, chatID)
	if err != nil {
		return models.SimulationScenario{}, err
	}
	if err := apply(&scenario); err != nil {
		return models.SimulationScenario{}, err
	}
	scenario.ClampFocus = true
	s.repo.SaveScenario(chatID, scenario)
	return scenario, nil
}

// focusWindow is how many of the scenario's simulated games the focus team can still play.
func (s *BracketService) focusWindow(ctx context.Context, scenario models.SimulationScenario) (int, error) {
	if scenario.FocusTeam == "" {
		return scenario.GamesToSimulate, nil
	}
	snapshot, err := s.Standings(ctx)
	if err != nil {
		return 0, err
	}
	for _, t := range snapshot.Teams {
		if t.Name == scenario.FocusTeam {
			return projector.Window(t, scenario.GamesToSimulate, projector.WithSeasonLimit(s.seasonGames)), nil
		}
	}
	return scenario.GamesToSimulate, nil
}

// ResolveTeam matches a loosely typed team name or abbreviation against the standings.
func (s *BracketService) ResolveTeam(ctx context.Context, query string) (string, error) {
	snapshot, err := s.Standings(ctx)
	if err != nil {
		return "", err
	}
	return resolveTeam(snapshot.Teams, query)
}

func resolveTeam(teams []models.TeamRecord, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", models.NotFound("team name is empty")
	}

	names := make([]string, len(teams))
	for i, t := range teams {
		if strings.EqualFold(t.Name, query) || strings.EqualFold(t.Abbrev, query) {
			return t.Name, nil
		}
		names[i] = t.Name
	}

	if ranks := fuzzy.RankFindNormalizedFold(query, names); len(ranks) > 0 {
		sort.Stable(ranks)
		return ranks[0].Target, nil
	}

	bestMatch := ""
	bestSimilarity := 0.6
	for _, name := range names {
		distance := fuzzy.LevenshteinDistance(strings.ToLower(query), strings.ToLower(name))
		maxLen := float64(max(len(query), len(name)))
		similarity := 1 - float64(distance)/maxLen
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			bestMatch = name
		}
	}
	if bestMatch == "" {
		return "", models.NotFound("no team matches %q", query)
	}
	return bestMatch, nil
}

func matchConference(names []string, query string) (string, error) {
	query = strings.TrimSpace(query)
	for _, n := range names {
		if strings.EqualFold(n, query) {
			return n, nil
		}
	}
	for _, n := range names {
		if query != "" && strings.HasPrefix(strings.ToLower(n), strings.ToLower(query)) {
			return n, nil
		}
	}
	return "", models.NotFound("no conference matches %q", query)
}
