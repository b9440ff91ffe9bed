package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/omarshaarawi/puckbot/internal/models"
	"github.com/omarshaarawi/puckbot/internal/seeder"
)

// bracketOrder is the top-to-bottom display order of flat matchups: 1v8, 4v5, 3v6, 2v7.
var bracketOrder = [4]int{0, 3, 2, 1}

func (s *BracketService) GetStandings(ctx context.Context, chatID int64, conference string) (string, error) {
	scenario, err := s.Scenario(ctx, chatID)
	if err != nil {
		return "", err
	}
	projected, err := s.Project(ctx, scenario)
	if err != nil {
		return "", err
	}

	groups, names := seeder.ByConference(projected)
	if conference != "" {
		name, err := matchConference(names, conference)
		if err != nil {
			return "", err
		}
		names = []string{name}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏒 *Standings*%s\n", horizonLabel(scenario)))
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("\n*%s*\n", name))
		for i, t := range seeder.Rank(groups[name]) {
			sb.WriteString(fmt.Sprintf("%d. %s - %d pts (%d-%d-%d)\n",
				i+1, teamLabel(t), t.Points, t.Wins, t.Losses, t.OTLosses))
		}
	}
	return sb.String(), nil
}

func (s *BracketService) GetBracket(ctx context.Context, chatID int64) (string, error) {
	scenario, brackets, err := s.chatBrackets(ctx, chatID)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏆 *Playoff Picture*%s\n", horizonLabel(scenario)))
	for _, b := range brackets {
		sb.WriteString(fmt.Sprintf("\n*%s Conference*\n", b.Conference))
		for _, i := range bracketOrder {
			sb.WriteString(formatMatchup(b.Flat[i]))
		}
	}
	return sb.String(), nil
}

func (s *BracketService) GetDivisionalBracket(ctx context.Context, chatID int64) (string, error) {
	scenario, brackets, err := s.chatBrackets(ctx, chatID)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏆 *Divisional Bracket*%s\n", horizonLabel(scenario)))
	for _, b := range brackets {
		d := b.Divisional
		sb.WriteString(fmt.Sprintf("\n*%s Conference*\n", b.Conference))
		for i, div := range d.Divisions {
			sb.WriteString(fmt.Sprintf("_%s_\n", div.Division))
			sb.WriteString(formatMatchup(d.LeaderMatchups[i]))
			sb.WriteString(formatMatchup(div.Matchup))
		}
	}
	return sb.String(), nil
}

func (s *BracketService) GetWildCardRace(ctx context.Context, chatID int64) (string, error) {
	scenario, brackets, err := s.chatBrackets(ctx, chatID)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🎟️ *Wild Card Race*%s\n", horizonLabel(scenario)))
	for _, b := range brackets {
		sb.WriteString(fmt.Sprintf("\n*%s Conference*\n", b.Conference))
		for _, e := range b.Bubble {
			if e.Rank == seeder.WildCards+1 {
				sb.WriteString("━━━━━━━━━━━━━━━━\n")
			}
			label := fmt.Sprintf("%d.", e.Rank)
			if e.Status == models.BubbleQualified {
				label = fmt.Sprintf("WC%d", e.Rank)
			}
			sb.WriteString(fmt.Sprintf("%s %s - %d pts (%s)\n", label, teamLabel(e.Team), e.Team.Points, signed(e.PointsBehindCutoff)))
		}
	}
	return sb.String(), nil
}

func (s *BracketService) GetScenario(ctx context.Context, chatID int64) (string, error) {
	scenario, err := s.Scenario(ctx, chatID)
	if err != nil {
		return "", err
	}
	return FormatScenario(scenario), nil
}

func FormatScenario(scenario models.SimulationScenario) string {
	var sb strings.Builder
	sb.WriteString("⚙️ *Scenario*\n\n")
	sb.WriteString(fmt.Sprintf("Games simulated: %d\n", scenario.GamesToSimulate))
	if scenario.FocusTeam != "" {
		sb.WriteString(fmt.Sprintf("Focus team: %s\n", scenario.FocusTeam))
		sb.WriteString(fmt.Sprintf("Focus results: %d W, %d OTL\n", scenario.FocusWins, scenario.FocusOTLosses))
	} else {
		sb.WriteString("Focus team: none\n")
	}
	sb.WriteString(fmt.Sprintf("Schedule strength: %.2f\n", scenario.StrengthFactor()))
	return sb.String()
}

func (s *BracketService) chatBrackets(ctx context.Context, chatID int64) (models.SimulationScenario, []models.ConferenceBracket, error) {
	scenario, err := s.Scenario(ctx, chatID)
	if err != nil {
		return scenario, nil, err
	}
	brackets, err := s.Brackets(ctx, scenario)
	if err != nil {
		return scenario, nil, err
	}
	return scenario, brackets, nil
}

func formatMatchup(m models.Matchup) string {
	return fmt.Sprintf("(%s) %s %d vs (%s) %s %d\n",
		m.High.Label, teamLabel(m.High.Team), m.High.Team.Points,
		m.Low.Label, teamLabel(m.Low.Team), m.Low.Team.Points)
}

func teamLabel(t models.ProjectedRecord) string {
	if t.Focus {
		return fmt.Sprintf("⭐ *%s*", t.Name)
	}
	return t.Name
}

func horizonLabel(scenario models.SimulationScenario) string {
	if scenario.GamesToSimulate == 0 {
		return ""
	}
	return fmt.Sprintf(" (+%d games)", scenario.GamesToSimulate)
}

func signed(n int) string {
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}
