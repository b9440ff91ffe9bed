package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/omarshaarawi/puckbot/internal/config"
	"github.com/omarshaarawi/puckbot/internal/models"
	"github.com/omarshaarawi/puckbot/internal/projector"
	"github.com/omarshaarawi/puckbot/internal/repository/memory"
	"github.com/omarshaarawi/puckbot/internal/seeder"
)

// Scenario bounds offered to users.
const (
	MaxSimGames      = 35
	MaxFocusWins     = 35
	MaxFocusOTLosses = 10
	MinStrength      = 0.25
	MaxStrength      = 2.0
)

type StandingsProvider interface {
	GetTeamRecords(ctx context.Context) ([]models.TeamRecord, error)
}

type BracketService struct {
	provider        StandingsProvider
	repo            *memory.Repository
	seasonGames     int
	defaultFocus    string
	refreshInterval time.Duration
	now             func() time.Time
	refreshes       singleflight.Group
}

func NewBracketService(provider StandingsProvider, repo *memory.Repository, cfg config.Season) *BracketService {
	refresh := cfg.RefreshInterval
	if refresh <= 0 {
		refresh = time.Hour
	}
	return &BracketService{
		provider:        provider,
		repo:            repo,
		seasonGames:     cfg.Games,
		defaultFocus:    cfg.DefaultFocusTeam,
		refreshInterval: refresh,
		now:             time.Now,
	}
}

// RefreshStandings fetches a new snapshot regardless of the cached one's age.
// Concurrent callers share one fetch.
func (s *BracketService) RefreshStandings(ctx context.Context) error {
	_, err, _ := s.refreshes.Do("standings", func() (any, error) {
		teams, err := s.provider.GetTeamRecords(ctx)
		if err != nil {
			return nil, fmt.Errorf("error fetching standings: %w", err)
		}
		s.repo.SaveSnapshot(&models.Snapshot{Teams: teams, LastUpdated: s.now()})
		slog.Info("Standings refreshed", "teams", len(teams))
		return nil, nil
	})
	return err
}

// Standings returns the cached snapshot, refreshing it once it is older than the refresh interval.
func (s *BracketService) Standings(ctx context.Context) (*models.Snapshot, error) {
	snapshot := s.repo.GetSnapshot()
	if snapshot == nil || s.now().Sub(snapshot.LastUpdated) > s.refreshInterval {
		if err := s.RefreshStandings(ctx); err != nil {
			if snapshot != nil {
				slog.Error("Serving stale standings", "error", err, "age", s.now().Sub(snapshot.LastUpdated))
				return snapshot, nil
			}
			return nil, err
		}
		snapshot = s.repo.GetSnapshot()
	}
	return snapshot, nil
}

// Project runs the projector over the current standings.
func (s *BracketService) Project(ctx context.Context, scenario models.SimulationScenario) ([]models.ProjectedRecord, error) {
	snapshot, err := s.Standings(ctx)
	if err != nil {
		return nil, err
	}
	projected, err := projector.Project(snapshot.Teams, scenario, projector.WithSeasonLimit(s.seasonGames))
	if err != nil {
		return nil, fmt.Errorf("error projecting standings: %w", err)
	}
	return projected, nil
}

// Brackets projects the standings and seeds every conference.
func (s *BracketService) Brackets(ctx context.Context, scenario models.SimulationScenario) ([]models.ConferenceBracket, error) {
	projected, err := s.Project(ctx, scenario)
	if err != nil {
		return nil, err
	}
	brackets, err := seeder.Build(projected)
	if err != nil {
		return nil, fmt.Errorf("error seeding playoffs: %w", err)
	}
	return brackets, nil
}

// Bubble projects the standings and reports the wild-card race in one conference.
func (s *BracketService) Bubble(ctx context.Context, scenario models.SimulationScenario, conference string) ([]models.BubbleEntry, error) {
	projected, err := s.Project(ctx, scenario)
	if err != nil {
		return nil, err
	}
	groups, names := seeder.ByConference(projected)
	name, err := matchConference(names, conference)
	if err != nil {
		return nil, err
	}
	entries, err := seeder.WildCardBubble(groups[name])
	if err != nil {
		return nil, fmt.Errorf("error computing wild-card bubble: %w", err)
	}
	return entries, nil
}
