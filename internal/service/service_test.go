package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/omarshaarawi/puckbot/internal/config"
	"github.com/omarshaarawi/puckbot/internal/models"
	"github.com/omarshaarawi/puckbot/internal/repository/memory"
)

type fakeProvider struct {
	teams []models.TeamRecord
	err   error
	calls int
}

func (f *fakeProvider) GetTeamRecords(ctx context.Context) ([]models.TeamRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.teams, nil
}

func record(name, abbrev, conference, division string, wins, losses, otl int) models.TeamRecord {
	return models.TeamRecord{
		Name:        name,
		Abbrev:      abbrev,
		Conference:  conference,
		Division:    division,
		Points:      2*wins + otl,
		GamesPlayed: wins + losses + otl,
		Wins:        wins,
		Losses:      losses,
		OTLosses:    otl,
	}
}

func league() []models.TeamRecord {
	return []models.TeamRecord{
		record("Toronto Maple Leafs", "TOR", "Eastern", "Atlantic", 24, 14, 2),
		record("Boston Bruins", "BOS", "Eastern", "Atlantic", 26, 10, 4),
		record("Florida Panthers", "FLA", "Eastern", "Atlantic", 22, 15, 3),
		record("Montréal Canadiens", "MTL", "Eastern", "Atlantic", 15, 20, 5),
		record("New York Rangers", "NYR", "Eastern", "Metropolitan", 27, 11, 2),
		record("Carolina Hurricanes", "CAR", "Eastern", "Metropolitan", 23, 13, 4),
		record("New Jersey Devils", "NJD", "Eastern", "Metropolitan", 20, 17, 3),
		record("Pittsburgh Penguins", "PIT", "Eastern", "Metropolitan", 18, 18, 4),
		record("Dallas Stars", "DAL", "Western", "Central", 25, 12, 3),
		record("Colorado Avalanche", "COL", "Western", "Central", 24, 13, 3),
		record("Winnipeg Jets", "WPG", "Western", "Central", 26, 11, 3),
		record("Minnesota Wild", "MIN", "Western", "Central", 17, 19, 4),
		record("Vegas Golden Knights", "VGK", "Western", "Pacific", 23, 13, 4),
		record("Edmonton Oilers", "EDM", "Western", "Pacific", 22, 16, 2),
		record("Vancouver Canucks", "VAN", "Western", "Pacific", 25, 10, 5),
		record("Los Angeles Kings", "LAK", "Western", "Pacific", 21, 14, 5),
	}
}

func newTestService(provider *fakeProvider) (*BracketService, *time.Time) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	svc := NewBracketService(provider, memory.NewRepository(), config.Season{
		Games:            82,
		DefaultFocusTeam: "Toronto Maple Leafs",
		RefreshInterval:  time.Hour,
	})
	svc.now = func() time.Time { return now }
	return svc, &now
}

func TestStandingsCache(t *testing.T) {
	provider := &fakeProvider{teams: league()}
	svc, now := newTestService(provider)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Standings(ctx); err != nil {
			t.Fatalf("Standings: %v", err)
		}
	}
	if provider.calls != 1 {
		t.Errorf("provider called %d times, want 1", provider.calls)
	}

	*now = now.Add(61 * time.Minute)
	if _, err := svc.Standings(ctx); err != nil {
		t.Fatalf("Standings: %v", err)
	}
	if provider.calls != 2 {
		t.Errorf("provider called %d times after expiry, want 2", provider.calls)
	}

	*now = now.Add(2 * time.Hour)
	provider.err = errors.New("upstream down")
	snapshot, err := svc.Standings(ctx)
	if err != nil {
		t.Fatalf("stale snapshot should be served: %v", err)
	}
	if len(snapshot.Teams) != 16 {
		t.Errorf("stale snapshot has %d teams", len(snapshot.Teams))
	}
}

func TestStandingsProviderFailure(t *testing.T) {
	svc, _ := newTestService(&fakeProvider{err: errors.New("upstream down")})
	if _, err := svc.Standings(context.Background()); err == nil {
		t.Fatal("expected an error without any cached snapshot")
	}
}

func TestDefaultScenario(t *testing.T) {
	svc, _ := newTestService(&fakeProvider{teams: league()})

	scenario, err := svc.Scenario(context.Background(), 7)
	if err != nil {
		t.Fatalf("Scenario: %v", err)
	}
	if scenario.FocusTeam != "Toronto Maple Leafs" || scenario.GamesToSimulate != 0 {
		t.Errorf("default scenario = %+v", scenario)
	}

	svc.defaultFocus = "Quebec Nordiques"
	scenario, err = svc.DefaultScenario(context.Background())
	if err != nil {
		t.Fatalf("DefaultScenario: %v", err)
	}
	if scenario.FocusTeam != "" {
		t.Errorf("unknown default focus should be dropped, got %q", scenario.FocusTeam)
	}
}

func TestScenarioEdits(t *testing.T) {
	svc, _ := newTestService(&fakeProvider{teams: league()})
	ctx := context.Background()
	const chat = 99

	if _, err := svc.SetGames(ctx, chat, MaxSimGames+1); !errors.Is(err, models.ErrScenarioInconsistency) {
		t.Errorf("SetGames over the limit: err = %v", err)
	}
	if _, err := svc.SetGames(ctx, chat, 10); err != nil {
		t.Fatalf("SetGames: %v", err)
	}
	if _, err := svc.SetFocusRecord(ctx, chat, 8, 3); !errors.Is(err, models.ErrScenarioInconsistency) {
		t.Errorf("SetFocusRecord overflow: err = %v", err)
	}
	scenario, err := svc.SetFocusRecord(ctx, chat, 6, 1)
	if err != nil {
		t.Fatalf("SetFocusRecord: %v", err)
	}
	if scenario.FocusWins != 6 || scenario.FocusOTLosses != 1 || scenario.FocusTeam != "Toronto Maple Leafs" {
		t.Errorf("scenario = %+v", scenario)
	}

	scenario, err = svc.SetGames(ctx, chat, 5)
	if err != nil {
		t.Fatalf("SetGames: %v", err)
	}
	if scenario.FocusWins != 0 || scenario.FocusOTLosses != 0 {
		t.Errorf("focus results should be cleared when they no longer fit: %+v", scenario)
	}

	if _, err := svc.SetStrength(ctx, chat, 5); !errors.Is(err, models.ErrScenarioInconsistency) {
		t.Errorf("SetStrength out of range: err = %v", err)
	}
	if scenario, err = svc.SetStrength(ctx, chat, 1.1); err != nil || scenario.ScheduleStrength != 1.1 {
		t.Errorf("SetStrength = %+v, %v", scenario, err)
	}

	scenario, err = svc.SetFocus(ctx, chat, "oilers")
	if err != nil {
		t.Fatalf("SetFocus: %v", err)
	}
	if scenario.FocusTeam != "Edmonton Oilers" || scenario.GamesToSimulate != 5 {
		t.Errorf("scenario after SetFocus = %+v", scenario)
	}

	svc.ResetScenario(chat)
	if scenario, _ = svc.Scenario(ctx, chat); scenario.FocusTeam != "Toronto Maple Leafs" || scenario.GamesToSimulate != 0 {
		t.Errorf("scenario after reset = %+v", scenario)
	}
}

func TestResolveTeam(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"Boston Bruins", "Boston Bruins"},
		{"edm", "Edmonton Oilers"},
		{"leafs", "Toronto Maple Leafs"},
		{"montreal", "Montréal Canadiens"},
		{"Dalas Starz", "Dallas Stars"},
	}
	for _, tt := range tests {
		got, err := resolveTeam(league(), tt.query)
		if err != nil {
			t.Errorf("resolveTeam(%q): %v", tt.query, err)
			continue
		}
		if got != tt.want {
			t.Errorf("resolveTeam(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}

	for _, query := range []string{"", "Hartford Whalers"} {
		if _, err := resolveTeam(league(), query); err == nil {
			t.Errorf("resolveTeam(%q) should fail", query)
		}
	}
}

func TestBrackets(t *testing.T) {
	svc, _ := newTestService(&fakeProvider{teams: league()})
	ctx := context.Background()

	scenario := models.SimulationScenario{GamesToSimulate: 10, FocusTeam: "Montréal Canadiens", FocusWins: 10}
	brackets, err := svc.Brackets(ctx, scenario)
	if err != nil {
		t.Fatalf("Brackets: %v", err)
	}
	if len(brackets) != 2 {
		t.Fatalf("got %d conferences", len(brackets))
	}

	east := brackets[0]
	if east.Conference != "Eastern" || east.Flat[0].High.Team.Name != "New York Rangers" {
		t.Errorf("eastern top seed = %s", east.Flat[0].High.Team.Name)
	}
	if len(east.Bubble) != 2 {
		t.Errorf("eastern bubble has %d entries, want 2", len(east.Bubble))
	}

	entries, err := svc.Bubble(ctx, scenario, "west")
	if err != nil {
		t.Fatalf("Bubble: %v", err)
	}
	if len(entries) != 2 || entries[0].Team.Conference != "Western" {
		t.Errorf("western bubble = %+v", entries)
	}
	if _, err := svc.Bubble(ctx, scenario, "north"); err == nil {
		t.Error("unknown conference should fail")
	}

	scenario.FocusWins = 11
	if _, err := svc.Brackets(ctx, scenario); !errors.Is(err, models.ErrScenarioInconsistency) {
		t.Errorf("overflowing focus record: err = %v", err)
	}
}

func TestReports(t *testing.T) {
	svc, _ := newTestService(&fakeProvider{teams: league()})
	ctx := context.Background()

	bracket, err := svc.GetBracket(ctx, 1)
	if err != nil {
		t.Fatalf("GetBracket: %v", err)
	}
	for _, want := range []string{"*Eastern Conference*", "*Western Conference*", "(1) New York Rangers 56 vs (8)", "⭐ *Toronto Maple Leafs*"} {
		if !strings.Contains(bracket, want) {
			t.Errorf("bracket report missing %q:\n%s", want, bracket)
		}
	}

	standings, err := svc.GetStandings(ctx, 1, "east")
	if err != nil {
		t.Fatalf("GetStandings: %v", err)
	}
	if strings.Contains(standings, "Western") || !strings.Contains(standings, "1. New York Rangers - 56 pts (27-11-2)") {
		t.Errorf("unexpected standings report:\n%s", standings)
	}

	divisional, err := svc.GetDivisionalBracket(ctx, 1)
	if err != nil {
		t.Fatalf("GetDivisionalBracket: %v", err)
	}
	if !strings.Contains(divisional, "(M1) New York Rangers 56 vs (WC2)") {
		t.Errorf("unexpected divisional report:\n%s", divisional)
	}

	race, err := svc.GetWildCardRace(ctx, 1)
	if err != nil {
		t.Fatalf("GetWildCardRace: %v", err)
	}
	if !strings.Contains(race, "WC1") || !strings.Contains(race, "WC2") {
		t.Errorf("unexpected wild card report:\n%s", race)
	}

	if _, err := svc.SetGames(ctx, 1, 12); err != nil {
		t.Fatalf("SetGames: %v", err)
	}
	report, err := svc.GetScenario(ctx, 1)
	if err != nil {
		t.Fatalf("GetScenario: %v", err)
	}
	if !strings.Contains(report, "Games simulated: 12") || !strings.Contains(report, "Schedule strength: 1.00") {
		t.Errorf("unexpected scenario report:\n%s", report)
	}
}

func TestScenarioEditsLateInSeason(t *testing.T) {
	teams := league()
	teams[0] = record("Toronto Maple Leafs", "TOR", "Eastern", "Atlantic", 44, 28, 6)
	provider := &fakeProvider{teams: teams}
	svc, now := newTestService(provider)
	ctx := context.Background()
	const chat = 5

	if _, err := svc.SetGames(ctx, chat, 10); err != nil {
		t.Fatalf("SetGames: %v", err)
	}
	if _, err := svc.SetFocusRecord(ctx, chat, 6, 1); !errors.Is(err, models.ErrScenarioInconsistency) {
		t.Errorf("6-1 with 4 games left: err = %v", err)
	}
	if _, err := svc.SetFocusRecord(ctx, chat, 3, 1); err != nil {
		t.Fatalf("SetFocusRecord: %v", err)
	}
	if _, err := svc.GetBracket(ctx, chat); err != nil {
		t.Errorf("GetBracket: %v", err)
	}

	// Two more games played: the saved 3-1 no longer fits in the 2 games left.
	late := league()
	late[0] = record("Toronto Maple Leafs", "TOR", "Eastern", "Atlantic", 45, 29, 6)
	provider.teams = late
	*now = now.Add(2 * time.Hour)

	for name, report := range map[string]func(context.Context, int64) (string, error){
		"GetBracket":           svc.GetBracket,
		"GetDivisionalBracket": svc.GetDivisionalBracket,
		"GetWildCardRace":      svc.GetWildCardRace,
	} {
		if _, err := report(ctx, chat); err != nil {
			t.Errorf("%s after refresh: %v", name, err)
		}
	}
	if _, err := svc.GetStandings(ctx, chat, ""); err != nil {
		t.Errorf("GetStandings after refresh: %v", err)
	}

	scenario, err := svc.SetGames(ctx, chat, 10)
	if err != nil {
		t.Fatalf("SetGames: %v", err)
	}
	if scenario.FocusWins != 0 || scenario.FocusOTLosses != 0 {
		t.Errorf("focus results beyond the remaining games should be cleared: %+v", scenario)
	}
}

type slowProvider struct {
	teams   []models.TeamRecord
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func (p *slowProvider) GetTeamRecords(ctx context.Context) ([]models.TeamRecord, error) {
	if p.calls.Add(1) == 1 {
		close(p.entered)
	}
	<-p.release
	return p.teams, nil
}

func TestStandingsConcurrentRefreshSharesFetch(t *testing.T) {
	provider := &slowProvider{teams: league(), entered: make(chan struct{}), release: make(chan struct{})}
	svc := NewBracketService(provider, memory.NewRepository(), config.Season{Games: 82, RefreshInterval: time.Hour})
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Standings(ctx); err != nil {
				errs <- err
			}
		}()
	}

	<-provider.entered
	time.Sleep(50 * time.Millisecond)
	close(provider.release)
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Standings: %v", err)
	}
	if n := provider.calls.Load(); n != 1 {
		t.Errorf("provider called %d times, want 1", n)
	}
}
