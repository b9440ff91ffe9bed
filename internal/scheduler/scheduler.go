package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/omarshaarawi/puckbot/internal/config"
)

// Reporter produces the reports the scheduler pushes.
type Reporter interface {
	RefreshStandings(ctx context.Context) error
	GetBracket(ctx context.Context, chatID int64) (string, error)
}

type Scheduler struct {
	s           gocron.Scheduler
	reporter    Reporter
	sendMessage func(string) error
	chatID      int64
	refresh     time.Duration
	bracketCron string
}

func NewScheduler(reporter Reporter, sendMessage func(string) error, chatID int64, season config.Season, schedule config.Schedule) (*Scheduler, error) {
	location, err := time.LoadLocation(schedule.Timezone)
	if err != nil {
		slog.Error("Failed to load location", "error", err, "timezone", schedule.Timezone)
		location = time.UTC
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(location),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	refresh := season.RefreshInterval
	if refresh <= 0 {
		refresh = time.Hour
	}

	return &Scheduler{
		s:           s,
		reporter:    reporter,
		sendMessage: sendMessage,
		chatID:      chatID,
		refresh:     refresh,
		bracketCron: schedule.BracketCron,
	}, nil
}

func (s *Scheduler) Start() error {
	var err error

	// Standings refresh - every interval, starting now
	_, err = s.s.NewJob(
		gocron.DurationJob(s.refresh),
		gocron.NewTask(s.refreshStandings),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create standings refresh job: %w", err)
	}

	// Playoff picture - daily, BRACKET_POST_CRON
	_, err = s.s.NewJob(
		gocron.CronJob(s.bracketCron, false),
		gocron.NewTask(s.sendBracket),
	)
	if err != nil {
		return fmt.Errorf("failed to create bracket job: %w", err)
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) refreshStandings() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.reporter.RefreshStandings(ctx); err != nil {
		slog.Error("Failed to refresh standings", "error", err)
	}
}

func (s *Scheduler) sendBracket() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	report, err := s.reporter.GetBracket(ctx, s.chatID)
	if err != nil {
		slog.Error("Failed to get bracket", "error", err)
		return
	}
	if err := s.sendMessage(report); err != nil {
		slog.Error("Failed to send bracket", "error", err)
	}
}
