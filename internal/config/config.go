package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
)

type Config struct {
	TelegramBot TelegramBot
	NHLAPI      NHLAPI
	Season      Season
	Schedule    Schedule
	Server      Server
}

type TelegramBot struct {
	Token  string `envconfig:"TELEGRAM_TOKEN" required:"true"`
	ChatID int64  `envconfig:"CHAT_ID" required:"true"`
}

type NHLAPI struct {
	BaseURL string        `envconfig:"NHL_BASE_URL" default:"https://api-web.nhle.com"`
	Timeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
}

type Season struct {
	Games            int           `envconfig:"SEASON_GAMES" default:"82"`
	DefaultFocusTeam string        `envconfig:"DEFAULT_FOCUS_TEAM" default:"Toronto Maple Leafs"`
	RefreshInterval  time.Duration `envconfig:"REFRESH_INTERVAL" default:"1h"`
}

type Schedule struct {
	Timezone    string `envconfig:"TIMEZONE" default:"America/Toronto"`
	BracketCron string `envconfig:"BRACKET_POST_CRON" default:"30 7 * * *"`
}

type Server struct {
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":80"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	if _, err := cron.ParseStandard(c.Schedule.BracketCron); err != nil {
		return nil, fmt.Errorf("invalid BRACKET_POST_CRON %q: %w", c.Schedule.BracketCron, err)
	}
	return &c, nil
}
