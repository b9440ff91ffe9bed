package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/omarshaarawi/puckbot/internal/models"
	"github.com/omarshaarawi/puckbot/internal/service"
)

const helpText = `Available commands:
/standings [conference] - Projected standings
/bracket - Top-8 playoff bracket
/divisions - Divisional bracket with wild cards
/wildcard - Wild card race
/sim <games> - Simulate the next X games (0-35)
/focus <team> - Pick your focus team
/record <wins> <otl> - Set your focus team's results
/sos <factor> - Schedule strength for everyone else
/scenario - Show current settings
/reset - Back to default settings`

// Bracket is the subset of BracketService the handlers use.
type Bracket interface {
	GetStandings(ctx context.Context, chatID int64, conference string) (string, error)
	GetBracket(ctx context.Context, chatID int64) (string, error)
	GetDivisionalBracket(ctx context.Context, chatID int64) (string, error)
	GetWildCardRace(ctx context.Context, chatID int64) (string, error)
	GetScenario(ctx context.Context, chatID int64) (string, error)
	SetGames(ctx context.Context, chatID int64, games int) (models.SimulationScenario, error)
	SetFocus(ctx context.Context, chatID int64, query string) (models.SimulationScenario, error)
	SetFocusRecord(ctx context.Context, chatID int64, wins, otLosses int) (models.SimulationScenario, error)
	SetStrength(ctx context.Context, chatID int64, factor float64) (models.SimulationScenario, error)
	ResetScenario(chatID int64)
}

var _ Bracket = (*service.BracketService)(nil)

type Handler struct {
	bracketService Bracket
}

func NewHandler(bracketService Bracket) *Handler {
	return &Handler{bracketService: bracketService}
}

func (h *Handler) HandleCommand(ctx context.Context, update tgbotapi.Update) tgbotapi.MessageConfig {
	chatID := update.Message.Chat.ID
	msg := tgbotapi.NewMessage(chatID, "")
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.Text = h.Reply(ctx, chatID, update.Message.Command(), update.Message.CommandArguments())
	return msg
}

// Reply returns the text answering command in chatID.
func (h *Handler) Reply(ctx context.Context, chatID int64, command, args string) string {
	args = strings.TrimSpace(args)

	switch strings.ToLower(command) {
	case "start":
		return "Welcome to PuckBot! Use /help to see available commands."
	case "help":
		return helpText
	case "standings":
		return h.report("standings", func() (string, error) {
			return h.bracketService.GetStandings(ctx, chatID, args)
		})
	case "bracket":
		return h.report("bracket", func() (string, error) {
			return h.bracketService.GetBracket(ctx, chatID)
		})
	case "divisions":
		return h.report("divisional bracket", func() (string, error) {
			return h.bracketService.GetDivisionalBracket(ctx, chatID)
		})
	case "wildcard":
		return h.report("wild card race", func() (string, error) {
			return h.bracketService.GetWildCardRace(ctx, chatID)
		})
	case "scenario":
		return h.report("scenario", func() (string, error) {
			return h.bracketService.GetScenario(ctx, chatID)
		})
	case "sim":
		return h.handleSim(ctx, chatID, args)
	case "focus":
		return h.handleFocus(ctx, chatID, args)
	case "record":
		return h.handleRecord(ctx, chatID, args)
	case "sos":
		return h.handleStrength(ctx, chatID, args)
	case "reset":
		h.bracketService.ResetScenario(chatID)
		return "Scenario reset to defaults."
	default:
		return "Unknown command. Use /help to see available commands."
	}
}

func (h *Handler) report(what string, fetch func() (string, error)) string {
	text, err := fetch()
	if err != nil {
		return errorReply("fetching "+what, err)
	}
	return text
}

func (h *Handler) handleSim(ctx context.Context, chatID int64, args string) string {
	games, err := strconv.Atoi(args)
	if err != nil {
		return "Please provide a number of games. Usage: /sim <games>"
	}
	scenario, err := h.bracketService.SetGames(ctx, chatID, games)
	if err != nil {
		return errorReply("updating scenario", err)
	}
	return service.FormatScenario(scenario)
}

func (h *Handler) handleFocus(ctx context.Context, chatID int64, args string) string {
	if args == "" {
		return "Please provide a team name. Usage: /focus <team name>"
	}
	scenario, err := h.bracketService.SetFocus(ctx, chatID, args)
	if err != nil {
		return errorReply("setting focus team", err)
	}
	return service.FormatScenario(scenario)
}

func (h *Handler) handleRecord(ctx context.Context, chatID int64, args string) string {
	fields := strings.Fields(args)
	if len(fields) == 0 || len(fields) > 2 {
		return "Please provide wins and OT losses. Usage: /record <wins> <otl>"
	}
	wins, err := strconv.Atoi(fields[0])
	if err != nil {
		return "Wins must be a number. Usage: /record <wins> <otl>"
	}
	otl := 0
	if len(fields) == 2 {
		if otl, err = strconv.Atoi(fields[1]); err != nil {
			return "OT losses must be a number. Usage: /record <wins> <otl>"
		}
	}
	scenario, err := h.bracketService.SetFocusRecord(ctx, chatID, wins, otl)
	if err != nil {
		return errorReply("updating scenario", err)
	}
	return service.FormatScenario(scenario)
}

func (h *Handler) handleStrength(ctx context.Context, chatID int64, args string) string {
	factor, err := strconv.ParseFloat(args, 64)
	if err != nil {
		return "Please provide a factor. Usage: /sos <factor>, e.g. /sos 0.9"
	}
	scenario, err := h.bracketService.SetStrength(ctx, chatID, factor)
	if err != nil {
		return errorReply("updating scenario", err)
	}
	return service.FormatScenario(scenario)
}

// errorReply escapes err so user input echoed in it cannot break Markdown parsing.
func errorReply(action string, err error) string {
	return fmt.Sprintf("Error %s: %s", action, tgbotapi.EscapeText(tgbotapi.ModeMarkdown, err.Error()))
}
