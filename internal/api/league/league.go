package league

import (
	"context"
	"fmt"
	"strings"

	"github.com/omarshaarawi/puckbot/internal/api/nhl"
	"github.com/omarshaarawi/puckbot/internal/models"
)

type API struct {
	nhlAPI *nhl.API
}

func NewAPI(nhlAPI *nhl.API) *API {
	return &API{nhlAPI: nhlAPI}
}

// GetTeamRecords fetches the current standings as team records.
func (a *API) GetTeamRecords(ctx context.Context) ([]models.TeamRecord, error) {
	entries, err := a.nhlAPI.GetStandings(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("standings response has no teams")
	}
	return ToTeamRecords(entries), nil
}

func ToTeamRecords(entries []models.StandingEntry) []models.TeamRecord {
	records := make([]models.TeamRecord, len(entries))
	for i, e := range entries {
		records[i] = models.TeamRecord{
			Name:        strings.TrimSpace(e.TeamName.Default),
			Abbrev:      e.TeamAbbrev.Default,
			Conference:  e.ConferenceName,
			Division:    e.DivisionName,
			Points:      e.Points,
			GamesPlayed: e.GamesPlayed,
			Wins:        e.Wins,
			Losses:      e.Losses,
			OTLosses:    e.OTLosses,
			LogoURL:     e.TeamLogo,
		}
	}
	return records
}
