package nhl

import (
	"context"
	"fmt"

	"github.com/omarshaarawi/puckbot/internal/models"
)

type API struct {
	client *Client
}

func NewAPI(client *Client) *API {
	return &API{client: client}
}

// GetStandings returns the league table as of today.
func (a *API) GetStandings(ctx context.Context) ([]models.StandingEntry, error) {
	var resp models.StandingsResponse
	if err := a.client.Get(ctx, "/v1/standings/now", &resp); err != nil {
		return nil, fmt.Errorf("fetching standings: %w", err)
	}
	return resp.Standings, nil
}
