// Package seeder turns a projected standings table into round-1 playoff
// seeds, matchups and the wild-card bubble.
package seeder

import (
	"fmt"
	"sort"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/omarshaarawi/puckbot/internal/models"
)

const (
	PlayoffTeams       = 8
	DivisionQualifiers = 3
	WildCards          = 2
)

// BubbleWindow is how many wild-card candidates the bubble report covers.
const BubbleWindow = 5

// Flat seeds the top eight teams of a conference by points and pairs them
// 1v8, 2v7, 3v6, 4v5.
func Flat(conference []models.ProjectedRecord) ([4]models.Matchup, error) {
	var matchups [4]models.Matchup
	if _, err := conferenceName(conference); err != nil {
		return matchups, err
	}
	if len(conference) < PlayoffTeams {
		return matchups, models.InvalidInput("flat seeding needs %d teams, got %d", PlayoffTeams, len(conference))
	}

	ranked := Rank(conference)
	for i := range matchups {
		low := PlayoffTeams - 1 - i
		matchups[i] = models.Matchup{
			High: slot(ranked[i], strconv.Itoa(i+1)),
			Low:  slot(ranked[low], strconv.Itoa(low+1)),
		}
	}
	return matchups, nil
}

// Divisional seeds the top three of each division plus two wild cards. The
// stronger division winner draws WC2 and the other winner draws WC1.
func Divisional(conference []models.ProjectedRecord) (models.DivisionalSeeding, error) {
	t, err := split(conference)
	if err != nil {
		return models.DivisionalSeeding{}, err
	}

	wc1 := slot(t.candidates[0], "WC1")
	wc2 := slot(t.candidates[1], "WC2")

	seeding := models.DivisionalSeeding{Conference: t.conference}
	for i, d := range t.divisions {
		leader := slot(d.ranked[0], d.code+"1")
		opponent := wc2
		if i == 1 {
			opponent = wc1
		}
		seeding.LeaderMatchups[i] = models.Matchup{High: leader, Low: opponent}
		seeding.Divisions[i] = models.DivisionBracket{
			Division: d.name,
			Code:     d.code,
			Leader:   leader,
			Matchup: models.Matchup{
				High: slot(d.ranked[1], d.code+"2"),
				Low:  slot(d.ranked[2], d.code+"3"),
			},
		}
	}
	return seeding, nil
}

// WildCardBubble reports the first BubbleWindow wild-card candidates and how
// far each sits from the last team in.
func WildCardBubble(conference []models.ProjectedRecord) ([]models.BubbleEntry, error) {
	t, err := split(conference)
	if err != nil {
		return nil, err
	}

	cutoff := t.candidates[WildCards-1].Points
	n := min(BubbleWindow, len(t.candidates))
	entries := make([]models.BubbleEntry, n)
	for i, c := range t.candidates[:n] {
		status := models.BubbleEliminated
		if i < WildCards {
			status = models.BubbleQualified
		}
		entries[i] = models.BubbleEntry{
			Team:               c,
			Rank:               i + 1,
			PointsBehindCutoff: c.Points - cutoff,
			Status:             status,
		}
	}
	return entries, nil
}

// Build runs every seeding scheme for each conference in records.
func Build(records []models.ProjectedRecord) ([]models.ConferenceBracket, error) {
	groups, names := ByConference(records)
	brackets := make([]models.ConferenceBracket, 0, len(names))
	for _, name := range names {
		teams := groups[name]

		flat, err := Flat(teams)
		if err != nil {
			return nil, fmt.Errorf("seeding %s: %w", name, err)
		}
		divisional, err := Divisional(teams)
		if err != nil {
			return nil, fmt.Errorf("seeding %s: %w", name, err)
		}
		bubble, err := WildCardBubble(teams)
		if err != nil {
			return nil, fmt.Errorf("seeding %s: %w", name, err)
		}

		brackets = append(brackets, models.ConferenceBracket{
			Conference: name,
			Flat:       flat,
			Divisional: divisional,
			Bubble:     bubble,
		})
	}
	return brackets, nil
}

func slot(team models.ProjectedRecord, label string) models.SeedSlot {
	return models.SeedSlot{Team: team, Label: label}
}

type division struct {
	name   string
	code   string
	ranked []models.ProjectedRecord
}

// conferenceTable is a conference split into its two ranked divisions and
// the ranked pool of teams outside the automatic qualifiers.
type conferenceTable struct {
	conference string
	divisions  [2]division
	candidates []models.ProjectedRecord
}

func split(conference []models.ProjectedRecord) (conferenceTable, error) {
	var t conferenceTable

	name, err := conferenceName(conference)
	if err != nil {
		return t, err
	}
	t.conference = name

	groups := make(map[string][]models.ProjectedRecord)
	var names []string
	for _, r := range conference {
		if r.Division == "" {
			return t, models.InvalidInput("team %q has no division", r.Name)
		}
		if _, ok := groups[r.Division]; !ok {
			names = append(names, r.Division)
		}
		groups[r.Division] = append(groups[r.Division], r)
	}
	if len(names) != 2 {
		return t, models.InvalidInput("conference %q has %d divisions, want 2", name, len(names))
	}
	sort.Strings(names)

	var rest []models.ProjectedRecord
	for i, n := range names {
		ranked := Rank(groups[n])
		if len(ranked) < DivisionQualifiers {
			return t, models.InvalidInput("division %q has %d teams, want at least %d", n, len(ranked), DivisionQualifiers)
		}
		t.divisions[i] = division{name: n, code: divisionCode(n), ranked: ranked}
		rest = append(rest, ranked[DivisionQualifiers:]...)
	}
	if t.divisions[0].code == t.divisions[1].code {
		return t, models.InvalidInput("divisions %q and %q share the code %q", names[0], names[1], t.divisions[0].code)
	}

	o := newOrdering()
	if o.before(t.divisions[1].ranked[0], t.divisions[0].ranked[0]) {
		t.divisions[0], t.divisions[1] = t.divisions[1], t.divisions[0]
	}

	t.candidates = Rank(rest)
	if len(t.candidates) < WildCards {
		return t, models.InvalidInput("conference %q has %d wild-card candidates, want at least %d", name, len(t.candidates), WildCards)
	}
	return t, nil
}

func conferenceName(records []models.ProjectedRecord) (string, error) {
	if len(records) == 0 {
		return "", models.InvalidInput("no teams to seed")
	}
	name := records[0].Conference
	for _, r := range records[1:] {
		if r.Conference != name {
			return "", models.InvalidInput("teams from %q and %q cannot be seeded together", name, r.Conference)
		}
	}
	return name, nil
}

func divisionCode(name string) string {
	r, _ := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r))
}
