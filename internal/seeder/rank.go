package seeder

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/omarshaarawi/puckbot/internal/models"
)

// Rank returns a copy of records in standings order: points, then wins,
// then fewer games played, then team name.
func Rank(records []models.ProjectedRecord) []models.ProjectedRecord {
	ranked := make([]models.ProjectedRecord, len(records))
	copy(ranked, records)

	o := newOrdering()
	sort.SliceStable(ranked, func(i, j int) bool {
		return o.before(ranked[i], ranked[j])
	})
	return ranked
}

// ordering is not safe for concurrent use; the collator keeps scratch buffers.
type ordering struct {
	col *collate.Collator
}

func newOrdering() *ordering {
	return &ordering{col: collate.New(language.English)}
}

func (o *ordering) before(a, b models.ProjectedRecord) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if a.Wins != b.Wins {
		return a.Wins > b.Wins
	}
	if a.GamesPlayed != b.GamesPlayed {
		return a.GamesPlayed < b.GamesPlayed
	}
	if c := o.col.CompareString(a.Name, b.Name); c != 0 {
		return c < 0
	}
	return a.Name < b.Name
}

// ByConference partitions records by conference. Names come back sorted.
func ByConference(records []models.ProjectedRecord) (map[string][]models.ProjectedRecord, []string) {
	groups := make(map[string][]models.ProjectedRecord)
	var names []string
	for _, r := range records {
		if _, ok := groups[r.Conference]; !ok {
			names = append(names, r.Conference)
		}
		groups[r.Conference] = append(groups[r.Conference], r)
	}
	sort.Strings(names)
	return groups, names
}
