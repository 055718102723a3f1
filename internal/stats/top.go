package stats

import (
	"cmp"
	"slices"
	"time"

	"github.com/dukerupert/chorelog/internal/catalog"
	"github.com/dukerupert/chorelog/internal/model"
)

// DefaultTopN is how many chores the dashboard breakdown shows.
const DefaultTopN = 5

type TopChore struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TopChores counts logs stamped at or after since by chore name and returns
// the n most frequent. Ties keep the order in which the names were first
// seen in logs. Logs for chores outside the catalog count under "Unknown".
func TopChores(logs []model.ChoreLog, since time.Time, n int) []TopChore {
	cutoff := since.UnixMilli()
	counts := make(map[string]int)
	var order []string
	for _, l := range logs {
		if l.Timestamp < cutoff {
			continue
		}
		name := catalog.Resolve(l.ChoreID).Name
		if _, seen := counts[name]; !seen {
			order = append(order, name)
		}
		counts[name]++
	}

	top := make([]TopChore, 0, len(order))
	for _, name := range order {
		top = append(top, TopChore{Name: name, Count: counts[name]})
	}
	slices.SortStableFunc(top, func(a, b TopChore) int {
		return cmp.Compare(b.Count, a.Count)
	})
	if n >= 0 && len(top) > n {
		top = top[:n]
	}
	return top
}
