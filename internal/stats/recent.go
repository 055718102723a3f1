package stats

import (
	"cmp"
	"slices"
	"time"

	"github.com/dukerupert/chorelog/internal/model"
)

// RecentDays is how far back the recent activity list reaches.
const RecentDays = 3

// RecentGroup is one day heading of the recent activity list.
type RecentGroup struct {
	Title   string  `json:"title"`
	DateKey string  `json:"date_key"`
	Entries []Entry `json:"entries"`
}

// RecentGroups returns the logs stamped within the last days*24h before now,
// grouped by DateString with the newest day first and logs newest first
// within a day. Groups for now's date and the day before are titled "Today"
// and "Yesterday"; other groups use their date key.
func RecentGroups(logs []model.ChoreLog, members []model.FamilyMember, now time.Time, days int) []RecentGroup {
	cutoff := now.Add(-time.Duration(days) * 24 * time.Hour).UnixMilli()
	idx := IndexMembers(members)

	var recent []model.ChoreLog
	for _, l := range logs {
		if l.Timestamp > cutoff {
			recent = append(recent, l)
		}
	}
	slices.SortStableFunc(recent, func(a, b model.ChoreLog) int {
		return cmp.Compare(b.Timestamp, a.Timestamp)
	})

	y, m, d := now.Date()
	todayKey := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).Format(model.DateLayout)
	yesterdayKey := time.Date(y, m, d-1, 0, 0, 0, 0, now.Location()).Format(model.DateLayout)

	var groups []RecentGroup
	pos := make(map[string]int)
	for _, l := range recent {
		i, ok := pos[l.DateString]
		if !ok {
			title := l.DateString
			switch l.DateString {
			case todayKey:
				title = "Today"
			case yesterdayKey:
				title = "Yesterday"
			}
			i = len(groups)
			pos[l.DateString] = i
			groups = append(groups, RecentGroup{Title: title, DateKey: l.DateString})
		}
		groups[i].Entries = append(groups[i].Entries, idx.Enrich(l))
	}
	return groups
}
