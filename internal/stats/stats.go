// Package stats derives the day buckets, top chore counts and recent activity
// groups shown on the dashboard. Every function is a pure function of its
// inputs; callers pass a fresh snapshot of logs and members on each call.
package stats

import (
	"cmp"
	"slices"
	"strconv"
	"time"

	"github.com/dukerupert/chorelog/internal/catalog"
	"github.com/dukerupert/chorelog/internal/model"
)

const (
	WindowWeek      = 7
	WindowFortnight = 14
)

// UnknownMember is substituted when a log references a member that no longer exists.
var UnknownMember = model.FamilyMember{Name: "Unknown", Avatar: "❓", Color: catalog.DefaultMemberColor}

// Entry is one log enriched with its member and chore for display.
type Entry struct {
	LogID        string       `json:"log_id"`
	ChoreName    string       `json:"chore_name"`
	ChoreIcon    catalog.Icon `json:"chore_icon"`
	MemberName   string       `json:"member_name"`
	MemberAvatar string       `json:"member_avatar"`
	Color        string       `json:"color"`
	Timestamp    int64        `json:"timestamp"`
}

type Labels struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// DayBucket holds every log of one calendar day, newest first.
type DayBucket struct {
	DateKey  string  `json:"date_key"`
	Labels   Labels  `json:"labels"`
	LogCount int     `json:"log_count"`
	Entries  []Entry `json:"entries"`
}

// Members indexes a member list by id.
type Members map[string]model.FamilyMember

func IndexMembers(members []model.FamilyMember) Members {
	idx := make(Members, len(members))
	for _, m := range members {
		idx[m.ID] = m
	}
	return idx
}

// Resolve returns the member with the given id, or UnknownMember.
func (ms Members) Resolve(id string) model.FamilyMember {
	if m, ok := ms[id]; ok {
		return m
	}
	return UnknownMember
}

// Enrich resolves a log's member and chore into a display entry.
func (ms Members) Enrich(l model.ChoreLog) Entry {
	m := ms.Resolve(l.MemberID)
	c := catalog.Resolve(l.ChoreID)
	return Entry{
		LogID:        l.ID,
		ChoreName:    c.Name,
		ChoreIcon:    c.Icon,
		MemberName:   m.Name,
		MemberAvatar: m.Avatar,
		Color:        catalog.Color(c.Category),
		Timestamp:    l.Timestamp,
	}
}

// NormalizeWindow returns w if it is a supported window size and WindowWeek otherwise.
func NormalizeWindow(w int) int {
	if w == WindowFortnight {
		return WindowFortnight
	}
	return WindowWeek
}

// ParseWindow parses a window query value, defaulting to WindowWeek.
func ParseWindow(s string) int {
	w, err := strconv.Atoi(s)
	if err != nil {
		return WindowWeek
	}
	return NormalizeWindow(w)
}

// DailyBuckets returns one bucket per day for the window days ending on
// today, oldest first. Logs are bucketed by their stored DateString; logs
// outside the window are ignored and missing references resolve to
// sentinels.
func DailyBuckets(logs []model.ChoreLog, members []model.FamilyMember, window int, today time.Time) []DayBucket {
	window = NormalizeWindow(window)
	idx := IndexMembers(members)

	byDate := make(map[string][]model.ChoreLog)
	for _, l := range logs {
		byDate[l.DateString] = append(byDate[l.DateString], l)
	}

	y, m, d := today.Date()
	buckets := make([]DayBucket, 0, window)
	for i := window - 1; i >= 0; i-- {
		day := time.Date(y, m, d-i, 0, 0, 0, 0, today.Location())
		key := day.Format(model.DateLayout)

		dayLogs := slices.Clone(byDate[key])
		slices.SortStableFunc(dayLogs, func(a, b model.ChoreLog) int {
			return cmp.Compare(b.Timestamp, a.Timestamp)
		})

		entries := make([]Entry, 0, len(dayLogs))
		for _, l := range dayLogs {
			entries = append(entries, idx.Enrich(l))
		}

		buckets = append(buckets, DayBucket{
			DateKey: key,
			Labels: Labels{
				Primary:   day.Format("Mon 2"),
				Secondary: day.Format("Jan 2"),
			},
			LogCount: len(entries),
			Entries:  entries,
		})
	}
	return buckets
}

// MaxCount returns the largest LogCount across buckets.
func MaxCount(buckets []DayBucket) int {
	n := 0
	for _, b := range buckets {
		n = max(n, b.LogCount)
	}
	return n
}

// Total returns the number of logs across buckets.
func Total(buckets []DayBucket) int {
	n := 0
	for _, b := range buckets {
		n += b.LogCount
	}
	return n
}
