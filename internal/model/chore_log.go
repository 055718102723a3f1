package model

import "time"

// DateLayout is the layout of ChoreLog.DateString.
const DateLayout = "2006-01-02"

// ChoreLog records one completed chore. DateString is the calendar date of
// Timestamp in the household time zone at creation and is stored, never
// recomputed.
type ChoreLog struct {
	ID         string `json:"id"`
	MemberID   string `json:"member_id"`
	ChoreID    string `json:"chore_id"`
	Timestamp  int64  `json:"timestamp"`
	DateString string `json:"date_string"`
}

// Time returns Timestamp as a time.Time in loc.
func (l ChoreLog) Time(loc *time.Location) time.Time {
	return time.UnixMilli(l.Timestamp).In(loc)
}

// NewChoreLog is a log that has not been persisted yet.
type NewChoreLog struct {
	MemberID   string
	ChoreID    string
	Timestamp  int64
	DateString string
}

// NewLogAt builds a NewChoreLog stamped at t, deriving the date key from t's location.
func NewLogAt(memberID, choreID string, t time.Time) NewChoreLog {
	return NewChoreLog{
		MemberID:   memberID,
		ChoreID:    choreID,
		Timestamp:  t.UnixMilli(),
		DateString: t.Format(DateLayout),
	}
}
