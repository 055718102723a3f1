package stats

import (
	"reflect"
	"testing"
	"time"

	"github.com/dukerupert/chorelog/internal/model"
)

func logsFor(choreIDs ...string) []model.ChoreLog {
	logs := make([]model.ChoreLog, len(choreIDs))
	for i, id := range choreIDs {
		logs[i] = model.ChoreLog{ID: id + "-" + string(rune('a'+i)), MemberID: "m1", ChoreID: id, Timestamp: int64(1000 + i)}
	}
	return logs
}

func TestTopChoresTopFive(t *testing.T) {
	// Trash:5, Vacuum:5, Tidy Up:3, Steam Carpet:1, Get Mail:1, Wash Clothes:1
	logs := logsFor(
		"c3", "c4", "c3", "c8", "c4", "c3", "c22", "c4", "c8",
		"c3", "c26", "c4", "c18", "c3", "c8", "c4",
	)

	got := TopChores(logs, time.UnixMilli(0), DefaultTopN)
	want := []TopChore{
		{Name: "Trash", Count: 5},
		{Name: "Vacuum", Count: 5},
		{Name: "Tidy Up", Count: 3},
		{Name: "Steam Carpet", Count: 1},
		{Name: "Get Mail", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopChores = %v, want %v", got, want)
	}
}

func TestTopChoresTieFollowsFirstEncounter(t *testing.T) {
	logs := logsFor("c4", "c3", "c3", "c4")

	got := TopChores(logs, time.UnixMilli(0), DefaultTopN)
	if len(got) != 2 || got[0].Name != "Vacuum" || got[1].Name != "Trash" {
		t.Errorf("TopChores = %v, want Vacuum before Trash", got)
	}
}

func TestTopChoresSince(t *testing.T) {
	logs := []model.ChoreLog{
		{ChoreID: "c3", Timestamp: 500},
		{ChoreID: "c4", Timestamp: 1000},
		{ChoreID: "c4", Timestamp: 2000},
	}

	got := TopChores(logs, time.UnixMilli(1000), DefaultTopN)
	want := []TopChore{{Name: "Vacuum", Count: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopChores = %v, want %v", got, want)
	}
}

func TestTopChoresUnknown(t *testing.T) {
	logs := logsFor("c99", "c98", "c3")

	got := TopChores(logs, time.UnixMilli(0), DefaultTopN)
	if len(got) != 2 || got[0].Name != "Unknown" || got[0].Count != 2 {
		t.Errorf("TopChores = %v, want Unknown:2 first", got)
	}
}

func TestTopChoresEmpty(t *testing.T) {
	got := TopChores(nil, time.UnixMilli(0), DefaultTopN)
	if len(got) != 0 {
		t.Errorf("TopChores(nil) = %v, want empty", got)
	}
}
