package chart

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/dukerupert/chorelog/internal/model"
	"github.com/dukerupert/chorelog/internal/stats"
)

func testBuckets() []stats.DayBucket {
	members := []model.FamilyMember{{ID: "m1", Name: "J", Avatar: "🐳", Color: "cyan"}}
	logs := []model.ChoreLog{
		{ID: "a", MemberID: "m1", ChoreID: "c3", Timestamp: 3, DateString: "2024-06-01"},
		{ID: "b", MemberID: "m1", ChoreID: "c28", Timestamp: 2, DateString: "2024-06-01"},
		{ID: "c", MemberID: "m1", ChoreID: "c16", Timestamp: 1, DateString: "2024-06-01"},
		{ID: "d", MemberID: "m1", ChoreID: "c4", Timestamp: 1, DateString: "2024-05-31"},
	}
	return stats.DailyBuckets(logs, members, 7, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
}

func TestLayoutBarHeights(t *testing.T) {
	c := Layout(testBuckets(), DefaultOptions())

	if len(c.Bars) != 7 {
		t.Fatalf("got %d bars, want 7", len(c.Bars))
	}
	if c.YMax != 3 {
		t.Errorf("y max = %d, want 3", c.YMax)
	}
	full := c.Bars[6].Slot.H
	if full != c.Plot.H {
		t.Errorf("tallest bar = %v, want plot height %v", full, c.Plot.H)
	}
	if got := c.Bars[5].Slot.H; got != full/3 {
		t.Errorf("one-log bar = %v, want %v", got, full/3)
	}
	if len(c.Bars[0].Blocks) != 0 {
		t.Errorf("empty day has %d blocks", len(c.Bars[0].Blocks))
	}
	for _, bar := range c.Bars {
		if bar.Slot.Bottom() != c.Plot.Bottom() {
			t.Errorf("bar %s not on the baseline", bar.Bucket.DateKey)
		}
	}
}

func TestLayoutTicks(t *testing.T) {
	tests := []struct {
		maxCount int
		wantYMax int
		wantStep int
	}{
		{0, 1, 1},
		{3, 3, 1},
		{5, 5, 1},
		{6, 6, 2},
		{11, 15, 5},
		{37, 40, 10},
	}
	for _, tt := range tests {
		buckets := []stats.DayBucket{bucketOf(tt.maxCount)}
		c := Layout(buckets, DefaultOptions())
		if c.YMax != tt.wantYMax {
			t.Errorf("max %d: y max = %d, want %d", tt.maxCount, c.YMax, tt.wantYMax)
		}
		if len(c.Ticks) < 2 || c.Ticks[1].Value != tt.wantStep {
			t.Errorf("max %d: ticks = %+v, want step %d", tt.maxCount, c.Ticks, tt.wantStep)
		}
		if c.Ticks[0].Y != c.Plot.Bottom() {
			t.Errorf("max %d: zero tick at %v, want baseline", tt.maxCount, c.Ticks[0].Y)
		}
	}
}

func TestLayoutLabels(t *testing.T) {
	week := Layout(testBuckets(), DefaultOptions())
	for i, bar := range week.Bars {
		if !bar.ShowLabel {
			t.Errorf("week bar %d hides its label", i)
		}
	}

	buckets := stats.DailyBuckets(nil, nil, 14, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	fortnight := Layout(buckets, DefaultOptions())
	shown := 0
	for _, bar := range fortnight.Bars {
		if bar.ShowLabel {
			shown++
		}
	}
	if shown != 7 {
		t.Errorf("14-day chart labels %d bars, want 7", shown)
	}
}

func TestHitTest(t *testing.T) {
	c := Layout(testBuckets(), DefaultOptions())
	top := c.Bars[6].Blocks[0]

	b, ok := c.HitTest(top.Anchor())
	if !ok || b.Entry.LogID != "a" {
		t.Errorf("hit at top anchor = %v %v, want block a", b.Entry.LogID, ok)
	}

	center := Point{X: top.Rect.X + top.Rect.W/2, Y: top.Rect.Y + top.Rect.H/2}
	if b, ok := c.HitTest(center); !ok || b.Bucket != 6 || b.Index != 0 {
		t.Errorf("hit at center = %+v %v", b, ok)
	}

	gap := Point{X: center.X, Y: top.Rect.Bottom() + 0.5}
	if _, ok := c.HitTest(gap); ok {
		t.Error("expected miss in the gap between blocks")
	}
	if _, ok := c.HitTest(Point{X: -10, Y: -10}); ok {
		t.Error("expected miss outside the chart")
	}
	if _, ok := c.HitTest(Point{X: c.Bars[0].LabelX, Y: c.Plot.Bottom() - 1}); ok {
		t.Error("expected miss over an empty day")
	}
}

func TestTooltipClick(t *testing.T) {
	c := Layout(testBuckets(), DefaultOptions())
	block := c.Bars[6].Blocks[1]

	var tip Tooltip
	if _, ok := tip.Selected(); ok {
		t.Fatal("zero tooltip should be empty")
	}

	tip.Click(c, Point{X: block.Rect.X + 1, Y: block.Rect.Y + 1})
	sel, ok := tip.Selected()
	if !ok {
		t.Fatal("expected selection after block click")
	}
	if sel.Entry.LogID != "b" || sel.DateKey != "2024-06-01" {
		t.Errorf("selection = %+v, want log b on 2024-06-01", sel)
	}
	if sel.Anchor != block.Anchor() {
		t.Errorf("anchor = %+v, want %+v", sel.Anchor, block.Anchor())
	}

	tip.Click(c, Point{X: c.Width + 50, Y: 0})
	if _, ok := tip.Selected(); ok {
		t.Error("click outside should clear the selection")
	}
}

func TestRenderSVG(t *testing.T) {
	c := Layout(testBuckets(), DefaultOptions())
	var tip Tooltip
	tip.Click(c, c.Bars[6].Blocks[0].Anchor())

	var buf bytes.Buffer
	if err := RenderSVG(&buf, c, tip); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "<svg") || !strings.HasSuffix(out, "</svg>") {
		t.Errorf("output is not an svg element: %.60s", out)
	}
	if got := strings.Count(out, `class="block"`); got != 4 {
		t.Errorf("rendered %d blocks, want 4", got)
	}
	if !strings.Contains(out, `class="tooltip" data-log-id="a"`) {
		t.Error("expected tooltip for log a")
	}
	if !strings.Contains(out, "#38bdf8") {
		t.Error("expected home color in output")
	}
}

func TestTopChoresSVG(t *testing.T) {
	var buf bytes.Buffer
	err := TopChoresSVG(&buf, []stats.TopChore{{Name: "Trash", Count: 3}, {Name: "Vacuum", Count: 1}})
	if err != nil {
		t.Fatalf("render donut: %v", err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Error("expected svg output")
	}

	buf.Reset()
	if err := TopChoresSVG(&buf, nil); err != nil {
		t.Fatalf("render empty donut: %v", err)
	}
	if !strings.Contains(buf.String(), "<circle") {
		t.Error("expected placeholder ring for empty data")
	}
}

func TestTerminal(t *testing.T) {
	out := Terminal(testBuckets(), 60, 10)
	if !strings.Contains(out, "4 chores") {
		t.Errorf("terminal output missing total: %q", out)
	}
	if !strings.Contains(out, "Food & Kitchen") {
		t.Error("terminal output missing legend")
	}
}
