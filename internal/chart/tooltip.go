package chart

import "github.com/dukerupert/chorelog/internal/stats"

// Selection is the entry a tooltip shows and where it points.
type Selection struct {
	DateKey string      `json:"date_key"`
	Entry   stats.Entry `json:"entry"`
	Anchor  Point       `json:"anchor"`
}

// Tooltip is either empty or holds one Selection. The zero value is empty.
type Tooltip struct {
	sel *Selection
}

// Click selects the block under p, or clears the tooltip when p hits no
// block, including points outside the chart.
func (t *Tooltip) Click(c Chart, p Point) {
	b, ok := c.HitTest(p)
	if !ok {
		t.Clear()
		return
	}
	t.sel = &Selection{
		DateKey: c.Bars[b.Bucket].Bucket.DateKey,
		Entry:   b.Entry,
		Anchor:  b.Anchor(),
	}
}

func (t *Tooltip) Clear() {
	t.sel = nil
}

func (t Tooltip) Selected() (Selection, bool) {
	if t.sel == nil {
		return Selection{}, false
	}
	return *t.sel, true
}
