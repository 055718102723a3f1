// Package chart lays out the daily trend chart: one bar per day bucket,
// each bar a stack of one block per log, newest on top. The layout is pure
// geometry so the same Chart value drives SVG output and click hit-testing.
package chart

import "github.com/dukerupert/chorelog/internal/stats"

const (
	// GapCeiling caps the spacing between stacked blocks, in px.
	GapCeiling = 3.0
	// GapFraction is the share of a block's unit height given to spacing.
	GapFraction = 0.25
	// IconThreshold is the block height above which the chore icon is drawn.
	IconThreshold = 24.0
	MinIconSize   = 14.0
	MaxIconSize   = 28.0
	// MinBlockHeight keeps very crowded stacks visible.
	MinBlockHeight = 1.0
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Contains reports whether p lies inside r. The right and bottom edges are exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

func (r Rect) Bottom() float64 { return r.Y + r.H }

// Block is the drawn segment for one log.
type Block struct {
	Bucket   int         `json:"bucket"`
	Index    int         `json:"index"`
	Rect     Rect        `json:"rect"`
	Entry    stats.Entry `json:"entry"`
	ShowIcon bool        `json:"show_icon"`
	IconSize float64     `json:"icon_size,omitempty"`
}

// Anchor is where a tooltip for the block points: the middle of its top edge.
func (b Block) Anchor() Point {
	return Point{X: b.Rect.X + b.Rect.W/2, Y: b.Rect.Y}
}

// Stack splits slot into one block per entry of bucket, top to bottom, with
// entry 0 topmost. Blocks never overlap and are at least MinBlockHeight
// tall; when the slot is shorter than one pixel per entry it is grown
// upward from its bottom edge so that both hold.
func Stack(bucket stats.DayBucket, slot Rect) []Block {
	n := len(bucket.Entries)
	if n == 0 {
		return nil
	}

	h := slot.H
	if h < float64(n)*MinBlockHeight {
		h = float64(n) * MinBlockHeight
	}
	top := slot.Bottom() - h

	unit := h / float64(n)
	gap := min(GapCeiling, unit*GapFraction)
	blockH := max(MinBlockHeight, unit-gap)

	blocks := make([]Block, n)
	for i, e := range bucket.Entries {
		b := Block{
			Index: i,
			Rect: Rect{
				X: slot.X,
				Y: top + float64(i)*unit,
				W: slot.W,
				H: blockH,
			},
			Entry: e,
		}
		if blockH > IconThreshold {
			b.ShowIcon = true
			b.IconSize = min(MaxIconSize, max(MinIconSize, blockH*0.6))
		}
		blocks[i] = b
	}
	return blocks
}
