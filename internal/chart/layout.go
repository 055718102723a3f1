package chart

import (
	"math"

	"github.com/dukerupert/chorelog/internal/stats"
)

// maxTicks bounds the number of y-axis intervals.
const maxTicks = 5

type Options struct {
	Width  float64
	Height float64

	PaddingTop    float64
	PaddingRight  float64
	PaddingBottom float64
	PaddingLeft   float64

	// BarRatio is the share of each bucket's slot width the bar occupies.
	BarRatio float64
	// LabelEvery labels every nth bucket on the x axis. Zero picks 1 for a
	// week and 2 for longer windows.
	LabelEvery int
}

func DefaultOptions() Options {
	return Options{
		Width:         360,
		Height:        256,
		PaddingTop:    10,
		PaddingRight:  12,
		PaddingBottom: 36,
		PaddingLeft:   28,
		BarRatio:      0.6,
	}
}

// WithSize returns o resized to w x h. Non-positive values keep the current size.
func (o Options) WithSize(w, h float64) Options {
	if w > 0 {
		o.Width = w
	}
	if h > 0 {
		o.Height = h
	}
	return o
}

type Bar struct {
	Bucket    stats.DayBucket `json:"bucket"`
	Slot      Rect            `json:"slot"`
	Blocks    []Block         `json:"blocks"`
	LabelX    float64         `json:"label_x"`
	ShowLabel bool            `json:"show_label"`
}

type Tick struct {
	Value int     `json:"value"`
	Y     float64 `json:"y"`
}

// Chart is the laid out trend chart in pixel coordinates with the origin at the top left.
type Chart struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Plot   Rect    `json:"plot"`
	YMax   int     `json:"y_max"`
	Ticks  []Tick  `json:"ticks"`
	Bars   []Bar   `json:"bars"`
}

// Layout positions one bar per bucket. Bar heights are proportional to
// LogCount against an integer y axis whose top is the smallest nice
// multiple at or above the largest count.
func Layout(buckets []stats.DayBucket, opts Options) Chart {
	if opts.BarRatio <= 0 || opts.BarRatio > 1 {
		opts.BarRatio = DefaultOptions().BarRatio
	}
	labelEvery := opts.LabelEvery
	if labelEvery <= 0 {
		labelEvery = 1
		if len(buckets) > stats.WindowWeek {
			labelEvery = 2
		}
	}

	plot := Rect{
		X: opts.PaddingLeft,
		Y: opts.PaddingTop,
		W: max(0, opts.Width-opts.PaddingLeft-opts.PaddingRight),
		H: max(0, opts.Height-opts.PaddingTop-opts.PaddingBottom),
	}

	step := tickStep(stats.MaxCount(buckets))
	yMax := step * int(math.Ceil(float64(max(stats.MaxCount(buckets), 1))/float64(step)))

	c := Chart{
		Width:  opts.Width,
		Height: opts.Height,
		Plot:   plot,
		YMax:   yMax,
	}
	for v := 0; v <= yMax; v += step {
		c.Ticks = append(c.Ticks, Tick{Value: v, Y: plot.Bottom() - plot.H*float64(v)/float64(yMax)})
	}

	if len(buckets) == 0 {
		return c
	}
	slotW := plot.W / float64(len(buckets))
	barW := slotW * opts.BarRatio
	for i, b := range buckets {
		barH := plot.H * float64(b.LogCount) / float64(yMax)
		slot := Rect{
			X: plot.X + float64(i)*slotW + (slotW-barW)/2,
			Y: plot.Bottom() - barH,
			W: barW,
			H: barH,
		}
		blocks := Stack(b, slot)
		for j := range blocks {
			blocks[j].Bucket = i
		}
		c.Bars = append(c.Bars, Bar{
			Bucket:    b,
			Slot:      slot,
			Blocks:    blocks,
			LabelX:    plot.X + float64(i)*slotW + slotW/2,
			ShowLabel: i%labelEvery == 0,
		})
	}
	return c
}

// tickStep returns the smallest of 1, 2, 5, 10, 20, 50... that splits
// maxCount into at most maxTicks intervals.
func tickStep(maxCount int) int {
	for base := 1; ; base *= 10 {
		for _, m := range []int{1, 2, 5} {
			step := base * m
			if maxCount <= step*maxTicks {
				return step
			}
		}
	}
}

// HitTest returns the block under p. Points in the gaps between blocks, on
// empty bars or outside the plot miss.
func (c Chart) HitTest(p Point) (Block, bool) {
	if !c.Bounds().Contains(p) {
		return Block{}, false
	}
	for _, bar := range c.Bars {
		for _, b := range bar.Blocks {
			if b.Rect.Contains(p) {
				return b, true
			}
		}
	}
	return Block{}, false
}

// Bounds is the whole chart area.
func (c Chart) Bounds() Rect {
	return Rect{W: c.Width, H: c.Height}
}
