package chart

import (
	"fmt"
	"io"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/dukerupert/chorelog/internal/stats"
)

// DonutPalette colors the top chore slices in rank order.
var DonutPalette = []string{"#f472b6", "#60a5fa", "#fcd34d", "#a78bfa", "#34d399"}

const donutSize = 240

// DonutColor returns the slice color for rank i.
func DonutColor(i int) string {
	return DonutPalette[i%len(DonutPalette)]
}

// TopChoresSVG renders the top chore counts as a donut chart. With no
// counts it writes an empty placeholder ring.
func TopChoresSVG(w io.Writer, top []stats.TopChore) error {
	var values []gochart.Value
	for i, tc := range top {
		if tc.Count <= 0 {
			continue
		}
		values = append(values, gochart.Value{
			Label: tc.Name,
			Value: float64(tc.Count),
			Style: gochart.Style{
				FillColor:   drawing.ColorFromHex(strings.TrimPrefix(DonutColor(i), "#")),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 2,
				FontColor:   drawing.ColorFromHex("4c1d95"),
			},
		})
	}

	if len(values) == 0 {
		_, err := fmt.Fprintf(w,
			`<svg xmlns="http://www.w3.org/2000/svg" class="donut-chart" viewBox="0 0 %d %d" width="%d" height="%d"><circle cx="%d" cy="%d" r="%d" fill="none" stroke="#ede9fe" stroke-width="24"/></svg>`,
			donutSize, donutSize, donutSize, donutSize, donutSize/2, donutSize/2, donutSize/2-20)
		return err
	}

	donut := gochart.DonutChart{
		Width:  donutSize,
		Height: donutSize,
		Values: values,
	}
	if err := donut.Render(gochart.SVG, w); err != nil {
		return fmt.Errorf("render donut: %w", err)
	}
	return nil
}
