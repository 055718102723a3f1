package chart

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/dukerupert/chorelog/internal/catalog"
	"github.com/dukerupert/chorelog/internal/stats"
)

var (
	legendStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a78bfa"))
)

// Terminal draws the buckets as stacked bars for a terminal, one segment
// per category present that day, followed by a color legend.
func Terminal(buckets []stats.DayBucket, width, height int) string {
	if stats.Total(buckets) == 0 {
		return legendStyle.Render("no chores logged yet")
	}

	data := make([]barchart.BarData, 0, len(buckets))
	for _, b := range buckets {
		counts := make(map[string]int)
		for _, e := range b.Entries {
			counts[e.Color]++
		}
		bar := barchart.BarData{Label: b.Labels.Primary}
		for _, cat := range catalog.Categories {
			color := catalog.Color(cat)
			n, ok := counts[color]
			if !ok {
				continue
			}
			delete(counts, color)
			bar.Values = append(bar.Values, barchart.BarValue{
				Name:  string(cat),
				Value: float64(n),
				Style: lipgloss.NewStyle().Foreground(lipgloss.Color(color)),
			})
		}
		data = append(data, bar)
	}

	bc := barchart.New(width, height)
	bc.PushAll(data)
	bc.Draw()

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("Activity (last %d days): %d chores", len(buckets), stats.Total(buckets))))
	sb.WriteString("\n")
	sb.WriteString(bc.View())
	sb.WriteString("\n")

	var legend []string
	for _, cat := range catalog.Categories {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(catalog.Color(cat))).Render("■")
		legend = append(legend, swatch+" "+legendStyle.Render(catalog.Title(cat)))
	}
	sb.WriteString(strings.Join(legend, "  "))
	return sb.String()
}
