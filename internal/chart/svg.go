package chart

import (
	"fmt"
	"html"
	"io"
	"strings"
)

const (
	tooltipW  = 132.0
	tooltipH  = 42.0
	axisColor = "#94a3b8"
	gridColor = "#e2e8f0"
)

// RenderSVG writes the chart as an inline SVG element. Blocks carry their
// log id in data-log-id; the selected block, if any, is outlined and
// followed by the tooltip group.
func RenderSVG(w io.Writer, c Chart, t Tooltip) error {
	var sb strings.Builder
	sel, selected := t.Selected()

	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" class="trend-chart" viewBox="0 0 %s %s" width="%s" height="%s">`,
		num(c.Width), num(c.Height), num(c.Width), num(c.Height))

	for _, tick := range c.Ticks {
		fmt.Fprintf(&sb, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-dasharray="3 3"/>`,
			num(c.Plot.X), num(tick.Y), num(c.Plot.X+c.Plot.W), num(tick.Y), gridColor)
		fmt.Fprintf(&sb, `<text x="%s" y="%s" fill="%s" font-size="10" text-anchor="end" dominant-baseline="middle">%d</text>`,
			num(c.Plot.X-6), num(tick.Y), axisColor, tick.Value)
	}

	for _, bar := range c.Bars {
		fmt.Fprintf(&sb, `<g class="bar" data-date="%s">`, html.EscapeString(bar.Bucket.DateKey))
		for _, b := range bar.Blocks {
			stroke := ""
			if selected && b.Entry.LogID == sel.Entry.LogID {
				stroke = ` stroke="#4c1d95" stroke-width="2"`
			}
			fmt.Fprintf(&sb, `<rect class="block" x="%s" y="%s" width="%s" height="%s" rx="3" fill="%s" data-log-id="%s"%s><title>%s</title></rect>`,
				num(b.Rect.X), num(b.Rect.Y), num(b.Rect.W), num(b.Rect.H),
				html.EscapeString(b.Entry.Color), html.EscapeString(b.Entry.LogID), stroke,
				html.EscapeString(b.Entry.ChoreName+" by "+b.Entry.MemberName))
			if b.ShowIcon {
				fmt.Fprintf(&sb, `<text x="%s" y="%s" font-size="%s" text-anchor="middle" dominant-baseline="central" pointer-events="none">%s</text>`,
					num(b.Rect.X+b.Rect.W/2), num(b.Rect.Y+b.Rect.H/2), num(b.IconSize),
					html.EscapeString(b.Entry.ChoreIcon.Glyph()))
			}
		}
		if bar.ShowLabel {
			fmt.Fprintf(&sb, `<text x="%s" y="%s" fill="%s" font-size="10" text-anchor="middle">%s</text>`,
				num(bar.LabelX), num(c.Plot.Bottom()+14), axisColor, html.EscapeString(bar.Bucket.Labels.Primary))
		}
		sb.WriteString(`</g>`)
	}

	if selected {
		writeTooltip(&sb, c, sel)
	}
	sb.WriteString(`</svg>`)

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeTooltip(sb *strings.Builder, c Chart, sel Selection) {
	x := min(max(sel.Anchor.X-tooltipW/2, 0), max(c.Width-tooltipW, 0))
	y := sel.Anchor.Y - tooltipH - 6
	if y < 0 {
		y = sel.Anchor.Y + 6
	}
	fmt.Fprintf(sb, `<g class="tooltip" data-log-id="%s">`, html.EscapeString(sel.Entry.LogID))
	fmt.Fprintf(sb, `<rect x="%s" y="%s" width="%s" height="%s" rx="8" fill="#ffffff" stroke="%s"/>`,
		num(x), num(y), num(tooltipW), num(tooltipH), html.EscapeString(sel.Entry.Color))
	fmt.Fprintf(sb, `<text x="%s" y="%s" font-size="12" font-weight="bold" fill="#4c1d95">%s</text>`,
		num(x+8), num(y+16), html.EscapeString(sel.Entry.ChoreIcon.Glyph()+" "+sel.Entry.ChoreName))
	fmt.Fprintf(sb, `<text x="%s" y="%s" font-size="11" fill="#64748b">%s</text>`,
		num(x+8), num(y+33), html.EscapeString(sel.Entry.MemberAvatar+" "+sel.Entry.MemberName))
	sb.WriteString(`</g>`)
}

// num formats a coordinate with at most two decimals.
func num(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
