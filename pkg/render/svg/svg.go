// Package svg renders snapshot graph layouts as standalone SVG documents.
//
// The output mirrors the history sidebar: one dot per row at its computed
// position, connectors drawn underneath as lines or cubic curves, dashed
// strokes for the uncommitted and ghost indicators, and italic annotations
// for alias notes. Colors come from a [styles.Theme]; geometry must match
// the [layout.Metrics] the layout was built with.
package svg

import (
	"bytes"
	"fmt"
	"html"

	"github.com/lanewise/snapgraph/pkg/layout"
	"github.com/lanewise/snapgraph/pkg/render/styles"
)

// labelColumnWidth is the horizontal space reserved for message labels when
// enabled via [WithLabels].
const labelColumnWidth = 220.0

const dotInteractionCSS = `
    .dot { transition: transform 0.15s ease; transform-origin: center; transform-box: fill-box; }
    .dot:hover { transform: scale(1.3); }
    .alias-note { font-style: italic; }`

// Option configures the SVG renderer.
type Option func(*renderer)

type renderer struct {
	theme      styles.Theme
	metrics    layout.Metrics
	labels     bool
	background bool
}

// WithTheme sets the color theme. Defaults to [styles.DefaultTheme].
func WithTheme(t styles.Theme) Option { return func(r *renderer) { r.theme = t } }

// WithMetrics sets the geometry used for dot radii and label placement.
// It must match the metrics the layout was built with.
func WithMetrics(m layout.Metrics) Option { return func(r *renderer) { r.metrics = m } }

// WithLabels draws each snapshot's message in a column right of the graph.
func WithLabels() Option { return func(r *renderer) { r.labels = true } }

// WithBackground fills the frame with the theme's background color instead
// of leaving it transparent.
func WithBackground() Option { return func(r *renderer) { r.background = true } }

// Render draws the layout as a complete SVG document.
func Render(res *layout.Result, opts ...Option) []byte {
	r := newRenderer(opts...)

	graphW := graphWidth(res, r.metrics)
	width := graphW
	if r.labels {
		width += labelColumnWidth
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, res.TotalHeight, width, res.TotalHeight)

	if r.background {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.theme.Background)
	}
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", dotInteractionCSS)

	for _, c := range res.Connectors {
		renderConnector(&buf, c, r.theme)
	}
	for _, row := range res.Rows {
		renderRow(&buf, row, &r, graphW)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newRenderer(opts ...Option) renderer {
	r := renderer{theme: styles.DefaultTheme(), metrics: layout.DefaultMetrics()}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// graphWidth is the rightmost row position plus the right margin. The ghost
// row can sit one lane past the lane count, so this derives from the rows
// rather than from Result.LaneCount.
func graphWidth(res *layout.Result, m layout.Metrics) float64 {
	maxX := m.PaddingX
	for _, row := range res.Rows {
		if row.X > maxX {
			maxX = row.X
		}
	}
	return maxX + m.PaddingX
}

func renderConnector(buf *bytes.Buffer, c layout.Connector, t styles.Theme) {
	dash := ""
	if c.Dashed {
		dash = fmt.Sprintf(` stroke-dasharray="%s"`, t.DashPattern)
	}
	fmt.Fprintf(buf, `  <path d="%s" fill="none" stroke="%s" stroke-width="%.1f"%s/>`+"\n",
		c.Path(), t.LaneColor(c.Lane), t.StrokeWidth, dash)
}

func renderRow(buf *bytes.Buffer, row layout.Row, r *renderer, graphW float64) {
	color := r.theme.LaneColor(row.Lane)

	switch row.Kind {
	case layout.RowNode:
		fmt.Fprintf(buf, `  <circle class="dot" id="dot-%s" cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n",
			html.EscapeString(row.Node.ID), row.X, row.Y, r.metrics.DotRadius, color)
		if row.Node.IsCurrent {
			fmt.Fprintf(buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s" stroke-width="%.1f"/>`+"\n",
				row.X, row.Y, r.metrics.DotRadius+3, color, r.theme.StrokeWidth)
		}
		if r.labels {
			renderLabel(buf, row, r, graphW)
		}

	case layout.RowUncommitted:
		fmt.Fprintf(buf, `  <circle class="dot dot-uncommitted" cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s" stroke-width="%.1f" stroke-dasharray="%s"/>`+"\n",
			row.X, row.Y, r.metrics.DotRadius, color, r.theme.StrokeWidth, r.theme.DashPattern)

	case layout.RowGhost:
		fmt.Fprintf(buf, `  <circle class="dot dot-ghost" cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s" stroke-width="%.1f" stroke-dasharray="%s"/>`+"\n",
			row.X, row.Y, r.metrics.DotRadius, color, r.theme.StrokeWidth, r.theme.DashPattern)

	case layout.RowAliasNote:
		// The alias hook ends half a lane right of the note position; the
		// text continues from there.
		x := row.X + r.metrics.LaneSpacing/2 + 4
		fmt.Fprintf(buf, `  <text class="alias-note" x="%.1f" y="%.1f" font-family="sans-serif" font-size="10" fill="%s">%s</text>`+"\n",
			x, row.Y+3, r.theme.MutedText, html.EscapeString(row.NoteLabel))
	}
}

func renderLabel(buf *bytes.Buffer, row layout.Row, r *renderer, graphW float64) {
	text := row.Node.Message
	if text == "" {
		text = shortID(row.Node.ID)
	}
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="12" fill="%s">%s</text>`+"\n",
		graphW, row.Y+4, r.theme.Text, html.EscapeString(text))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
