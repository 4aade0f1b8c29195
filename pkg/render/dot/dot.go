// Package dot exports snapshot graphs in Graphviz DOT format.
//
// The DOT view shows ancestry structure only: one box per snapshot, one
// arrow per child-parent edge. Row geometry, synthetic rows, and alias
// notes do not appear; use the [svg] package for the sidebar-faithful
// rendering.
//
// [svg]: github.com/lanewise/snapgraph/pkg/render/svg
package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/lanewise/snapgraph/pkg/layout"
	"github.com/lanewise/snapgraph/pkg/render"
	"github.com/lanewise/snapgraph/pkg/render/styles"
	"github.com/lanewise/snapgraph/pkg/snapshot"
)

// Options configures DOT export.
type Options struct {
	// Detailed includes snapshot id, timeline, and timestamp in node labels.
	// When false, only the message (or short id) is shown.
	Detailed bool
	// Theme supplies lane colors for node borders. Nil uses the default theme.
	Theme *styles.Theme
}

// ToDOT converts a layout to Graphviz DOT format for structural inspection.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF],
// or [RenderPNG].
//
// Node borders take their lane's color, and the current snapshot is drawn
// with a heavier border. Edges point from child to parent, so newest
// snapshots rank at the top like the row order.
func ToDOT(res *layout.Result, opts Options) string {
	theme := styles.DefaultTheme()
	if opts.Theme != nil {
		theme = *opts.Theme
	}

	var buf bytes.Buffer
	buf.WriteString("digraph snapshots {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	known := make(map[string]bool, len(res.Rows))
	for _, row := range res.Rows {
		if row.Kind != layout.RowNode {
			continue
		}
		known[row.Node.ID] = true
		label := fmtLabel(*row.Node, opts.Detailed)
		attrs := fmtAttrs(*row.Node, label, theme.LaneColor(row.Lane))
		fmt.Fprintf(&buf, "  %q [%s];\n", row.Node.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, row := range res.Rows {
		if row.Kind != layout.RowNode {
			continue
		}
		for _, p := range row.Node.ParentIDs {
			if !known[p] {
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q;\n", row.Node.ID, p)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n snapshot.Node, detailed bool) string {
	label := n.Message
	if label == "" {
		label = shortID(n.ID)
	}
	if !detailed {
		return label
	}

	parts := []string{
		fmt.Sprintf("id: %s", shortID(n.ID)),
		fmt.Sprintf("timeline: %s", n.TimelineID),
		n.Time().UTC().Format(time.RFC3339),
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n snapshot.Node, label, color string) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("color=%q", color),
	}
	if n.IsCurrent {
		attrs = append(attrs, "penwidth=2.5")
	}
	return attrs
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with
// [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPNG].
//
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
