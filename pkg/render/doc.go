// Package render provides visualization sinks for snapshot graph layouts.
//
// # Overview
//
// This package contains the rendering pipeline that transforms computed
// layouts ([layout.Result]) into visual outputs. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Direct SVG rendering (in [svg] subpackage)
//   - Graphviz DOT export (in [dot] subpackage)
//   - Color themes and geometry (in [styles] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). These are used by both
// the SVG and DOT renderers.
//
//	out := svg.Render(result, svg.WithTheme(theme))
//	pdf, err := render.ToPDF(out)
//	png, err := render.ToPNG(out, 2.0)  // 2x scale
//
// # SVG Rendering
//
// The [svg] subpackage draws the layout exactly as a history sidebar would:
// one dot per row at its computed position, connectors as straight lines or
// cubic curves, dashed strokes for the uncommitted and ghost indicators.
//
// # DOT Export
//
// The [dot] subpackage exports the snapshot graph in Graphviz DOT format for
// structural inspection, and can rasterize it through the embedded Graphviz
// engine. The DOT view shows ancestry only; it ignores row geometry.
//
//	src := dot.ToDOT(result, dot.Options{})
//	out, err := dot.RenderSVG(src)
//
// [svg]: github.com/lanewise/snapgraph/pkg/render/svg
// [dot]: github.com/lanewise/snapgraph/pkg/render/dot
// [styles]: github.com/lanewise/snapgraph/pkg/render/styles
// [layout.Result]: github.com/lanewise/snapgraph/pkg/layout.Result
package render
