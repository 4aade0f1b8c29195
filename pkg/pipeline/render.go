package pipeline

import (
	"fmt"

	"github.com/lanewise/snapgraph/pkg/layout"
	"github.com/lanewise/snapgraph/pkg/render"
	"github.com/lanewise/snapgraph/pkg/render/dot"
	"github.com/lanewise/snapgraph/pkg/render/svg"
)

// Render generates output artifacts in the requested formats.
func Render(res *layout.Result, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	if opts.IsGraphviz() {
		return renderGraphviz(res, opts)
	}
	return renderNative(res, opts)
}

// renderNative generates outputs with the built-in SVG sink. PNG and PDF
// are rasterized from the SVG document.
func renderNative(res *layout.Result, opts Options) (map[string][]byte, error) {
	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svg.Render(res, svgOpts...)
		case FormatPNG:
			data, err = render.ToPNG(svg.Render(res, svgOpts...), opts.PNGScale)
		case FormatPDF:
			data, err = render.ToPDF(svg.Render(res, svgOpts...))
		case FormatDOT:
			data = []byte(dot.ToDOT(res, dotOptions(opts)))
		case FormatJSON:
			data, err = layout.Marshal(res)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// renderGraphviz generates outputs through DOT and the Graphviz engine.
func renderGraphviz(res *layout.Result, opts Options) (map[string][]byte, error) {
	dotSrc := dot.ToDOT(res, dotOptions(opts))
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = dot.RenderSVG(dotSrc)
		case FormatPNG:
			data, err = dot.RenderPNG(dotSrc, opts.PNGScale)
		case FormatPDF:
			data, err = dot.RenderPDF(dotSrc)
		case FormatDOT:
			data = []byte(dotSrc)
		case FormatJSON:
			data, err = layout.Marshal(res)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSVGOptions builds SVG rendering options from pipeline options.
func buildSVGOptions(opts Options) []svg.Option {
	svgOpts := []svg.Option{svg.WithMetrics(opts.EffectiveMetrics())}

	if opts.Theme != nil {
		svgOpts = append(svgOpts, svg.WithTheme(opts.Theme.Theme))
	}
	if opts.Labels {
		svgOpts = append(svgOpts, svg.WithLabels())
	}
	if opts.Background {
		svgOpts = append(svgOpts, svg.WithBackground())
	}

	return svgOpts
}

// dotOptions builds DOT rendering options from pipeline options.
func dotOptions(opts Options) dot.Options {
	return dot.Options{
		Detailed: opts.Detailed,
		Theme:    opts.themeRef(),
	}
}
