// Package pipeline provides the core history visualization pipeline.
//
// This package implements the complete feed → layout → render pipeline that
// can be used by CLI and server components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Feed: Extract the snapshot feed from a workspace file
//  2. Layout: Compute lanes, rows, and connector geometry for the feed
//  3. Render: Generate output in various formats (SVG, PNG, PDF, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Workspace: "~/.config/snapgraph/workspace.json",
//	    Formats:   []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Feed only
//	in, err := runner.LoadFeed(ctx, opts)
//
//	// Layout with an existing feed
//	res, err := runner.ComputeLayout(ctx, in, opts)
//
//	// Render with an existing layout
//	artifacts, err := runner.Render(ctx, res, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lanewise/snapgraph/pkg/cache"
	"github.com/lanewise/snapgraph/pkg/layout"
	"github.com/lanewise/snapgraph/pkg/render/styles"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultPNGScale is the rasterization scale for PNG output. 2x keeps
	// dots and labels crisp on high-density displays.
	DefaultPNGScale = 2.0
)

// Engine constants for rendering engines.
const (
	// EngineNative renders with the built-in SVG sink.
	EngineNative = "native"
	// EngineGraphviz renders through DOT and the Graphviz layout engine.
	EngineGraphviz = "graphviz"
)

// DefaultEngine is the default rendering engine.
const DefaultEngine = EngineNative

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// ValidEngines is the set of supported rendering engines.
var ValidEngines = map[string]bool{
	EngineNative:   true,
	EngineGraphviz: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the visualization pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Feed options
	Workspace string `json:"workspace,omitempty"`

	// Layout options. Zero metric fields fall back to the theme file's
	// metrics, then to the package defaults.
	Metrics layout.Metrics `json:"metrics,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Engine     string   `json:"engine,omitempty"`
	ThemePath  string   `json:"theme_path,omitempty"`
	Labels     bool     `json:"labels,omitempty"`     // Render the message column next to the graph
	Background bool     `json:"background,omitempty"` // Fill the frame with the theme background
	Detailed   bool     `json:"detailed,omitempty"`   // Verbose node labels in DOT output
	PNGScale   float64  `json:"png_scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger  `json:"-"`
	Theme  *styles.File `json:"-"` // Resolved theme document; loaded from ThemePath when nil

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Feed is the extracted snapshot feed.
	Feed layout.Input

	// FeedHash is the content hash of the feed.
	FeedHash string

	// Layout contains the computed rows, lanes, and connectors.
	Layout *layout.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	RowCount   int
	LaneCount  int
	FeedTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each cached pipeline stage. Feed
// extraction is never cached: computing its key requires reading the
// workspace file, which is the whole cost of the stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, pdf, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEngine checks that a rendering engine is valid.
func ValidateEngine(engine string) error {
	if !ValidEngines[engine] {
		return fmt.Errorf("invalid engine: %q (must be one of: native, graphviz)", engine)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForFeed(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	o.validated = true
	return nil
}

// ValidateForFeed checks required fields for feed extraction.
func (o *Options) ValidateForFeed() error {
	if o.Workspace == "" {
		return fmt.Errorf("workspace is required")
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return o.resolveTheme()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return o.resolveTheme()
}

// IsNative returns true if rendering uses the built-in SVG sink.
func (o *Options) IsNative() bool {
	return o.Engine == "" || o.Engine == EngineNative
}

// IsGraphviz returns true if rendering goes through Graphviz.
func (o *Options) IsGraphviz() bool {
	return o.Engine == EngineGraphviz
}

// resolveTheme loads the theme document if it hasn't been resolved yet.
func (o *Options) resolveTheme() error {
	if o.Theme != nil {
		return nil
	}
	if o.ThemePath != "" {
		f, err := styles.Load(o.ThemePath)
		if err != nil {
			return err
		}
		o.Theme = &f
		return nil
	}
	f := styles.DefaultFile()
	o.Theme = &f
	return nil
}

// themeRef returns the resolved theme, or nil before resolution.
func (o *Options) themeRef() *styles.Theme {
	if o.Theme == nil {
		return nil
	}
	return &o.Theme.Theme
}

// EffectiveMetrics resolves the layout geometry: package defaults, overlaid
// by the theme file's metrics, overlaid by explicitly set option fields.
func (o *Options) EffectiveMetrics() layout.Metrics {
	m := layout.DefaultMetrics()
	if o.Theme != nil {
		m = overlayMetrics(m, o.Theme.Metrics)
	}
	return overlayMetrics(m, o.Metrics)
}

// overlayMetrics copies the positive fields of src onto dst.
func overlayMetrics(dst, src layout.Metrics) layout.Metrics {
	if src.NodeRowHeight > 0 {
		dst.NodeRowHeight = src.NodeRowHeight
	}
	if src.CompactRowHeight > 0 {
		dst.CompactRowHeight = src.CompactRowHeight
	}
	if src.LaneSpacing > 0 {
		dst.LaneSpacing = src.LaneSpacing
	}
	if src.PaddingX > 0 {
		dst.PaddingX = src.PaddingX
	}
	if src.DotRadius > 0 {
		dst.DotRadius = src.DotRadius
	}
	return dst
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	m := o.EffectiveMetrics()
	return cache.LayoutKeyOpts{
		NodeRowHeight:    m.NodeRowHeight,
		CompactRowHeight: m.CompactRowHeight,
		LaneSpacing:      m.LaneSpacing,
		PaddingX:         m.PaddingX,
		DotRadius:        m.DotRadius,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	theme := ""
	if o.Theme != nil {
		theme = o.Theme.Theme.Name
	}
	return cache.ArtifactKeyOpts{
		Format:     format,
		Engine:     o.Engine,
		Theme:      theme,
		Labels:     o.Labels,
		Background: o.Background,
		Detailed:   o.Detailed,
		Scale:      o.PNGScale,
	}
}
