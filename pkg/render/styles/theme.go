// Package styles defines color themes for snapshot graph rendering.
//
// A Theme pairs a lane color palette with the stroke and geometry settings
// shared by the SVG and DOT sinks. Themes load from TOML files, so users can
// restyle the graph without rebuilding:
//
//	[metrics]
//	lane_spacing = 28.0
//
//	[theme]
//	palette = ["#4c8df5", "#9a6ef5"]
//
// Missing keys keep their defaults, so a theme file only needs to list what
// it changes.
package styles

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/lanewise/snapgraph/pkg/errors"
	"github.com/lanewise/snapgraph/pkg/layout"
)

// DefaultPalette is the lane color cycle used when a theme supplies none.
// Lane 0 (the trunk) takes the first entry; colors repeat once the palette
// is exhausted.
var DefaultPalette = []string{
	"#4c8df5",
	"#9a6ef5",
	"#2bb673",
	"#e5a50a",
	"#e0547e",
	"#33c3bd",
}

// Theme controls the visual appearance of a rendered graph.
type Theme struct {
	Name        string   `toml:"name" json:"name"`
	Background  string   `toml:"background" json:"background"`
	Text        string   `toml:"text" json:"text"`
	MutedText   string   `toml:"muted_text" json:"muted_text"`
	Palette     []string `toml:"palette" json:"palette"`
	StrokeWidth float64  `toml:"stroke_width" json:"stroke_width"`
	DashPattern string   `toml:"dash_pattern" json:"dash_pattern"`
}

// File is the on-disk theme document. The metrics table feeds the layout
// engine; the theme table feeds the renderers.
type File struct {
	Metrics layout.Metrics `toml:"metrics" json:"metrics"`
	Theme   Theme          `toml:"theme" json:"theme"`
}

// DefaultTheme returns the built-in dark-on-light theme.
func DefaultTheme() Theme {
	return Theme{
		Name:        "default",
		Background:  "#ffffff",
		Text:        "#1a1a2e",
		MutedText:   "#8a8a9e",
		Palette:     DefaultPalette,
		StrokeWidth: 1.5,
		DashPattern: "4,3",
	}
}

// DefaultFile returns the default theme document: default theme, default
// layout metrics.
func DefaultFile() File {
	return File{
		Metrics: layout.DefaultMetrics(),
		Theme:   DefaultTheme(),
	}
}

// LaneColor returns the color for a lane index, cycling through the palette.
// Lane indices below zero clamp to the trunk color.
func (t Theme) LaneColor(lane int) string {
	palette := t.Palette
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	if lane < 0 {
		lane = 0
	}
	return palette[lane%len(palette)]
}

// Validate checks that the theme is renderable.
func (t Theme) Validate() error {
	if len(t.Palette) == 0 {
		return errors.New(errors.ErrCodeInvalidTheme, "theme %q: palette is empty", t.Name)
	}
	for i, c := range t.Palette {
		if c == "" {
			return errors.New(errors.ErrCodeInvalidTheme, "theme %q: palette entry %d is empty", t.Name, i)
		}
	}
	if t.StrokeWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidTheme, "theme %q: stroke width must be positive", t.Name)
	}
	return nil
}

// Load reads a theme document from a TOML file. Keys absent from the file
// keep their default values.
func Load(path string) (File, error) {
	f := DefaultFile()

	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "read theme %s", path)
	}
	if err := toml.Unmarshal(data, &f); err != nil {
		return File{}, errors.Wrap(errors.ErrCodeInvalidTheme, err, "parse theme %s", path)
	}
	if err := f.Theme.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}
