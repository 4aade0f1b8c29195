package layout

// Geometry defaults, chosen so a node row reads as a full history entry and
// the synthetic rows read as compressed indicators between them.
const (
	DefaultNodeRowHeight    = 44.0
	DefaultCompactRowHeight = 26.0
	DefaultLaneSpacing      = 22.0
	DefaultPaddingX         = 16.0
	DefaultDotRadius        = 5.0
)

// Metrics controls the pixel geometry of the layout: row heights, the
// horizontal distance between lanes, and the dot radius connectors stop at.
// Zero or negative fields fall back to the package defaults.
type Metrics struct {
	NodeRowHeight    float64 `json:"node_row_height" toml:"node_row_height"`       // Full history rows
	CompactRowHeight float64 `json:"compact_row_height" toml:"compact_row_height"` // uncommitted/ghost/alias rows
	LaneSpacing      float64 `json:"lane_spacing" toml:"lane_spacing"`
	PaddingX         float64 `json:"padding_x" toml:"padding_x"`
	DotRadius        float64 `json:"dot_radius" toml:"dot_radius"`
}

// DefaultMetrics returns the package default geometry.
func DefaultMetrics() Metrics {
	return Metrics{
		NodeRowHeight:    DefaultNodeRowHeight,
		CompactRowHeight: DefaultCompactRowHeight,
		LaneSpacing:      DefaultLaneSpacing,
		PaddingX:         DefaultPaddingX,
		DotRadius:        DefaultDotRadius,
	}
}

// laneX maps a lane index to its x coordinate.
func (m Metrics) laneX(lane int) float64 {
	return m.PaddingX + float64(lane)*m.LaneSpacing
}

func (m Metrics) withDefaults() Metrics {
	d := DefaultMetrics()
	if m.NodeRowHeight > 0 {
		d.NodeRowHeight = m.NodeRowHeight
	}
	if m.CompactRowHeight > 0 {
		d.CompactRowHeight = m.CompactRowHeight
	}
	if m.LaneSpacing > 0 {
		d.LaneSpacing = m.LaneSpacing
	}
	if m.PaddingX > 0 {
		d.PaddingX = m.PaddingX
	}
	if m.DotRadius > 0 {
		d.DotRadius = m.DotRadius
	}
	return d
}

// Option configures a layout build.
type Option func(*config)

type config struct {
	metrics Metrics
}

func newConfig(opts ...Option) config {
	c := config{metrics: DefaultMetrics()}
	for _, opt := range opts {
		opt(&c)
	}
	c.metrics = c.metrics.withDefaults()
	return c
}

// WithMetrics overrides the default geometry. Zero fields keep their
// defaults, so callers can adjust a single value.
func WithMetrics(m Metrics) Option { return func(c *config) { c.metrics = m } }
