// Package cache provides pluggable caching for pipeline stages.
//
// Three backends are available: FileCache for CLI usage, RedisCache for
// server deployments, and NullCache to disable caching entirely. Keys are
// generated by a Keyer so each pipeline stage (feed extraction, layout,
// artifact rendering) can be cached and invalidated independently.
package cache

import (
	"context"
	"time"
)

// Default TTLs for cached pipeline stages.
const (
	// TTLFeed bounds reuse of extracted snapshot feeds. Feeds are keyed by
	// workspace revision, so the TTL mostly bounds storage growth.
	TTLFeed = time.Hour

	// TTLLayout bounds cached layout results. A layout is deterministic for
	// a given feed hash and metrics.
	TTLLayout = 24 * time.Hour

	// TTLArtifact bounds rendered artifacts (SVG, PNG, PDF, DOT).
	TTLArtifact = 24 * time.Hour
)

// Cache is the storage interface implemented by all backends.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the backend.
	Close() error
}

// FeedKeyOpts identifies the workspace state a feed was extracted from.
type FeedKeyOpts struct {
	// UpdatedAt is the workspace modification time in Unix nanoseconds.
	// Any commit, restore, or activation bumps it and invalidates the key.
	UpdatedAt int64 `json:"updated_at"`
}

// LayoutKeyOpts captures the metrics that affect a computed layout.
type LayoutKeyOpts struct {
	NodeRowHeight    float64 `json:"node_row_height"`
	CompactRowHeight float64 `json:"compact_row_height"`
	LaneSpacing      float64 `json:"lane_spacing"`
	PaddingX         float64 `json:"padding_x"`
	DotRadius        float64 `json:"dot_radius"`
}

// ArtifactKeyOpts captures the rendering options that affect an artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Engine     string  `json:"engine"`
	Theme      string  `json:"theme"`
	Labels     bool    `json:"labels"`
	Background bool    `json:"background"`
	Detailed   bool    `json:"detailed"`
	Scale      float64 `json:"scale"`
}

// Keyer generates cache keys for pipeline stages.
//
// Keys chain content hashes: the layout key includes the feed hash, the
// artifact key includes the layout hash. A change anywhere upstream
// invalidates everything downstream.
type Keyer interface {
	// FeedKey generates a key for an extracted snapshot feed.
	FeedKey(workspace string, opts FeedKeyOpts) string

	// LayoutKey generates a key for a computed layout.
	LayoutKey(feedHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer generates unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// FeedKey generates a key for an extracted snapshot feed.
func (k *DefaultKeyer) FeedKey(workspace string, opts FeedKeyOpts) string {
	return hashKey("feed", workspace, opts)
}

// LayoutKey generates a key for a computed layout.
func (k *DefaultKeyer) LayoutKey(feedHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", feedHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
