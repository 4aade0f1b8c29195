package layout

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemoSize bounds the number of cached layouts. Reactive hosts
// rebuild on every history or dirty-state change, so a small window of
// recent inputs covers the common back-and-forth.
const DefaultMemoSize = 128

// Memo wraps [Build] with an LRU cache keyed on the full input, so rapid
// re-renders with unchanged inputs reuse the previous result.
//
// Cached results are shared between callers and must be treated as
// read-only. Memo is safe for concurrent use.
type Memo struct {
	cache *lru.Cache[string, *Result]
	opts  []Option
}

// NewMemo creates a memoizing layout builder holding up to size results.
// Sizes below 1 use [DefaultMemoSize]. The options apply to every build and
// are fixed for the life of the memo (they are part of what makes two
// results interchangeable, so they cannot vary per call).
func NewMemo(size int, opts ...Option) (*Memo, error) {
	if size < 1 {
		size = DefaultMemoSize
	}
	cache, err := lru.New[string, *Result](size)
	if err != nil {
		return nil, fmt.Errorf("create layout cache: %w", err)
	}
	return &Memo{cache: cache, opts: opts}, nil
}

// Build returns the cached result for in, computing and storing it on miss.
func (m *Memo) Build(in Input) (*Result, error) {
	key, err := in.cacheKey()
	if err != nil {
		return Build(in, m.opts...)
	}
	if res, ok := m.cache.Get(key); ok {
		return res, nil
	}
	res, err := Build(in, m.opts...)
	if err != nil {
		return nil, err
	}
	m.cache.Add(key, res)
	return res, nil
}

// Len returns the number of cached results.
func (m *Memo) Len() int { return m.cache.Len() }

// Purge drops every cached result.
func (m *Memo) Purge() { m.cache.Purge() }

// cacheKey derives a stable key from the canonical JSON encoding of the
// input. Map keys marshal sorted, so equal inputs always hash equal.
func (in Input) cacheKey() (string, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
