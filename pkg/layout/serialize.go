package layout

import (
	"encoding/json"
	"fmt"
	"os"
)

// Marshal serializes a Result to pretty-printed JSON bytes.
func Marshal(r *Result) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Unmarshal deserializes JSON bytes into a Result.
// A result with no rows is valid (empty history), but the lane count must
// still be at least 1.
func Unmarshal(data []byte) (*Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal layout: %w", err)
	}
	if r.LaneCount < 1 {
		return nil, fmt.Errorf("layout must have at least one lane")
	}
	return &r, nil
}

// WriteFile writes a Result to a JSON file.
func WriteFile(r *Result, path string) error {
	data, err := Marshal(r)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a Result from a JSON file.
func ReadFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
