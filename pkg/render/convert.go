package render

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// converterHint tells the user how to get rsvg-convert when it is missing.
const converterHint = "requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin"

// ToPDF converts SVG bytes to PDF through rsvg-convert.
func ToPDF(svg []byte) ([]byte, error) {
	return rsvgConvert(svg, "-f", "pdf")
}

// ToPNG converts SVG bytes to PNG through rsvg-convert. Scale multiplies
// the raster resolution; 2.0 doubles it.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	return rsvgConvert(svg, "-f", "png", "-z", fmt.Sprintf("%.2f", scale))
}

// rsvgConvert pipes the SVG through the external rsvg-convert tool and
// returns its stdout.
func rsvgConvert(svg []byte, args ...string) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, fmt.Errorf("%s export %s", args[1], converterHint)
	}

	cmd := exec.Command("rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("rsvg-convert: %v: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("rsvg-convert: %w", err)
	}
	return out, nil
}
