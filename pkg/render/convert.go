package render

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/matzehuels/topcat/pkg/errors"
)

// Format names a raster or document format rsvg-convert can produce.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
)

// rsvgBinary is the converter looked up on PATH.
var rsvgBinary = "rsvg-convert"

// ToPDF converts SVG bytes to PDF.
func ToPDF(svg []byte) ([]byte, error) {
	return Convert(svg, FormatPDF, 1)
}

// ToPNG converts SVG bytes to PNG. A scale of 2.0 doubles the resolution;
// a scale of zero or less is treated as 1.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	return Convert(svg, FormatPNG, scale)
}

// Convert pipes svg through rsvg-convert. Scale only affects raster formats.
// A missing converter or a failed conversion is an [errors.ErrCodeIO] error.
func Convert(svg []byte, format Format, scale float64) ([]byte, error) {
	if !Available() {
		return nil, errors.New(errors.ErrCodeIO,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := []string{"-f", string(format)}
	if format == FormatPNG {
		if scale <= 0 {
			scale = 1
		}
		args = append(args, "-z", fmt.Sprintf("%.2f", scale))
	}

	cmd := exec.Command(rsvgBinary, args...)
	cmd.Stdin = bytes.NewReader(svg)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "%s: %s", rsvgBinary, strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}

// Available reports whether rsvg-convert is on PATH.
func Available() bool {
	_, err := exec.LookPath(rsvgBinary)
	return err == nil
}
