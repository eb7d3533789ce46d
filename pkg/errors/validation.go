package errors

import (
	"strings"
	"unicode"
)

// ValidateLayerName validates a single layer name.
//
// The validation rules:
//   - No empty names
//   - No whitespace or commas (layer lists are comma-separated on the CLI)
//   - No upper-case letters (header values are lower-cased before matching)
func ValidateLayerName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidConfig, "layer name cannot be empty")
	}
	for _, r := range name {
		if unicode.IsSpace(r) || r == ',' {
			return New(ErrCodeInvalidConfig, "layer name %q cannot contain whitespace or commas", name)
		}
		if unicode.IsUpper(r) {
			return New(ErrCodeInvalidConfig, "layer name %q must be lower-case", name)
		}
	}
	return nil
}

// ValidateLayers validates an ordered layer list and its fallback layer.
// Every name must pass [ValidateLayerName], names must be unique and the
// fallback must be one of them.
func ValidateLayers(layers []string, fallback string) error {
	if len(layers) == 0 {
		return New(ErrCodeInvalidConfig, "at least one layer is required")
	}
	seen := make(map[string]bool, len(layers))
	for _, l := range layers {
		if err := ValidateLayerName(l); err != nil {
			return err
		}
		if seen[l] {
			return New(ErrCodeInvalidConfig, "layer %q is listed more than once", l)
		}
		seen[l] = true
	}
	if !seen[fallback] {
		return New(ErrCodeInvalidConfig, "fallback layer %q is not in the layers list: [%s]",
			fallback, strings.Join(layers, ", "))
	}
	return nil
}

// ValidateCommentPrefix validates the string used to recognise header lines.
func ValidateCommentPrefix(prefix string) error {
	if strings.TrimSpace(prefix) == "" {
		return New(ErrCodeInvalidConfig, "comment prefix cannot be empty")
	}
	for _, r := range prefix {
		if r == '\n' || r == '\r' || r == '\x00' {
			return New(ErrCodeInvalidConfig, "comment prefix contains invalid characters")
		}
	}
	return nil
}
