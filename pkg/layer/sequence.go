package layer

import (
	"slices"

	"github.com/matzehuels/topcat/pkg/errors"
	"github.com/matzehuels/topcat/pkg/filenode"
)

// DefaultNames is the layer list used when none is configured.
var DefaultNames = []string{filenode.LayerPrepend, filenode.LayerNormal, filenode.LayerAppend}

// DefaultFallback is the layer assigned to nodes that declare none.
const DefaultFallback = filenode.LayerNormal

// Sequence is an ordered list of layer names plus a fallback layer.
// Layers listed first are emitted first.
//
// The zero value is not usable - use NewSequence or Default.
type Sequence struct {
	names    []string
	fallback string
	index    map[string]int
}

// NewSequence validates names and fallback and returns the sequence.
// It returns an [errors.ErrCodeInvalidConfig] error when the list is empty,
// holds duplicates or malformed names, or does not contain fallback.
func NewSequence(names []string, fallback string) (Sequence, error) {
	if err := errors.ValidateLayers(names, fallback); err != nil {
		return Sequence{}, err
	}
	idx := make(map[string]int, len(names))
	for i, n := range names {
		idx[n] = i
	}
	return Sequence{names: slices.Clone(names), fallback: fallback, index: idx}, nil
}

// Default returns the prepend, normal, append sequence with normal as fallback.
func Default() Sequence {
	s, _ := NewSequence(DefaultNames, DefaultFallback)
	return s
}

// Names returns the layer names in emission order.
func (s Sequence) Names() []string { return slices.Clone(s.names) }

// Fallback returns the fallback layer.
func (s Sequence) Fallback() string { return s.fallback }

// Index returns the position of name in the sequence and whether it is present.
func (s Sequence) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Contains reports whether name is one of the configured layers.
func (s Sequence) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Len returns the number of layers.
func (s Sequence) Len() int { return len(s.names) }

// ParseOptions returns header parse options bound to this sequence.
func (s Sequence) ParseOptions(commentPrefix string) filenode.ParseOptions {
	return filenode.ParseOptions{
		CommentPrefix: commentPrefix,
		Layers:        s.Names(),
		FallbackLayer: s.fallback,
	}
}
