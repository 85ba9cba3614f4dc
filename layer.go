package sprig

import (
	"slices"
	"strings"
)

// Layer name modifiers. "name:above" sorts just above name and
// "name:below" just below it.
const (
	layerAbove = "above"
	layerBelow = "below"
)

// LayerKey is a blit's global ordering key: one resolved layer index per
// ancestor view, root first, followed by the sprite's own index.
type LayerKey []float64

// Compare orders keys lexicographically. A key that is a prefix of another
// sorts first.
func (k LayerKey) Compare(o LayerKey) int {
	return slices.Compare(k, o)
}

// prepend returns a new key with idx in front of k.
func (k LayerKey) prepend(idx float64) LayerKey {
	out := make(LayerKey, len(k)+1)
	out[0] = idx
	copy(out[1:], k)
	return out
}

// resolveLayer maps a symbolic layer name to its position in layers.
// Unknown names resolve to len(layers) so they draw above every declared
// layer.
func resolveLayer(layers []string, name string) float64 {
	base, mod, _ := strings.Cut(name, ":")
	idx := slices.Index(layers, base)
	if idx < 0 {
		idx = len(layers)
	}
	v := float64(idx)
	switch mod {
	case layerAbove:
		v += 0.5
	case layerBelow:
		v -= 0.5
	}
	return v
}
