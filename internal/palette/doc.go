// Package palette defines the fixed color palette type, nearest-color
// matching against a palette, and helpers for building palettes from images.
//
// A Palette is an ordered sequence of opaque RGB colors. Order matters only
// for output stability, never for matching. Palettes must be non-empty
// whenever quantization is requested; duplicates are permitted but wasteful.
//
// The Matcher pre-converts the palette once into the space the active metric
// needs, caches match results by a packed 24-bit pixel key, and supports a
// preserve-detail threshold that lets near-matching pixels keep their
// original color instead of snapping to the palette.
package palette
