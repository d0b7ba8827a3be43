// Package pipeline orchestrates the full image-to-pixel-art conversion.
//
// One invocation is a synchronous pure function from (source pixels,
// settings) to (result pixels, optional generated palette). Stages run in a
// fixed order: color adjustment, preprocessing filter, resample, k-means
// recoloring, palette quantization/dithering. Optional stages are skipped by
// their settings; resampling always runs.
//
// # Error Handling
//
// The coordinator is the single failure boundary. Settings are validated up
// front, degenerate inputs (empty palette, k <= 0) bypass their stage rather
// than failing, and any internal panic is recovered and surfaced as an
// error. A failed invocation never returns a partially-mutated buffer.
package pipeline
