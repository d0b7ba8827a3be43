// Package pixbuf defines the pixel buffer type shared by every stage of the
// pixel-art pipeline.
//
// A Buffer is a width, a height, and a row-major RGBA byte sequence (4 bytes
// per pixel, origin top-left). The layout matches image.NRGBA: color channels
// are not premultiplied by alpha, so quantization and dithering can operate
// on raw channel values.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner,
// X increasing rightward and Y increasing downward.
//
// # Thread Safety
//
// Buffers are plain data with no internal synchronization. Each pipeline
// invocation owns its buffers exclusively; nothing here is shared across
// concurrent invocations.
package pixbuf
