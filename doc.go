// Package pixel is an in-memory image processing engine.
//
// # Overview
//
// An [Image] is a 2D grid of multi-channel samples stored at 8, 16 or 32
// (float) bits per channel. Operators read and write samples as float64
// values normalized to [0,1], so every filter behaves the same regardless
// of storage depth. A [Sequence] holds frames with delay, page geometry
// and disposal, and implements the cross-frame algorithms (coalesce,
// layer merging, optimization).
//
// # Quick Start
//
//	import "github.com/gogpu/pixel"
//
//	img, err := pixel.New(640, 480, pixel.WithBackground(pixel.White))
//	if err != nil {
//	    return err
//	}
//	if err := img.GaussianBlur(0, 2, pixel.DefaultChannels); err != nil {
//	    return err
//	}
//	out := img.StdImage() // hand off to image/png, image/gif, ...
//
// # Ownership
//
// Operators mutate the receiver in place unless documented otherwise.
// [Image.Fx], [Image.Compare] and [Image.Clone] return new images.
// Validation always happens before the first sample is written, so an
// operator that fails with [ErrArgumentKind], [ErrArgumentValue] or
// [ErrRange] leaves the image untouched.
//
// Images and sequences are not safe for concurrent mutation. Row bands of
// a single operator may run in parallel internally; see [Config.Workers].
//
// # Channels
//
// Channel-selective operators take a [Channels] set. [DefaultChannels]
// selects the color channels of the image's [ColorModel] and leaves
// alpha alone. Selecting a channel the model does not have fails with
// [ErrArgumentValue].
//
// # Collaborators
//
// Container decoding and encoding stay outside the engine: use
// [FromStdImage], [FromGIF] and [Image.StdImage] to move pixels between
// pixel and the standard image packages. Captions are rasterized by a
// [Typesetter]; content-aware resizing by a [LiquidRescaler]. Both are
// configured on [Config] and may be absent, in which case the operators
// fail with [ErrCapabilityUnavailable].
//
// # Architecture
//
// The module is organized into:
//   - Public API: Image, Sequence, Color, channels, operators (this package)
//   - geometry: gravity, crop rectangles, geometry strings
//   - text: caption shaping and rasterization
//   - Internal: image (sample store), filter, blend, color, fx, seam, parallel
//
// # Logging
//
// pixel is silent by default. Call [SetLogger] to receive diagnostics.
package pixel
