// Package filter implements the neighborhood operators of the pixel
// engine on decoded float planes:
//   - Gaussian, box, sharpen, edge and emboss kernel generation
//   - separable and 2D convolution with clamped edges
//   - rank (median) filtering
//   - 6x6 color matrices
//   - morphology kernels (built-in shapes and literal matrices) and the
//     erode, dilate, hit-and-miss and distance primitives built on them
//
// Operators take a channel Mask and most take a worker count. Row bands are
// processed in parallel; results are deterministic regardless of workers.
package filter
