// Package image holds the byte-backed sample store behind pixel images.
//
// A Buf keeps samples interleaved per pixel at one of three depths. All
// arithmetic happens on float64 values normalized to [0,1]; the Buf converts
// whole rows at a time through a codec picked once per depth, so inner loops
// never switch on the storage format per sample.
package image

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// Common errors for buffer operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrInvalidDepth is returned when the depth is not recognized.
	ErrInvalidDepth = errors.New("image: invalid depth")

	// ErrInvalidChannels is returned for a channel count outside 1..MaxChannels.
	ErrInvalidChannels = errors.New("image: invalid channel count")

	// ErrInvalidStride is returned when stride is less than the packed row size.
	ErrInvalidStride = errors.New("image: stride too small for width")

	// ErrDataTooSmall is returned when provided data is smaller than required.
	ErrDataTooSmall = errors.New("image: data buffer too small")

	// ErrOutOfBounds is returned when coordinates are outside the buffer.
	ErrOutOfBounds = errors.New("image: coordinates out of bounds")

	// ErrGeometryMismatch is returned when two buffers must share a shape and do not.
	ErrGeometryMismatch = errors.New("image: geometry mismatch")
)

// MaxChannels is the largest supported number of channels per pixel.
const MaxChannels = 5

// codec converts one packed row between bytes and normalized floats.
type codec struct {
	decode func(src []byte, dst []float64)
	encode func(src []float64, dst []byte)
}

var codecs = [depthCount]codec{
	Depth8:   {decode: decode8, encode: encode8},
	Depth16:  {decode: decode16, encode: encode16},
	Depth32F: {decode: decode32F, encode: encode32F},
}

// Buf is an interleaved sample store with optional stride.
//
// Views created by View share the parent's data; writes through a view are
// visible in the parent. Buf is not safe for concurrent writes.
type Buf struct {
	data     []byte
	width    int
	height   int
	channels int
	stride   int
	depth    Depth
	codec    codec
}

// NewBuf allocates a zeroed buffer.
func NewBuf(width, height, channels int, depth Depth) (*Buf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !depth.IsValid() {
		return nil, ErrInvalidDepth
	}
	if channels <= 0 || channels > MaxChannels {
		return nil, ErrInvalidChannels
	}
	stride := depth.RowBytes(width, channels)
	return &Buf{
		data:     make([]byte, stride*height),
		width:    width,
		height:   height,
		channels: channels,
		stride:   stride,
		depth:    depth,
		codec:    codecs[depth],
	}, nil
}

// MustNewBuf is like NewBuf but panics on invalid parameters. Callers pass
// a shape taken from an existing buffer or plane.
func MustNewBuf(width, height, channels int, depth Depth) *Buf {
	b, err := NewBuf(width, height, channels, depth)
	if err != nil {
		panic(err)
	}
	return b
}

// FromRaw wraps existing data without copying.
// A stride of 0 means tightly packed rows.
func FromRaw(data []byte, width, height, channels int, depth Depth, stride int) (*Buf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !depth.IsValid() {
		return nil, ErrInvalidDepth
	}
	if channels <= 0 || channels > MaxChannels {
		return nil, ErrInvalidChannels
	}
	rowBytes := depth.RowBytes(width, channels)
	if stride == 0 {
		stride = rowBytes
	}
	if stride < rowBytes {
		return nil, ErrInvalidStride
	}
	if len(data) < (height-1)*stride+rowBytes {
		return nil, ErrDataTooSmall
	}
	return &Buf{
		data:     data,
		width:    width,
		height:   height,
		channels: channels,
		stride:   stride,
		depth:    depth,
		codec:    codecs[depth],
	}, nil
}

// Width returns the buffer width in pixels.
func (b *Buf) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *Buf) Height() int { return b.height }

// Channels returns the number of samples per pixel.
func (b *Buf) Channels() int { return b.channels }

// Depth returns the sample depth.
func (b *Buf) Depth() Depth { return b.depth }

// Stride returns the byte distance between row starts.
func (b *Buf) Stride() int { return b.stride }

// RowBytes returns the packed byte size of one row.
func (b *Buf) RowBytes() int { return b.depth.RowBytes(b.width, b.channels) }

// Data returns the underlying bytes. Views return their parent's bytes
// starting at the view origin.
func (b *Buf) Data() []byte { return b.data }

// InBounds reports whether (x, y) addresses a pixel.
func (b *Buf) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.width && y < b.height
}

// ReadRow decodes row y into dst, which must hold Width*Channels values.
func (b *Buf) ReadRow(y int, dst []float64) {
	off := y * b.stride
	b.codec.decode(b.data[off:off+b.RowBytes()], dst[:b.width*b.channels])
}

// WriteRow encodes src into row y, clamping to [0,1].
func (b *Buf) WriteRow(y int, src []float64) {
	off := y * b.stride
	b.codec.encode(src[:b.width*b.channels], b.data[off:off+b.RowBytes()])
}

// ReadPixel decodes one pixel into dst.
func (b *Buf) ReadPixel(x, y int, dst []float64) error {
	if !b.InBounds(x, y) {
		return ErrOutOfBounds
	}
	bps := b.depth.BytesPerSample()
	off := y*b.stride + x*b.channels*bps
	b.codec.decode(b.data[off:off+b.channels*bps], dst[:b.channels])
	return nil
}

// WritePixel encodes one pixel from src.
func (b *Buf) WritePixel(x, y int, src []float64) error {
	if !b.InBounds(x, y) {
		return ErrOutOfBounds
	}
	bps := b.depth.BytesPerSample()
	off := y*b.stride + x*b.channels*bps
	b.codec.encode(src[:b.channels], b.data[off:off+b.channels*bps])
	return nil
}

// Fill sets every pixel to px.
func (b *Buf) Fill(px []float64) {
	row := make([]float64, b.width*b.channels)
	for x := 0; x < b.width; x++ {
		copy(row[x*b.channels:], px[:b.channels])
	}
	for y := 0; y < b.height; y++ {
		b.WriteRow(y, row)
	}
}

// Clone returns a tightly packed deep copy.
func (b *Buf) Clone() *Buf {
	out := MustNewBuf(b.width, b.height, b.channels, b.depth)
	rb := b.RowBytes()
	for y := 0; y < b.height; y++ {
		copy(out.data[y*out.stride:y*out.stride+rb], b.data[y*b.stride:y*b.stride+rb])
	}
	return out
}

// View returns a sub-rectangle sharing storage with b.
func (b *Buf) View(x, y, w, h int) (*Buf, error) {
	if w <= 0 || h <= 0 {
		return nil, ErrInvalidDimensions
	}
	if x < 0 || y < 0 || x+w > b.width || y+h > b.height {
		return nil, ErrOutOfBounds
	}
	bps := b.depth.BytesPerSample()
	start := y*b.stride + x*b.channels*bps
	end := start + (h-1)*b.stride + b.depth.RowBytes(w, b.channels)
	return &Buf{
		data:     b.data[start:end:end],
		width:    w,
		height:   h,
		channels: b.channels,
		stride:   b.stride,
		depth:    b.depth,
		codec:    b.codec,
	}, nil
}

// Convert returns a copy stored at another depth.
func (b *Buf) Convert(depth Depth) (*Buf, error) {
	if !depth.IsValid() {
		return nil, ErrInvalidDepth
	}
	out, err := NewBuf(b.width, b.height, b.channels, depth)
	if err != nil {
		return nil, err
	}
	row := make([]float64, b.width*b.channels)
	for y := 0; y < b.height; y++ {
		b.ReadRow(y, row)
		out.WriteRow(y, row)
	}
	return out, nil
}

// Floats decodes the whole buffer into a float plane.
func (b *Buf) Floats() *Floats {
	f := NewFloats(b.width, b.height, b.channels)
	for y := 0; y < b.height; y++ {
		b.ReadRow(y, f.Row(y))
	}
	return f
}

// Store encodes f into b. Shapes must match.
func (b *Buf) Store(f *Floats) error {
	if f.W != b.width || f.H != b.height || f.C != b.channels {
		return ErrGeometryMismatch
	}
	for y := 0; y < b.height; y++ {
		b.WriteRow(y, f.Row(y))
	}
	return nil
}

// Packed returns the samples as a tightly packed byte slice in storage
// encoding. A packed buffer returns its own data.
func (b *Buf) Packed() []byte {
	rb := b.RowBytes()
	if b.stride == rb && len(b.data) == rb*b.height {
		return b.data
	}
	return b.Clone().data
}

func decode8(src []byte, dst []float64) {
	for i, v := range src {
		dst[i] = float64(v) / 255
	}
}

func encode8(src []float64, dst []byte) {
	for i, v := range src {
		dst[i] = uint8(quantize(v, 255))
	}
}

func decode16(src []byte, dst []float64) {
	for i := range dst {
		dst[i] = float64(binary.LittleEndian.Uint16(src[2*i:])) / 65535
	}
}

func encode16(src []float64, dst []byte) {
	for i, v := range src {
		binary.LittleEndian.PutUint16(dst[2*i:], uint16(quantize(v, 65535)))
	}
}

func decode32F(src []byte, dst []float64) {
	for i := range dst {
		dst[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(src[4*i:])))
	}
}

func encode32F(src []float64, dst []byte) {
	for i, v := range src {
		binary.LittleEndian.PutUint32(dst[4*i:], math.Float32bits(float32(Clamp01(v))))
	}
}

// quantize maps [0,1] to [0,q] with round-half-up.
func quantize(v, q float64) float64 {
	return math.Floor(Clamp01(v)*q + 0.5)
}

// Clamp01 clamps v to [0,1]; NaN maps to 0.
func Clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
