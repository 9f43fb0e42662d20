package image

import "fmt"

// Depth is the storage size of one channel sample.
type Depth uint8

// Supported sample depths.
const (
	// Depth8 stores each sample as one unsigned byte.
	Depth8 Depth = iota

	// Depth16 stores each sample as a little-endian uint16.
	Depth16

	// Depth32F stores each sample as a little-endian IEEE-754 float32.
	Depth32F

	depthCount
)

// DepthInfo describes a sample depth.
type DepthInfo struct {
	// BytesPerSample is the storage size of one channel value.
	BytesPerSample int

	// Bits is the nominal bit depth (8, 16 or 32).
	Bits int

	// Quantum is the largest integer sample value, or 1 for float storage.
	Quantum float64

	// Float is true for floating-point storage.
	Float bool

	name string
}

var depthInfoTable = [depthCount]DepthInfo{
	Depth8:   {BytesPerSample: 1, Bits: 8, Quantum: 255, name: "8"},
	Depth16:  {BytesPerSample: 2, Bits: 16, Quantum: 65535, name: "16"},
	Depth32F: {BytesPerSample: 4, Bits: 32, Quantum: 1, Float: true, name: "32f"},
}

// Info returns the depth description. Invalid depths return a zero DepthInfo.
func (d Depth) Info() DepthInfo {
	if !d.IsValid() {
		return DepthInfo{}
	}
	return depthInfoTable[d]
}

// BytesPerSample returns the storage size of one sample.
func (d Depth) BytesPerSample() int { return d.Info().BytesPerSample }

// Bits returns the nominal bit depth.
func (d Depth) Bits() int { return d.Info().Bits }

// Quantum returns the largest integer sample value (1 for float storage).
func (d Depth) Quantum() float64 { return d.Info().Quantum }

// IsValid reports whether d is a known depth.
func (d Depth) IsValid() bool { return d < depthCount }

// String returns "8", "16" or "32f".
func (d Depth) String() string {
	if !d.IsValid() {
		return fmt.Sprintf("Depth(%d)", uint8(d))
	}
	return depthInfoTable[d].name
}

// DepthForBits maps a bit count to a depth: 8, 16, or 32 (float).
func DepthForBits(bits int) (Depth, bool) {
	switch bits {
	case 8:
		return Depth8, true
	case 16:
		return Depth16, true
	case 32:
		return Depth32F, true
	}
	return 0, false
}

// RowBytes returns the packed byte size of one row.
func (d Depth) RowBytes(width, channels int) int {
	return width * channels * d.BytesPerSample()
}
