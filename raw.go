package pixel

import (
	"encoding/binary"
	"math"
	"strings"

	"github.com/gogpu/pixel/geometry"
	pcolor "github.com/gogpu/pixel/internal/color"
	"github.com/gogpu/pixel/internal/errs"
)

// StorageKind is the sample encoding of raw pixel data.
type StorageKind uint8

// Raw storage kinds. Integer kinds span their full range; float kinds
// hold normalized [0, 1] values. Multi-byte kinds are little-endian.
const (
	StorageChar StorageKind = iota
	StorageShort
	StorageLong
	StorageFloat
	StorageDouble

	storageCount
)

var storageNames = []string{"char", "short", "long", "float", "double"}

var storageSizes = [storageCount]int{1, 2, 4, 4, 8}

// String returns the storage kind name.
func (s StorageKind) String() string { return enumName(storageNames, int(s)) }

// ParseStorageKind reads a storage kind name.
func ParseStorageKind(name string) (StorageKind, error) {
	return parseEnum("storage", "storage kind", name, storageNames, map[string]StorageKind{
		"uint8": StorageChar, "byte": StorageChar, "uint16": StorageShort,
		"uint32": StorageLong, "integer": StorageLong, "float32": StorageFloat, "float64": StorageDouble,
	})
}

// Size returns the bytes per sample.
func (s StorageKind) Size() int { return storageSizes[s] }

func (s StorageKind) decode(data []byte, dst []float64) {
	switch s {
	case StorageChar:
		for i := range dst {
			dst[i] = float64(data[i]) / math.MaxUint8
		}
	case StorageShort:
		for i := range dst {
			dst[i] = float64(binary.LittleEndian.Uint16(data[2*i:])) / math.MaxUint16
		}
	case StorageLong:
		for i := range dst {
			dst[i] = float64(binary.LittleEndian.Uint32(data[4*i:])) / math.MaxUint32
		}
	case StorageFloat:
		for i := range dst {
			dst[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:])))
		}
	case StorageDouble:
		for i := range dst {
			dst[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[8*i:]))
		}
	}
}

func (s StorageKind) encode(src []float64, dst []byte) {
	q := func(v, n float64) float64 { return math.Floor(clamp01(v)*n + 0.5) }
	switch s {
	case StorageChar:
		for i, v := range src {
			dst[i] = uint8(q(v, math.MaxUint8))
		}
	case StorageShort:
		for i, v := range src {
			binary.LittleEndian.PutUint16(dst[2*i:], uint16(q(v, math.MaxUint16)))
		}
	case StorageLong:
		for i, v := range src {
			binary.LittleEndian.PutUint32(dst[4*i:], uint32(q(v, math.MaxUint32)))
		}
	case StorageFloat:
		for i, v := range src {
			binary.LittleEndian.PutUint32(dst[4*i:], math.Float32bits(float32(v)))
		}
	case StorageDouble:
		for i, v := range src {
			binary.LittleEndian.PutUint64(dst[8*i:], math.Float64bits(v))
		}
	}
}

// ChannelMap is the per-pixel sample layout of raw data: one letter per
// sample from R G B A O (opacity, inverted alpha) C M Y K I (intensity)
// and P (pad, ignored on import, zero on export).
type ChannelMap struct {
	letters string
	slots   []mapSlot
}

type mapSlot struct {
	ch     Channel
	invert bool
	pad    bool
}

var mapLetters = map[byte]mapSlot{
	'R': {ch: RedChannel},
	'G': {ch: GreenChannel},
	'B': {ch: BlueChannel},
	'A': {ch: AlphaChannel},
	'O': {ch: AlphaChannel, invert: true},
	'C': {ch: CyanChannel},
	'M': {ch: MagentaChannel},
	'Y': {ch: YellowChannel},
	'K': {ch: BlackChannel},
	'I': {ch: GrayChannel},
	'P': {pad: true},
}

// ParseChannelMap reads a map such as "RGBA" or "I". Letters are case
// insensitive; unknown letters and repeated channels are value errors.
func ParseChannelMap(s string) (ChannelMap, error) {
	const op = "channel_map"
	letters := strings.ToUpper(strings.TrimSpace(s))
	if letters == "" {
		return ChannelMap{}, errs.Value(op, "empty channel map")
	}
	m := ChannelMap{letters: letters}
	var seen Channels
	for i := 0; i < len(letters); i++ {
		slot, ok := mapLetters[letters[i]]
		if !ok {
			return ChannelMap{}, errs.Value(op, "unknown channel %q in map %q", letters[i], s)
		}
		if !slot.pad {
			if seen.Has(slot.ch) {
				return ChannelMap{}, errs.Value(op, "channel %s repeated in map %q", slot.ch, s)
			}
			seen |= ChannelsOf(slot.ch)
		}
		m.slots = append(m.slots, slot)
	}
	return m, nil
}

// Len returns the number of samples per pixel.
func (m ChannelMap) Len() int { return len(m.slots) }

// String returns the map letters.
func (m ChannelMap) String() string { return m.letters }

// RawRegion selects the pixels and layout of a raw transfer. A zero Width
// or Height extends the region to the far edge; negative X and Y count
// from the far edge.
type RawRegion struct {
	X, Y          int
	Width, Height int
	Map           string
	Storage       StorageKind
}

// slotAccess resolves one map slot against a color model.
type slotAccess struct {
	mapSlot
	index   int  // storage slot, -1 when derived
	derived bool // value computed from RGBA on export
	spread  bool // import writes the value to R, G and B
}

type rawPlan struct {
	rect      geometry.Rect
	storage   StorageKind
	slots     []slotAccess
	needAlpha bool
	needRGBA  bool
}

func (im *Image) rawPlan(op string, r RawRegion, importing bool) (*rawPlan, error) {
	if r.Storage >= storageCount {
		return nil, errs.Value(op, "unknown storage kind %d", r.Storage)
	}
	cm, err := ParseChannelMap(r.Map)
	if err != nil {
		return nil, err
	}
	x, y := r.X, r.Y
	if x < 0 {
		x += im.Width()
	}
	if y < 0 {
		y += im.Height()
	}
	w, h := r.Width, r.Height
	if w == 0 {
		w = im.Width() - x
	}
	if h == 0 {
		h = im.Height() - y
	}
	rect := geometry.Rect{X: x, Y: y, Width: w, Height: h}
	if w <= 0 || h <= 0 || !(geometry.Rect{Width: im.Width(), Height: im.Height()}).Contains(rect) {
		return nil, errs.Range(op, "region %dx%d%+d%+d outside %dx%d", r.Width, r.Height, r.X, r.Y, im.Width(), im.Height())
	}

	p := &rawPlan{rect: rect, storage: r.Storage}
	model := im.model
	if importing {
		for _, s := range cm.slots {
			if !s.pad && s.ch == AlphaChannel && !model.HasAlpha() {
				p.needAlpha = true
				model = model.WithAlpha(true)
			}
		}
	}
	for _, s := range cm.slots {
		a := slotAccess{mapSlot: s, index: -1}
		if !s.pad {
			a.index = model.Index(s.ch)
		}
		switch {
		case s.pad || a.index >= 0:
		case model.IsGray() && (s.ch == RedChannel || s.ch == GreenChannel || s.ch == BlueChannel):
			a.index = 0
		case s.ch == GrayChannel && !model.IsCMYK():
			a.derived, a.spread = true, true
		case !importing && (s.ch == AlphaChannel || s.ch == GrayChannel || s.ch <= BlueChannel):
			a.derived = true
		default:
			return nil, errs.Value(op, "channel %s cannot be mapped onto the %s model", s.ch, im.model)
		}
		p.needRGBA = p.needRGBA || a.derived
		p.slots = append(p.slots, a)
	}
	return p, nil
}

// ImportRaw writes raw samples into the region. len(data) must equal
// Width*Height*len(Map)*Storage.Size(). Importing an alpha channel into
// an image without one adds alpha first.
func (im *Image) ImportRaw(data []byte, r RawRegion) error {
	const op = "import_raw"
	p, err := im.rawPlan(op, r, true)
	if err != nil {
		return err
	}
	n := p.rect.Width * p.rect.Height * len(p.slots)
	if want := n * p.storage.Size(); len(data) != want {
		return errs.Value(op, "got %d bytes, %dx%d %s as %s needs %d",
			len(data), p.rect.Width, p.rect.Height, r.Map, p.storage, want)
	}
	vals := make([]float64, n)
	p.storage.decode(data, vals)
	return im.importValues(op, p, vals)
}

// ImportSamples is ImportRaw for typed slices: []uint8, []uint16, []uint32,
// []float32 or []float64 matching r.Storage. Any other kind is an
// ErrArgumentKind.
func (im *Image) ImportSamples(samples any, r RawRegion) error {
	const op = "import_samples"
	p, err := im.rawPlan(op, r, true)
	if err != nil {
		return err
	}
	var vals []float64
	kind := StorageKind(storageCount)
	switch s := samples.(type) {
	case []uint8:
		kind, vals = StorageChar, convertSamples(s, math.MaxUint8)
	case []uint16:
		kind, vals = StorageShort, convertSamples(s, math.MaxUint16)
	case []uint32:
		kind, vals = StorageLong, convertSamples(s, math.MaxUint32)
	case []float32:
		kind, vals = StorageFloat, convertSamples(s, 1)
	case []float64:
		kind, vals = StorageDouble, convertSamples(s, 1)
	default:
		return errs.Kind(op, "unsupported sample slice %T", samples)
	}
	if kind != p.storage {
		return errs.Kind(op, "%T does not match storage %s", samples, p.storage)
	}
	if want := p.rect.Width * p.rect.Height * len(p.slots); len(vals) != want {
		return errs.Value(op, "got %d samples, want %d", len(vals), want)
	}
	return im.importValues(op, p, vals)
}

func convertSamples[T uint8 | uint16 | uint32 | float32 | float64](s []T, scale float64) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = float64(v) / scale
	}
	return out
}

func (im *Image) importValues(op string, p *rawPlan, vals []float64) error {
	if p.needAlpha {
		im.SetAlpha(true)
	}
	view, err := im.buf.View(p.rect.X, p.rect.Y, p.rect.Width, p.rect.Height)
	if err != nil {
		return errs.Range(op, "%v", err)
	}
	f := view.Floats()
	n := len(p.slots)
	for i := 0; i < f.W*f.H; i++ {
		px := f.Pix[i*f.C : (i+1)*f.C]
		for j, s := range p.slots {
			v := vals[i*n+j]
			if s.invert {
				v = 1 - v
			}
			switch {
			case s.pad:
			case s.spread:
				px[0], px[1], px[2] = v, v, v
			default:
				px[s.index] = v
			}
		}
	}
	return view.Store(f)
}

// ExportRaw reads the region as raw samples in map order.
func (im *Image) ExportRaw(r RawRegion) ([]byte, error) {
	const op = "export_raw"
	p, err := im.rawPlan(op, r, false)
	if err != nil {
		return nil, err
	}
	view, err := im.buf.View(p.rect.X, p.rect.Y, p.rect.Width, p.rect.Height)
	if err != nil {
		return nil, errs.Range(op, "%v", err)
	}
	f := view.Floats()
	n := len(p.slots)
	vals := make([]float64, f.W*f.H*n)
	var rgba [4]float64
	for i := 0; i < f.W*f.H; i++ {
		px := f.Pix[i*f.C : (i+1)*f.C]
		if p.needRGBA {
			im.model.toRGBA(px, rgba[:])
		}
		for j, s := range p.slots {
			var v float64
			switch {
			case s.pad:
				continue
			case s.index >= 0:
				v = px[s.index]
			case s.ch == GrayChannel:
				v = pcolor.Luma(rgba[0], rgba[1], rgba[2])
			case s.ch == AlphaChannel:
				v = rgba[3]
			default:
				v = rgba[s.ch]
			}
			if s.invert {
				v = 1 - v
			}
			vals[i*n+j] = v
		}
	}
	out := make([]byte, len(vals)*p.storage.Size())
	p.storage.encode(vals, out)
	return out, nil
}
