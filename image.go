package pixel

import (
	"maps"

	"github.com/gogpu/pixel/geometry"
	"github.com/gogpu/pixel/internal/errs"
	pimage "github.com/gogpu/pixel/internal/image"
)

// Depth is the storage size of one channel sample.
type Depth = pimage.Depth

// Storage depths.
const (
	Depth8   = pimage.Depth8
	Depth16  = pimage.Depth16
	Depth32F = pimage.Depth32F
)

// Image is a 2D grid of multi-channel samples plus the metadata an encoder
// needs to write it back out.
//
// Samples are stored interleaved at the image's depth; every operator reads
// them as float64 values in [0, 1] and stores them back clamped and rounded
// to the depth.
type Image struct {
	buf   *pimage.Buf
	model ColorModel
	cfg   *Config
	meta  metadata
	view  bool
}

// metadata is carried through operators untouched unless an operator
// documents otherwise.
type metadata struct {
	colorSpace   ColorSpace
	background   Color
	matte        Color
	virtualPixel VirtualPixel
	resolution   Resolution
	orientation  Orientation
	page         Page
	properties   map[string]string
	profiles     map[string][]byte
}

func (m metadata) clone() metadata {
	m.properties = maps.Clone(m.properties)
	m.profiles = maps.Clone(m.profiles)
	return m
}

// New creates a width x height image filled with the background color.
func New(width, height int, opts ...Option) (*Image, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if width <= 0 || height <= 0 {
		return nil, errs.Value("new", "size %dx%d must be positive", width, height)
	}
	if o.model >= modelCount {
		return nil, errs.Value("new", "unknown color model %d", o.model)
	}
	cfg := o.config
	if cfg == nil {
		cfg = defaultConfig
	}
	depth := cfg.depth()
	if o.hasDepth {
		if !o.depth.IsValid() {
			return nil, errs.Value("new", "unknown depth %d", o.depth)
		}
		depth = o.depth
	}
	bg := cfg.Background
	if o.background != nil {
		bg = *o.background
	}
	res := cfg.Resolution
	if o.resX > 0 || o.resY > 0 {
		res = Resolution{X: o.resX, Y: o.resY, Units: o.units}
	}

	buf, err := pimage.NewBuf(width, height, o.model.Len(), depth)
	if err != nil {
		return nil, errs.Value("new", "%v", err)
	}
	im := &Image{
		buf:   buf,
		model: o.model,
		cfg:   cfg,
		meta: metadata{
			colorSpace:   o.colorSpace,
			background:   bg,
			matte:        GrayColor(189.0 / 255),
			virtualPixel: cfg.VirtualPixel,
			resolution:   res,
			orientation:  TopLeft,
		},
	}
	buf.Fill(o.model.samples(bg))
	return im, nil
}

// newLike returns an image with im's model, depth, config and metadata
// and a width x height store filled with the background.
func (im *Image) newLike(width, height int) *Image {
	buf := pimage.MustNewBuf(width, height, im.model.Len(), im.buf.Depth())
	out := &Image{buf: buf, model: im.model, cfg: im.cfg, meta: im.meta.clone()}
	buf.Fill(im.model.samples(im.meta.background))
	return out
}

// Width returns the width in pixels.
func (im *Image) Width() int { return im.buf.Width() }

// Height returns the height in pixels.
func (im *Image) Height() int { return im.buf.Height() }

// Size returns width and height.
func (im *Image) Size() (int, int) { return im.buf.Width(), im.buf.Height() }

// Depth returns the storage depth.
func (im *Image) Depth() Depth { return im.buf.Depth() }

// Model returns the color model.
func (im *Image) Model() ColorModel { return im.model }

// Config returns the configuration the image was created with.
func (im *Image) Config() *Config { return im.cfg }

// IsView reports whether the image shares storage with a parent.
func (im *Image) IsView() bool { return im.view }

func (im *Image) workers() int { return im.cfg.Workers }

// resolveIndex maps a possibly negative index onto [0, n).
func resolveIndex(v, n int) (int, bool) {
	if v < 0 {
		v += n
	}
	return v, v >= 0 && v < n
}

func (im *Image) resolvePoint(op string, x, y int) (int, int, error) {
	rx, okx := resolveIndex(x, im.Width())
	ry, oky := resolveIndex(y, im.Height())
	if !okx || !oky {
		return 0, 0, errs.Range(op, "(%d,%d) outside %dx%d", x, y, im.Width(), im.Height())
	}
	return rx, ry, nil
}

// Pixel returns the samples at (x, y). Negative coordinates count from the
// far edge: (-1, -1) is the bottom-right pixel.
func (im *Image) Pixel(x, y int) (Pixel, error) {
	x, y, err := im.resolvePoint("pixel", x, y)
	if err != nil {
		return Pixel{}, err
	}
	px := make([]float64, im.model.Len())
	if err := im.buf.ReadPixel(x, y, px); err != nil {
		return Pixel{}, errs.Failed("pixel", err)
	}
	return Pixel{Model: im.model, Values: px}, nil
}

// SetPixel writes c at (x, y), converted to the image's model and clamped
// to the storage depth. Negative coordinates count from the far edge.
func (im *Image) SetPixel(x, y int, c Color) error {
	x, y, err := im.resolvePoint("set_pixel", x, y)
	if err != nil {
		return err
	}
	return im.buf.WritePixel(x, y, im.model.samples(c))
}

// SetSamples writes raw samples in storage order at (x, y).
func (im *Image) SetSamples(x, y int, values ...float64) error {
	if len(values) != im.model.Len() {
		return errs.Value("set_samples", "%s pixel takes %d samples, got %d", im.model, im.model.Len(), len(values))
	}
	x, y, err := im.resolvePoint("set_samples", x, y)
	if err != nil {
		return err
	}
	return im.buf.WritePixel(x, y, values)
}

// Region returns a view of the w x h rectangle at (x, y). The view shares
// storage with im: in-place operators on the view change im. Operators
// that change the view's geometry detach it onto its own storage.
func (im *Image) Region(x, y, w, h int) (*Image, error) {
	const op = "region"
	if w <= 0 || h <= 0 {
		return nil, errs.Range(op, "size %dx%d must be positive", w, h)
	}
	if x < 0 {
		x += im.Width()
	}
	if y < 0 {
		y += im.Height()
	}
	r := geometry.Rect{X: x, Y: y, Width: w, Height: h}
	if !(geometry.Rect{Width: im.Width(), Height: im.Height()}).Contains(r) {
		return nil, errs.Range(op, "%dx%d+%d+%d outside %dx%d", w, h, x, y, im.Width(), im.Height())
	}
	view, err := im.buf.View(x, y, w, h)
	if err != nil {
		return nil, errs.Range(op, "%v", err)
	}
	return &Image{buf: view, model: im.model, cfg: im.cfg, meta: im.meta.clone(), view: true}, nil
}

// Clone returns an independent deep copy, including metadata. A clone of a
// view owns its samples.
func (im *Image) Clone() *Image {
	return &Image{buf: im.buf.Clone(), model: im.model, cfg: im.cfg, meta: im.meta.clone()}
}

// ResizeCanvas reallocates the image at w x h, places the old content by
// anchor and fills the rest with the background color.
func (im *Image) ResizeCanvas(w, h int, anchor geometry.Anchor) error {
	if w <= 0 || h <= 0 {
		return errs.Value("resize_canvas", "size %dx%d must be positive", w, h)
	}
	x, y := anchor.Offset(w, h, im.Width(), im.Height())
	out := im.newLike(w, h).floats()
	out.Paste(im.floats(), x, y)
	im.replace(out)
	return nil
}

// Fill sets every pixel to c.
func (im *Image) Fill(c Color) {
	im.buf.Fill(im.model.samples(c))
}

// floats decodes the whole image.
func (im *Image) floats() *pimage.Floats { return im.buf.Floats() }

// commit stores f, which must have the image's shape. A mismatched plane
// is a bug in the calling operator.
func (im *Image) commit(f *pimage.Floats) {
	if err := im.buf.Store(f); err != nil {
		panic(errs.Failed("commit", err))
	}
}

// replace swaps in new storage holding f at the current depth. A view
// stops sharing with its parent.
func (im *Image) replace(f *pimage.Floats) {
	im.buf = pimage.MustNewBuf(f.W, f.H, f.C, im.buf.Depth())
	im.view = false
	im.commit(f)
}

// rgba decodes the image into a 4-channel straight RGBA plane.
func (im *Image) rgba() *pimage.Floats {
	src := im.floats()
	if im.model == ModelRGBA {
		return src
	}
	out := pimage.NewFloats(src.W, src.H, 4)
	c := src.C
	for i := 0; i < src.W*src.H; i++ {
		im.model.toRGBA(src.Pix[i*c:(i+1)*c], out.Pix[i*4:(i+1)*4])
	}
	return out
}

// fromRGBA converts a straight RGBA plane into the image's model and
// stores it, replacing storage when the size changed.
func (im *Image) fromRGBA(f *pimage.Floats) {
	out := im.model.convertRGBA(f)
	if out.W == im.Width() && out.H == im.Height() && out.C == im.buf.Channels() {
		im.commit(out)
		return
	}
	im.replace(out)
}

// convertRGBA converts a straight RGBA plane into the model.
func (m ColorModel) convertRGBA(f *pimage.Floats) *pimage.Floats {
	if m == ModelRGBA {
		return f
	}
	c := m.Len()
	out := pimage.NewFloats(f.W, f.H, c)
	for i := 0; i < f.W*f.H; i++ {
		m.fromRGBA(f.Pix[i*4:(i+1)*4], out.Pix[i*c:(i+1)*c])
	}
	return out
}

// SetDepth converts the storage to depth d, quantizing samples.
func (im *Image) SetDepth(d Depth) error {
	if !d.IsValid() {
		return errs.Value("set_depth", "unknown depth %d", d)
	}
	if d == im.buf.Depth() {
		return nil
	}
	buf, err := im.buf.Convert(d)
	if err != nil {
		return errs.Value("set_depth", "%v", err)
	}
	im.buf = buf
	im.view = false
	return nil
}

// SetAlpha adds an opaque alpha channel or drops the existing one.
func (im *Image) SetAlpha(on bool) {
	m := im.model.WithAlpha(on)
	if m == im.model {
		return
	}
	src := im.floats()
	out := pimage.NewFloats(src.W, src.H, m.Len())
	n := min(src.C, out.C)
	for i := 0; i < src.W*src.H; i++ {
		copy(out.Pix[i*out.C:i*out.C+n], src.Pix[i*src.C:i*src.C+n])
		if on {
			out.Pix[i*out.C+out.C-1] = 1
		}
	}
	im.model = m
	im.replace(out)
}

// SetModel converts the samples into model m through RGBA.
func (im *Image) SetModel(m ColorModel) error {
	if m >= modelCount {
		return errs.Value("set_model", "unknown color model %d", m)
	}
	im.setModel(m)
	return nil
}

// setModel converts to a known model m.
func (im *Image) setModel(m ColorModel) {
	if m == im.model {
		return
	}
	rgba := im.rgba()
	im.model = m
	im.replace(m.convertRGBA(rgba))
}

// Equal reports whether both images have the same size, model and
// samples at their storage depths.
func (im *Image) Equal(other *Image) bool {
	if im.Width() != other.Width() || im.Height() != other.Height() || im.model != other.model {
		return false
	}
	a, b := im.floats(), other.floats()
	q := max(im.buf.Depth().Quantum(), other.buf.Depth().Quantum())
	if im.buf.Depth() == Depth32F || other.buf.Depth() == Depth32F {
		q = 65535
	}
	for i := range a.Pix {
		if int64(a.Pix[i]*q+0.5) != int64(b.Pix[i]*q+0.5) {
			return false
		}
	}
	return true
}
