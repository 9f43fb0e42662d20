package pixel

import (
	"github.com/samber/lo"

	"github.com/gogpu/pixel/geometry"
	"github.com/gogpu/pixel/internal/blend"
	"github.com/gogpu/pixel/internal/errs"
	pimage "github.com/gogpu/pixel/internal/image"
)

// LayerMethod selects how MergeLayers sizes its canvas.
type LayerMethod uint8

// Layer merge methods.
const (
	// LayerMerge uses the bounding box of every frame, negative offsets
	// included. The result's page offset is the box origin.
	LayerMerge LayerMethod = iota
	// LayerFlatten uses the primary frame's page canvas.
	LayerFlatten
	// LayerMosaic uses the box from the canvas origin to the farthest
	// frame edge.
	LayerMosaic

	layerMethodCount
)

var layerMethodNames = []string{"merge", "flatten", "mosaic"}

func (m LayerMethod) String() string { return enumName(layerMethodNames, int(m)) }

// ParseLayerMethod looks up a layer method by name.
func ParseLayerMethod(name string) (LayerMethod, error) {
	return parseEnum[LayerMethod]("merge_layers", "layer method", name, layerMethodNames, nil)
}

// derive builds an image holding the RGBA plane f in model m, sharing
// proto's config, depth and metadata.
func (im *Image) derive(f *pimage.Floats, m ColorModel) *Image {
	buf := pimage.MustNewBuf(f.W, f.H, m.Len(), im.buf.Depth())
	out := &Image{buf: buf, model: m, cfg: im.cfg, meta: im.meta.clone()}
	out.fromRGBA(f)
	return out
}

func transparentRGBA(w, h int) *pimage.Floats {
	return pimage.NewFloats(w, h, 4)
}

// Coalesce returns a sequence where every frame covers the full canvas
// and shows what a player would display at that point: the previous
// canvas after the previous frame's disposal, with the frame composited
// on top. Output frames carry alpha and the input's delays and dispose
// methods.
func (s *Sequence) Coalesce() (*Sequence, error) {
	const op = "coalesce"
	if err := s.check(op); err != nil {
		return nil, err
	}
	w, h := s.canvas()
	canvas := transparentRGBA(w, h)
	out := &Sequence{frames: make([]*Frame, 0, len(s.frames))}
	for _, f := range s.frames {
		saved := canvas.Clone()
		compositeRGBA(canvas, f.Image.rgba(), f.Page.X, f.Page.Y, blend.OpOver, 1, f.Image.workers())

		page := Page{Width: w, Height: h}
		img := f.Image.derive(canvas.Clone(), f.Image.model.WithAlpha(true))
		img.meta.page = page
		out.frames = append(out.frames, &Frame{Image: img, Delay: f.Delay, Page: page, Dispose: f.Dispose})

		switch f.Dispose {
		case DisposeBackground:
			r := f.rect().Intersect(geometry.Rect{Width: w, Height: h})
			if !r.Empty() {
				canvas.Paste(transparentRGBA(r.Width, r.Height), r.X, r.Y)
			}
		case DisposePrevious:
			canvas = saved
		}
	}
	Logger().Debug("pixel: coalesced sequence", "frames", len(out.frames), "canvas", [2]int{w, h})
	return out, nil
}

// MergeLayers composites every frame onto one canvas, positioned at its
// page offset, over the primary frame's background color. The result
// holds a single frame.
func (s *Sequence) MergeLayers(method LayerMethod) (*Sequence, error) {
	const op = "merge_layers"
	if method >= layerMethodCount {
		return nil, errs.Value(op, "unknown layer method %d", method)
	}
	if err := s.check(op); err != nil {
		return nil, err
	}
	base := s.frames[0]

	var box geometry.Rect
	switch method {
	case LayerMerge:
		box = lo.Reduce(s.frames[1:], func(acc geometry.Rect, f *Frame, _ int) geometry.Rect {
			return acc.Union(f.rect())
		}, base.rect())
	case LayerFlatten:
		w, h := base.Page.canvas(base.Image.Width(), base.Image.Height())
		box = geometry.Rect{Width: w, Height: h}
	case LayerMosaic:
		for _, f := range s.frames {
			r := f.rect()
			box.Width = max(box.Width, r.X+r.Width)
			box.Height = max(box.Height, r.Y+r.Height)
		}
		box.Width, box.Height = max(box.Width, 1), max(box.Height, 1)
	}

	bg := base.Image.meta.background
	canvas := pimage.NewFloats(box.Width, box.Height, 4)
	fill := bg.rgba()
	canvas.Fill(fill[:])
	for _, f := range s.frames {
		compositeRGBA(canvas, f.Image.rgba(), f.Page.X-box.X, f.Page.Y-box.Y, blend.OpOver, 1, f.Image.workers())
	}

	model := base.Image.model
	if bg.A < 1 {
		model = model.WithAlpha(true)
	}
	img := base.Image.derive(canvas, model)
	pw, ph := base.Page.canvas(box.Width, box.Height)
	page := Page{Width: max(pw, box.Width), Height: max(ph, box.Height), X: box.X, Y: box.Y}
	if method == LayerFlatten {
		page = Page{Width: box.Width, Height: box.Height}
	}
	img.meta.page = page
	Logger().Debug("pixel: merged layers", "method", method, "frames", len(s.frames), "box", box)
	return &Sequence{frames: []*Frame{{Image: img, Delay: base.Delay, Page: page, Dispose: base.Dispose}}}, nil
}

// changedBox is the bounding box of the pixels that differ between two
// RGBA planes of equal size, and whether any pixel lost coverage.
func changedBox(prev, cur *pimage.Floats) (geometry.Rect, bool) {
	x0, y0, x1, y1 := cur.W, cur.H, -1, -1
	cleared := false
	for y := range cur.H {
		for x := range cur.W {
			p, c := prev.Pixel(x, y), cur.Pixel(x, y)
			if [4]float64(p) == [4]float64(c) {
				continue
			}
			x0, y0 = min(x0, x), min(y0, y)
			x1, y1 = max(x1, x), max(y1, y)
			if c[3] < p[3] {
				cleared = true
			}
		}
	}
	if x1 < 0 {
		return geometry.Rect{}, false
	}
	return geometry.Rect{X: x0, Y: y0, Width: x1 - x0 + 1, Height: y1 - y0 + 1}, cleared
}

// OptimizeLayers returns a sequence that shows the same animation as the
// receiver but where each frame after the first holds only the smallest
// rectangle that changed since the previous frame. A frame that changes
// nothing becomes a single transparent pixel. When pixels lose coverage
// the previous frame is disposed to background and the next frame grows
// to cover its area.
func (s *Sequence) OptimizeLayers() (*Sequence, error) {
	const op = "optimize_layers"
	coalesced, err := s.Coalesce()
	if err != nil {
		return nil, err
	}
	w, h := s.canvas()
	planes := make([]*pimage.Floats, len(coalesced.frames))
	for i, f := range coalesced.frames {
		planes[i] = f.Image.rgba()
	}

	out := &Sequence{frames: make([]*Frame, len(planes))}
	first := coalesced.frames[0]
	out.frames[0] = &Frame{Image: first.Image, Delay: first.Delay, Page: first.Page, Dispose: DisposeNone}
	for i := 1; i < len(planes); i++ {
		src := coalesced.frames[i]
		r, cleared := changedBox(planes[i-1], planes[i])
		if cleared {
			prev := out.frames[i-1]
			prev.Dispose = DisposeBackground
			r = r.Union(prev.rect())
		}
		var plane *pimage.Floats
		if r.Empty() {
			r = geometry.Rect{Width: 1, Height: 1}
			plane = transparentRGBA(1, 1)
		} else {
			plane = planes[i].Crop(r.X, r.Y, r.Width, r.Height)
		}
		page := Page{Width: w, Height: h, X: r.X, Y: r.Y}
		img := src.Image.derive(plane, src.Image.model)
		img.meta.page = page
		out.frames[i] = &Frame{Image: img, Delay: src.Delay, Page: page, Dispose: DisposeNone}
	}
	Logger().Debug("pixel: optimized layers", "op", op, "frames", len(out.frames))
	return out, nil
}

// OptimizeTransparency returns a copy of the sequence where pixels of a
// frame that would not change what is shown are made transparent. Only
// fully opaque pixels over an identical canvas pixel are cleared, and only
// when the previous frame is not disposed, so the coalesced animation is
// unchanged. Frame sizes and offsets stay as they are.
func (s *Sequence) OptimizeTransparency() (*Sequence, error) {
	coalesced, err := s.Coalesce()
	if err != nil {
		return nil, err
	}
	out := s.Clone()
	for i := 1; i < len(out.frames); i++ {
		if d := s.frames[i-1].Dispose; d != DisposeNone && d != DisposeUndefined {
			continue
		}
		f := out.frames[i]
		under := coalesced.frames[i-1].Image.rgba()
		plane := f.Image.rgba()
		changed := false
		for y := range plane.H {
			cy := y + f.Page.Y
			if cy < 0 || cy >= under.H {
				continue
			}
			for x := range plane.W {
				cx := x + f.Page.X
				if cx < 0 || cx >= under.W {
					continue
				}
				px := plane.Pixel(x, y)
				if px[3] == 1 && [4]float64(px) == [4]float64(under.Pixel(cx, cy)) {
					px[3] = 0
					changed = true
				}
			}
		}
		if !changed {
			continue
		}
		f.Image.SetAlpha(true)
		f.Image.fromRGBA(plane)
	}
	Logger().Debug("pixel: optimized transparency", "frames", len(out.frames))
	return out, nil
}

// Concat joins every frame into one image, left to right or, when
// vertical is set, top to bottom. Frames are aligned to the top or left
// edge and the rest is filled with the primary frame's background.
func (s *Sequence) Concat(vertical bool) (*Sequence, error) {
	const op = "concat"
	if err := s.check(op); err != nil {
		return nil, err
	}
	var w, h int
	for _, f := range s.frames {
		if vertical {
			w, h = max(w, f.Image.Width()), h+f.Image.Height()
		} else {
			w, h = w+f.Image.Width(), max(h, f.Image.Height())
		}
	}
	base := s.frames[0]
	bg := base.Image.meta.background
	canvas := pimage.NewFloats(w, h, 4)
	fill := bg.rgba()
	canvas.Fill(fill[:])
	alpha := bg.A < 1
	var off int
	for _, f := range s.frames {
		x, y := off, 0
		if vertical {
			x, y = 0, off
			off += f.Image.Height()
		} else {
			off += f.Image.Width()
		}
		compositeRGBA(canvas, f.Image.rgba(), x, y, blend.OpSrc, 1, f.Image.workers())
		alpha = alpha || f.Image.model.HasAlpha()
	}
	img := base.Image.derive(canvas, base.Image.model.WithAlpha(alpha))
	img.meta.page = Page{}
	Logger().Debug("pixel: concatenated frames", "frames", len(s.frames), "vertical", vertical, "size", [2]int{w, h})
	return &Sequence{frames: []*Frame{{Image: img, Delay: base.Delay, Dispose: base.Dispose}}}, nil
}
