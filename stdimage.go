package pixel

import (
	"image"
	"image/color"

	"github.com/gogpu/pixel/internal/errs"
	pimage "github.com/gogpu/pixel/internal/image"
)

// FromStdImage copies a standard library image. Gray and CMYK sources
// keep their model; other sources become RGB, or RGBA when the source
// reports itself as not opaque. 16-bit sources are stored at Depth16
// unless WithDepth says otherwise.
func FromStdImage(src image.Image, opts ...Option) (*Image, error) {
	if src == nil {
		return nil, errs.Kind("from_image", "nil image")
	}
	b := src.Bounds()
	model, depth := ModelRGBA, Depth8
	switch s := src.(type) {
	case *image.Gray:
		model = ModelGray
	case *image.Gray16:
		model, depth = ModelGray, Depth16
	case *image.CMYK:
		model = ModelCMYK
	case *image.RGBA64, *image.NRGBA64:
		depth = Depth16
	case interface{ Opaque() bool }:
		if s.Opaque() {
			model = ModelRGB
		}
	}
	opts = append([]Option{WithModel(model), WithDepth(depth)}, opts...)
	im, err := New(b.Dx(), b.Dy(), opts...)
	if err != nil {
		return nil, err
	}

	f := pimage.NewFloats(b.Dx(), b.Dy(), im.model.Len())
	var rgba [4]float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := f.Row(y - b.Min.Y)
		for x := b.Min.X; x < b.Max.X; x++ {
			px := row[(x-b.Min.X)*f.C : (x-b.Min.X+1)*f.C]
			c := src.At(x, y)
			if k, ok := c.(color.CMYK); ok && im.model.IsCMYK() {
				px[0], px[1], px[2], px[3] = float64(k.C)/255, float64(k.M)/255, float64(k.Y)/255, float64(k.K)/255
				if len(px) == 5 {
					px[4] = 1
				}
				continue
			}
			n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
			rgba = [4]float64{float64(n.R) / 65535, float64(n.G) / 65535, float64(n.B) / 65535, float64(n.A) / 65535}
			im.model.fromRGBA(rgba[:], px)
		}
	}
	im.commit(f)
	return im, nil
}

// StdImage copies the samples into a standard library image: *image.Gray
// or *image.Gray16 for gray, *image.CMYK for CMYK and *image.NRGBA or
// *image.NRGBA64 otherwise. Depths above 8 bits produce the 16-bit types.
func (im *Image) StdImage() image.Image {
	w, h := im.Size()
	r := image.Rect(0, 0, w, h)
	wide := im.buf.Depth() != Depth8
	f := im.floats()
	q8 := func(v float64) uint8 { return uint8(clamp01(v)*255 + 0.5) }
	q16 := func(v float64) uint16 { return uint16(clamp01(v)*65535 + 0.5) }

	switch {
	case im.model == ModelGray && !wide:
		out := image.NewGray(r)
		for i := range w * h {
			out.Pix[i] = q8(f.Pix[i])
		}
		return out
	case im.model == ModelGray:
		out := image.NewGray16(r)
		for y := range h {
			for x := range w {
				out.SetGray16(x, y, color.Gray16{Y: q16(f.At(x, y, 0))})
			}
		}
		return out
	case im.model == ModelCMYK:
		out := image.NewCMYK(r)
		for i := range w * h {
			for c := range 4 {
				out.Pix[i*4+c] = q8(f.Pix[i*4+c])
			}
		}
		return out
	}

	var rgba [4]float64
	if wide {
		out := image.NewNRGBA64(r)
		for y := range h {
			for x := range w {
				im.model.toRGBA(f.Pixel(x, y), rgba[:])
				out.SetNRGBA64(x, y, color.NRGBA64{R: q16(rgba[0]), G: q16(rgba[1]), B: q16(rgba[2]), A: q16(rgba[3])})
			}
		}
		return out
	}
	out := image.NewNRGBA(r)
	for i := range w * h {
		im.model.toRGBA(f.Pix[i*f.C:(i+1)*f.C], rgba[:])
		for c := range 4 {
			out.Pix[i*4+c] = q8(rgba[c])
		}
	}
	return out
}

// rgbaToNRGBA64 packs a straight RGBA plane into a drawable image.
func rgbaToNRGBA64(f *pimage.Floats) *image.NRGBA64 {
	out := image.NewNRGBA64(image.Rect(0, 0, f.W, f.H))
	for i, v := range f.Pix {
		q := uint16(clamp01(v)*65535 + 0.5)
		out.Pix[i*2], out.Pix[i*2+1] = uint8(q>>8), uint8(q)
	}
	return out
}

// nrgba64ToRGBA unpacks an image made by rgbaToNRGBA64.
func nrgba64ToRGBA(img *image.NRGBA64) *pimage.Floats {
	b := img.Bounds()
	f := pimage.NewFloats(b.Dx(), b.Dy(), 4)
	for i := range f.Pix {
		f.Pix[i] = float64(uint16(img.Pix[i*2])<<8|uint16(img.Pix[i*2+1])) / 65535
	}
	return f
}
