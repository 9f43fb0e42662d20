package pixel

import (
	"encoding/binary"
	"image"
	"math"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/pixel/geometry"
	"github.com/gogpu/pixel/internal/errs"
	pimage "github.com/gogpu/pixel/internal/image"
	"github.com/gogpu/pixel/internal/parallel"
)

// ResizeFilter selects the reconstruction filter used by Resize.
type ResizeFilter uint8

// Resize filters. FilterUndefined defers to Config.Filter.
const (
	FilterUndefined ResizeFilter = iota
	FilterPoint
	FilterTriangle
	FilterCubic
	FilterMitchell
	FilterLanczos2
	FilterLanczos
	FilterCatrom
	filterCount
)

var filterNames = []string{
	"undefined", "point", "triangle", "cubic", "mitchell", "lanczos2",
	"lanczos", "catrom",
}

var filterAliases = map[string]ResizeFilter{
	"nearest":         FilterPoint,
	"nearestneighbor": FilterPoint,
	"box":             FilterPoint,
	"bilinear":        FilterTriangle,
	"bicubic":         FilterCubic,
	"lanczos3":        FilterLanczos,
	"catmullrom":      FilterCatrom,
}

// String returns the filter name.
func (f ResizeFilter) String() string { return enumName(filterNames, int(f)) }

// ParseResizeFilter reads a filter name such as "lanczos" or "mitchell".
func ParseResizeFilter(name string) (ResizeFilter, error) {
	return parseEnum("resize", "filter", name, filterNames, filterAliases)
}

// UnmarshalYAML reads a filter name.
func (f *ResizeFilter) UnmarshalYAML(n *yaml.Node) error {
	return unmarshalEnum(n, ParseResizeFilter, f)
}

// nfntFilter maps onto the nfnt/resize interpolation kernels.
var nfntFilter = map[ResizeFilter]resize.InterpolationFunction{
	FilterPoint:    resize.NearestNeighbor,
	FilterTriangle: resize.Bilinear,
	FilterCubic:    resize.Bicubic,
	FilterMitchell: resize.MitchellNetravali,
	FilterLanczos2: resize.Lanczos2,
	FilterLanczos:  resize.Lanczos3,
}

// gray16Plane packs one slot of f into a 16-bit gray image.
func gray16Plane(f *pimage.Floats, slot int) *image.Gray16 {
	g := image.NewGray16(image.Rect(0, 0, f.W, f.H))
	for i := range f.W * f.H {
		v := uint16(clamp01(f.Pix[i*f.C+slot])*0xffff + 0.5)
		binary.BigEndian.PutUint16(g.Pix[i*2:], v)
	}
	return g
}

// unpackGray16 writes a gray image back into one slot of f.
func unpackGray16(img image.Image, f *pimage.Floats, slot int) {
	g, ok := img.(*image.Gray16)
	if !ok {
		g = image.NewGray16(image.Rect(0, 0, f.W, f.H))
		draw.Draw(g, g.Bounds(), img, img.Bounds().Min, draw.Src)
	}
	for y := range f.H {
		row := g.Pix[y*g.Stride:]
		for x := range f.W {
			f.Pix[(y*f.W+x)*f.C+slot] = float64(binary.BigEndian.Uint16(row[x*2:])) / 0xffff
		}
	}
}

// scalePlanes resizes f to w x h one channel at a time, running the
// channels concurrently.
func scalePlanes(f *pimage.Floats, w, h, workers int, scale func(src *image.Gray16) image.Image) *pimage.Floats {
	dst := pimage.NewFloats(w, h, f.C)
	parallel.For(workers, f.C, func(c int) {
		unpackGray16(scale(gray16Plane(f, c)), dst, c)
	})
	return dst
}

// resizeTo scales the image to w x h with filter.
func (im *Image) resizeTo(w, h int, filter ResizeFilter) {
	if filter == FilterUndefined {
		filter = im.cfg.Filter
	}
	if filter == FilterUndefined {
		filter = FilterLanczos
	}
	src := im.floats()
	var dst *pimage.Floats
	if filter == FilterCatrom {
		dst = scalePlanes(src, w, h, im.workers(), func(g *image.Gray16) image.Image {
			out := image.NewGray16(image.Rect(0, 0, w, h))
			draw.CatmullRom.Scale(out, out.Bounds(), g, g.Bounds(), draw.Src, nil)
			return out
		})
	} else {
		interp := nfntFilter[filter]
		dst = scalePlanes(src, w, h, im.workers(), func(g *image.Gray16) image.Image {
			return resize.Resize(uint(w), uint(h), g, interp)
		})
	}
	Logger().Debug("pixel: resized", "from", [2]int{src.W, src.H}, "to", [2]int{w, h}, "filter", filter.String())
	im.store(dst)
}

// Resize scales the image with a reconstruction filter. A nil dimension
// keeps the current one.
func (im *Image) Resize(size geometry.Size, filter ResizeFilter) error {
	if filter >= filterCount {
		return errs.Value("resize", "unknown filter %d", filter)
	}
	w, h, err := size.Resolve(im.Width(), im.Height())
	if err != nil {
		return err
	}
	if w == im.Width() && h == im.Height() {
		return nil
	}
	im.resizeTo(w, h, filter)
	return nil
}

// Sample scales the image by picking the nearest source pixel, without
// blending any new colors.
func (im *Image) Sample(size geometry.Size) error {
	w, h, err := size.Resolve(im.Width(), im.Height())
	if err != nil {
		return err
	}
	if w == im.Width() && h == im.Height() {
		return nil
	}
	dst := scalePlanes(im.floats(), w, h, im.workers(), func(g *image.Gray16) image.Image {
		out := image.NewGray16(image.Rect(0, 0, w, h))
		draw.NearestNeighbor.Scale(out, out.Bounds(), g, g.Bounds(), draw.Src, nil)
		return out
	})
	im.store(dst)
	return nil
}

// defaultDensity is the resolution assumed when none is known.
const defaultDensity = 72

// Resample resizes the image so its physical size stays the same at the
// new resolution, and records that resolution. A nil resolution means 72.
func (im *Image) Resample(x, y *float64, filter ResizeFilter) error {
	const op = "resample"
	nx, ny := float64(defaultDensity), float64(defaultDensity)
	if x != nil {
		nx = *x
	}
	if y != nil {
		ny = *y
	}
	if err := errs.Numbers(op, "x", nx, "y", ny); err != nil {
		return err
	}
	if nx <= 0 || ny <= 0 {
		return errs.Value(op, "resolution %vx%v must be positive", nx, ny)
	}
	if filter >= filterCount {
		return errs.Value(op, "unknown filter %d", filter)
	}
	ox, oy := im.meta.resolution.X, im.meta.resolution.Y
	if ox <= 0 {
		ox = defaultDensity
	}
	if oy <= 0 {
		oy = defaultDensity
	}
	w := max(int(math.Round(float64(im.Width())*nx/ox)), 1)
	h := max(int(math.Round(float64(im.Height())*ny/oy)), 1)
	if w != im.Width() || h != im.Height() {
		im.resizeTo(w, h, filter)
	}
	im.meta.resolution.X, im.meta.resolution.Y = nx, ny
	return nil
}
