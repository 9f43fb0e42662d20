package geometry

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/gogpu/pixel/internal/errs"
)

const opGeometry = "geometry"

// Geometry is a parsed geometry string. Width and Height are absolute
// pixels, percentages (Percent) or, with Area, a pixel count in Width.
type Geometry struct {
	Width, Height       float64
	HasWidth, HasHeight bool
	X, Y                int
	HasOffset           bool

	Percent bool // %: dimensions are percentages
	Exact   bool // !: ignore aspect ratio
	Fill    bool // ^: cover the box instead of fitting inside it
	Shrink  bool // >: only shrink larger images
	Enlarge bool // <: only enlarge smaller images
	Area    bool // @: Width is a target pixel area
}

var geometryPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)?(?:[xX](\d+(?:\.\d+)?)?)?([+-]\d+)?([+-]\d+)?$`)

// Parse reads "W", "xH", "WxH", optional "+X+Y" offsets and any of the
// flags % ! ^ < > @.
func Parse(geom string) (Geometry, error) {
	var g Geometry
	s := strings.TrimSpace(geom)
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '%':
			g.Percent = true
		case '!':
			g.Exact = true
		case '^':
			g.Fill = true
		case '>':
			g.Shrink = true
		case '<':
			g.Enlarge = true
		case '@':
			g.Area = true
		default:
			b.WriteRune(r)
		}
	}
	m := geometryPattern.FindStringSubmatch(b.String())
	if m == nil || (m[1] == "" && m[2] == "") {
		return Geometry{}, errs.Value(opGeometry, "malformed geometry %q", geom)
	}
	var err error
	if m[1] != "" {
		if g.Width, err = strconv.ParseFloat(m[1], 64); err != nil {
			return Geometry{}, errs.Value(opGeometry, "width in %q: %v", geom, err)
		}
		g.HasWidth = true
	}
	if m[2] != "" {
		if g.Height, err = strconv.ParseFloat(m[2], 64); err != nil {
			return Geometry{}, errs.Value(opGeometry, "height in %q: %v", geom, err)
		}
		g.HasHeight = true
	}
	if m[3] != "" {
		if g.X, err = strconv.Atoi(m[3]); err != nil {
			return Geometry{}, errs.Value(opGeometry, "offset in %q: %v", geom, err)
		}
		g.HasOffset = true
		if m[4] != "" {
			if g.Y, err = strconv.Atoi(m[4]); err != nil {
				return Geometry{}, errs.Value(opGeometry, "offset in %q: %v", geom, err)
			}
		}
	}
	if g.Area && !g.HasWidth {
		return Geometry{}, errs.Value(opGeometry, "area geometry %q needs a pixel count", geom)
	}
	return g, nil
}

// Scale computes the resize target for a w x h image. The aspect ratio is
// kept unless Exact is set or both percentages differ.
func (g Geometry) Scale(w, h int) (int, int) {
	fw, fh := float64(w), float64(h)
	var sx, sy float64
	switch {
	case g.Area:
		s := math.Sqrt(g.Width / (fw * fh))
		sx, sy = s, s
	case g.Percent:
		sx = g.Width / 100
		sy = sx
		if g.HasHeight {
			sy = g.Height / 100
		}
		if !g.HasWidth {
			sx = sy
		}
	case g.Exact && g.HasWidth && g.HasHeight:
		sx, sy = g.Width/fw, g.Height/fh
	case !g.HasHeight:
		sx = g.Width / fw
		sy = sx
	case !g.HasWidth:
		sy = g.Height / fh
		sx = sy
	case g.Fill:
		sx = max(g.Width/fw, g.Height/fh)
		sy = sx
	default:
		sx = min(g.Width/fw, g.Height/fh)
		sy = sx
	}

	nw, nh := round(fw*sx), round(fh*sy)
	if g.Exact && g.HasWidth && g.HasHeight && !g.Percent && !g.Area {
		nw, nh = round(g.Width), round(g.Height)
	}
	if g.Shrink && w <= nw && h <= nh {
		return w, h
	}
	if g.Enlarge && w >= nw && h >= nh {
		return w, h
	}
	return nw, nh
}

// CropRect computes the rectangle selected by g on a w x h image, clipped
// to the image. Missing dimensions default to the image size.
func (g Geometry) CropRect(w, h int) (Rect, error) {
	cw, ch := w, h
	if g.HasWidth {
		cw = round(g.Width)
		if g.Percent {
			cw = round(float64(w) * g.Width / 100)
		}
	}
	if g.HasHeight {
		ch = round(g.Height)
		if g.Percent {
			ch = round(float64(h) * g.Height / 100)
		}
	} else if g.Percent && g.HasWidth {
		ch = round(float64(h) * g.Width / 100)
	}
	r := Rect{X: g.X, Y: g.Y, Width: cw, Height: ch}.Intersect(Rect{Width: w, Height: h})
	if r.Empty() {
		return Rect{}, errs.Value(opGeometry, "crop geometry misses the %dx%d image", w, h)
	}
	return r, nil
}

func round(v float64) int {
	return max(int(math.Floor(v+0.5)), 1)
}
