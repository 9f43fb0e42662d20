package text

import (
	"image"
	"image/color"
	"strings"
	"sync"

	"github.com/go-text/typesetting/di"
	gotext "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"

	"github.com/gogpu/pixel/geometry"
)

// minFitSize is the smallest em size tried when fitting text to a box.
const minFitSize = 4

// Typesetter shapes, wraps and rasterizes captions.
//
// Typesetter is safe for concurrent use. Parsed fonts are cached; HarfBuzz
// shapers are pooled because a single shaper is not concurrent-safe.
type Typesetter struct {
	fonts   *fontCache
	shapers sync.Pool
}

// NewTypesetter returns a Typesetter with an empty font cache.
func NewTypesetter() *Typesetter {
	return &Typesetter{
		fonts: newFontCache(),
		shapers: sync.Pool{
			New: func() any { return &shaping.HarfbuzzShaper{} },
		},
	}
}

// Line is one wrapped line of a layout.
type Line struct {
	Text  string
	Width float64
}

// Layout is the result of fitting text into a box.
type Layout struct {
	Size       float64
	LineHeight int
	Ascent     int
	Lines      []Line
	RTL        bool
}

// Height returns the total block height in pixels.
func (l *Layout) Height() int { return l.LineHeight * len(l.Lines) }

// Width returns the widest line in pixels.
func (l *Layout) Width() float64 {
	w := 0.0
	for _, ln := range l.Lines {
		w = max(w, ln.Width)
	}
	return w
}

// Layout wraps s to maxWidth at the font's size, or at the largest size
// that fits maxWidth x maxHeight when f.Size is zero.
func (t *Typesetter) Layout(s string, f *Font, maxWidth, maxHeight int) (*Layout, error) {
	if f == nil {
		return nil, errors.New("text: nil font")
	}
	p, err := t.fonts.get(f.Data)
	if err != nil {
		return nil, err
	}
	rtl := isRTL(s)
	if f.Size > 0 {
		return t.layout(p, s, f.Size, maxWidth, rtl)
	}
	for size := float64(max(maxHeight, minFitSize)); ; size = max(size-max(1, size/10), minFitSize) {
		l, err := t.layout(p, s, size, maxWidth, rtl)
		if err != nil {
			return nil, err
		}
		if size <= minFitSize || (l.Height() <= maxHeight && l.Width() <= float64(maxWidth)) {
			return l, nil
		}
	}
}

func (t *Typesetter) layout(p *parsed, s string, size float64, maxWidth int, rtl bool) (*Layout, error) {
	face, err := opentype.NewFace(p.draw, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, errors.Wrap(err, "text: face")
	}
	defer face.Close()
	m := face.Metrics()
	l := &Layout{Size: size, LineHeight: m.Height.Ceil(), Ascent: m.Ascent.Ceil(), RTL: rtl}

	shapeFace := gotext.NewFace(p.shape)
	measure := func(line string) float64 {
		return fixedToFloat(t.shape(shapeFace, line, size, rtl).Advance)
	}
	for para := range strings.SplitSeq(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			l.Lines = append(l.Lines, Line{})
			continue
		}
		cur := words[0]
		for _, w := range words[1:] {
			next := cur + " " + w
			if maxWidth > 0 && measure(next) > float64(maxWidth) {
				l.Lines = append(l.Lines, Line{Text: cur, Width: measure(cur)})
				cur = w
				continue
			}
			cur = next
		}
		l.Lines = append(l.Lines, Line{Text: cur, Width: measure(cur)})
	}
	return l, nil
}

func (t *Typesetter) shape(face *gotext.Face, s string, size float64, rtl bool) shaping.Output {
	runes := []rune(s)
	dir := di.DirectionLTR
	if rtl {
		dir = di.DirectionRTL
	}
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: dir,
		Face:      face,
		Size:      fixed.Int26_6(size * 64),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}
	hb := t.shapers.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	t.shapers.Put(hb)
	return out
}

// Render draws s into box on dst, aligned by gravity. An undefined
// gravity aligns to the top and to the start of the paragraph direction.
func (t *Typesetter) Render(dst draw.Image, box image.Rectangle, s string, f *Font, g geometry.Gravity) error {
	if f == nil {
		return errors.New("text: nil font")
	}
	if s == "" || box.Empty() {
		return nil
	}
	l, err := t.Layout(s, f, box.Dx(), box.Dy())
	if err != nil {
		return err
	}
	p, err := t.fonts.get(f.Data)
	if err != nil {
		return err
	}
	face, err := opentype.NewFace(p.draw, &opentype.FaceOptions{Size: l.Size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return errors.Wrap(err, "text: face")
	}
	defer face.Close()

	if g == geometry.GravityUndefined {
		g = geometry.NorthWest
		if l.RTL {
			g = geometry.NorthEast
		}
	}

	mask := image.NewAlpha(image.Rect(0, 0, box.Dx(), box.Dy()))
	shapeFace := gotext.NewFace(p.shape)
	_, top := g.Offset(box.Dx(), box.Dy(), 0, l.Height())
	for i, ln := range l.Lines {
		if ln.Text == "" {
			continue
		}
		left, _ := g.Offset(box.Dx(), box.Dy(), int(ln.Width+0.5), 0)
		baseline := top + i*l.LineHeight + l.Ascent
		runes := []rune(ln.Text)
		out := t.shape(shapeFace, ln.Text, l.Size, l.RTL)
		drawn := make(map[int]bool, len(out.Glyphs))
		pen := fixed.I(left)
		for _, gl := range out.Glyphs {
			cluster := gl.TextIndex()
			if !drawn[cluster] && cluster < len(runes) {
				drawn[cluster] = true
				dot := fixed.Point26_6{X: pen + gl.XOffset, Y: fixed.I(baseline) - gl.YOffset}
				dr, gmask, maskp, _, ok := face.Glyph(dot, runes[cluster])
				if ok {
					draw.DrawMask(mask, dr, image.Opaque, image.Point{}, gmask, maskp, draw.Over)
				}
			}
			pen += gl.Advance
		}
	}

	if !f.Antialias {
		for i, a := range mask.Pix {
			if a >= 0x80 {
				mask.Pix[i] = 0xff
			} else {
				mask.Pix[i] = 0
			}
		}
	}
	var col color.Color = color.Black
	if f.Color != nil {
		col = f.Color
	}
	draw.DrawMask(dst, box, image.NewUniform(col), image.Point{}, mask, image.Point{}, draw.Over)
	return nil
}

// isRTL reports whether the paragraph starts with a right-to-left run.
func isRTL(s string) bool {
	var p bidi.Paragraph
	if _, err := p.SetString(s, bidi.DefaultDirection(bidi.Neutral)); err != nil {
		return false
	}
	ordering, err := p.Order()
	if err != nil || ordering.NumRuns() == 0 {
		return false
	}
	run := ordering.Run(0)
	return run.Direction() == bidi.RightToLeft
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
