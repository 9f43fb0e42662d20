package pixel

import (
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"

	"golang.org/x/image/draw"

	"github.com/gogpu/pixel/geometry"
	"github.com/gogpu/pixel/internal/errs"
	"github.com/gogpu/pixel/internal/parallel"
)

// DisposeMethod tells a player what to do with a frame's area before the
// next frame is drawn. The values match the GIF disposal codes.
type DisposeMethod uint8

// Dispose methods.
const (
	DisposeUndefined DisposeMethod = iota
	// DisposeNone leaves the frame in place.
	DisposeNone
	// DisposeBackground clears the frame's area to transparent.
	DisposeBackground
	// DisposePrevious restores the canvas as it was before the frame.
	DisposePrevious

	disposeCount
)

var disposeNames = []string{"undefined", "none", "background", "previous"}

func (d DisposeMethod) String() string { return enumName(disposeNames, int(d)) }

// ParseDisposeMethod looks up a dispose method by name.
func ParseDisposeMethod(name string) (DisposeMethod, error) {
	return parseEnum[DisposeMethod]("dispose", "dispose method", name, disposeNames, nil)
}

// Frame is one image of a Sequence and its placement.
type Frame struct {
	Image *Image

	// Delay is the display time in hundredths of a second.
	Delay int

	// Page places the image on the sequence canvas.
	Page Page

	Dispose DisposeMethod
}

// NewFrame wraps img, taking its page geometry from the image.
func NewFrame(img *Image) *Frame {
	return &Frame{Image: img, Page: img.Page()}
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out := *f
	out.Image = f.Image.Clone()
	return &out
}

// rect is the frame's area on the canvas.
func (f *Frame) rect() geometry.Rect {
	return geometry.Rect{X: f.Page.X, Y: f.Page.Y, Width: f.Image.Width(), Height: f.Image.Height()}
}

func (f *Frame) validate(op string) error {
	if f == nil || f.Image == nil {
		return errs.Kind(op, "frame has no image")
	}
	if f.Delay < 0 {
		return errs.Value(op, "delay %d must not be negative", f.Delay)
	}
	if f.Dispose >= disposeCount {
		return errs.Value(op, "unknown dispose method %d", f.Dispose)
	}
	if f.Page.Width < 0 || f.Page.Height < 0 {
		return errs.Value(op, "page size %dx%d must not be negative", f.Page.Width, f.Page.Height)
	}
	return nil
}

// Sequence is an ordered list of frames; frame 0 is the primary image.
// A Sequence owns its frames. Cross-frame algorithms never modify the
// receiver and return a new Sequence instead.
type Sequence struct {
	frames []*Frame
}

// NewSequence returns a sequence holding frames, which it takes over.
func NewSequence(frames ...*Frame) (*Sequence, error) {
	s := &Sequence{}
	if err := s.Append(frames...); err != nil {
		return nil, err
	}
	return s, nil
}

// Len returns the number of frames.
func (s *Sequence) Len() int { return len(s.frames) }

// Frame returns frame i. Negative indices count from the end.
func (s *Sequence) Frame(i int) (*Frame, error) {
	j, ok := resolveIndex(i, len(s.frames))
	if !ok {
		return nil, errs.Range("frame", "index %d outside %d frames", i, len(s.frames))
	}
	return s.frames[j], nil
}

// Frames returns the frames in order. The slice is a copy; the frames
// are not.
func (s *Sequence) Frames() []*Frame {
	return append([]*Frame(nil), s.frames...)
}

// Append adds frames at the end. The sequence takes ownership of them;
// nothing is appended when any frame is invalid.
func (s *Sequence) Append(frames ...*Frame) error {
	for _, f := range frames {
		if err := f.validate("append"); err != nil {
			return err
		}
	}
	s.frames = append(s.frames, frames...)
	return nil
}

// AppendSequence appends deep copies of the frames of other.
func (s *Sequence) AppendSequence(other *Sequence) error {
	if other == nil {
		return errs.Kind("append", "nil sequence")
	}
	for _, f := range other.frames {
		s.frames = append(s.frames, f.Clone())
	}
	return nil
}

// Clone returns a deep copy of the sequence.
func (s *Sequence) Clone() *Sequence {
	out := &Sequence{frames: make([]*Frame, len(s.frames))}
	for i, f := range s.frames {
		out.frames[i] = f.Clone()
	}
	return out
}

// Each calls fn for every frame, running frames concurrently within the
// worker limit of the primary image's config. It returns the first error;
// frames fn already changed stay changed.
func (s *Sequence) Each(fn func(i int, f *Frame) error) error {
	if len(s.frames) == 0 {
		return nil
	}
	return parallel.Each(s.frames[0].Image.workers(), len(s.frames), func(i int) error {
		return fn(i, s.frames[i])
	})
}

// canvas returns the size of the virtual canvas: the primary frame's page
// size, or the extent of the primary frame when the page has none.
func (s *Sequence) canvas() (int, int) {
	f := s.frames[0]
	return f.Page.canvas(f.Image.Width()+max(f.Page.X, 0), f.Image.Height()+max(f.Page.Y, 0))
}

func (s *Sequence) check(op string) error {
	if len(s.frames) == 0 {
		return errs.Value(op, "empty sequence")
	}
	return nil
}

// FromGIF converts a decoded GIF into a sequence of RGBA frames keeping
// delays, disposal and frame offsets.
func FromGIF(g *gif.GIF, opts ...Option) (*Sequence, error) {
	const op = "from_gif"
	if g == nil {
		return nil, errs.Kind(op, "nil gif")
	}
	if len(g.Image) == 0 {
		return nil, errs.Value(op, "gif has no frames")
	}
	s := &Sequence{}
	opts = append([]Option{WithModel(ModelRGBA)}, opts...)
	for i, p := range g.Image {
		im, err := FromStdImage(p, opts...)
		if err != nil {
			return nil, err
		}
		b := p.Bounds()
		f := &Frame{
			Image: im,
			Page:  Page{Width: g.Config.Width, Height: g.Config.Height, X: b.Min.X, Y: b.Min.Y},
		}
		if i < len(g.Delay) {
			f.Delay = g.Delay[i]
		}
		if i < len(g.Disposal) && g.Disposal[i] < byte(disposeCount) {
			f.Dispose = DisposeMethod(g.Disposal[i])
		}
		im.meta.page = f.Page
		s.frames = append(s.frames, f)
	}
	Logger().Debug("pixel: decoded gif sequence", "frames", len(s.frames), "canvas", [2]int{g.Config.Width, g.Config.Height})
	return s, nil
}

// GIF converts the sequence into a GIF with one paletted image per frame,
// dithered onto the Plan 9 palette. Frame offsets, delays and disposal
// carry over.
func (s *Sequence) GIF() (*gif.GIF, error) {
	if err := s.check("gif"); err != nil {
		return nil, err
	}
	w, h := s.canvas()
	g := &gif.GIF{Config: image.Config{ColorModel: color.Palette(palette.Plan9), Width: w, Height: h}}
	for _, f := range s.frames {
		src := f.Image.StdImage()
		b := src.Bounds().Add(image.Pt(f.Page.X, f.Page.Y))
		dst := image.NewPaletted(b, palette.Plan9)
		draw.FloydSteinberg.Draw(dst, b, src, src.Bounds().Min)
		g.Image = append(g.Image, dst)
		g.Delay = append(g.Delay, f.Delay)
		g.Disposal = append(g.Disposal, byte(f.Dispose))
	}
	return g, nil
}
