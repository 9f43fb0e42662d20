package pixel

import (
	"github.com/gogpu/pixel/internal/errs"
	"github.com/gogpu/pixel/internal/fx"
	"github.com/gogpu/pixel/internal/parallel"
)

// fxNames maps expression channel letters to the model's slots.
func (m ColorModel) fxNames() map[byte]int {
	names := make(map[byte]int, 8)
	set := func(letter byte, c Channel) {
		if i := m.Index(c); i >= 0 {
			names[letter] = i
		}
	}
	if m.IsGray() {
		g := m.Index(GrayChannel)
		names['r'], names['g'], names['b'] = g, g, g
	}
	set('r', RedChannel)
	set('g', GreenChannel)
	set('b', BlueChannel)
	set('a', AlphaChannel)
	set('c', CyanChannel)
	set('m', MagentaChannel)
	set('y', YellowChannel)
	set('k', BlackChannel)
	return names
}

// Fx evaluates expr once per pixel and selected channel and returns the
// result as a new image; im is not modified. Unselected channels are
// copied. A malformed expression or a division by zero fails the whole
// operation.
func (im *Image) Fx(expr string, ch Channels) (*Image, error) {
	const op = "fx"
	mask, err := im.model.mask(op, ch)
	if err != nil {
		return nil, err
	}
	prog, err := fx.Parse(expr)
	if err != nil {
		return nil, errs.Failed(op, err)
	}

	src := im.floats()
	dst := src.Clone()
	names := im.model.fxNames()
	pixelAt := func(x, y int) []float64 {
		return src.Pixel(clampIndex(x, src.W), clampIndex(y, src.H))
	}
	err = parallel.Each(im.workers(), src.H, func(y int) error {
		env := &fx.Env{W: src.W, H: src.H, J: y, Names: names, Pixel: pixelAt}
		for x := range src.W {
			env.I = x
			out := dst.Pixel(x, y)
			for c := range out {
				if !mask.Has(c) {
					continue
				}
				env.Channel = c
				v, err := prog.Eval(env)
				if err != nil {
					return err
				}
				out[c] = v
			}
		}
		return nil
	})
	if err != nil {
		return nil, errs.Failed(op, err)
	}
	res := im.Clone()
	res.commit(dst)
	return res, nil
}
