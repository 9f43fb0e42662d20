package pixel

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	pcolor "github.com/gogpu/pixel/internal/color"
	"github.com/gogpu/pixel/internal/errs"
	pimage "github.com/gogpu/pixel/internal/image"
)

// histogram counts the samples of one slot in f over bins evenly spaced
// levels. The second result holds the level values, ascending.
func histogram(f *pimage.Floats, slot, bins int) (counts, levels []float64) {
	counts = make([]float64, bins)
	levels = make([]float64, bins)
	n := float64(bins - 1)
	for i := range levels {
		levels[i] = float64(i) / n
	}
	for i := slot; i < len(f.Pix); i += f.C {
		counts[int(clamp01(f.Pix[i])*n+0.5)]++
	}
	return counts, levels
}

// histogramBins is the number of levels used for histogram operators.
func (im *Image) histogramBins() int {
	return int(im.integerQuantum()) + 1
}

// stretchSlot linearly maps [lo, hi] of one slot onto [0, 1].
func stretchSlot(f *pimage.Floats, slot int, lo, hi float64) {
	if hi <= lo {
		return
	}
	for i := slot; i < len(f.Pix); i += f.C {
		f.Pix[i] = clamp01((f.Pix[i] - lo) / (hi - lo))
	}
}

// Normalize stretches each selected channel so its darkest sample becomes
// 0 and its brightest 1. Constant channels are left alone.
func (im *Image) Normalize(ch Channels) error {
	mask, err := im.model.mask("normalize", ch)
	if err != nil {
		return err
	}
	f := im.floats()
	for s := range f.C {
		if !mask.Has(s) {
			continue
		}
		plane := f.Channel(s).Pix
		stretchSlot(f, s, floats.Min(plane), floats.Max(plane))
	}
	im.commit(f)
	return nil
}

// Equalize flattens the histogram of each selected channel.
func (im *Image) Equalize(ch Channels) error {
	mask, err := im.model.mask("equalize", ch)
	if err != nil {
		return err
	}
	f := im.floats()
	bins := im.histogramBins()
	n := float64(bins - 1)
	for s := range f.C {
		if !mask.Has(s) {
			continue
		}
		counts, _ := histogram(f, s, bins)
		cdf := floats.CumSum(make([]float64, bins), counts)
		lo := cdf[0]
		for _, c := range cdf {
			if c > 0 {
				lo = c
				break
			}
		}
		total := cdf[bins-1]
		if total == lo {
			continue
		}
		for i := s; i < len(f.Pix); i += f.C {
			c := cdf[int(clamp01(f.Pix[i])*n+0.5)]
			f.Pix[i] = clamp01((c - lo) / (total - lo))
		}
	}
	im.commit(f)
	return nil
}

// checkStretch validates black and white clip fractions.
func checkStretch(op string, black, white float64) error {
	if err := errs.Numbers(op, "black", black, "white", white); err != nil {
		return err
	}
	if black < 0 || white < 0 || black+white > 1 {
		return errs.Value(op, "clip fractions %v and %v must be non-negative and sum to at most 1", black, white)
	}
	return nil
}

// stretchBounds returns the levels below which black of the samples fall
// and above which white of them fall.
func stretchBounds(counts, levels []float64, black, white float64) (float64, float64) {
	lo := stat.Quantile(black, stat.Empirical, levels, counts)
	hi := stat.Quantile(1-white, stat.Empirical, levels, counts)
	return lo, hi
}

// ContrastStretch clips the darkest black and brightest white fractions of
// each selected channel and stretches the rest over the full range.
func (im *Image) ContrastStretch(black, white float64, ch Channels) error {
	const op = "contrast_stretch"
	if err := checkStretch(op, black, white); err != nil {
		return err
	}
	mask, err := im.model.mask(op, ch)
	if err != nil {
		return err
	}
	f := im.floats()
	bins := im.histogramBins()
	for s := range f.C {
		if !mask.Has(s) {
			continue
		}
		counts, levels := histogram(f, s, bins)
		lo, hi := stretchBounds(counts, levels, black, white)
		stretchSlot(f, s, lo, hi)
	}
	im.commit(f)
	return nil
}

// LinearStretch clips by the intensity histogram and applies the same
// linear stretch to every color channel.
func (im *Image) LinearStretch(black, white float64) error {
	const op = "linear_stretch"
	if err := checkStretch(op, black, white); err != nil {
		return err
	}
	rgba := im.rgba()
	luma := pimage.NewFloats(rgba.W, rgba.H, 1)
	for i := range luma.Pix {
		p := rgba.Pix[i*4 : i*4+3]
		luma.Pix[i] = pcolor.Luma(p[0], p[1], p[2])
	}
	counts, levels := histogram(luma, 0, im.histogramBins())
	lo, hi := stretchBounds(counts, levels, black, white)

	mask := im.model.defaultMask()
	f := im.floats()
	for s := range f.C {
		if mask.Has(s) {
			stretchSlot(f, s, lo, hi)
		}
	}
	im.commit(f)
	return nil
}
