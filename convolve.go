package pixel

import (
	"math"

	"github.com/gogpu/pixel/internal/errs"
	"github.com/gogpu/pixel/internal/filter"
	pimage "github.com/gogpu/pixel/internal/image"
	"github.com/gogpu/pixel/internal/parallel"
)

// applyPlane decodes the image, runs fn over the selected channels and
// stores the result. All validation must happen before applyPlane.
func (im *Image) applyPlane(mask filter.Mask, fn func(src *pimage.Floats, mask filter.Mask) *pimage.Floats) {
	im.commit(fn(im.floats(), mask))
}

// checkGaussian validates the radius and sigma of the Gaussian family:
// both finite, radius non-negative and sigma positive.
func checkGaussian(op string, radius, sigma float64) error {
	if err := errs.Numbers(op, "radius", radius, "sigma", sigma); err != nil {
		return err
	}
	if sigma <= 0 {
		return errs.Kind(op, "sigma must be positive, got %v", sigma)
	}
	if radius < 0 {
		return errs.Value(op, "radius must not be negative, got %v", radius)
	}
	return nil
}

// Blur convolves the selected channels with a separable Gaussian. A zero
// radius derives the kernel size from sigma.
func (im *Image) Blur(radius, sigma float64, ch Channels) error {
	const op = "blur"
	if err := checkGaussian(op, radius, sigma); err != nil {
		return err
	}
	mask, err := im.model.mask(op, ch)
	if err != nil {
		return err
	}
	im.applyPlane(mask, func(src *pimage.Floats, mask filter.Mask) *pimage.Floats {
		return filter.GaussianBlur(src, radius, sigma, mask, im.workers())
	})
	return nil
}

// GaussianBlur convolves the selected channels with a full 2D Gaussian
// kernel.
func (im *Image) GaussianBlur(radius, sigma float64, ch Channels) error {
	const op = "gaussian_blur"
	if err := checkGaussian(op, radius, sigma); err != nil {
		return err
	}
	mask, err := im.model.mask(op, ch)
	if err != nil {
		return err
	}
	k := filter.Gaussian2D(radius, sigma)
	im.applyPlane(mask, func(src *pimage.Floats, mask filter.Mask) *pimage.Floats {
		return filter.Convolve(src, k, 0, mask, im.workers())
	})
	return nil
}

// Sharpen convolves with a negated Gaussian plus twice the identity.
func (im *Image) Sharpen(radius, sigma float64, ch Channels) error {
	const op = "sharpen"
	if err := checkGaussian(op, radius, sigma); err != nil {
		return err
	}
	mask, err := im.model.mask(op, ch)
	if err != nil {
		return err
	}
	k := filter.SharpenKernel(radius, sigma)
	im.applyPlane(mask, func(src *pimage.Floats, mask filter.Mask) *pimage.Floats {
		return filter.Convolve(src, k, 0, mask, im.workers())
	})
	return nil
}

// UnsharpMask adds amount times the difference between the image and its
// Gaussian blur wherever that difference is at least threshold.
func (im *Image) UnsharpMask(radius, sigma, amount, threshold float64, ch Channels) error {
	const op = "unsharp_mask"
	if err := checkGaussian(op, radius, sigma); err != nil {
		return err
	}
	if err := errs.Numbers(op, "amount", amount, "threshold", threshold); err != nil {
		return err
	}
	mask, err := im.model.mask(op, ch)
	if err != nil {
		return err
	}
	im.applyPlane(mask, func(src *pimage.Floats, mask filter.Mask) *pimage.Floats {
		blur := filter.GaussianBlur(src, radius, sigma, mask, im.workers())
		for i, v := range src.Pix {
			if !mask.Has(i % src.C) {
				continue
			}
			d := v - blur.Pix[i]
			if math.Abs(d) >= threshold {
				blur.Pix[i] = v + amount*d
			} else {
				blur.Pix[i] = v
			}
		}
		return blur
	})
	return nil
}

// Edge highlights edges with a Laplacian kernel of the given radius.
func (im *Image) Edge(radius float64) error {
	const op = "edge"
	if err := errs.Number(op, "radius", radius); err != nil {
		return err
	}
	if radius < 0 {
		return errs.Value(op, "radius must not be negative, got %v", radius)
	}
	mask := im.model.defaultMask()
	k := filter.EdgeKernel(radius)
	im.applyPlane(mask, func(src *pimage.Floats, mask filter.Mask) *pimage.Floats {
		return filter.Convolve(src, k, 0, mask, im.workers())
	})
	return nil
}

// Emboss relief-filters the image with a directional Gaussian kernel.
// Flat areas come out mid gray.
func (im *Image) Emboss(radius, sigma float64) error {
	const op = "emboss"
	if err := checkGaussian(op, radius, sigma); err != nil {
		return err
	}
	mask := im.model.defaultMask()
	k := filter.EmbossKernel(radius, sigma)
	im.applyPlane(mask, func(src *pimage.Floats, mask filter.Mask) *pimage.Floats {
		return filter.Convolve(src, k, 0.5, mask, im.workers())
	})
	return nil
}

// Convolve applies user kernels given as text, one after another. See
// ParseKernel for the syntax.
func (im *Image) Convolve(kernel string, bias float64, ch Channels) error {
	const op = "convolve"
	if err := errs.Number(op, "bias", bias); err != nil {
		return err
	}
	ks, err := filter.ParseKernel(kernel)
	if err != nil {
		return err
	}
	mask, err := im.model.mask(op, ch)
	if err != nil {
		return err
	}
	im.applyPlane(mask, func(src *pimage.Floats, mask filter.Mask) *pimage.Floats {
		for _, k := range ks {
			src = filter.Convolve(src, k, bias, mask, im.workers())
		}
		return src
	})
	return nil
}

// Despeckle reduces speckle noise with a 3x3 median, preserving edges.
func (im *Image) Despeckle() {
	mask := im.model.defaultMask()
	im.applyPlane(mask, func(src *pimage.Floats, mask filter.Mask) *pimage.Floats {
		return filter.Median(src, 1, mask, im.workers())
	})
}

// enhanceWeights is the 5x5 weighting used by Enhance.
var enhanceWeights = [5][5]float64{
	{5, 8, 10, 8, 5},
	{8, 20, 40, 20, 8},
	{10, 40, 80, 40, 10},
	{8, 20, 40, 20, 8},
	{5, 8, 10, 8, 5},
}

// enhanceThreshold is the color distance above which a neighbor is left
// out of the Enhance average.
const enhanceThreshold = 0.1

// Enhance denoises with a weighted 5x5 average over neighbors whose color
// is close to the center pixel.
func (im *Image) Enhance() {
	src := im.floats()
	dst := pimage.NewFloats(src.W, src.H, src.C)
	c := src.C
	parallel.Rows(im.workers(), src.H, func(y0, y1 int) {
		acc := make([]float64, c)
		for y := y0; y < y1; y++ {
			for x := 0; x < src.W; x++ {
				center := src.Pixel(x, y)
				clear(acc)
				total := 0.0
				for v := -2; v <= 2; v++ {
					for u := -2; u <= 2; u++ {
						px := src.Pixel(clampIndex(x+u, src.W), clampIndex(y+v, src.H))
						d := 0.0
						for i := range c {
							d += (px[i] - center[i]) * (px[i] - center[i])
						}
						if math.Sqrt(d/float64(c)) > enhanceThreshold {
							continue
						}
						w := enhanceWeights[v+2][u+2]
						for i := range c {
							acc[i] += w * px[i]
						}
						total += w
					}
				}
				out := dst.Pixel(x, y)
				for i := range c {
					out[i] = acc[i] / total
				}
			}
		}
	})
	im.commit(dst)
}

func clampIndex(v, n int) int {
	return min(max(v, 0), n-1)
}

// Shade lights the image as a relief map from the light direction given by
// azimuth and elevation in degrees. With gray the result is the shading
// alone; otherwise the shading scales the colors.
func (im *Image) Shade(gray bool, azimuth, elevation float64) error {
	const op = "shade"
	if err := errs.Numbers(op, "azimuth", azimuth, "elevation", elevation); err != nil {
		return err
	}
	az, el := azimuth*math.Pi/180, elevation*math.Pi/180
	lx, ly, lz := math.Cos(az)*math.Cos(el), math.Sin(az)*math.Cos(el), math.Sin(el)

	rgba := im.rgba()
	w, h := rgba.W, rgba.H
	lum := make([]float64, w*h)
	for i := range lum {
		p := rgba.Pix[i*4 : i*4+4]
		lum[i] = (p[0] + p[1] + p[2]) / 3
	}
	at := func(x, y int) float64 { return lum[clampIndex(y, h)*w+clampIndex(x, w)] }

	parallel.Rows(im.workers(), h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := range w {
				nx := at(x-1, y-1) + at(x-1, y) + at(x-1, y+1) - at(x+1, y-1) - at(x+1, y) - at(x+1, y+1)
				ny := at(x-1, y+1) + at(x, y+1) + at(x+1, y+1) - at(x-1, y-1) - at(x, y-1) - at(x+1, y-1)
				const nz = 2.0
				shade := lz
				if nx != 0 || ny != 0 {
					shade = 0
					if d := nx*lx + ny*ly + nz*lz; d > 1e-12 {
						shade = d / math.Sqrt(nx*nx+ny*ny+nz*nz)
					}
				}
				p := rgba.Pix[(y*w+x)*4 : (y*w+x)*4+4]
				for i := range 3 {
					if gray {
						p[i] = shade
					} else {
						p[i] *= shade
					}
				}
			}
		}
	})
	im.fromRGBA(rgba)
	return nil
}

// Vignette softens the image into the background color outside an
// ellipse inset by x and y pixels, blurring the transition with radius
// and sigma.
func (im *Image) Vignette(radius, sigma float64, x, y int) error {
	const op = "vignette"
	if err := checkGaussian(op, radius, sigma); err != nil {
		return err
	}
	w, h := im.Size()
	mask := pimage.NewFloats(w, h, 1)
	cx, cy := float64(w)/2, float64(h)/2
	rx, ry := math.Max(cx-float64(x), 0.5), math.Max(cy-float64(y), 0.5)
	for j := range h {
		for i := range w {
			dx, dy := (float64(i)+0.5-cx)/rx, (float64(j)+0.5-cy)/ry
			if dx*dx+dy*dy <= 1 {
				mask.Pix[j*w+i] = 1
			}
		}
	}
	mask = filter.GaussianBlur(mask, radius, sigma, nil, im.workers())

	bg := im.meta.background.rgba()
	rgba := im.rgba()
	for i, m := range mask.Pix {
		p := rgba.Pix[i*4 : i*4+4]
		for c := range 4 {
			p[c] = bg[c] + (p[c]-bg[c])*m
		}
	}
	im.fromRGBA(rgba)
	return nil
}
