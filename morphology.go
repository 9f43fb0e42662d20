package pixel

import (
	"github.com/gogpu/pixel/internal/errs"
	"github.com/gogpu/pixel/internal/filter"
	pimage "github.com/gogpu/pixel/internal/image"
)

// Kernel is a parsed structuring element list for Morphology. It is
// immutable once parsed and may be shared between images.
type Kernel struct {
	text    string
	kernels []*filter.Kernel
}

// ParseKernel parses a kernel description: a built-in shape such as
// "disk:3", "diamond", "ring:2,4" or "euclidean:4", or a literal matrix
// "WxH[+X+Y]: v,v,..." or "N: v,v,...". Several kernels may be joined with
// ';'. Elements written "-" or "nan" are ignored by morphology.
func ParseKernel(text string) (*Kernel, error) {
	ks, err := filter.ParseKernel(text)
	if err != nil {
		return nil, err
	}
	return &Kernel{text: text, kernels: ks}, nil
}

// String returns the text the kernel was parsed from.
func (k *Kernel) String() string { return k.text }

// Len returns the number of kernels in the list.
func (k *Kernel) Len() int { return len(k.kernels) }

// Size returns the width and height of the i-th kernel.
func (k *Kernel) Size(i int) (int, int) { return k.kernels[i].Width, k.kernels[i].Height }

// MorphologyMethod selects a morphology operation.
type MorphologyMethod uint8

// Morphology methods.
const (
	MorphologyErode      = MorphologyMethod(filter.Erode)
	MorphologyDilate     = MorphologyMethod(filter.Dilate)
	MorphologyOpen       = MorphologyMethod(filter.Open)
	MorphologyClose      = MorphologyMethod(filter.Close)
	MorphologySmooth     = MorphologyMethod(filter.Smooth)
	MorphologyThinning   = MorphologyMethod(filter.Thinning)
	MorphologyThicken    = MorphologyMethod(filter.Thicken)
	MorphologyDistance   = MorphologyMethod(filter.Distance)
	MorphologyHitAndMiss = MorphologyMethod(filter.HitAndMiss)
)

var morphologyAliases = map[string]MorphologyMethod{
	"hitmiss":   MorphologyHitAndMiss,
	"hitormiss": MorphologyHitAndMiss,
	"thin":      MorphologyThinning,
}

func (m MorphologyMethod) String() string { return filter.Method(m).String() }

// ParseMorphologyMethod looks up a method by name.
func ParseMorphologyMethod(name string) (MorphologyMethod, error) {
	if m, ok := filter.ParseMethod(name); ok {
		return MorphologyMethod(m), nil
	}
	names := make([]string, MorphologyHitAndMiss+1)
	for m := range names {
		names[m] = MorphologyMethod(m).String()
	}
	return parseEnum("morphology", "morphology method", name, names, morphologyAliases)
}

// Morphology applies method to the non-alpha channels with the given
// kernel, which may be kernel text, a Kernel or a *Kernel. Any other kind
// fails with ErrArgumentKind. Iterations below zero repeat until the
// image stops changing; zero leaves the image as it is.
func (im *Image) Morphology(method MorphologyMethod, kernel any, iterations int) error {
	const op = "morphology"
	if method > MorphologyHitAndMiss {
		return errs.Value(op, "unknown morphology method %d", method)
	}
	var ks []*filter.Kernel
	switch k := kernel.(type) {
	case string:
		parsed, err := ParseKernel(k)
		if err != nil {
			return err
		}
		ks = parsed.kernels
	case *Kernel:
		if k == nil {
			return errs.Kind(op, "nil kernel")
		}
		ks = k.kernels
	case Kernel:
		ks = k.kernels
	default:
		return errs.Kind(op, "kernel must be text or *Kernel, got %T", kernel)
	}
	if len(ks) == 0 {
		return errs.Value(op, "empty kernel")
	}
	if iterations == 0 {
		return nil
	}
	mask, err := im.model.mask(op, DefaultChannels)
	if err != nil {
		return err
	}
	Logger().Debug("pixel: morphology", "method", method, "kernels", len(ks), "iterations", iterations)
	im.applyPlane(mask, func(src *pimage.Floats, mask filter.Mask) *pimage.Floats {
		return filter.Morphology(src, filter.Method(method), ks, iterations, mask, im.workers())
	})
	return nil
}
