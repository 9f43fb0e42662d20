package pixel

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/gogpu/pixel/internal/errs"
	pimage "github.com/gogpu/pixel/internal/image"
)

// Metric selects how Compare scores the difference of two images.
type Metric uint8

// Comparison metrics.
const (
	// MetricAbsolute counts the pixels farther apart than the config fuzz.
	MetricAbsolute Metric = iota
	// MetricFuzz is the root mean square of alpha weighted color distances.
	MetricFuzz
	MetricMeanAbsolute
	MetricMeanSquared
	MetricRootMeanSquare
	// MetricPeakAbsolute is the largest single sample difference.
	MetricPeakAbsolute
	// MetricNormalizedCrossCorrelation is reported as 1 - NCC, so equal
	// images score zero like every other metric.
	MetricNormalizedCrossCorrelation

	metricCount
)

var metricNames = []string{
	"absolute", "fuzz", "mean_absolute", "mean_squared",
	"root_mean_square", "peak_absolute", "normalized_cross_correlation",
}

var metricAliases = map[string]Metric{
	"ae":   MetricAbsolute,
	"mae":  MetricMeanAbsolute,
	"mse":  MetricMeanSquared,
	"rmse": MetricRootMeanSquare,
	"pae":  MetricPeakAbsolute,
	"ncc":  MetricNormalizedCrossCorrelation,
}

func (m Metric) String() string { return enumName(metricNames, int(m)) }

// ParseMetric looks up a metric by name or by its short form (ae, mae,
// mse, rmse, pae, ncc).
func ParseMetric(name string) (Metric, error) {
	return parseEnum("compare", "metric", name, metricNames, metricAliases)
}

// Highlight colors of the Compare difference image.
var (
	compareHighlight = Color{R: 241.0 / 255, G: 0, B: 30.0 / 255, A: 0.8}
	compareLowlight  = Color{R: 1, G: 1, B: 1, A: 0.8}
)

// Compare measures how much other differs from im under metric. Both
// images must have the same size; their models may differ. The returned
// image is a copy of im with differing pixels painted in a highlight
// color and equal pixels washed out toward white. Neither input changes.
func (im *Image) Compare(other *Image, metric Metric) (*Image, float64, error) {
	const op = "compare"
	if other == nil {
		return nil, 0, errs.Kind(op, "nil image")
	}
	if metric >= metricCount {
		return nil, 0, errs.Value(op, "unknown metric %d", metric)
	}
	if im.Width() != other.Width() || im.Height() != other.Height() {
		return nil, 0, errs.Value(op, "size %dx%d differs from %dx%d",
			other.Width(), other.Height(), im.Width(), im.Height())
	}

	a, b := im.rgba(), other.rgba()
	slots := 3
	if im.model.HasAlpha() || other.model.HasAlpha() {
		slots = 4
	}
	fuzz := im.cfg.Fuzz

	diff := im.Clone()
	plane := a.Clone()
	hi, wash := compareHighlight.rgba(), compareLowlight.rgba()
	differs := 0
	for i := 0; i < a.W*a.H; i++ {
		pa, pb := a.Pix[i*4:i*4+4], b.Pix[i*4:i*4+4]
		out := plane.Pix[i*4 : i*4+4]
		if pixelDistance(pa, pb) > fuzz+1e-9 {
			differs++
			copy(out, hi[:])
			continue
		}
		for c := range 3 {
			out[c] += (wash[c] - out[c]) * compareLowlight.A
		}
	}
	diff.fromRGBA(plane)

	var score float64
	switch metric {
	case MetricAbsolute:
		score = float64(differs)
	case MetricFuzz:
		score = fuzzDistance(a, b)
	case MetricMeanAbsolute:
		x, y := channelSamples(a, slots), channelSamples(b, slots)
		score = floats.Distance(x, y, 1) / float64(len(x))
	case MetricMeanSquared:
		x, y := channelSamples(a, slots), channelSamples(b, slots)
		d := floats.Distance(x, y, 2)
		score = d * d / float64(len(x))
	case MetricRootMeanSquare:
		x, y := channelSamples(a, slots), channelSamples(b, slots)
		d := floats.Distance(x, y, 2)
		score = math.Sqrt(d * d / float64(len(x)))
	case MetricPeakAbsolute:
		x, y := channelSamples(a, slots), channelSamples(b, slots)
		score = floats.Distance(x, y, math.Inf(1))
	case MetricNormalizedCrossCorrelation:
		score = 1 - crossCorrelation(a, b, slots)
	}
	Logger().Debug("pixel: compare", "metric", metric, "score", score, "differing", differs)
	return diff, score, nil
}

// pixelDistance is the RGBA distance of two straight pixels with the
// color difference weighted by coverage.
func pixelDistance(a, b []float64) float64 {
	var sum float64
	for c := range 3 {
		d := a[c]*a[3] - b[c]*b[3]
		sum += d * d
	}
	da := a[3] - b[3]
	return math.Sqrt((sum + da*da) / 4)
}

func fuzzDistance(a, b *pimage.Floats) float64 {
	n := a.W * a.H
	var sum float64
	for i := range n {
		d := pixelDistance(a.Pix[i*4:i*4+4], b.Pix[i*4:i*4+4])
		sum += d * d
	}
	return math.Sqrt(sum / float64(n))
}

// channelSamples flattens the first slots channels of an RGBA plane.
func channelSamples(f *pimage.Floats, slots int) []float64 {
	out := make([]float64, 0, f.W*f.H*slots)
	for i := 0; i < len(f.Pix); i += 4 {
		out = append(out, f.Pix[i:i+slots]...)
	}
	return out
}

// crossCorrelation averages the Pearson correlation of each channel. A
// channel that is constant in both images correlates fully when the
// constants match and not at all otherwise.
func crossCorrelation(a, b *pimage.Floats, slots int) float64 {
	var total float64
	for c := range slots {
		x, y := a.Channel(c).Pix, b.Channel(c).Pix
		sx, sy := stat.StdDev(x, nil), stat.StdDev(y, nil)
		switch {
		case sx == 0 && sy == 0:
			if floats.EqualApprox(x, y, 1e-12) {
				total++
			}
		case sx == 0 || sy == 0:
		default:
			total += stat.Correlation(x, y, nil)
		}
	}
	return total / float64(slots)
}

// Signature returns the hex SHA-256 of the image content quantized to
// 16-bit straight RGBA. The result does not depend on storage depth or
// color model, only on the pixels and the size.
func (im *Image) Signature() string {
	f := im.rgba()
	h := sha256.New()
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[:4], uint32(f.W))
	binary.BigEndian.PutUint32(hdr[4:], uint32(f.H))
	h.Write(hdr[:])
	row := make([]byte, f.W*8)
	for y := range f.H {
		for i, v := range f.Row(y) {
			binary.BigEndian.PutUint16(row[i*2:], uint16(clamp01(v)*65535+0.5))
		}
		h.Write(row)
	}
	return hex.EncodeToString(h.Sum(nil))
}
