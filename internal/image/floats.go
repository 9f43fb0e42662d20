package image

// Floats is a decoded, interleaved float64 plane. Values are nominally in
// [0,1] but intermediate results may leave that range until stored.
type Floats struct {
	W, H, C int
	Pix     []float64
}

// NewFloats allocates a zeroed plane.
func NewFloats(w, h, c int) *Floats {
	return &Floats{W: w, H: h, C: c, Pix: make([]float64, w*h*c)}
}

// Row returns the samples of row y.
func (f *Floats) Row(y int) []float64 {
	n := f.W * f.C
	return f.Pix[y*n : (y+1)*n]
}

// Pixel returns the samples of pixel (x, y). The slice aliases the plane.
func (f *Floats) Pixel(x, y int) []float64 {
	i := (y*f.W + x) * f.C
	return f.Pix[i : i+f.C]
}

// At returns sample c of pixel (x, y).
func (f *Floats) At(x, y, c int) float64 {
	return f.Pix[(y*f.W+x)*f.C+c]
}

// Set writes sample c of pixel (x, y).
func (f *Floats) Set(x, y, c int, v float64) {
	f.Pix[(y*f.W+x)*f.C+c] = v
}

// Clone returns a deep copy.
func (f *Floats) Clone() *Floats {
	out := &Floats{W: f.W, H: f.H, C: f.C, Pix: make([]float64, len(f.Pix))}
	copy(out.Pix, f.Pix)
	return out
}

// Fill sets every pixel to px.
func (f *Floats) Fill(px []float64) {
	for i := 0; i < len(f.Pix); i += f.C {
		copy(f.Pix[i:i+f.C], px)
	}
}

// Crop copies the rectangle (x, y, w, h), which must lie inside f.
func (f *Floats) Crop(x, y, w, h int) *Floats {
	out := NewFloats(w, h, f.C)
	for j := 0; j < h; j++ {
		src := f.Row(y + j)[x*f.C : (x+w)*f.C]
		copy(out.Row(j), src)
	}
	return out
}

// Paste copies src into f with its origin at (x, y), clipping to f.
// Channel counts must match.
func (f *Floats) Paste(src *Floats, x, y int) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+src.W, f.W), min(y+src.H, f.H)
	if x0 >= x1 || y0 >= y1 {
		return
	}
	for j := y0; j < y1; j++ {
		d := f.Row(j)[x0*f.C : x1*f.C]
		s := src.Row(j - y)[(x0-x)*f.C : (x1-x)*f.C]
		copy(d, s)
	}
}

// Channel extracts one channel as a single-channel plane.
func (f *Floats) Channel(c int) *Floats {
	out := NewFloats(f.W, f.H, 1)
	for i := range out.Pix {
		out.Pix[i] = f.Pix[i*f.C+c]
	}
	return out
}

// SetChannel writes a single-channel plane into channel c.
func (f *Floats) SetChannel(c int, src *Floats) {
	for i, v := range src.Pix {
		f.Pix[i*f.C+c] = v
	}
}
