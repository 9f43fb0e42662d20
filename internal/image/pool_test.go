package image

import "testing"

func TestPoolReuse(t *testing.T) {
	p := NewPool(1)
	f := p.Get(4, 3, 2)
	f.Pix[0] = 0.5
	p.Put(f)
	p.Put(NewFloats(4, 3, 2)) // over the per-bucket limit

	if got := p.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
	g := p.Get(4, 3, 2)
	if g != f {
		t.Error("Get() did not reuse pooled plane")
	}
	if g.Pix[0] != 0 {
		t.Errorf("reused plane not cleared: %v", g.Pix[0])
	}
	if h := p.Get(1, 1, 1); h.W != 1 || len(h.Pix) != 1 {
		t.Errorf("Get(1,1,1) = %+v", h)
	}
	p.Put(nil)
}
