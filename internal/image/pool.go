package image

import "sync"

// Pool recycles Floats planes of identical shape. Convolution passes use it
// for their intermediate planes.
//
// Thread safety: all methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*Floats
	maxSize int
}

type poolKey struct {
	w, h, c int
}

// NewPool creates a pool retaining at most maxPerBucket planes per shape.
// Zero means unlimited.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]*Floats),
		maxSize: maxPerBucket,
	}
}

// Get returns a zeroed plane of the given shape.
func (p *Pool) Get(w, h, c int) *Floats {
	key := poolKey{w, h, c}
	p.mu.Lock()
	bucket := p.buckets[key]
	if n := len(bucket); n > 0 {
		f := bucket[n-1]
		p.buckets[key] = bucket[:n-1]
		p.mu.Unlock()
		clear(f.Pix)
		return f
	}
	p.mu.Unlock()
	return NewFloats(w, h, c)
}

// Put returns a plane to the pool. Nil planes are ignored.
func (p *Pool) Put(f *Floats) {
	if f == nil {
		return
	}
	key := poolKey{f.W, f.H, f.C}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.maxSize > 0 && len(p.buckets[key]) >= p.maxSize {
		return
	}
	p.buckets[key] = append(p.buckets[key], f)
}

// Len returns the number of planes currently held.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, b := range p.buckets {
		n += len(b)
	}
	return n
}

var defaultPool = NewPool(4)

// GetFloats takes a plane from the shared pool.
func GetFloats(w, h, c int) *Floats { return defaultPool.Get(w, h, c) }

// PutFloats returns a plane to the shared pool.
func PutFloats(f *Floats) { defaultPool.Put(f) }
