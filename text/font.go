// Package text renders captions for the pixel engine: it shapes a string
// with HarfBuzz (go-text/typesetting), wraps it to a box, and rasterizes
// the glyphs with golang.org/x/image/font/opentype into a draw.Image.
//
// The engine only positions the box; everything inside it is done here.
package text

import (
	"bytes"
	"image/color"
	"sync"

	gotext "github.com/go-text/typesetting/font"
	"github.com/pkg/errors"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Font describes the face and paint of a caption.
type Font struct {
	// Data holds OpenType or TrueType bytes. Nil selects Go Regular.
	Data []byte

	// Size is the em size in pixels. Zero fits the text to its box.
	Size float64

	// Color paints the glyphs. Nil means black.
	Color color.Color

	// Antialias keeps coverage edges; when false glyph masks are
	// thresholded to hard pixels.
	Antialias bool
}

// parsed holds both views of one font file. The x/image font draws and
// the go-text font shapes; both are safe for concurrent reads.
type parsed struct {
	draw  *opentype.Font
	shape *gotext.Font
}

// fontCache keys parsed fonts by the address of their first byte, so
// repeated captions with the same Data parse once.
type fontCache struct {
	mu    sync.RWMutex
	fonts map[*byte]*parsed
}

func newFontCache() *fontCache {
	return &fontCache{fonts: make(map[*byte]*parsed)}
}

func (c *fontCache) get(data []byte) (*parsed, error) {
	if len(data) == 0 {
		data = goregular.TTF
	}
	key := &data[0]

	c.mu.RLock()
	if p, ok := c.fonts[key]; ok {
		c.mu.RUnlock()
		return p, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.fonts[key]; ok {
		return p, nil
	}

	df, err := opentype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, "text: parse font")
	}
	face, err := gotext.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "text: parse font for shaping")
	}
	p := &parsed{draw: df, shape: face.Font}
	c.fonts[key] = p
	return p, nil
}
