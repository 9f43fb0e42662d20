package pixel

// Option configures an Image during creation.
// Use functional options to customize the new image.
//
// Example:
//
//	// 8-bit RGBA canvas filled with opaque white
//	img, err := pixel.New(800, 600)
//
//	// 16-bit grayscale canvas filled with black
//	img, err := pixel.New(800, 600,
//	    pixel.WithDepth(pixel.Depth16),
//	    pixel.WithModel(pixel.ModelGray),
//	    pixel.WithBackground(pixel.Black))
type Option func(*options)

// options holds optional configuration for Image creation.
type options struct {
	config     *Config
	depth      Depth
	hasDepth   bool
	model      ColorModel
	background *Color
	resX, resY float64
	units      Units
	colorSpace ColorSpace
}

// defaultOptions returns the default image options.
func defaultOptions() options {
	return options{
		model:      ModelRGB,
		colorSpace: SRGB,
	}
}

// WithConfig attaches cfg to the image. Operators read worker count,
// fuzz, resize filter and delegates from it. The default is DefaultConfig.
func WithConfig(cfg *Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

// WithDepth sets the storage depth, overriding Config.Depth.
func WithDepth(d Depth) Option {
	return func(o *options) {
		o.depth = d
		o.hasDepth = true
	}
}

// WithModel sets the color model. The default is ModelRGB.
func WithModel(m ColorModel) Option {
	return func(o *options) {
		o.model = m
	}
}

// WithBackground fills the new canvas with c and records it as the
// image background, overriding Config.Background.
//
// Example:
//
//	img, _ := pixel.New(64, 64, pixel.WithBackground(pixel.Transparent))
func WithBackground(c Color) Option {
	return func(o *options) {
		o.background = &c
	}
}

// WithResolution records the physical resolution carried for encoders.
func WithResolution(x, y float64, units Units) Option {
	return func(o *options) {
		o.resX, o.resY, o.units = x, y, units
	}
}

// WithColorSpace tags the image with a color space without converting it.
func WithColorSpace(cs ColorSpace) Option {
	return func(o *options) {
		o.colorSpace = cs
	}
}
