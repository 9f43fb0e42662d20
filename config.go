package pixel

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/pixel/internal/errs"
	pimage "github.com/gogpu/pixel/internal/image"
	"github.com/gogpu/pixel/text"
)

// Config holds engine settings shared by the images created with it.
// A Config is read, never written, by operators; share one between images
// freely but do not mutate it while they are in use.
type Config struct {
	// Depth is the default storage depth in bits: 8, 16 or 32 (float).
	Depth int `yaml:"depth"`

	// Background fills new canvases and areas uncovered by geometry
	// operators.
	Background Color `yaml:"background"`

	// Filter is the default resampling filter for Resize and Resample.
	Filter ResizeFilter `yaml:"filter"`

	// Workers bounds the goroutines used for one operator. Zero means
	// GOMAXPROCS; one runs everything on the calling goroutine.
	Workers int `yaml:"workers"`

	// Fuzz is the default color distance, in [0, 1], under which two
	// colors count as equal.
	Fuzz float64 `yaml:"fuzz"`

	// Resolution is recorded on new images for encoders.
	Resolution Resolution `yaml:"resolution"`

	// VirtualPixel decides what distortions read outside the image.
	VirtualPixel VirtualPixel `yaml:"virtual_pixel"`

	// LiquidRescaler performs content-aware resizing. Nil disables
	// LiquidRescale.
	LiquidRescaler LiquidRescaler `yaml:"-"`

	// Typesetter rasterizes captions. Nil disables Caption.
	Typesetter Typesetter `yaml:"-"`
}

// Resolution is a physical pixel density.
type Resolution struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Units Units   `yaml:"units"`
}

// DefaultConfig returns the settings used when no Config is given:
// 8-bit depth, white background, Lanczos resampling, edge virtual pixels,
// the built-in seam carver and the go-text typesetter.
func DefaultConfig() *Config {
	return &Config{
		Depth:          8,
		Background:     White,
		Filter:         FilterLanczos,
		Resolution:     Resolution{X: 72, Y: 72, Units: PixelsPerInch},
		VirtualPixel:   VirtualEdge,
		LiquidRescaler: SeamCarver{},
		Typesetter:     text.NewTypesetter(),
	}
}

var defaultConfig = DefaultConfig()

// LoadConfig reads a YAML document over DefaultConfig. Keys not present
// keep their defaults; delegates are never read from YAML.
//
// Example document:
//
//	depth: 16
//	background: "#00000000"
//	filter: mitchell
//	workers: 4
//	fuzz: 0.02
//	resolution: {x: 300, y: 300, units: pixels_per_inch}
//	virtual_pixel: mirror
func LoadConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errs.Value("config", "%v", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	Logger().Info("pixel: config loaded",
		"depth", cfg.Depth, "filter", cfg.Filter.String(), "workers", cfg.Workers)
	return cfg, nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	const op = "config"
	if _, ok := pimage.DepthForBits(c.Depth); !ok {
		return errs.Value(op, "depth must be 8, 16 or 32, got %d", c.Depth)
	}
	if c.Workers < 0 {
		return errs.Value(op, "workers must not be negative, got %d", c.Workers)
	}
	if err := errs.Numbers(op, "fuzz", c.Fuzz, "resolution.x", c.Resolution.X, "resolution.y", c.Resolution.Y); err != nil {
		return err
	}
	if c.Fuzz < 0 || c.Fuzz > 1 {
		return errs.Value(op, "fuzz must be in [0,1], got %v", c.Fuzz)
	}
	if c.Resolution.X < 0 || c.Resolution.Y < 0 {
		return errs.Value(op, "resolution must not be negative")
	}
	return nil
}

func (c *Config) depth() Depth {
	d, ok := pimage.DepthForBits(c.Depth)
	if !ok {
		return Depth8
	}
	return d
}

// Units qualifies a resolution.
type Units uint8

// Resolution units.
const (
	UnitsUndefined Units = iota
	PixelsPerInch
	PixelsPerCentimeter
)

var unitNames = []string{"undefined", "pixels_per_inch", "pixels_per_centimeter"}

// String returns the units name.
func (u Units) String() string { return enumName(unitNames, int(u)) }

// ParseUnits reads a units name; "ppi" and "ppc" are accepted too.
func ParseUnits(name string) (Units, error) {
	return parseEnum("units", "resolution units", name, unitNames, map[string]Units{
		"ppi": PixelsPerInch, "inch": PixelsPerInch, "ppc": PixelsPerCentimeter, "cm": PixelsPerCentimeter,
	})
}

// UnmarshalYAML reads a units name.
func (u *Units) UnmarshalYAML(n *yaml.Node) error { return unmarshalEnum(n, ParseUnits, u) }

// VirtualPixel decides the value of samples read outside the image.
type VirtualPixel uint8

// Virtual pixel methods.
const (
	VirtualEdge VirtualPixel = iota
	VirtualBackground
	VirtualTransparent
	VirtualBlack
	VirtualWhite
	VirtualTile
	VirtualMirror
)

var virtualPixelNames = []string{"edge", "background", "transparent", "black", "white", "tile", "mirror"}

// String returns the method name.
func (v VirtualPixel) String() string { return enumName(virtualPixelNames, int(v)) }

// ParseVirtualPixel reads a virtual pixel method name.
func ParseVirtualPixel(name string) (VirtualPixel, error) {
	return parseEnum[VirtualPixel]("virtual_pixel", "virtual pixel method", name, virtualPixelNames, nil)
}

// UnmarshalYAML reads a virtual pixel method name.
func (v *VirtualPixel) UnmarshalYAML(n *yaml.Node) error {
	return unmarshalEnum(n, ParseVirtualPixel, v)
}

func unmarshalEnum[T any](n *yaml.Node, parse func(string) (T, error), dst *T) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return errs.Kind("config", "line %d: %v", n.Line, err)
	}
	v, err := parse(s)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
