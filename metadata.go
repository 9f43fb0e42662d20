package pixel

import (
	"maps"
	"slices"

	"github.com/gogpu/pixel/internal/errs"
)

// Orientation is the EXIF orientation tag: where row 0 and column 0 of
// the stored samples sit in the displayed picture.
type Orientation uint8

// EXIF orientations.
const (
	OrientationUndefined Orientation = iota
	TopLeft
	TopRight
	BottomRight
	BottomLeft
	LeftTop
	RightTop
	RightBottom
	LeftBottom
)

var orientationNames = []string{
	"undefined", "top_left", "top_right", "bottom_right", "bottom_left",
	"left_top", "right_top", "right_bottom", "left_bottom",
}

// String returns the orientation name.
func (o Orientation) String() string { return enumName(orientationNames, int(o)) }

// ParseOrientation reads an orientation name.
func ParseOrientation(name string) (Orientation, error) {
	return parseEnum[Orientation]("orientation", "orientation", name, orientationNames, nil)
}

// ColorSpace returns the color space tag.
func (im *Image) ColorSpace() ColorSpace { return im.meta.colorSpace }

// Background returns the background color used to fill uncovered areas.
func (im *Image) Background() Color { return im.meta.background }

// SetBackground sets the background color. Samples are not changed.
func (im *Image) SetBackground(c Color) { im.meta.background = c }

// Matte returns the matte color used by Frame.
func (im *Image) Matte() Color { return im.meta.matte }

// SetMatte sets the matte color.
func (im *Image) SetMatte(c Color) { im.meta.matte = c }

// VirtualPixel returns the method used for reads outside the image.
func (im *Image) VirtualPixel() VirtualPixel { return im.meta.virtualPixel }

// SetVirtualPixel sets the method used for reads outside the image.
func (im *Image) SetVirtualPixel(v VirtualPixel) error {
	if int(v) >= len(virtualPixelNames) {
		return errs.Value("virtual_pixel", "unknown virtual pixel method %d", v)
	}
	im.meta.virtualPixel = v
	return nil
}

// Resolution returns the physical resolution.
func (im *Image) Resolution() Resolution { return im.meta.resolution }

// SetResolution records the physical resolution.
func (im *Image) SetResolution(r Resolution) error {
	if err := errs.Numbers("resolution", "x", r.X, "y", r.Y); err != nil {
		return err
	}
	if r.X < 0 || r.Y < 0 {
		return errs.Value("resolution", "%vx%v must not be negative", r.X, r.Y)
	}
	im.meta.resolution = r
	return nil
}

// Orientation returns the orientation tag.
func (im *Image) Orientation() Orientation { return im.meta.orientation }

// SetOrientation sets the orientation tag without moving samples.
func (im *Image) SetOrientation(o Orientation) error {
	if o > LeftBottom {
		return errs.Value("orientation", "unknown orientation %d", o)
	}
	im.meta.orientation = o
	return nil
}

// Property returns a string property such as "comment" or "label".
func (im *Image) Property(key string) (string, bool) {
	v, ok := im.meta.properties[key]
	return v, ok
}

// SetProperty sets a string property. An empty value deletes it.
func (im *Image) SetProperty(key, value string) {
	if value == "" {
		delete(im.meta.properties, key)
		return
	}
	if im.meta.properties == nil {
		im.meta.properties = make(map[string]string)
	}
	im.meta.properties[key] = value
}

// Properties returns the property keys in sorted order.
func (im *Image) Properties() []string {
	return slices.Sorted(maps.Keys(im.meta.properties))
}

// Profile returns a named profile blob (icc, exif, xmp, ...).
func (im *Image) Profile(name string) ([]byte, bool) {
	p, ok := im.meta.profiles[name]
	return p, ok
}

// SetProfile stores a named profile. A nil blob deletes it.
func (im *Image) SetProfile(name string, data []byte) {
	if data == nil {
		delete(im.meta.profiles, name)
		return
	}
	if im.meta.profiles == nil {
		im.meta.profiles = make(map[string][]byte)
	}
	im.meta.profiles[name] = slices.Clone(data)
}

// Profiles returns the profile names in sorted order.
func (im *Image) Profiles() []string {
	return slices.Sorted(maps.Keys(im.meta.profiles))
}

// Strip drops every property and profile.
func (im *Image) Strip() {
	im.meta.properties = nil
	im.meta.profiles = nil
}

// Page is the virtual canvas an image or frame is placed on. A zero
// Width or Height means the canvas is the image itself.
type Page struct {
	Width, Height int
	X, Y          int
}

// Page returns the page geometry.
func (im *Image) Page() Page { return im.meta.page }

// SetPage sets the page geometry. Canvas sizes must not be negative.
func (im *Image) SetPage(p Page) error {
	if p.Width < 0 || p.Height < 0 {
		return errs.Value("set_page", "page size %dx%d must not be negative", p.Width, p.Height)
	}
	im.meta.page = p
	return nil
}

// canvas returns the page canvas size, falling back to the image size.
func (p Page) canvas(w, h int) (int, int) {
	if p.Width > 0 {
		w = p.Width
	}
	if p.Height > 0 {
		h = p.Height
	}
	return w, h
}
