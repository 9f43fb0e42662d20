package pixel

import (
	"strings"

	"github.com/gogpu/pixel/internal/errs"
	"github.com/gogpu/pixel/internal/filter"
)

// Channel names one logical sample of a pixel.
type Channel uint8

// Logical channels.
const (
	RedChannel Channel = iota
	GreenChannel
	BlueChannel
	AlphaChannel
	GrayChannel
	CyanChannel
	MagentaChannel
	YellowChannel
	BlackChannel
	IndexChannel

	channelCount
)

var channelNames = []string{"red", "green", "blue", "alpha", "gray", "cyan", "magenta", "yellow", "black", "index"}

var channelAliases = map[string]Channel{
	"r":         RedChannel,
	"g":         GreenChannel,
	"b":         BlueChannel,
	"a":         AlphaChannel,
	"o":         AlphaChannel,
	"opacity":   AlphaChannel,
	"matte":     AlphaChannel,
	"grey":      GrayChannel,
	"intensity": GrayChannel,
	"c":         CyanChannel,
	"m":         MagentaChannel,
	"y":         YellowChannel,
	"k":         BlackChannel,
	"i":         IndexChannel,
}

// String returns the channel name.
func (c Channel) String() string { return enumName(channelNames, int(c)) }

// ParseChannel reads a channel name or its one-letter short form.
func ParseChannel(name string) (Channel, error) {
	return parseEnum("channel", "channel", name, channelNames, channelAliases)
}

// Channels is a set of channels for channel-selective operators.
type Channels uint16

const (
	// DefaultChannels selects the color channels of the image's model,
	// leaving alpha untouched.
	DefaultChannels Channels = 0

	// AllChannels selects every channel the image has, alpha included.
	AllChannels Channels = 1<<channelCount - 1
)

// ChannelsOf returns the set holding cs.
func ChannelsOf(cs ...Channel) Channels {
	var s Channels
	for _, c := range cs {
		s |= 1 << c
	}
	return s
}

// Has reports whether c is in the set.
func (s Channels) Has(c Channel) bool { return s&(1<<c) != 0 }

// String lists the set as comma separated names.
func (s Channels) String() string {
	switch s {
	case DefaultChannels:
		return "default"
	case AllChannels:
		return "all"
	}
	var names []string
	for c := Channel(0); c < channelCount; c++ {
		if s.Has(c) {
			names = append(names, c.String())
		}
	}
	return strings.Join(names, ",")
}

// ParseChannels reads a comma separated channel list. "all" selects every
// channel and "default" or an empty string the model's color channels.
func ParseChannels(list string) (Channels, error) {
	switch canonicalName(list) {
	case "", "default":
		return DefaultChannels, nil
	case "all":
		return AllChannels, nil
	}
	var s Channels
	for part := range strings.SplitSeq(list, ",") {
		c, err := ParseChannel(part)
		if err != nil {
			return 0, err
		}
		s |= 1 << c
	}
	return s, nil
}

// ColorModel fixes which channels an image stores and in which order.
type ColorModel uint8

// Supported color models.
const (
	ModelRGB ColorModel = iota
	ModelRGBA
	ModelGray
	ModelGrayAlpha
	ModelCMYK
	ModelCMYKA

	modelCount
)

var modelNames = []string{"rgb", "rgba", "gray", "gray_alpha", "cmyk", "cmyka"}

var modelChannels = [modelCount][]Channel{
	ModelRGB:       {RedChannel, GreenChannel, BlueChannel},
	ModelRGBA:      {RedChannel, GreenChannel, BlueChannel, AlphaChannel},
	ModelGray:      {GrayChannel},
	ModelGrayAlpha: {GrayChannel, AlphaChannel},
	ModelCMYK:      {CyanChannel, MagentaChannel, YellowChannel, BlackChannel},
	ModelCMYKA:     {CyanChannel, MagentaChannel, YellowChannel, BlackChannel, AlphaChannel},
}

// String returns the model name.
func (m ColorModel) String() string { return enumName(modelNames, int(m)) }

// ParseColorModel reads a model name such as "rgba" or "gray_alpha".
func ParseColorModel(name string) (ColorModel, error) {
	return parseEnum("model", "color model", name, modelNames, map[string]ColorModel{
		"grey": ModelGray, "greyalpha": ModelGrayAlpha, "graya": ModelGrayAlpha,
	})
}

// Channels returns the stored channels in storage order.
func (m ColorModel) Channels() []Channel { return modelChannels[m] }

// Len returns the number of stored channels.
func (m ColorModel) Len() int { return len(modelChannels[m]) }

// HasAlpha reports whether the model stores an alpha channel.
func (m ColorModel) HasAlpha() bool {
	return m == ModelRGBA || m == ModelGrayAlpha || m == ModelCMYKA
}

// Index returns the storage slot of c, or -1 when the model lacks it.
func (m ColorModel) Index(c Channel) int {
	for i, mc := range modelChannels[m] {
		if mc == c {
			return i
		}
	}
	return -1
}

// WithAlpha returns the same model with alpha added or removed.
func (m ColorModel) WithAlpha(on bool) ColorModel {
	switch m {
	case ModelRGB, ModelRGBA:
		if on {
			return ModelRGBA
		}
		return ModelRGB
	case ModelGray, ModelGrayAlpha:
		if on {
			return ModelGrayAlpha
		}
		return ModelGray
	default:
		if on {
			return ModelCMYKA
		}
		return ModelCMYK
	}
}

// IsGray reports whether the model stores a single intensity channel.
func (m ColorModel) IsGray() bool { return m == ModelGray || m == ModelGrayAlpha }

// IsCMYK reports whether the model stores ink channels.
func (m ColorModel) IsCMYK() bool { return m == ModelCMYK || m == ModelCMYKA }

// defaultMask selects every color channel of m and leaves alpha alone.
func (m ColorModel) defaultMask() filter.Mask {
	chans := modelChannels[m]
	mask := make(filter.Mask, len(chans))
	for i, c := range chans {
		mask[i] = c != AlphaChannel
	}
	return mask
}

// mask resolves a channel set against the model. Selecting a channel the
// model does not store is a value error.
func (m ColorModel) mask(op string, s Channels) (filter.Mask, error) {
	if s == DefaultChannels {
		return m.defaultMask(), nil
	}
	mask := make(filter.Mask, len(modelChannels[m]))
	if s == AllChannels {
		for i := range mask {
			mask[i] = true
		}
		return mask, nil
	}
	for c := Channel(0); c < channelCount; c++ {
		if !s.Has(c) {
			continue
		}
		i := m.Index(c)
		if i < 0 {
			return nil, errs.Value(op, "channel %s is not part of the %s model", c, m)
		}
		mask[i] = true
	}
	return mask, nil
}

// alphaIndex returns the alpha slot or -1.
func (m ColorModel) alphaIndex() int { return m.Index(AlphaChannel) }
