package param

import (
	"fmt"

	"github.com/arloliu/pod/builder"
	"github.com/arloliu/pod/errs"
	"github.com/arloliu/pod/format"
	"github.com/arloliu/pod/parser"
	"github.com/arloliu/pod/value"
)

// ParseFormat returns the media type and subtype of a Format object.
func ParseFormat(p parser.Pod) (format.MediaType, format.MediaSubtype, error) {
	obj, err := formatObject(p)
	if err != nil {
		return 0, 0, err
	}

	mediaType, err := idProp(obj, format.FormatMediaType, true)
	if err != nil {
		return 0, 0, err
	}
	subtype, err := idProp(obj, format.FormatMediaSubtype, true)
	if err != nil {
		return 0, 0, err
	}

	return format.MediaType(mediaType), format.MediaSubtype(subtype), nil
}

// AudioInfoRaw describes a raw audio format.
// Zero fields are left out when building and mean "unset" after parsing.
type AudioInfoRaw struct {
	Format   format.AudioFormat
	Flags    format.AudioFlags
	Rate     uint32
	Channels uint32
	Position []format.AudioChannel
}

// Build appends an audio/raw Format object for parameter id.
// Position is written unless the format is flagged unpositioned.
func (a AudioInfoRaw) Build(b *builder.Builder, id format.ParamID) error {
	obj := value.Object{
		ObjectType: format.TypeObjectFormat,
		ID:         uint32(id),
		Props: []value.Prop{
			{Key: uint32(format.FormatMediaType), Value: value.ID(format.MediaAudio)},
			{Key: uint32(format.FormatMediaSubtype), Value: value.ID(format.SubtypeRaw)},
		},
	}
	if a.Format != format.AudioFormatUnknown {
		obj.Props = append(obj.Props, value.Prop{Key: uint32(format.FormatAudioFormat), Value: value.ID(a.Format)})
	}
	if a.Rate != 0 {
		obj.Props = append(obj.Props, value.Prop{Key: uint32(format.FormatAudioRate), Value: value.Int(a.Rate)}) //nolint: gosec
	}
	if a.Channels != 0 {
		obj.Props = append(obj.Props, value.Prop{Key: uint32(format.FormatAudioChannels), Value: value.Int(a.Channels)}) //nolint: gosec
		if a.Flags&format.AudioFlagUnpositioned == 0 && len(a.Position) > 0 {
			pos := value.Array{ChildType: format.TypeID, Values: make([]value.Value, len(a.Position))}
			for i, ch := range a.Position {
				pos.Values[i] = value.ID(ch)
			}
			obj.Props = append(obj.Props, value.Prop{Key: uint32(format.FormatAudioPosition), Value: pos})
		}
	}

	return b.Encode(obj)
}

// ParseAudioInfoRaw reads an audio/raw Format object. Choice properties
// must be fixated; a missing position marks the format unpositioned.
func ParseAudioInfoRaw(p parser.Pod) (AudioInfoRaw, error) {
	obj, err := rawFormat(p, format.MediaAudio)
	if err != nil {
		return AudioInfoRaw{}, err
	}

	var info AudioInfoRaw
	sampleFormat, err := idProp(obj, format.FormatAudioFormat, false)
	if err != nil {
		return AudioInfoRaw{}, err
	}
	info.Format = format.AudioFormat(sampleFormat)

	rate, err := intProp(obj, format.FormatAudioRate)
	if err != nil {
		return AudioInfoRaw{}, err
	}
	info.Rate = uint32(rate) //nolint: gosec

	channels, err := intProp(obj, format.FormatAudioChannels)
	if err != nil {
		return AudioInfoRaw{}, err
	}
	info.Channels = uint32(channels) //nolint: gosec

	prop, ok := obj.Find(uint32(format.FormatAudioPosition))
	if !ok {
		info.Flags |= format.AudioFlagUnpositioned
		return info, nil
	}
	arr, err := prop.Value.Array()
	if err != nil {
		return AudioInfoRaw{}, fmt.Errorf("position: %w", err)
	}
	info.Position = make([]format.AudioChannel, len(arr.Values))
	for i, v := range arr.Values {
		ch, err := v.ID()
		if err != nil {
			return AudioInfoRaw{}, fmt.Errorf("position %d: %w", i, err)
		}
		info.Position[i] = format.AudioChannel(ch)
	}

	return info, nil
}

// VideoInfoRaw describes a raw video format.
type VideoInfoRaw struct {
	Format       format.VideoFormat
	Size         value.Rectangle
	Framerate    value.Fraction
	MaxFramerate value.Fraction
}

// Build appends a video/raw Format object for parameter id.
func (v VideoInfoRaw) Build(b *builder.Builder, id format.ParamID) error {
	obj := value.Object{
		ObjectType: format.TypeObjectFormat,
		ID:         uint32(id),
		Props: []value.Prop{
			{Key: uint32(format.FormatMediaType), Value: value.ID(format.MediaVideo)},
			{Key: uint32(format.FormatMediaSubtype), Value: value.ID(format.SubtypeRaw)},
		},
	}
	if v.Format != format.VideoFormatUnknown {
		obj.Props = append(obj.Props, value.Prop{Key: uint32(format.FormatVideoFormat), Value: value.ID(v.Format)})
	}
	if v.Size != (value.Rectangle{}) {
		obj.Props = append(obj.Props, value.Prop{Key: uint32(format.FormatVideoSize), Value: v.Size})
	}
	if v.Framerate != (value.Fraction{}) {
		obj.Props = append(obj.Props, value.Prop{Key: uint32(format.FormatVideoFramerate), Value: v.Framerate})
	}
	if v.MaxFramerate != (value.Fraction{}) {
		obj.Props = append(obj.Props, value.Prop{Key: uint32(format.FormatVideoMaxFramerate), Value: v.MaxFramerate})
	}

	return b.Encode(obj)
}

// ParseVideoInfoRaw reads a video/raw Format object. Choice properties must
// be fixated.
func ParseVideoInfoRaw(p parser.Pod) (VideoInfoRaw, error) {
	obj, err := rawFormat(p, format.MediaVideo)
	if err != nil {
		return VideoInfoRaw{}, err
	}

	var info VideoInfoRaw
	pixelFormat, err := idProp(obj, format.FormatVideoFormat, false)
	if err != nil {
		return VideoInfoRaw{}, err
	}
	info.Format = format.VideoFormat(pixelFormat)

	if v, ok, err := prop(obj, format.FormatVideoSize); err != nil {
		return VideoInfoRaw{}, err
	} else if ok {
		if info.Size, err = v.Rectangle(); err != nil {
			return VideoInfoRaw{}, fmt.Errorf("size: %w", err)
		}
	}
	if v, ok, err := prop(obj, format.FormatVideoFramerate); err != nil {
		return VideoInfoRaw{}, err
	} else if ok {
		if info.Framerate, err = v.Fraction(); err != nil {
			return VideoInfoRaw{}, fmt.Errorf("framerate: %w", err)
		}
	}
	if v, ok, err := prop(obj, format.FormatVideoMaxFramerate); err != nil {
		return VideoInfoRaw{}, err
	} else if ok {
		if info.MaxFramerate, err = v.Fraction(); err != nil {
			return VideoInfoRaw{}, fmt.Errorf("max framerate: %w", err)
		}
	}

	return info, nil
}

func formatObject(p parser.Pod) (parser.Object, error) {
	obj, err := p.Object()
	if err != nil {
		return parser.Object{}, err
	}
	if obj.Type != format.TypeObjectFormat {
		return parser.Object{}, fmt.Errorf("%w: object type %#x is not a format", errs.ErrTypeMismatch, uint32(obj.Type))
	}

	return obj, nil
}

func rawFormat(p parser.Pod, want format.MediaType) (parser.Object, error) {
	mediaType, subtype, err := ParseFormat(p)
	if err != nil {
		return parser.Object{}, err
	}
	if mediaType != want || subtype != format.SubtypeRaw {
		return parser.Object{}, fmt.Errorf("%w: format %d/%d, want %d/raw", errs.ErrTypeMismatch, mediaType, subtype, want)
	}

	return p.Object()
}

// prop returns the fixated value of key. A Choice of kind None counts as
// its default; any other Choice is rejected.
func prop[K ~uint32](obj parser.Object, key K) (parser.Pod, bool, error) {
	pr, ok := obj.Find(uint32(key))
	if !ok {
		return parser.Pod{}, false, nil
	}
	if pr.Value.Type() != format.TypeChoice {
		return pr.Value, true, nil
	}

	c, err := pr.Value.Choice()
	if err != nil {
		return parser.Pod{}, false, fmt.Errorf("property %#x: %w", uint32(key), err)
	}
	if c.Kind != format.ChoiceNone {
		return parser.Pod{}, false, fmt.Errorf("%w: property %#x is an unfixated %s choice", errs.ErrTypeMismatch, uint32(key), c.Kind)
	}
	if len(c.Values) == 0 {
		return parser.Pod{}, false, fmt.Errorf("%w: property %#x is an empty choice", errs.ErrMalformed, uint32(key))
	}

	return c.Values[0], true, nil
}

func idProp[K ~uint32](obj parser.Object, key K, required bool) (uint32, error) {
	v, ok, err := prop(obj, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		if required {
			return 0, fmt.Errorf("%w: property %#x", errs.ErrNotFound, uint32(key))
		}
		return 0, nil
	}

	id, err := v.ID()
	if err != nil {
		return 0, fmt.Errorf("property %#x: %w", uint32(key), err)
	}

	return id, nil
}

func intProp[K ~uint32](obj parser.Object, key K) (int32, error) {
	return scalarProp(obj, key, parser.Pod.Int)
}
