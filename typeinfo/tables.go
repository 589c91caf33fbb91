package typeinfo

import (
	"strings"

	"github.com/arloliu/pod/format"
)

// Long name prefixes.
const (
	PrefixType         = "Spa:"
	PrefixPod          = "Spa:Pod:"
	PrefixPointer      = "Spa:Pointer:"
	PrefixObject       = "Spa:Pod:Object:"
	PrefixParamObject  = "Spa:Pod:Object:Param:"
	PrefixChoice       = "Spa:Enum:Choice:"
	PrefixParamID      = "Spa:Enum:ParamId:"
	PrefixMediaType    = "Spa:Enum:MediaType:"
	PrefixMediaSubtype = "Spa:Enum:MediaSubtype:"
	PrefixFormat       = "Spa:Pod:Object:Param:Format:"
	PrefixFormatAudio  = "Spa:Pod:Object:Param:Format:Audio:"
	PrefixFormatVideo  = "Spa:Pod:Object:Param:Format:Video:"
	PrefixAudioFormat  = "Spa:Enum:AudioFormat:"
	PrefixAudioChannel = "Spa:Enum:AudioChannel:"
	PrefixVideoFormat  = "Spa:Enum:VideoFormat:"
	PrefixPropFlags    = "Spa:Flags:PropFlags:"
	PrefixControl      = "Spa:Enum:Control:"
	PrefixDirection    = "Spa:Enum:Direction:"
	PrefixLatency      = "Spa:Pod:Object:Param:Latency:"
	PrefixProcessLat   = "Spa:Pod:Object:Param:ProcessLatency:"
)

var (
	// ChoiceKinds names the Choice combination kinds.
	ChoiceKinds = NewTable("ChoiceKinds", enumerate(PrefixChoice, format.TypeID, map[format.ChoiceType]string{
		format.ChoiceNone:  "None",
		format.ChoiceRange: "Range",
		format.ChoiceStep:  "Step",
		format.ChoiceEnum:  "Enum",
		format.ChoiceFlags: "Flags",
	})...)

	// ParamIDs names the parameter set ids.
	ParamIDs = NewTable("ParamIDs", enumerate(PrefixParamID, format.TypeID, map[format.ParamID]string{
		format.ParamInvalid:        "Invalid",
		format.ParamPropInfo:       "PropInfo",
		format.ParamProps:          "Props",
		format.ParamEnumFormat:     "EnumFormat",
		format.ParamFormat:         "Format",
		format.ParamBuffers:        "Buffers",
		format.ParamMeta:           "Meta",
		format.ParamIO:             "IO",
		format.ParamEnumProfile:    "EnumProfile",
		format.ParamProfile:        "Profile",
		format.ParamEnumPortConfig: "EnumPortConfig",
		format.ParamPortConfig:     "PortConfig",
		format.ParamEnumRoute:      "EnumRoute",
		format.ParamRoute:          "Route",
		format.ParamControl:        "Control",
		format.ParamLatency:        "Latency",
		format.ParamProcessLatency: "ProcessLatency",
		format.ParamTag:            "Tag",
	})...)

	// MediaTypes names the media types.
	MediaTypes = NewTable("MediaTypes", enumerate(PrefixMediaType, format.TypeID, map[format.MediaType]string{
		format.MediaUnknown:     "unknown",
		format.MediaAudio:       "audio",
		format.MediaVideo:       "video",
		format.MediaImage:       "image",
		format.MediaBinary:      "binary",
		format.MediaStream:      "stream",
		format.MediaApplication: "application",
	})...)

	// MediaSubtypes names the media subtypes.
	MediaSubtypes = NewTable("MediaSubtypes", enumerate(PrefixMediaSubtype, format.TypeID, map[format.MediaSubtype]string{
		format.SubtypeUnknown: "unknown",
		format.SubtypeRaw:     "raw",
		format.SubtypeDSP:     "dsp",
		format.SubtypeIEC958:  "iec958",
		format.SubtypeDSD:     "dsd",
		format.SubtypeMP3:     "mp3",
		format.SubtypeAAC:     "aac",
		format.SubtypeVorbis:  "vorbis",
		format.SubtypeWMA:     "wma",
		format.SubtypeRA:      "ra",
		format.SubtypeSBC:     "sbc",
		format.SubtypeADPCM:   "adpcm",
		format.SubtypeG723:    "g723",
		format.SubtypeG726:    "g726",
		format.SubtypeG729:    "g729",
		format.SubtypeAMR:     "amr",
		format.SubtypeGSM:     "gsm",
		format.SubtypeALAC:    "alac",
		format.SubtypeFLAC:    "flac",
		format.SubtypeAPE:     "ape",
		format.SubtypeOpus:    "opus",
		format.SubtypeH264:    "h264",
		format.SubtypeMJPG:    "mjpg",
		format.SubtypeDV:      "dv",
		format.SubtypeMPEGTS:  "mpegts",
		format.SubtypeH263:    "h263",
		format.SubtypeMPEG1:   "mpeg1",
		format.SubtypeMPEG2:   "mpeg2",
		format.SubtypeMPEG4:   "mpeg4",
		format.SubtypeXVID:    "xvid",
		format.SubtypeVC1:     "vc1",
		format.SubtypeVP8:     "vp8",
		format.SubtypeVP9:     "vp9",
		format.SubtypeBayer:   "bayer",
	})...)

	// AudioFormats names the raw audio sample formats.
	AudioFormats = NewTable("AudioFormats", enumerate(PrefixAudioFormat, format.TypeID, map[format.AudioFormat]string{
		format.AudioFormatUnknown:  "UNKNOWN",
		format.AudioFormatEncoded:  "ENCODED",
		format.AudioFormatS8:       "S8",
		format.AudioFormatU8:       "U8",
		format.AudioFormatS16LE:    "S16LE",
		format.AudioFormatS16BE:    "S16BE",
		format.AudioFormatU16LE:    "U16LE",
		format.AudioFormatU16BE:    "U16BE",
		format.AudioFormatS24_32LE: "S24_32LE",
		format.AudioFormatS24_32BE: "S24_32BE",
		format.AudioFormatU24_32LE: "U24_32LE",
		format.AudioFormatU24_32BE: "U24_32BE",
		format.AudioFormatS32LE:    "S32LE",
		format.AudioFormatS32BE:    "S32BE",
		format.AudioFormatU32LE:    "U32LE",
		format.AudioFormatU32BE:    "U32BE",
		format.AudioFormatS24LE:    "S24LE",
		format.AudioFormatS24BE:    "S24BE",
		format.AudioFormatU24LE:    "U24LE",
		format.AudioFormatU24BE:    "U24BE",
		format.AudioFormatS20LE:    "S20LE",
		format.AudioFormatS20BE:    "S20BE",
		format.AudioFormatU20LE:    "U20LE",
		format.AudioFormatU20BE:    "U20BE",
		format.AudioFormatS18LE:    "S18LE",
		format.AudioFormatS18BE:    "S18BE",
		format.AudioFormatU18LE:    "U18LE",
		format.AudioFormatU18BE:    "U18BE",
		format.AudioFormatF32LE:    "F32LE",
		format.AudioFormatF32BE:    "F32BE",
		format.AudioFormatF64LE:    "F64LE",
		format.AudioFormatF64BE:    "F64BE",
		format.AudioFormatULAW:     "ULAW",
		format.AudioFormatALAW:     "ALAW",
		format.AudioFormatU8P:      "U8P",
		format.AudioFormatS16P:     "S16P",
		format.AudioFormatS24_32P:  "S24_32P",
		format.AudioFormatS32P:     "S32P",
		format.AudioFormatS24P:     "S24P",
		format.AudioFormatF32P:     "F32P",
		format.AudioFormatF64P:     "F64P",
		format.AudioFormatS8P:      "S8P",
	})...)

	// AudioChannels names the channel positions.
	AudioChannels = NewTable("AudioChannels", enumerate(PrefixAudioChannel, format.TypeID, map[format.AudioChannel]string{
		format.ChannelUnknown: "UNK",
		format.ChannelNA:      "NA",
		format.ChannelMono:    "MONO",
		format.ChannelFL:      "FL",
		format.ChannelFR:      "FR",
		format.ChannelFC:      "FC",
		format.ChannelLFE:     "LFE",
		format.ChannelSL:      "SL",
		format.ChannelSR:      "SR",
		format.ChannelFLC:     "FLC",
		format.ChannelFRC:     "FRC",
		format.ChannelRC:      "RC",
		format.ChannelRL:      "RL",
		format.ChannelRR:      "RR",
		format.ChannelTC:      "TC",
		format.ChannelTFL:     "TFL",
		format.ChannelTFC:     "TFC",
		format.ChannelTFR:     "TFR",
		format.ChannelTRL:     "TRL",
		format.ChannelTRC:     "TRC",
		format.ChannelTRR:     "TRR",
	})...)

	// VideoFormats names the raw video pixel formats.
	VideoFormats = NewTable("VideoFormats", enumerate(PrefixVideoFormat, format.TypeID, map[format.VideoFormat]string{
		format.VideoFormatUnknown:  "UNKNOWN",
		format.VideoFormatEncoded:  "ENCODED",
		format.VideoFormatI420:     "I420",
		format.VideoFormatYV12:     "YV12",
		format.VideoFormatYUY2:     "YUY2",
		format.VideoFormatUYVY:     "UYVY",
		format.VideoFormatAYUV:     "AYUV",
		format.VideoFormatRGBx:     "RGBx",
		format.VideoFormatBGRx:     "BGRx",
		format.VideoFormatxRGB:     "xRGB",
		format.VideoFormatxBGR:     "xBGR",
		format.VideoFormatRGBA:     "RGBA",
		format.VideoFormatBGRA:     "BGRA",
		format.VideoFormatARGB:     "ARGB",
		format.VideoFormatABGR:     "ABGR",
		format.VideoFormatRGB:      "RGB",
		format.VideoFormatBGR:      "BGR",
		format.VideoFormatY41B:     "Y41B",
		format.VideoFormatY42B:     "Y42B",
		format.VideoFormatYVYU:     "YVYU",
		format.VideoFormatY444:     "Y444",
		format.VideoFormatV210:     "v210",
		format.VideoFormatV216:     "v216",
		format.VideoFormatNV12:     "NV12",
		format.VideoFormatNV21:     "NV21",
		format.VideoFormatGRAY8:    "GRAY8",
		format.VideoFormatGRAY16BE: "GRAY16_BE",
		format.VideoFormatGRAY16LE: "GRAY16_LE",
	})...)

	// FormatKeys names the properties of a Format object. Enumerated keys
	// link to the table naming their values.
	FormatKeys = NewTable("FormatKeys",
		Info{ID: uint32(format.FormatMediaType), Name: PrefixFormat + "mediaType", Parent: format.TypeID, Values: MediaTypes},
		Info{ID: uint32(format.FormatMediaSubtype), Name: PrefixFormat + "mediaSubtype", Parent: format.TypeID, Values: MediaSubtypes},
		Info{ID: uint32(format.FormatAudioFormat), Name: PrefixFormatAudio + "format", Parent: format.TypeID, Values: AudioFormats},
		entry(PrefixFormatAudio, format.FormatAudioFlags, "flags", format.TypeInt),
		entry(PrefixFormatAudio, format.FormatAudioRate, "rate", format.TypeInt),
		entry(PrefixFormatAudio, format.FormatAudioChannels, "channels", format.TypeInt),
		Info{ID: uint32(format.FormatAudioPosition), Name: PrefixFormatAudio + "position", Parent: format.TypeArray, Values: AudioChannels},
		entry(PrefixFormatAudio, format.FormatAudioIEC958Codec, "iec958Codec", format.TypeID),
		entry(PrefixFormatAudio, format.FormatAudioBitorder, "bitorder", format.TypeID),
		entry(PrefixFormatAudio, format.FormatAudioInterleave, "interleave", format.TypeInt),
		entry(PrefixFormatAudio, format.FormatAudioBitrate, "bitrate", format.TypeInt),
		entry(PrefixFormatAudio, format.FormatAudioBlockAlign, "blockAlign", format.TypeInt),
		Info{ID: uint32(format.FormatVideoFormat), Name: PrefixFormatVideo + "format", Parent: format.TypeID, Values: VideoFormats},
		entry(PrefixFormatVideo, format.FormatVideoModifier, "modifier", format.TypeLong),
		entry(PrefixFormatVideo, format.FormatVideoSize, "size", format.TypeRectangle),
		entry(PrefixFormatVideo, format.FormatVideoFramerate, "framerate", format.TypeFraction),
		entry(PrefixFormatVideo, format.FormatVideoMaxFramerate, "maxFramerate", format.TypeFraction),
		entry(PrefixFormatVideo, format.FormatVideoViews, "views", format.TypeInt),
		entry(PrefixFormatVideo, format.FormatVideoInterlaceMode, "interlaceMode", format.TypeID),
		entry(PrefixFormatVideo, format.FormatVideoPixelAspectRatio, "pixelAspectRatio", format.TypeFraction),
	)

	// PropFlags names the property flag bits.
	PropFlags = NewTable("PropFlags", enumerate(PrefixPropFlags, format.TypeInt, map[format.PropFlags]string{
		format.PropReadOnly:   "ReadOnly",
		format.PropHardware:   "Hardware",
		format.PropHintDict:   "HintDict",
		format.PropMandatory:  "Mandatory",
		format.PropDontFixate: "DontFixate",
	})...)

	// ControlTypes names the Sequence control types.
	ControlTypes = NewTable("ControlTypes", enumerate(PrefixControl, format.TypeID, map[format.ControlType]string{
		format.ControlInvalid:    "Invalid",
		format.ControlProperties: "Properties",
		format.ControlMidi:       "Midi",
		format.ControlOSC:        "OSC",
		format.ControlUMP:        "UMP",
	})...)

	// Directions names the data flow directions.
	Directions = NewTable("Directions", enumerate(PrefixDirection, format.TypeID, map[format.Direction]string{
		format.DirectionInput:  "Input",
		format.DirectionOutput: "Output",
	})...)

	// LatencyKeys names the properties of a Latency object.
	LatencyKeys = NewTable("LatencyKeys",
		Info{ID: uint32(format.LatencyDirection), Name: PrefixLatency + "direction", Parent: format.TypeID, Values: Directions},
		entry(PrefixLatency, format.LatencyMinQuantum, "minQuantum", format.TypeFloat),
		entry(PrefixLatency, format.LatencyMaxQuantum, "maxQuantum", format.TypeFloat),
		entry(PrefixLatency, format.LatencyMinRate, "minRate", format.TypeInt),
		entry(PrefixLatency, format.LatencyMaxRate, "maxRate", format.TypeInt),
		entry(PrefixLatency, format.LatencyMinNs, "minNs", format.TypeLong),
		entry(PrefixLatency, format.LatencyMaxNs, "maxNs", format.TypeLong),
	)

	// ProcessLatencyKeys names the properties of a ProcessLatency object.
	ProcessLatencyKeys = NewTable("ProcessLatencyKeys",
		entry(PrefixProcessLat, format.ProcessLatencyQuantum, "quantum", format.TypeFloat),
		entry(PrefixProcessLat, format.ProcessLatencyRate, "rate", format.TypeInt),
		entry(PrefixProcessLat, format.ProcessLatencyNs, "ns", format.TypeLong),
	)

	// Types names the value kinds, pointer types and object types. The
	// Format and latency objects link to their key tables.
	Types = NewTable("Types",
		entry(PrefixType, format.TypeStart, "Start", format.TypeStart),
		entry(PrefixType, format.TypeNone, "None", format.TypeStart),
		entry(PrefixType, format.TypeBool, "Bool", format.TypeStart),
		entry(PrefixType, format.TypeID, "Id", format.TypeStart),
		entry(PrefixType, format.TypeInt, "Int", format.TypeStart),
		entry(PrefixType, format.TypeLong, "Long", format.TypeStart),
		entry(PrefixType, format.TypeFloat, "Float", format.TypeStart),
		entry(PrefixType, format.TypeDouble, "Double", format.TypeStart),
		entry(PrefixType, format.TypeString, "String", format.TypeStart),
		entry(PrefixType, format.TypeBytes, "Bytes", format.TypeStart),
		entry(PrefixType, format.TypeRectangle, "Rectangle", format.TypeStart),
		entry(PrefixType, format.TypeFraction, "Fraction", format.TypeStart),
		entry(PrefixType, format.TypeBitmap, "Bitmap", format.TypeStart),
		entry(PrefixType, format.TypeArray, "Array", format.TypeStart),
		entry(PrefixPod, format.TypeStruct, "Struct", format.TypePod),
		entry(PrefixPod, format.TypeObject, "Object", format.TypePod),
		entry(PrefixPod, format.TypeSequence, "Sequence", format.TypePod),
		entry(PrefixType, format.TypePointer, "Pointer", format.TypeStart),
		entry(PrefixType, format.TypeFd, "Fd", format.TypeStart),
		entry(PrefixPod, format.TypeChoice, "Choice", format.TypePod),
		Info{ID: uint32(format.TypePod), Name: "Spa:Pod", Parent: format.TypeStart},
		entry(PrefixPointer, format.TypePointerBuffer, "Buffer", format.TypePointer),
		entry(PrefixPointer, format.TypePointerMeta, "Meta", format.TypePointer),
		entry(PrefixPointer, format.TypePointerDict, "Dict", format.TypePointer),
		entry(PrefixParamObject, format.TypeObjectPropInfo, "PropInfo", format.TypeObject),
		entry(PrefixParamObject, format.TypeObjectProps, "Props", format.TypeObject),
		Info{ID: uint32(format.TypeObjectFormat), Name: PrefixParamObject + "Format", Parent: format.TypeObject, Values: FormatKeys},
		entry(PrefixParamObject, format.TypeObjectParamBuffers, "Buffers", format.TypeObject),
		entry(PrefixParamObject, format.TypeObjectParamMeta, "Meta", format.TypeObject),
		entry(PrefixParamObject, format.TypeObjectParamIO, "IO", format.TypeObject),
		entry(PrefixParamObject, format.TypeObjectParamProfile, "Profile", format.TypeObject),
		entry(PrefixParamObject, format.TypeObjectParamPortCfg, "PortConfig", format.TypeObject),
		entry(PrefixParamObject, format.TypeObjectParamRoute, "Route", format.TypeObject),
		entry(PrefixObject, format.TypeObjectProfiler, "Profiler", format.TypeObject),
		Info{ID: uint32(format.TypeObjectParamLatency), Name: PrefixParamObject + "Latency", Parent: format.TypeObject, Values: LatencyKeys},
		Info{ID: uint32(format.TypeObjectParamProcLat), Name: PrefixParamObject + "ProcessLatency", Parent: format.TypeObject, Values: ProcessLatencyKeys},
		entry(PrefixParamObject, format.TypeObjectParamTag, "Tag", format.TypeObject),
	)
)

var tables = []*Table{
	Types, ChoiceKinds, ParamIDs, MediaTypes, MediaSubtypes, FormatKeys,
	AudioFormats, AudioChannels, VideoFormats, PropFlags, ControlTypes,
	Directions, LatencyKeys, ProcessLatencyKeys,
}

// Tables returns the built-in tables.
func Tables() []*Table {
	out := make([]*Table, len(tables))
	copy(out, tables)

	return out
}

// TableByName finds a built-in table by name, ignoring case.
func TableByName(name string) (*Table, bool) {
	for _, t := range tables {
		if strings.EqualFold(t.Name(), name) {
			return t, true
		}
	}

	return nil, false
}

// Find resolves a long name in any built-in table.
func Find(name string) (Info, bool) {
	for _, t := range tables {
		if info, ok := t.ByName(name); ok {
			return info, true
		}
	}

	return Info{}, false
}
