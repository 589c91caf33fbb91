package format

type (
	// ParamID identifies a parameter set a component exposes, such as the
	// formats it can enumerate or the format currently configured.
	ParamID uint32
	// MediaType is the top-level media classification of a format.
	MediaType uint32
	// MediaSubtype refines a MediaType (raw, dsp, a codec).
	MediaSubtype uint32
	// FormatKey is a property key of a Format object.
	FormatKey uint32
	// AudioFormat is a raw audio sample format.
	AudioFormat uint32
	// AudioFlags are flags of a raw audio format.
	AudioFlags uint32
	// AudioChannel is a channel position.
	AudioChannel uint32
	// VideoFormat is a raw video pixel format.
	VideoFormat uint32
)

const (
	ParamInvalid        ParamID = 0
	ParamPropInfo       ParamID = 1
	ParamProps          ParamID = 2
	ParamEnumFormat     ParamID = 3
	ParamFormat         ParamID = 4
	ParamBuffers        ParamID = 5
	ParamMeta           ParamID = 6
	ParamIO             ParamID = 7
	ParamEnumProfile    ParamID = 8
	ParamProfile        ParamID = 9
	ParamEnumPortConfig ParamID = 10
	ParamPortConfig     ParamID = 11
	ParamEnumRoute      ParamID = 12
	ParamRoute          ParamID = 13
	ParamControl        ParamID = 14
	ParamLatency        ParamID = 15
	ParamProcessLatency ParamID = 16
	ParamTag            ParamID = 17
)

const (
	MediaUnknown     MediaType = 0
	MediaAudio       MediaType = 1
	MediaVideo       MediaType = 2
	MediaImage       MediaType = 3
	MediaBinary      MediaType = 4
	MediaStream      MediaType = 5
	MediaApplication MediaType = 6
)

const (
	SubtypeUnknown MediaSubtype = 0
	SubtypeRaw     MediaSubtype = 1
	SubtypeDSP     MediaSubtype = 2
	SubtypeIEC958  MediaSubtype = 3
	SubtypeDSD     MediaSubtype = 4

	SubtypeStartAudio MediaSubtype = 0x10000
	SubtypeMP3        MediaSubtype = 0x10001
	SubtypeAAC        MediaSubtype = 0x10002
	SubtypeVorbis     MediaSubtype = 0x10003
	SubtypeWMA        MediaSubtype = 0x10004
	SubtypeRA         MediaSubtype = 0x10005
	SubtypeSBC        MediaSubtype = 0x10006
	SubtypeADPCM      MediaSubtype = 0x10007
	SubtypeG723       MediaSubtype = 0x10008
	SubtypeG726       MediaSubtype = 0x10009
	SubtypeG729       MediaSubtype = 0x1000A
	SubtypeAMR        MediaSubtype = 0x1000B
	SubtypeGSM        MediaSubtype = 0x1000C
	SubtypeALAC       MediaSubtype = 0x1000D
	SubtypeFLAC       MediaSubtype = 0x1000E
	SubtypeAPE        MediaSubtype = 0x1000F
	SubtypeOpus       MediaSubtype = 0x10010

	SubtypeStartVideo MediaSubtype = 0x20000
	SubtypeH264       MediaSubtype = 0x20001
	SubtypeMJPG       MediaSubtype = 0x20002
	SubtypeDV         MediaSubtype = 0x20003
	SubtypeMPEGTS     MediaSubtype = 0x20004
	SubtypeH263       MediaSubtype = 0x20005
	SubtypeMPEG1      MediaSubtype = 0x20006
	SubtypeMPEG2      MediaSubtype = 0x20007
	SubtypeMPEG4      MediaSubtype = 0x20008
	SubtypeXVID       MediaSubtype = 0x20009
	SubtypeVC1        MediaSubtype = 0x2000A
	SubtypeVP8        MediaSubtype = 0x2000B
	SubtypeVP9        MediaSubtype = 0x2000C
	SubtypeBayer      MediaSubtype = 0x2000D
)

const (
	FormatMediaType    FormatKey = 1
	FormatMediaSubtype FormatKey = 2

	FormatAudioFormat      FormatKey = 0x10001
	FormatAudioFlags       FormatKey = 0x10002
	FormatAudioRate        FormatKey = 0x10003
	FormatAudioChannels    FormatKey = 0x10004
	FormatAudioPosition    FormatKey = 0x10005
	FormatAudioIEC958Codec FormatKey = 0x10006
	FormatAudioBitorder    FormatKey = 0x10007
	FormatAudioInterleave  FormatKey = 0x10008
	FormatAudioBitrate     FormatKey = 0x10009
	FormatAudioBlockAlign  FormatKey = 0x1000A

	FormatVideoFormat           FormatKey = 0x20001
	FormatVideoModifier         FormatKey = 0x20002
	FormatVideoSize             FormatKey = 0x20003
	FormatVideoFramerate        FormatKey = 0x20004
	FormatVideoMaxFramerate     FormatKey = 0x20005
	FormatVideoViews            FormatKey = 0x20006
	FormatVideoInterlaceMode    FormatKey = 0x20007
	FormatVideoPixelAspectRatio FormatKey = 0x20008
)

const (
	AudioFormatUnknown AudioFormat = 0
	AudioFormatEncoded AudioFormat = 1

	AudioFormatS8       AudioFormat = 0x101
	AudioFormatU8       AudioFormat = 0x102
	AudioFormatS16LE    AudioFormat = 0x103
	AudioFormatS16BE    AudioFormat = 0x104
	AudioFormatU16LE    AudioFormat = 0x105
	AudioFormatU16BE    AudioFormat = 0x106
	AudioFormatS24_32LE AudioFormat = 0x107 //nolint: revive
	AudioFormatS24_32BE AudioFormat = 0x108 //nolint: revive
	AudioFormatU24_32LE AudioFormat = 0x109 //nolint: revive
	AudioFormatU24_32BE AudioFormat = 0x10A //nolint: revive
	AudioFormatS32LE    AudioFormat = 0x10B
	AudioFormatS32BE    AudioFormat = 0x10C
	AudioFormatU32LE    AudioFormat = 0x10D
	AudioFormatU32BE    AudioFormat = 0x10E
	AudioFormatS24LE    AudioFormat = 0x10F
	AudioFormatS24BE    AudioFormat = 0x110
	AudioFormatU24LE    AudioFormat = 0x111
	AudioFormatU24BE    AudioFormat = 0x112
	AudioFormatS20LE    AudioFormat = 0x113
	AudioFormatS20BE    AudioFormat = 0x114
	AudioFormatU20LE    AudioFormat = 0x115
	AudioFormatU20BE    AudioFormat = 0x116
	AudioFormatS18LE    AudioFormat = 0x117
	AudioFormatS18BE    AudioFormat = 0x118
	AudioFormatU18LE    AudioFormat = 0x119
	AudioFormatU18BE    AudioFormat = 0x11A
	AudioFormatF32LE    AudioFormat = 0x11B
	AudioFormatF32BE    AudioFormat = 0x11C
	AudioFormatF64LE    AudioFormat = 0x11D
	AudioFormatF64BE    AudioFormat = 0x11E
	AudioFormatULAW     AudioFormat = 0x11F
	AudioFormatALAW     AudioFormat = 0x120

	AudioFormatU8P     AudioFormat = 0x201
	AudioFormatS16P    AudioFormat = 0x202
	AudioFormatS24_32P AudioFormat = 0x203 //nolint: revive
	AudioFormatS32P    AudioFormat = 0x204
	AudioFormatS24P    AudioFormat = 0x205
	AudioFormatF32P    AudioFormat = 0x206
	AudioFormatF64P    AudioFormat = 0x207
	AudioFormatS8P     AudioFormat = 0x208
)

const (
	AudioFlagNone         AudioFlags = 0
	AudioFlagUnpositioned AudioFlags = 1 << 0
)

const (
	ChannelUnknown AudioChannel = 0
	ChannelNA      AudioChannel = 1
	ChannelMono    AudioChannel = 2
	ChannelFL      AudioChannel = 3
	ChannelFR      AudioChannel = 4
	ChannelFC      AudioChannel = 5
	ChannelLFE     AudioChannel = 6
	ChannelSL      AudioChannel = 7
	ChannelSR      AudioChannel = 8
	ChannelFLC     AudioChannel = 9
	ChannelFRC     AudioChannel = 10
	ChannelRC      AudioChannel = 11
	ChannelRL      AudioChannel = 12
	ChannelRR      AudioChannel = 13
	ChannelTC      AudioChannel = 14
	ChannelTFL     AudioChannel = 15
	ChannelTFC     AudioChannel = 16
	ChannelTFR     AudioChannel = 17
	ChannelTRL     AudioChannel = 18
	ChannelTRC     AudioChannel = 19
	ChannelTRR     AudioChannel = 20
)

const (
	VideoFormatUnknown  VideoFormat = 0
	VideoFormatEncoded  VideoFormat = 1
	VideoFormatI420     VideoFormat = 2
	VideoFormatYV12     VideoFormat = 3
	VideoFormatYUY2     VideoFormat = 4
	VideoFormatUYVY     VideoFormat = 5
	VideoFormatAYUV     VideoFormat = 6
	VideoFormatRGBx     VideoFormat = 7
	VideoFormatBGRx     VideoFormat = 8
	VideoFormatxRGB     VideoFormat = 9
	VideoFormatxBGR     VideoFormat = 10
	VideoFormatRGBA     VideoFormat = 11
	VideoFormatBGRA     VideoFormat = 12
	VideoFormatARGB     VideoFormat = 13
	VideoFormatABGR     VideoFormat = 14
	VideoFormatRGB      VideoFormat = 15
	VideoFormatBGR      VideoFormat = 16
	VideoFormatY41B     VideoFormat = 17
	VideoFormatY42B     VideoFormat = 18
	VideoFormatYVYU     VideoFormat = 19
	VideoFormatY444     VideoFormat = 20
	VideoFormatV210     VideoFormat = 21
	VideoFormatV216     VideoFormat = 22
	VideoFormatNV12     VideoFormat = 23
	VideoFormatNV21     VideoFormat = 24
	VideoFormatGRAY8    VideoFormat = 25
	VideoFormatGRAY16BE VideoFormat = 26
	VideoFormatGRAY16LE VideoFormat = 27
)
