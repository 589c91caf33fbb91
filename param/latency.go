package param

import (
	"fmt"

	"github.com/arloliu/pod/builder"
	"github.com/arloliu/pod/errs"
	"github.com/arloliu/pod/format"
	"github.com/arloliu/pod/parser"
	"github.com/arloliu/pod/value"
)

// LatencyInfo is the latency reported for one direction of a port, as
// ranges of quanta, samples at the graph rate and nanoseconds.
type LatencyInfo struct {
	Direction  format.Direction
	MinQuantum float32
	MaxQuantum float32
	MinRate    uint32
	MaxRate    uint32
	MinNs      uint64
	MaxNs      uint64
}

// Build appends a Latency object under the Latency parameter id.
func (l LatencyInfo) Build(b *builder.Builder) error {
	return b.Encode(value.Object{
		ObjectType: format.TypeObjectParamLatency,
		ID:         uint32(format.ParamLatency),
		Props: []value.Prop{
			{Key: uint32(format.LatencyDirection), Value: value.ID(l.Direction)},
			{Key: uint32(format.LatencyMinQuantum), Value: value.Float(l.MinQuantum)},
			{Key: uint32(format.LatencyMaxQuantum), Value: value.Float(l.MaxQuantum)},
			{Key: uint32(format.LatencyMinRate), Value: value.Int(l.MinRate)}, //nolint: gosec
			{Key: uint32(format.LatencyMaxRate), Value: value.Int(l.MaxRate)}, //nolint: gosec
			{Key: uint32(format.LatencyMinNs), Value: value.Long(l.MinNs)},    //nolint: gosec
			{Key: uint32(format.LatencyMaxNs), Value: value.Long(l.MaxNs)},    //nolint: gosec
		},
	})
}

// ParseLatencyInfo reads a Latency object. The direction is required;
// missing ranges read as zero.
func ParseLatencyInfo(p parser.Pod) (LatencyInfo, error) {
	obj, err := paramObject(p, format.TypeObjectParamLatency)
	if err != nil {
		return LatencyInfo{}, err
	}

	var info LatencyInfo
	dir, err := idProp(obj, format.LatencyDirection, true)
	if err != nil {
		return LatencyInfo{}, err
	}
	info.Direction = format.Direction(dir)

	if info.MinQuantum, err = scalarProp(obj, format.LatencyMinQuantum, parser.Pod.Float); err != nil {
		return LatencyInfo{}, err
	}
	if info.MaxQuantum, err = scalarProp(obj, format.LatencyMaxQuantum, parser.Pod.Float); err != nil {
		return LatencyInfo{}, err
	}
	minRate, err := intProp(obj, format.LatencyMinRate)
	if err != nil {
		return LatencyInfo{}, err
	}
	maxRate, err := intProp(obj, format.LatencyMaxRate)
	if err != nil {
		return LatencyInfo{}, err
	}
	info.MinRate, info.MaxRate = uint32(minRate), uint32(maxRate) //nolint: gosec

	minNs, err := scalarProp(obj, format.LatencyMinNs, parser.Pod.Long)
	if err != nil {
		return LatencyInfo{}, err
	}
	maxNs, err := scalarProp(obj, format.LatencyMaxNs, parser.Pod.Long)
	if err != nil {
		return LatencyInfo{}, err
	}
	info.MinNs, info.MaxNs = uint64(minNs), uint64(maxNs) //nolint: gosec

	return info, nil
}

// ProcessLatencyInfo is the latency a node adds while processing.
type ProcessLatencyInfo struct {
	Quantum float32
	Rate    uint32
	Ns      uint64
}

// Build appends a ProcessLatency object under the ProcessLatency parameter id.
func (l ProcessLatencyInfo) Build(b *builder.Builder) error {
	return b.Encode(value.Object{
		ObjectType: format.TypeObjectParamProcLat,
		ID:         uint32(format.ParamProcessLatency),
		Props: []value.Prop{
			{Key: uint32(format.ProcessLatencyQuantum), Value: value.Float(l.Quantum)},
			{Key: uint32(format.ProcessLatencyRate), Value: value.Int(l.Rate)}, //nolint: gosec
			{Key: uint32(format.ProcessLatencyNs), Value: value.Long(l.Ns)},    //nolint: gosec
		},
	})
}

// ParseProcessLatencyInfo reads a ProcessLatency object. Missing keys read
// as zero.
func ParseProcessLatencyInfo(p parser.Pod) (ProcessLatencyInfo, error) {
	obj, err := paramObject(p, format.TypeObjectParamProcLat)
	if err != nil {
		return ProcessLatencyInfo{}, err
	}

	var info ProcessLatencyInfo
	if info.Quantum, err = scalarProp(obj, format.ProcessLatencyQuantum, parser.Pod.Float); err != nil {
		return ProcessLatencyInfo{}, err
	}
	rate, err := intProp(obj, format.ProcessLatencyRate)
	if err != nil {
		return ProcessLatencyInfo{}, err
	}
	info.Rate = uint32(rate) //nolint: gosec

	ns, err := scalarProp(obj, format.ProcessLatencyNs, parser.Pod.Long)
	if err != nil {
		return ProcessLatencyInfo{}, err
	}
	info.Ns = uint64(ns) //nolint: gosec

	return info, nil
}

func paramObject(p parser.Pod, want format.Type) (parser.Object, error) {
	obj, err := p.Object()
	if err != nil {
		return parser.Object{}, err
	}
	if obj.Type != want {
		return parser.Object{}, fmt.Errorf("%w: object type %#x, want %#x", errs.ErrTypeMismatch, uint32(obj.Type), uint32(want))
	}

	return obj, nil
}

// scalarProp reads an optional fixated property with get; a missing key
// yields the zero value.
func scalarProp[K ~uint32, T any](obj parser.Object, key K, get func(parser.Pod) (T, error)) (T, error) {
	var zero T
	v, ok, err := prop(obj, key)
	if err != nil || !ok {
		return zero, err
	}

	n, err := get(v)
	if err != nil {
		return zero, fmt.Errorf("property %#x: %w", uint32(key), err)
	}

	return n, nil
}
