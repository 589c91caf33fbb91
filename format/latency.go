package format

type (
	// LatencyKey is a property key of a Latency object.
	LatencyKey uint32
	// ProcessLatencyKey is a property key of a ProcessLatency object.
	ProcessLatencyKey uint32
	// Direction is the data flow direction a port or latency refers to.
	Direction uint32
)

const (
	LatencyDirection  LatencyKey = 1 // Id, a Direction
	LatencyMinQuantum LatencyKey = 2 // Float
	LatencyMaxQuantum LatencyKey = 3 // Float
	LatencyMinRate    LatencyKey = 4 // Int
	LatencyMaxRate    LatencyKey = 5 // Int
	LatencyMinNs      LatencyKey = 6 // Long
	LatencyMaxNs      LatencyKey = 7 // Long
)

const (
	ProcessLatencyQuantum ProcessLatencyKey = 1 // Float
	ProcessLatencyRate    ProcessLatencyKey = 2 // Int
	ProcessLatencyNs      ProcessLatencyKey = 3 // Long
)

const (
	DirectionInput  Direction = 0
	DirectionOutput Direction = 1
)
