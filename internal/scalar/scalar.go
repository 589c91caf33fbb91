// Package scalar decodes the fixed-size value bodies that take part in range,
// step and flags negotiation, and implements their ordering and arithmetic.
package scalar

import (
	"fmt"
	"math"
	"math/big"
	"slices"

	"github.com/arloliu/pod/endian"
	"github.com/arloliu/pod/errs"
	"github.com/arloliu/pod/format"
)

// floatTolerance is the relative tolerance used for float step alignment.
const floatTolerance = 1e-9

// Value is a decoded orderable body.
//
// Integer kinds (Bool, Id, Int, Long, Fd) use I, float kinds use F, and the
// two-component kinds (Rectangle, Fraction) use A and B.
type Value struct {
	Type format.Type
	I    int64
	F    float64
	A    uint32
	B    uint32
}

// Ordered reports whether values of type t can be bounded by a range.
func Ordered(t format.Type) bool {
	switch t { //nolint: exhaustive
	case format.TypeID, format.TypeInt, format.TypeLong, format.TypeFloat, format.TypeDouble,
		format.TypeRectangle, format.TypeFraction, format.TypeFd:
		return true
	default:
		return false
	}
}

// Maskable reports whether values of type t can be combined as flag masks.
func Maskable(t format.Type) bool {
	switch t { //nolint: exhaustive
	case format.TypeID, format.TypeInt, format.TypeLong:
		return true
	default:
		return false
	}
}

// Decode decodes body as a value of type t.
func Decode(engine endian.EndianEngine, t format.Type, body []byte) (Value, error) {
	size, ok := t.FixedSize()
	if !ok || t == format.TypeNone || t == format.TypePointer {
		return Value{}, fmt.Errorf("%w: %s is not a scalar", errs.ErrTypeMismatch, t)
	}
	if len(body) < int(size) {
		return Value{}, fmt.Errorf("%w: %s body has %d bytes, need %d", errs.ErrTruncated, t, len(body), size)
	}

	v := Value{Type: t}
	switch t { //nolint: exhaustive
	case format.TypeBool, format.TypeInt:
		v.I = int64(int32(engine.Uint32(body))) //nolint: gosec
	case format.TypeID:
		v.I = int64(engine.Uint32(body))
	case format.TypeLong, format.TypeFd:
		v.I = int64(engine.Uint64(body)) //nolint: gosec
	case format.TypeFloat:
		v.F = float64(math.Float32frombits(engine.Uint32(body)))
	case format.TypeDouble:
		v.F = math.Float64frombits(engine.Uint64(body))
	case format.TypeRectangle, format.TypeFraction:
		v.A = engine.Uint32(body[0:4])
		v.B = engine.Uint32(body[4:8])
	}

	return v, nil
}

// Encode appends the body of v to dst.
func (v Value) Encode(engine endian.EndianEngine, dst []byte) []byte {
	switch v.Type { //nolint: exhaustive
	case format.TypeBool, format.TypeInt, format.TypeID:
		return engine.AppendUint32(dst, uint32(v.I)) //nolint: gosec
	case format.TypeLong, format.TypeFd:
		return engine.AppendUint64(dst, uint64(v.I)) //nolint: gosec
	case format.TypeFloat:
		return engine.AppendUint32(dst, math.Float32bits(float32(v.F)))
	case format.TypeDouble:
		return engine.AppendUint64(dst, math.Float64bits(v.F))
	case format.TypeRectangle, format.TypeFraction:
		dst = engine.AppendUint32(dst, v.A)
		return engine.AppendUint32(dst, v.B)
	default:
		return dst
	}
}

func (v Value) isFloat() bool {
	return v.Type == format.TypeFloat || v.Type == format.TypeDouble
}

// Compare orders a and b, which must have the same type.
//
// Fractions compare by value (cross-multiplied). Rectangles are equal when
// both components are equal, smaller when either component is smaller.
func Compare(a, b Value) int {
	switch {
	case a.Type == format.TypeFraction:
		n1 := uint64(a.A) * uint64(b.B)
		n2 := uint64(b.A) * uint64(a.B)
		return cmp3(n1, n2)
	case a.Type == format.TypeRectangle:
		if a.A == b.A && a.B == b.B {
			return 0
		}
		if a.A < b.A || a.B < b.B {
			return -1
		}
		return 1
	case a.isFloat():
		return cmp3(a.F, b.F)
	default:
		return cmp3(a.I, b.I)
	}
}

// Lower returns the tighter of two lower bounds (component-wise maximum).
func Lower(a, b Value) Value {
	if a.Type == format.TypeRectangle {
		return Value{Type: a.Type, A: max(a.A, b.A), B: max(a.B, b.B)}
	}
	if Compare(a, b) >= 0 {
		return a
	}

	return b
}

// Upper returns the tighter of two upper bounds (component-wise minimum).
func Upper(a, b Value) Value {
	if a.Type == format.TypeRectangle {
		return Value{Type: a.Type, A: min(a.A, b.A), B: min(a.B, b.B)}
	}
	if Compare(a, b) <= 0 {
		return a
	}

	return b
}

// Larger returns the larger of two steps (component-wise maximum).
func Larger(a, b Value) Value {
	return Lower(a, b)
}

// Empty reports whether the range [lo, hi] holds no value.
func Empty(lo, hi Value) bool {
	if lo.Type == format.TypeRectangle {
		return lo.A > hi.A || lo.B > hi.B
	}

	return Compare(lo, hi) > 0
}

// Within reports whether lo <= v <= hi, component-wise for rectangles.
func Within(v, lo, hi Value) bool {
	if v.Type == format.TypeRectangle {
		return v.A >= lo.A && v.A <= hi.A && v.B >= lo.B && v.B <= hi.B
	}

	return Compare(v, lo) >= 0 && Compare(v, hi) <= 0
}

// Clamp moves v into [lo, hi].
func Clamp(v, lo, hi Value) Value {
	if v.Type == format.TypeRectangle {
		return Value{
			Type: v.Type,
			A:    min(max(v.A, lo.A), hi.A),
			B:    min(max(v.B, lo.B), hi.B),
		}
	}
	if Compare(v, lo) < 0 {
		return lo
	}
	if Compare(v, hi) > 0 {
		return hi
	}

	return v
}

// StepOf reports whether v is reachable from lo in whole multiples of step.
// A zero step accepts every value; fractions are never step-checked.
func StepOf(v, lo, step Value) bool {
	switch {
	case v.Type == format.TypeFraction:
		return true
	case v.Type == format.TypeRectangle:
		return stepOfUint(v.A, lo.A, step.A) && stepOfUint(v.B, lo.B, step.B)
	case v.isFloat():
		if !usableFloatStep(step.F) {
			return true
		}
		return integral((v.F - lo.F) / step.F)
	default:
		if step.I <= 0 {
			return true
		}
		if v.I < lo.I {
			return false
		}
		return (uint64(v.I)-uint64(lo.I))%uint64(step.I) == 0 //nolint: gosec
	}
}

// usableFloatStep reports whether step defines a grid. Zero, negative,
// infinite and NaN steps accept every value.
func usableFloatStep(step float64) bool {
	return step > 0 && !math.IsInf(step, 1)
}

func integral(q float64) bool {
	return math.Abs(q-math.Round(q)) <= floatTolerance*math.Max(1, math.Abs(q))
}

func stepOfUint(v, lo, step uint32) bool {
	if step == 0 {
		return true
	}
	if v < lo {
		return false
	}

	return (v-lo)%step == 0
}

// Snap moves v to the nearest step-aligned value in [lo, hi] at or above v.
// It falls back to lo when no aligned value at or above v fits.
func Snap(v, lo, hi, step Value) Value {
	v = Clamp(v, lo, hi)
	if StepOf(v, lo, step) {
		return v
	}

	switch {
	case v.Type == format.TypeRectangle:
		out := Value{Type: v.Type, A: snapUint(v.A, lo.A, hi.A, step.A), B: snapUint(v.B, lo.B, hi.B, step.B)}
		return out
	case v.isFloat():
		n := math.Ceil((v.F - lo.F) / step.F)
		out := Value{Type: v.Type, F: lo.F + n*step.F}
		if out.F > hi.F {
			return lo
		}
		return out
	default:
		// unsigned offsets cover the whole int64 span without overflow
		d := uint64(v.I) - uint64(lo.I)     //nolint: gosec
		span := uint64(hi.I) - uint64(lo.I) //nolint: gosec
		s := uint64(step.I)                 //nolint: gosec
		up := s - d%s
		if up > span-d {
			return lo
		}
		return Value{Type: v.Type, I: int64(uint64(lo.I) + d + up)} //nolint: gosec
	}
}

func snapUint(v, lo, hi, step uint32) uint32 {
	if step == 0 || v < lo {
		return max(v, lo)
	}
	n := (uint64(v-lo) + uint64(step) - 1) / uint64(step)
	out := uint64(lo) + n*uint64(step)
	if out > uint64(hi) {
		return lo
	}

	return uint32(out)
}

// Grid is the set of values a Step choice accepts: Origin plus whole
// multiples of Step.
type Grid struct {
	Origin Value
	Step   Value
}

// maxGridSearch bounds the walk over a float grid looking for a point that
// also lies on a second grid.
const maxGridSearch = 1 << 12

// Align narrows [lo, hi] to the values lying on every grid. It returns the
// narrowed bounds and a step that, counted from the new lower bound,
// reaches exactly the common values. ok is false when no value in [lo, hi]
// lies on all grids.
//
// Integer grids are combined exactly. Float grids are combined when one
// step is a whole multiple of the other; otherwise only the first common
// point is kept. Fractions are never step-checked, so their bounds are
// returned unchanged with the largest step.
func Align(lo, hi Value, grids ...Grid) (Value, Value, Value, bool) {
	if len(grids) == 0 {
		return lo, hi, Value{Type: lo.Type}, !Empty(lo, hi)
	}

	switch {
	case lo.Type == format.TypeFraction:
		step := grids[0].Step
		for _, g := range grids[1:] {
			step = Larger(step, g.Step)
		}
		return lo, hi, step, !Empty(lo, hi)
	case lo.Type == format.TypeRectangle:
		ga := make([]intGrid, len(grids))
		gb := make([]intGrid, len(grids))
		for i, g := range grids {
			ga[i] = intGrid{origin: int64(g.Origin.A), step: int64(g.Step.A)}
			gb[i] = intGrid{origin: int64(g.Origin.B), step: int64(g.Step.B)}
		}
		loA, hiA, stepA, okA := alignInt(int64(lo.A), int64(hi.A), ga, math.MaxUint32)
		loB, hiB, stepB, okB := alignInt(int64(lo.B), int64(hi.B), gb, math.MaxUint32)
		if !okA || !okB {
			return Value{}, Value{}, Value{}, false
		}
		toRect := func(a, b int64) Value {
			return Value{Type: lo.Type, A: uint32(a), B: uint32(b)} //nolint: gosec
		}
		return toRect(loA, loB), toRect(hiA, hiB), toRect(stepA, stepB), true
	case lo.isFloat():
		return alignFloat(lo, hi, grids)
	default:
		ig := make([]intGrid, len(grids))
		for i, g := range grids {
			ig[i] = intGrid{origin: g.Origin.I, step: g.Step.I}
		}
		maxStep := int64(math.MaxInt64)
		switch lo.Type { //nolint: exhaustive
		case format.TypeInt:
			maxStep = math.MaxInt32
		case format.TypeID:
			maxStep = math.MaxUint32
		}
		l, h, st, ok := alignInt(lo.I, hi.I, ig, maxStep)
		if !ok {
			return Value{}, Value{}, Value{}, false
		}
		return Value{Type: lo.Type, I: l}, Value{Type: lo.Type, I: h}, Value{Type: lo.Type, I: st}, true
	}
}

type intGrid struct {
	origin int64
	step   int64
}

// alignInt intersects [lo, hi] with every grid whose step is positive.
// A combined step larger than maxStep cannot be written back, so only the
// first common value is kept in that case.
func alignInt(lo, hi int64, grids []intGrid, maxStep int64) (int64, int64, int64, bool) {
	origin, step := big.NewInt(0), big.NewInt(1)
	fallback := int64(1)
	for _, g := range grids {
		if g.step <= 0 {
			continue
		}
		fallback = max(fallback, g.step)

		var ok bool
		origin, step, ok = crt(origin, step, big.NewInt(g.origin), big.NewInt(g.step))
		if !ok {
			return 0, 0, 0, false
		}
	}

	first := onGrid(big.NewInt(lo), origin, step, true)
	last := onGrid(big.NewInt(hi), origin, step, false)
	if first.Cmp(last) > 0 {
		return 0, 0, 0, false
	}
	if !step.IsInt64() || step.Int64() > maxStep {
		return first.Int64(), first.Int64(), fallback, true
	}

	return first.Int64(), last.Int64(), step.Int64(), true
}

// crt merges x = a1 (mod m1) and x = a2 (mod m2) into x = a (mod lcm(m1, m2)).
// ok is false when the two congruences have no common solution.
func crt(a1, m1, a2, m2 *big.Int) (*big.Int, *big.Int, bool) {
	p := new(big.Int)
	g := new(big.Int).GCD(p, nil, m1, m2)

	q, r := new(big.Int).QuoRem(new(big.Int).Sub(a2, a1), g, new(big.Int))
	if r.Sign() != 0 {
		return nil, nil, false
	}

	m2g := new(big.Int).Quo(m2, g)
	k := new(big.Int).Mul(q, p)
	k.Mod(k, m2g)

	lcm := new(big.Int).Mul(m1, m2g)
	x := new(big.Int).Mul(m1, k)
	x.Add(x, a1)
	x.Mod(x, lcm)

	return x, lcm, true
}

// onGrid returns the grid point nearest v from above (up) or below.
func onGrid(v, origin, step *big.Int, up bool) *big.Int {
	k, m := new(big.Int).DivMod(new(big.Int).Sub(v, origin), step, new(big.Int))
	if up && m.Sign() != 0 {
		k.Add(k, big.NewInt(1))
	}

	return k.Mul(k, step).Add(k, origin)
}

func alignFloat(lo, hi Value, grids []Grid) (Value, Value, Value, bool) {
	live := make([]Grid, 0, len(grids))
	for _, g := range grids {
		if usableFloatStep(g.Step.F) {
			live = append(live, g)
		}
	}
	if len(live) == 0 {
		return lo, hi, Value{Type: lo.Type}, !Empty(lo, hi)
	}
	slices.SortFunc(live, func(a, b Grid) int { return cmp3(b.Step.F, a.Step.F) })

	base := live[0]
	origin, step := base.Origin.F, base.Step.F
	point := func(k float64) float64 {
		return min(max(origin+k*step, lo.F), hi.F)
	}

	kLo := gridIndex(lo.F, origin, step, true)
	kHi := gridIndex(hi.F, origin, step, false)
	if kLo > kHi {
		return Value{}, Value{}, Value{}, false
	}

	for _, g := range live[1:] {
		found := false
		for n := 0; n < maxGridSearch && kLo+float64(n) <= kHi; n++ {
			if StepOf(Value{Type: lo.Type, F: point(kLo + float64(n))}, g.Origin, g.Step) {
				kLo += float64(n)
				found = true
				break
			}
		}
		if !found {
			return Value{}, Value{}, Value{}, false
		}
		if !integral(step / g.Step.F) {
			kHi = kLo
		}
	}

	return Value{Type: lo.Type, F: point(kLo)}, Value{Type: lo.Type, F: point(kHi)}, Value{Type: lo.Type, F: step}, true
}

// gridIndex returns the index of the grid point nearest v from above (up)
// or below, allowing for the float step tolerance.
func gridIndex(v, origin, step float64, up bool) float64 {
	q := (v - origin) / step
	tol := floatTolerance * math.Max(1, math.Abs(q))
	if up {
		return math.Ceil(q - tol)
	}

	return math.Floor(q + tol)
}

// Mask returns the value as an unsigned bit mask.
func (v Value) Mask() uint64 {
	if v.Type == format.TypeInt || v.Type == format.TypeID {
		return uint64(uint32(v.I)) //nolint: gosec
	}

	return uint64(v.I) //nolint: gosec
}

// WithMask returns a value of the same type holding mask m.
func (v Value) WithMask(m uint64) Value {
	out := Value{Type: v.Type}
	switch v.Type { //nolint: exhaustive
	case format.TypeInt:
		out.I = int64(int32(uint32(m))) //nolint: gosec
	case format.TypeID:
		out.I = int64(uint32(m)) //nolint: gosec
	default:
		out.I = int64(m) //nolint: gosec
	}

	return out
}

type number interface {
	~int64 | ~uint64 | ~float64
}

func cmp3[T number](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
