// Package filter negotiates two POD value trees.
//
// Filter writes the intersection of a request and an offer through a
// builder: the values both sides accept. Concrete values must match exactly
// or satisfy the other side's Choice; two Choices are intersected according
// to their kinds; Structs are filtered field by field and Objects property
// by property, matched on key.
//
// The result may still hold Choices, for example two ranges intersect to a
// narrower range. Callers that need a single concrete value call
// builder.Fixate or builder.FixateObject on the result.
//
// On failure nothing is written: the builder is rewound to its state before
// the call. An empty intersection is reported as errs.ErrNoCommonValue,
// which is an expected negotiation outcome rather than a defect.
package filter

import (
	"fmt"

	"github.com/arloliu/pod/builder"
	"github.com/arloliu/pod/compare"
	"github.com/arloliu/pod/errs"
	"github.com/arloliu/pod/format"
	"github.com/arloliu/pod/internal/scalar"
	"github.com/arloliu/pod/parser"
)

// Filter appends the intersection of request and offer to b.
// An invalid (zero) offer accepts everything: the request is copied.
func Filter(b *builder.Builder, request, offer parser.Pod) error {
	if err := b.Err(); err != nil {
		return err
	}

	state := b.State()
	err := filter(b, request, offer)
	if err == nil {
		err = b.Err()
	}
	if err != nil {
		b.Reset(state)
		return err
	}

	return nil
}

// Bytes parses request and offer and appends their intersection to b.
// A nil offer copies the request.
func Bytes(b *builder.Builder, request, offer []byte, opts ...parser.Option) error {
	req, err := parser.Parse(request, opts...)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}

	var off parser.Pod
	if offer != nil {
		if off, err = parser.Parse(offer, opts...); err != nil {
			return fmt.Errorf("offer: %w", err)
		}
	}

	return Filter(b, req, off)
}

func noCommon(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errs.ErrNoCommonValue}, args...)...)
}

func filter(b *builder.Builder, req, off parser.Pod) error {
	if !off.IsValid() {
		return b.Copy(req)
	}

	rt, ot := req.Type(), off.Type()
	switch {
	case rt == format.TypeArray && ot == format.TypeChoice:
		return filterArray(b, req, off)
	case rt == format.TypeChoice && ot == format.TypeArray:
		return filterArray(b, off, req)
	case rt == format.TypeChoice || ot == format.TypeChoice:
		return filterChoice(b, req, off)
	case rt != ot:
		return noCommon("%s against %s", rt, ot)
	}

	switch rt { //nolint: exhaustive
	case format.TypeStruct:
		return filterStruct(b, req, off)
	case format.TypeObject:
		return filterObject(b, req, off)
	default:
		if !compare.Equal(req, off) {
			return noCommon("%s values differ", rt)
		}
		return b.Copy(req)
	}
}

func filterStruct(b *builder.Builder, req, off parser.Pod) error {
	rf, err := req.Struct()
	if err != nil {
		return err
	}
	of, err := off.Struct()
	if err != nil {
		return err
	}
	if len(rf) != len(of) {
		return noCommon("struct of %d fields against %d", len(rf), len(of))
	}

	if err := b.PushStruct(); err != nil {
		return err
	}
	for i := range rf {
		if err := filter(b, rf[i], of[i]); err != nil {
			return fmt.Errorf("field %d: %w", i, err)
		}
	}

	return b.Pop()
}

func filterObject(b *builder.Builder, req, off parser.Pod) error {
	ro, err := req.Object()
	if err != nil {
		return err
	}
	oo, err := off.Object()
	if err != nil {
		return err
	}
	if ro.Type != oo.Type || ro.ID != oo.ID {
		return noCommon("object %#x/%d against %#x/%d", uint32(ro.Type), ro.ID, uint32(oo.Type), oo.ID)
	}

	if err := b.PushObject(ro.Type, ro.ID); err != nil {
		return err
	}

	for _, rp := range ro.Props {
		op, ok := oo.Find(rp.Key)
		if !ok {
			if err := passThrough(b, rp); err != nil {
				return err
			}
			continue
		}
		if err := b.Prop(rp.Key, rp.Flags&op.Flags); err != nil {
			return err
		}
		if err := filter(b, rp.Value, op.Value); err != nil {
			return fmt.Errorf("property %d: %w", rp.Key, err)
		}
	}
	for _, op := range oo.Props {
		if _, ok := ro.Find(op.Key); ok {
			continue
		}
		if err := passThrough(b, op); err != nil {
			return err
		}
	}

	return b.Pop()
}

// passThrough copies a property present on one side only.
func passThrough(b *builder.Builder, p parser.Prop) error {
	if p.Flags.Has(format.PropMandatory) {
		return noCommon("mandatory property %d missing on one side", p.Key)
	}
	if err := b.Prop(p.Key, p.Flags); err != nil {
		return err
	}

	return b.Copy(p.Value)
}

// filterArray accepts a concrete array when every element satisfies the choice.
func filterArray(b *builder.Builder, arrPod, choicePod parser.Pod) error {
	arr, err := arrPod.Array()
	if err != nil {
		return err
	}
	c, err := choicePod.Choice()
	if err != nil {
		return err
	}
	if err := builder.CheckArity(c.Kind, len(c.Values)); err != nil {
		return err
	}

	for i, elem := range arr.Values {
		ok, err := member(elem, c)
		if err != nil {
			return err
		}
		if !ok {
			return noCommon("array element %d outside %s choice", i, c.Kind)
		}
	}

	return b.Copy(arrPod)
}

func filterChoice(b *builder.Builder, req, off parser.Pod) error {
	rc, err := req.AsChoice()
	if err != nil {
		return err
	}
	oc, err := off.AsChoice()
	if err != nil {
		return err
	}
	if err := builder.CheckArity(rc.Kind, len(rc.Values)); err != nil {
		return fmt.Errorf("request: %w", err)
	}
	if err := builder.CheckArity(oc.Kind, len(oc.Values)); err != nil {
		return fmt.Errorf("offer: %w", err)
	}
	if rc.ChildType != oc.ChildType {
		return noCommon("%s choice against %s choice", rc.ChildType, oc.ChildType)
	}

	switch {
	case rc.Kind == format.ChoiceNone:
		return emitMember(b, rc.Values[0], oc)
	case oc.Kind == format.ChoiceNone:
		return emitMember(b, oc.Values[0], rc)
	case isRange(rc.Kind) && isRange(oc.Kind):
		return intersectRanges(b, rc, oc)
	case rc.Kind == format.ChoiceEnum && oc.Kind == format.ChoiceEnum:
		offered := members(oc)
		return intersectEnums(b, rc, members(rc), func(v parser.Pod) (bool, error) {
			return contains(offered, v), nil
		})
	case rc.Kind == format.ChoiceEnum && isRange(oc.Kind):
		return intersectEnums(b, rc, members(rc), func(v parser.Pod) (bool, error) {
			return member(v, oc)
		})
	case isRange(rc.Kind) && oc.Kind == format.ChoiceEnum:
		return intersectEnums(b, rc, members(oc), func(v parser.Pod) (bool, error) {
			return member(v, rc)
		})
	case rc.Kind == format.ChoiceFlags && oc.Kind == format.ChoiceFlags:
		return intersectFlags(b, rc, oc)
	default:
		return noCommon("%s choice against %s choice", rc.Kind, oc.Kind)
	}
}

func isRange(k format.ChoiceType) bool {
	return k == format.ChoiceRange || k == format.ChoiceStep
}

// emitMember writes v as a concrete value when it satisfies c.
func emitMember(b *builder.Builder, v parser.Pod, c parser.Choice) error {
	ok, err := member(v, c)
	if err != nil {
		return err
	}
	if !ok {
		return noCommon("value outside %s choice", c.Kind)
	}

	return b.Copy(v)
}

// members returns the set an Enum or Flags choice offers: the alternatives
// after the default, or the default itself when it is the only value.
func members(c parser.Choice) []parser.Pod {
	if len(c.Values) == 1 {
		return c.Values
	}

	return c.Values[1:]
}

func contains(set []parser.Pod, v parser.Pod) bool {
	for _, m := range set {
		if compare.Equal(m, v) {
			return true
		}
	}

	return false
}

// member reports whether the concrete value v satisfies the choice c.
func member(v parser.Pod, c parser.Choice) (bool, error) {
	if v.Type() != c.ChildType {
		return false, nil
	}

	switch c.Kind { //nolint: exhaustive
	case format.ChoiceNone:
		return compare.Equal(v, c.Values[0]), nil
	case format.ChoiceEnum:
		return contains(members(c), v), nil
	case format.ChoiceRange, format.ChoiceStep:
		bounds, err := decode(c)
		if err != nil {
			return false, err
		}
		x, err := scalar.Decode(v.Engine(), v.Type(), v.Body())
		if err != nil {
			return false, err
		}
		if !scalar.Within(x, bounds[1], bounds[2]) {
			return false, nil
		}
		return c.Kind == format.ChoiceRange || scalar.StepOf(x, bounds[1], bounds[3]), nil
	case format.ChoiceFlags:
		allowed, err := flagMask(c)
		if err != nil {
			return false, err
		}
		x, err := scalar.Decode(v.Engine(), v.Type(), v.Body())
		if err != nil {
			return false, err
		}
		return x.Mask()&^allowed == 0, nil
	default:
		return false, fmt.Errorf("%w: unknown choice kind %d", errs.ErrMalformed, uint32(c.Kind))
	}
}

// decode decodes the alternatives of an ordered Range or Step choice.
func decode(c parser.Choice) ([]scalar.Value, error) {
	if !scalar.Ordered(c.ChildType) {
		return nil, fmt.Errorf("%w: %s choice of unordered %s", errs.ErrMalformed, c.Kind, c.ChildType)
	}

	vals := make([]scalar.Value, len(c.Values))
	for i, pod := range c.Values {
		v, err := scalar.Decode(pod.Engine(), c.ChildType, pod.Body())
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}

	return vals, nil
}

func flagMask(c parser.Choice) (uint64, error) {
	if !scalar.Maskable(c.ChildType) {
		return 0, fmt.Errorf("%w: flags choice of %s", errs.ErrMalformed, c.ChildType)
	}

	var mask uint64
	for _, pod := range members(c) {
		v, err := scalar.Decode(pod.Engine(), c.ChildType, pod.Body())
		if err != nil {
			return 0, err
		}
		mask |= v.Mask()
	}

	return mask, nil
}

func intersectRanges(b *builder.Builder, rc, oc parser.Choice) error {
	rv, err := decode(rc)
	if err != nil {
		return err
	}
	ov, err := decode(oc)
	if err != nil {
		return err
	}

	lo := scalar.Lower(rv[1], ov[1])
	hi := scalar.Upper(rv[2], ov[2])
	if scalar.Empty(lo, hi) {
		return noCommon("ranges do not overlap")
	}

	// A Step side only accepts points on its own grid, counted from its min.
	var grids []scalar.Grid
	if rc.Kind == format.ChoiceStep {
		grids = append(grids, scalar.Grid{Origin: rv[1], Step: rv[3]})
	}
	if oc.Kind == format.ChoiceStep {
		grids = append(grids, scalar.Grid{Origin: ov[1], Step: ov[3]})
	}

	kind := format.ChoiceRange
	values := []scalar.Value{scalar.Clamp(rv[0], lo, hi), lo, hi}
	if len(grids) > 0 {
		var step scalar.Value
		var ok bool
		if lo, hi, step, ok = scalar.Align(lo, hi, grids...); !ok {
			return noCommon("no %s in range lies on every step", rc.ChildType)
		}
		kind = format.ChoiceStep
		values = []scalar.Value{scalar.Snap(rv[0], lo, hi, step), lo, hi, step}
	}

	if err := b.PushChoice(kind, rc.Flags); err != nil {
		return err
	}
	for _, v := range values {
		if err := b.Raw(rc.ChildType, v.Encode(b.Engine(), nil)); err != nil {
			return err
		}
	}

	return b.Pop()
}

// intersectEnums keeps the members of set accepted by keep, in order.
// The request default stays the default when it survives.
func intersectEnums(b *builder.Builder, rc parser.Choice, set []parser.Pod, keep func(parser.Pod) (bool, error)) error {
	var common []parser.Pod
	for _, m := range set {
		ok, err := keep(m)
		if err != nil {
			return err
		}
		if ok && !contains(common, m) {
			common = append(common, m)
		}
	}
	if len(common) == 0 {
		return noCommon("no common %s", rc.ChildType)
	}

	def := common[0]
	if d := rc.Values[0]; contains(common, d) {
		def = d
	}

	kind := format.ChoiceEnum
	if len(common) == 1 {
		kind = format.ChoiceNone
	}

	if err := b.PushChoice(kind, rc.Flags); err != nil {
		return err
	}
	if err := b.Copy(def); err != nil {
		return err
	}
	if kind == format.ChoiceEnum {
		for _, m := range common {
			if err := b.Copy(m); err != nil {
				return err
			}
		}
	}

	return b.Pop()
}

func intersectFlags(b *builder.Builder, rc, oc parser.Choice) error {
	rm, err := flagMask(rc)
	if err != nil {
		return err
	}
	om, err := flagMask(oc)
	if err != nil {
		return err
	}
	mask := rm & om
	if mask == 0 {
		return noCommon("flags %#x and %#x share no bit", rm, om)
	}

	def, err := scalar.Decode(rc.Values[0].Engine(), rc.ChildType, rc.Values[0].Body())
	if err != nil {
		return err
	}
	def = def.WithMask(def.Mask() & mask)

	if err := b.PushChoice(format.ChoiceFlags, rc.Flags); err != nil {
		return err
	}
	if err := b.Raw(rc.ChildType, def.Encode(b.Engine(), nil)); err != nil {
		return err
	}
	if err := b.Raw(rc.ChildType, def.WithMask(mask).Encode(b.Engine(), nil)); err != nil {
		return err
	}

	return b.Pop()
}
