// Package compare tests POD values for structural equality.
//
// Equal is a value-equality test, not an ordering: scalars compare by value,
// ordered containers element by element, and objects property by property
// matched on key. Hash returns a fingerprint consistent with Equal, so equal
// values always hash alike. Key is the unrelated byte-wise ordering of
// property-table keys.
package compare

import (
	"bytes"
	"math"
	"strings"

	"github.com/arloliu/pod/format"
	"github.com/arloliu/pod/internal/hash"
	"github.com/arloliu/pod/internal/scalar"
	"github.com/arloliu/pod/parser"
)

// Key orders two property-table keys byte-wise.
func Key(a, b string) int {
	return strings.Compare(a, b)
}

// Equal reports whether a and b hold the same value.
//
// Values of different types are never equal. Object properties are matched
// by key (first match) and their flags are ignored; a key present on one
// side only makes the objects unequal. Malformed values compare unequal.
func Equal(a, b parser.Pod) bool {
	if a.Type() != b.Type() {
		return false
	}

	switch a.Type() { //nolint: exhaustive
	case format.TypeNone:
		return true
	case format.TypeBool:
		x, err1 := a.Bool()
		y, err2 := b.Bool()
		return err1 == nil && err2 == nil && x == y
	case format.TypeFloat, format.TypeDouble:
		x, err1 := scalar.Decode(a.Engine(), a.Type(), a.Body())
		y, err2 := scalar.Decode(b.Engine(), b.Type(), b.Body())
		return err1 == nil && err2 == nil && x.F == y.F
	case format.TypeID, format.TypeInt, format.TypeLong, format.TypeFd, format.TypeRectangle:
		x, err1 := scalar.Decode(a.Engine(), a.Type(), a.Body())
		y, err2 := scalar.Decode(b.Engine(), b.Type(), b.Body())
		return err1 == nil && err2 == nil && scalar.Compare(x, y) == 0
	case format.TypeFraction:
		x, err1 := a.Fraction()
		y, err2 := b.Fraction()
		if err1 != nil || err2 != nil {
			return false
		}
		if x.Denom == 0 || y.Denom == 0 {
			return x == y
		}
		return uint64(x.Num)*uint64(y.Denom) == uint64(y.Num)*uint64(x.Denom)
	case format.TypePointer:
		x, err1 := a.Pointer()
		y, err2 := b.Pointer()
		return err1 == nil && err2 == nil && x == y
	case format.TypeStruct:
		return equalStruct(a, b)
	case format.TypeArray:
		return equalArray(a, b)
	case format.TypeChoice:
		return equalChoice(a, b)
	case format.TypeObject:
		return equalObject(a, b)
	case format.TypeSequence:
		return equalSequence(a, b)
	default:
		return bytes.Equal(a.Body(), b.Body())
	}
}

// EqualBytes parses two buffers and compares their values.
func EqualBytes(a, b []byte, opts ...parser.Option) (bool, error) {
	pa, err := parser.Parse(a, opts...)
	if err != nil {
		return false, err
	}
	pb, err := parser.Parse(b, opts...)
	if err != nil {
		return false, err
	}

	return Equal(pa, pb), nil
}

func equalAll(a, b []parser.Pod) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}

	return true
}

func equalStruct(a, b parser.Pod) bool {
	x, err1 := a.Struct()
	y, err2 := b.Struct()

	return err1 == nil && err2 == nil && equalAll(x, y)
}

func equalArray(a, b parser.Pod) bool {
	x, err1 := a.Array()
	y, err2 := b.Array()
	if err1 != nil || err2 != nil {
		return false
	}
	if len(x.Values) == 0 && len(y.Values) == 0 {
		return true
	}

	return x.ChildType == y.ChildType && equalAll(x.Values, y.Values)
}

func equalChoice(a, b parser.Pod) bool {
	x, err1 := a.Choice()
	y, err2 := b.Choice()
	if err1 != nil || err2 != nil {
		return false
	}

	return x.Kind == y.Kind && x.ChildType == y.ChildType && equalAll(x.Values, y.Values)
}

func equalObject(a, b parser.Pod) bool {
	x, err1 := a.Object()
	y, err2 := b.Object()
	if err1 != nil || err2 != nil {
		return false
	}
	if x.Type != y.Type || x.ID != y.ID {
		return false
	}

	for _, p := range x.Props {
		q, ok := y.Find(p.Key)
		if !ok || !Equal(firstValue(x, p.Key), q.Value) {
			return false
		}
	}
	for _, q := range y.Props {
		if _, ok := x.Find(q.Key); !ok {
			return false
		}
	}

	return true
}

func firstValue(o parser.Object, key uint32) parser.Pod {
	p, _ := o.Find(key)
	return p.Value
}

func equalSequence(a, b parser.Pod) bool {
	x, err1 := a.Sequence()
	y, err2 := b.Sequence()
	if err1 != nil || err2 != nil {
		return false
	}
	if x.Unit != y.Unit || len(x.Controls) != len(y.Controls) {
		return false
	}
	for i := range x.Controls {
		cx, cy := x.Controls[i], y.Controls[i]
		if cx.Offset != cy.Offset || cx.Type != cy.Type || !Equal(cx.Value, cy.Value) {
			return false
		}
	}

	return true
}

// Hash returns a fingerprint of p. Values that are Equal have the same hash.
func Hash(p parser.Pod) uint64 {
	h := hash.New()
	writeHash(h, p)

	return h.Sum64()
}

func writeHash(h *hash.Digest, p parser.Pod) {
	h.WriteUint32(uint32(p.Type()))

	switch p.Type() { //nolint: exhaustive
	case format.TypeNone:
	case format.TypeBool:
		v, _ := p.Bool()
		if v {
			h.WriteUint32(1)
		} else {
			h.WriteUint32(0)
		}
	case format.TypeID, format.TypeInt, format.TypeLong, format.TypeFd, format.TypeRectangle:
		v, _ := scalar.Decode(p.Engine(), p.Type(), p.Body())
		h.WriteUint64(uint64(v.I)) //nolint: gosec
		h.WriteUint32(v.A)
		h.WriteUint32(v.B)
	case format.TypeFraction:
		v, _ := scalar.Decode(p.Engine(), p.Type(), p.Body())
		num, denom := reduce(v.A, v.B)
		h.WriteUint32(num)
		h.WriteUint32(denom)
	case format.TypeFloat, format.TypeDouble:
		v, _ := scalar.Decode(p.Engine(), p.Type(), p.Body())
		f := v.F
		if f == 0 {
			f = 0 // -0 == 0
		}
		h.WriteUint64(math.Float64bits(f))
	case format.TypePointer:
		v, _ := p.Pointer()
		h.WriteUint32(uint32(v.PointerType))
		h.WriteUint64(v.Value)
	case format.TypeStruct:
		fields, _ := p.Struct()
		hashAll(h, fields)
	case format.TypeArray:
		arr, _ := p.Array()
		if len(arr.Values) > 0 {
			h.WriteUint32(uint32(arr.ChildType))
		}
		hashAll(h, arr.Values)
	case format.TypeChoice:
		c, _ := p.Choice()
		h.WriteUint32(uint32(c.Kind))
		h.WriteUint32(uint32(c.ChildType))
		hashAll(h, c.Values)
	case format.TypeObject:
		hashObject(h, p)
	case format.TypeSequence:
		seq, _ := p.Sequence()
		h.WriteUint32(seq.Unit)
		h.WriteUint32(uint32(len(seq.Controls))) //nolint: gosec
		for _, c := range seq.Controls {
			h.WriteUint32(c.Offset)
			h.WriteUint32(uint32(c.Type))
			writeHash(h, c.Value)
		}
	default:
		h.Write(p.Body())
	}
}

func hashAll(h *hash.Digest, pods []parser.Pod) {
	h.WriteUint32(uint32(len(pods))) //nolint: gosec
	for _, pod := range pods {
		writeHash(h, pod)
	}
}

// hashObject combines the first property of each key order-independently.
func hashObject(h *hash.Digest, p parser.Pod) {
	obj, _ := p.Object()
	h.WriteUint32(uint32(obj.Type))
	h.WriteUint32(obj.ID)

	var sum uint64
	seen := make(map[uint32]struct{}, len(obj.Props))
	for _, prop := range obj.Props {
		if _, ok := seen[prop.Key]; ok {
			continue
		}
		seen[prop.Key] = struct{}{}

		ph := hash.New()
		ph.WriteUint32(prop.Key)
		writeHash(ph, prop.Value)
		sum += ph.Sum64()
	}
	h.WriteUint64(sum)
}

func reduce(num, denom uint32) (uint32, uint32) {
	switch {
	case denom == 0:
		return num, 0
	case num == 0:
		return 0, 1
	}

	a, b := num, denom
	for b != 0 {
		a, b = b, a%b
	}

	return num / a, denom / a
}
