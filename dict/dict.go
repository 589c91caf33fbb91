// Package dict is a string property table.
//
// A Dict is an ordered list of key/value items, such as the properties of a
// node or device. A sorted Dict answers Lookup by binary search over
// compare.Key; an unsorted one scans and returns the first match. Dicts
// travel inside POD values as a Struct holding the item count followed by
// alternating key and value strings.
package dict

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/arloliu/pod/builder"
	"github.com/arloliu/pod/compare"
	"github.com/arloliu/pod/errs"
	"github.com/arloliu/pod/format"
	"github.com/arloliu/pod/parser"
)

// Item is one key/value pair.
type Item struct {
	Key   string
	Value string
}

// Dict is a list of items, optionally sorted by key.
type Dict struct {
	items  []Item
	sorted bool
}

// New creates an unsorted dict holding items in the given order.
func New(items ...Item) *Dict {
	return &Dict{items: slices.Clone(items)}
}

// FromMap creates a sorted dict from m.
func FromMap(m map[string]string) *Dict {
	d := &Dict{items: make([]Item, 0, len(m))}
	for _, k := range slices.Sorted(maps.Keys(m)) {
		d.items = append(d.items, Item{Key: k, Value: m[k]})
	}
	d.sorted = true

	return d
}

// Len returns the number of items.
func (d *Dict) Len() int {
	return len(d.items)
}

// IsSorted reports whether the items are sorted by key.
func (d *Dict) IsSorted() bool {
	return d.sorted
}

// Items returns a copy of the items.
func (d *Dict) Items() []Item {
	return slices.Clone(d.items)
}

// All yields the items in order.
func (d *Dict) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, it := range d.items {
			if !yield(it.Key, it.Value) {
				return
			}
		}
	}
}

// Sort orders the items by key. Items with equal keys keep their order.
func (d *Dict) Sort() {
	slices.SortStableFunc(d.items, func(a, b Item) int { return compare.Key(a.Key, b.Key) })
	d.sorted = true
}

// Set replaces the first item with the given key or appends a new one.
func (d *Dict) Set(key, value string) {
	if i, ok := d.index(key); ok {
		d.items[i].Value = value
		return
	}

	d.items = append(d.items, Item{Key: key, Value: value})
	if d.sorted && len(d.items) > 1 && compare.Key(d.items[len(d.items)-2].Key, key) > 0 {
		d.sorted = false
	}
}

// Lookup returns the value of the first item with the given key.
func (d *Dict) Lookup(key string) (string, bool) {
	i, ok := d.index(key)
	if !ok {
		return "", false
	}

	return d.items[i].Value, true
}

func (d *Dict) index(key string) (int, bool) {
	if d.sorted {
		i, ok := slices.BinarySearchFunc(d.items, key, func(it Item, k string) int {
			return compare.Key(it.Key, k)
		})
		return i, ok
	}

	for i, it := range d.items {
		if it.Key == key {
			return i, true
		}
	}

	return 0, false
}

// Encode appends d to b as Struct{Int n, String key, String value, ...}.
func Encode(b *builder.Builder, d *Dict) error {
	if err := b.PushStruct(); err != nil {
		return err
	}
	if err := b.Int(int32(len(d.items))); err != nil { //nolint: gosec
		return err
	}
	for _, it := range d.items {
		if err := b.String(it.Key); err != nil {
			return err
		}
		if err := b.String(it.Value); err != nil {
			return err
		}
	}

	return b.Pop()
}

// Decode reads a dict written by Encode. The result is unsorted unless
// the keys happen to be in order.
func Decode(p parser.Pod) (*Dict, error) {
	fields, err := p.Struct()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: dict without item count", errs.ErrMalformed)
	}

	n, err := fields[0].Int()
	if err != nil {
		return nil, fmt.Errorf("dict item count: %w", err)
	}
	if n < 0 || len(fields) != 1+2*int(n) {
		return nil, fmt.Errorf("%w: dict declares %d items in %d fields", errs.ErrMalformed, n, len(fields))
	}

	d := &Dict{items: make([]Item, 0, n), sorted: true}
	for i := 1; i < len(fields); i += 2 {
		key, err := str(fields[i])
		if err != nil {
			return nil, err
		}
		val, err := str(fields[i+1])
		if err != nil {
			return nil, err
		}
		if len(d.items) > 0 && compare.Key(d.items[len(d.items)-1].Key, key) > 0 {
			d.sorted = false
		}
		d.items = append(d.items, Item{Key: key, Value: val})
	}

	return d, nil
}

func str(p parser.Pod) (string, error) {
	if p.Type() != format.TypeString {
		return "", fmt.Errorf("%w: dict entry is %s, want String", errs.ErrTypeMismatch, p.Type())
	}

	return p.StringValue()
}
