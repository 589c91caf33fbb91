// Package typeinfo names the numeric ids used in POD values.
//
// Every registered id has a long name ("Spa:Enum:AudioFormat:F32LE") and a
// short name (the part after the last ':'), looked up in both directions
// through a Table. The tables are built once at package initialization and
// never mutated afterwards, so lookups are safe from any goroutine. Extend
// returns a new table for vendor ids instead of modifying a shared one.
package typeinfo

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/arloliu/pod/format"
)

// Info describes one registered id.
type Info struct {
	ID     uint32
	Name   string      // long name
	Parent format.Type // value type the id is carried in
	Values *Table      // names of the values or keys under this id, if any
}

// ShortName returns the part of the long name after the last ':'.
func (i Info) ShortName() string {
	return i.Name[strings.LastIndexByte(i.Name, ':')+1:]
}

// Table is an immutable id/name lookup table.
type Table struct {
	name    string
	entries []Info
	byID    map[uint32]int
	byName  map[string]int
	byShort map[string]int
}

// NewTable builds a table. When ids repeat the first entry wins.
func NewTable(name string, entries ...Info) *Table {
	t := &Table{
		name:    name,
		entries: make([]Info, 0, len(entries)),
		byID:    make(map[uint32]int, len(entries)),
		byName:  make(map[string]int, len(entries)),
		byShort: make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if _, ok := t.byID[e.ID]; ok {
			continue
		}
		t.add(e)
	}

	return t
}

func (t *Table) add(e Info) {
	idx := len(t.entries)
	t.entries = append(t.entries, e)
	t.byID[e.ID] = idx
	t.byName[e.Name] = idx
	if _, ok := t.byShort[e.ShortName()]; !ok {
		t.byShort[e.ShortName()] = idx
	}
}

// Extend returns a new table holding t's entries plus entries.
// An added entry replaces an existing entry with the same id.
func (t *Table) Extend(entries ...Info) *Table {
	merged := make([]Info, 0, len(t.entries)+len(entries))
	merged = append(merged, t.entries...)

	for _, e := range entries {
		if idx, ok := t.byID[e.ID]; ok {
			merged[idx] = e
			continue
		}
		replaced := false
		for i := len(t.entries); i < len(merged); i++ {
			if merged[i].ID == e.ID {
				merged[i], replaced = e, true
				break
			}
		}
		if !replaced {
			merged = append(merged, e)
		}
	}

	return NewTable(t.name, merged...)
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// All yields the entries in registration order.
func (t *Table) All() iter.Seq[Info] {
	return func(yield func(Info) bool) {
		for _, e := range t.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// ByID looks up an id.
func (t *Table) ByID(id uint32) (Info, bool) {
	if t == nil {
		return Info{}, false
	}
	idx, ok := t.byID[id]
	if !ok {
		return Info{}, false
	}

	return t.entries[idx], true
}

// ByName looks up a long name.
func (t *Table) ByName(name string) (Info, bool) {
	idx, ok := t.byName[name]
	if !ok {
		return Info{}, false
	}

	return t.entries[idx], true
}

// ByShortName looks up a short name. When several entries share a short
// name the first registered one is returned.
func (t *Table) ByShortName(short string) (Info, bool) {
	idx, ok := t.byShort[short]
	if !ok {
		return Info{}, false
	}

	return t.entries[idx], true
}

// Short returns the short name of id, or the id in hex when unknown.
func (t *Table) Short(id uint32) string {
	if info, ok := t.ByID(id); ok {
		return info.ShortName()
	}

	return fmt.Sprintf("%#x", id)
}

// entry builds an Info from a typed id constant.
func entry[T ~uint32](prefix string, id T, short string, parent format.Type) Info {
	return Info{ID: uint32(id), Name: prefix + short, Parent: parent}
}

// enumerate builds the Infos of one enumeration sharing a prefix and parent.
func enumerate[T ~uint32](prefix string, parent format.Type, names map[T]string) []Info {
	out := make([]Info, 0, len(names))
	for id, short := range names {
		out = append(out, entry(prefix, id, short, parent))
	}
	slices.SortFunc(out, func(a, b Info) int { return cmp.Compare(a.ID, b.ID) })

	return out
}
