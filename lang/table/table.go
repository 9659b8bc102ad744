// Package table implements the open-addressing, linear-probing hash table
// used throughout the virtual machine: the string intern set, the globals
// table, instance field tables, and class method tables (spec.md §4.2).
//
// The table is generic over its stored value type so the same probing and
// growth logic backs every one of those uses; only the key (always a Lox
// string's bytes) and hashing strategy are fixed.
package table

const maxLoad = 0.75

type entry[V any] struct {
	used      bool
	tombstone bool
	key       string
	hash      uint64
	value     V
}

// Table is an open-addressing hash table keyed by string bytes.
type Table[V any] struct {
	entries []entry[V]
	count   int // number of used slots, live or tombstone (drives the load factor)
}

// New returns an empty table. The zero value of Table is also ready to use.
func New[V any]() *Table[V] { return &Table[V]{} }

// Len returns the number of live entries.
func (t *Table[V]) Len() int {
	n := 0
	for i := range t.entries {
		if t.entries[i].used {
			n++
		}
	}
	return n
}

// Get returns the value associated with key, if any.
func (t *Table[V]) Get(key string) (V, bool) {
	var zero V
	if len(t.entries) == 0 {
		return zero, false
	}
	e := t.find(t.entries, key, fxHash(key))
	if !e.used {
		return zero, false
	}
	return e.value, true
}

// Has reports whether key is present, without fetching its value.
func (t *Table[V]) Has(key string) bool {
	_, ok := t.Get(key)
	return ok
}

// Set inserts or overwrites the value for key. It returns true if this is a
// brand-new key and false if an existing value was overwritten.
func (t *Table[V]) Set(key string, v V) bool {
	if len(t.entries) == 0 || t.count+1 > int(float64(len(t.entries))*maxLoad) {
		t.grow()
	}
	h := fxHash(key)
	e := t.find(t.entries, key, h)
	isNew := !e.used
	if isNew && !e.tombstone {
		t.count++
	}
	e.used = true
	e.tombstone = false
	e.key = key
	e.hash = h
	e.value = v
	return isNew
}

// Delete removes key, leaving a tombstone behind so that probe chains past
// it remain valid. Reports whether key was present.
func (t *Table[V]) Delete(key string) bool {
	if len(t.entries) == 0 {
		return false
	}
	e := t.find(t.entries, key, fxHash(key))
	if !e.used {
		return false
	}
	var zero V
	e.used = false
	e.tombstone = true
	e.key = ""
	e.value = zero
	return true
}

// Each calls fn for every live entry. fn must not mutate the table.
func (t *Table[V]) Each(fn func(key string, v V)) {
	for i := range t.entries {
		e := &t.entries[i]
		if e.used {
			fn(e.key, e.value)
		}
	}
}

// DeleteIf removes every live entry for which pred returns true. Used by the
// garbage collector to make the string intern set weak: after mark, any
// interned string not reachable from a root is evicted here rather than kept
// alive by the intern set itself (spec.md §4.2, §4.6).
func (t *Table[V]) DeleteIf(pred func(v V) bool) {
	for i := range t.entries {
		e := &t.entries[i]
		if e.used && pred(e.value) {
			var zero V
			e.used = false
			e.tombstone = true
			e.key = ""
			e.value = zero
		}
	}
}

// find locates the entry for (key, hash) in entries, or the slot where it
// should be inserted: the first tombstone encountered is preferred over a
// later never-used slot, per spec.md §4.2.
func (t *Table[V]) find(entries []entry[V], key string, hash uint64) *entry[V] {
	cap := uint64(len(entries))
	idx := hash & (cap - 1)
	var tombstone *entry[V]
	for {
		e := &entries[idx]
		switch {
		case !e.used && !e.tombstone:
			if tombstone != nil {
				return tombstone
			}
			return e
		case !e.used && e.tombstone:
			if tombstone == nil {
				tombstone = e
			}
		case e.hash == hash && e.key == key:
			return e
		}
		idx = (idx + 1) & (cap - 1)
	}
}

func (t *Table[V]) grow() {
	newCap := 8
	if n := len(t.entries); n > 0 {
		newCap = n * 2
	}
	newEntries := make([]entry[V], newCap)
	newCount := 0
	for i := range t.entries {
		old := &t.entries[i]
		if !old.used {
			continue
		}
		dst := t.find(newEntries, old.key, old.hash)
		dst.used = true
		dst.key = old.key
		dst.hash = old.hash
		dst.value = old.value
		newCount++
	}
	t.entries = newEntries
	t.count = newCount
}
