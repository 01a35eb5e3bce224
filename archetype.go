package archon

import (
	"hash/fnv"
	"sort"
)

// Archetype is the canonical ordered set of ComponentIds an entity currently
// owns. Order is always ascending numeric, so two archetypes are equal iff
// their component sets are equal, independent of attach order.
type Archetype struct {
	ids    []ComponentId
	digest uint64
}

// EmptyArchetype is the archetype of an entity that owns no components.
var EmptyArchetype = NewArchetype()

// NewArchetype builds a canonical Archetype from an arbitrary (possibly
// unsorted, possibly duplicated) list of ids.
func NewArchetype(ids ...ComponentId) Archetype {
	cp := make([]ComponentId, len(ids))
	copy(cp, ids)
	sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })
	cp = dedupSorted(cp)
	return Archetype{ids: cp, digest: digestOf(cp)}
}

func dedupSorted(ids []ComponentId) []ComponentId {
	if len(ids) < 2 {
		return ids
	}
	out := ids[:1]
	for _, id := range ids[1:] {
		if id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return out
}

func digestOf(sortedIds []ComponentId) uint64 {
	h := fnv.New64a()
	buf := make([]byte, 4)
	for _, id := range sortedIds {
		buf[0] = byte(id)
		buf[1] = byte(id >> 8)
		buf[2] = byte(id >> 16)
		buf[3] = byte(id >> 24)
		_, _ = h.Write(buf)
	}
	return h.Sum64()
}

// IsEmpty reports whether the archetype has no components.
func (a Archetype) IsEmpty() bool { return len(a.ids) == 0 }

// Len returns the number of distinct components in the archetype.
func (a Archetype) Len() int { return len(a.ids) }

// Ids returns the archetype's component ids in canonical ascending order.
// The returned slice must not be mutated.
func (a Archetype) Ids() []ComponentId { return a.ids }

// Contains reports whether the archetype includes id.
func (a Archetype) Contains(id ComponentId) bool {
	i := sort.Search(len(a.ids), func(i int) bool { return a.ids[i] >= id })
	return i < len(a.ids) && a.ids[i] == id
}

// ContainsAll reports whether a is a superset of other.
func (a Archetype) ContainsAll(other Archetype) bool {
	for _, id := range other.ids {
		if !a.Contains(id) {
			return false
		}
	}
	return true
}

// Intersects reports whether a and other share at least one component.
func (a Archetype) Intersects(other Archetype) bool {
	i, j := 0, 0
	for i < len(a.ids) && j < len(other.ids) {
		switch {
		case a.ids[i] == other.ids[j]:
			return true
		case a.ids[i] < other.ids[j]:
			i++
		default:
			j++
		}
	}
	return false
}

// Equal reports whether a and other are the same set of components.
func (a Archetype) Equal(other Archetype) bool {
	if a.digest != other.digest || len(a.ids) != len(other.ids) {
		return false
	}
	for i := range a.ids {
		if a.ids[i] != other.ids[i] {
			return false
		}
	}
	return true
}

// With returns the archetype formed by adding id (a no-op, value-equal
// result if id is already present).
func (a Archetype) With(id ComponentId) Archetype {
	if a.Contains(id) {
		return a
	}
	next := make([]ComponentId, len(a.ids)+1)
	copy(next, a.ids)
	next[len(a.ids)] = id
	return NewArchetype(next...)
}

// Without returns the archetype formed by removing id (a no-op, value-equal
// result if id is absent).
func (a Archetype) Without(id ComponentId) Archetype {
	if !a.Contains(id) {
		return a
	}
	next := make([]ComponentId, 0, len(a.ids)-1)
	for _, existing := range a.ids {
		if existing != id {
			next = append(next, existing)
		}
	}
	return Archetype{ids: next, digest: digestOf(next)}
}
