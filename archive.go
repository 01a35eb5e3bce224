package archon

import "unsafe"

// InitMode controls whether Archive.Attach runs a component's registered
// default-constructor or leaves the new component's bytes for the caller to
// placement-initialize (used when the caller is about to immediately
// overwrite them with constructor arguments).
type InitMode int

const (
	// DefaultConstruct runs the component's registered Construct thunk on
	// the freshly allocated bytes.
	DefaultConstruct InitMode = iota
	// PlacementInit skips the constructor; the caller is responsible for
	// initializing the returned bytes before they are read.
	PlacementInit
)

type archetypeEntry struct {
	archetype Archetype
	list      *ChunkList
}

type entityData struct {
	archetype Archetype
	alloc     Allocation
}

// Archive is the public façade over the storage engine: it owns a
// ComponentRegistry, an append-only (Archetype, ChunkList) index, and the
// entity → (archetype, allocation) table, and exposes attach / detach / get
// / destroy / query-archetype / defragment / shrink.
//
// Archive is single-owner: no method is safe to call concurrently with any
// other method on the same Archive.
type Archive struct {
	registry  *ComponentRegistry
	entries   []*archetypeEntry
	byDigest  map[uint64][]int
	entities  map[Entity]*entityData
	pool      *ChunkPool
	chunkSize int
	alignment uintptr
}

// ArchiveOption configures a newly constructed Archive.
type ArchiveOption func(*Archive)

// WithChunkSize overrides the default 16 KiB chunk size.
func WithChunkSize(size int) ArchiveOption {
	return func(a *Archive) { a.chunkSize = size }
}

// WithAlignment overrides the default 64-byte chunk alignment.
func WithAlignment(alignment uintptr) ArchiveOption {
	return func(a *Archive) { a.alignment = alignment }
}

// WithChunkPool backs every ChunkList's chunk allocation with pool instead
// of the system allocator.
func WithChunkPool(pool *ChunkPool) ArchiveOption {
	return func(a *Archive) { a.pool = pool }
}

// NewArchive returns an empty Archive backed by registry.
func NewArchive(registry *ComponentRegistry, opts ...ArchiveOption) *Archive {
	a := &Archive{
		registry:  registry,
		byDigest:  make(map[uint64][]int),
		entities:  make(map[Entity]*entityData),
		chunkSize: ChunkSize,
		alignment: ChunkAlignment,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (ar *Archive) findChunkList(a Archetype) (*ChunkList, bool) {
	for _, idx := range ar.byDigest[a.digest] {
		if ar.entries[idx].archetype.Equal(a) {
			return ar.entries[idx].list, true
		}
	}
	return nil, false
}

// getOrCreateChunkList returns the ChunkList for archetype a, creating and
// appending a new (Archetype, ChunkList) entry if none exists yet. The
// entries slice only ever grows by appending, so references into it — and
// the *ChunkList pointers it hands out — remain valid across insertions.
func (ar *Archive) getOrCreateChunkList(a Archetype) *ChunkList {
	if list, ok := ar.findChunkList(a); ok {
		return list
	}
	infos := make([]ComponentInfo, 0, a.Len())
	for _, id := range a.Ids() {
		info, ok := ar.registry.Lookup(id)
		if !ok {
			panic("archon: archetype references an unregistered component id")
		}
		infos = append(infos, info)
	}
	list := NewChunkList(a, infos, ar.chunkSize, ar.alignment, ar.pool)
	idx := len(ar.entries)
	ar.entries = append(ar.entries, &archetypeEntry{archetype: a, list: list})
	ar.byDigest[a.digest] = append(ar.byDigest[a.digest], idx)
	return list
}

// Attach adds component id to entity and returns a pointer to its bytes. If
// entity already owns id, Attach is a no-op and returns (nil, false) — it
// never reconstructs an existing component. mode controls whether the new
// bytes are default-constructed or left for the caller to
// placement-initialize.
func (ar *Archive) Attach(entity Entity, id ComponentId, mode InitMode) (unsafe.Pointer, bool) {
	ed, exists := ar.entities[entity]
	oldArch := EmptyArchetype
	oldAlloc := SentinelAllocation
	if exists {
		oldArch = ed.archetype
		oldAlloc = ed.alloc
	}
	if oldArch.Contains(id) {
		return nil, false
	}

	newArch := oldArch.With(id)
	newList := ar.getOrCreateChunkList(newArch)
	newAlloc := newList.Create()

	if !oldArch.IsEmpty() {
		oldList, ok := ar.findChunkList(oldArch)
		if !ok {
			panic("archon: entity's current archetype has no chunk list")
		}
		MoveData(oldList, oldAlloc, newList, newAlloc)
	}

	if !exists {
		ed = &entityData{}
		ar.entities[entity] = ed
	}
	ed.archetype = newArch
	ed.alloc = newAlloc

	ptr, _ := newList.AddressOfComponent(newAlloc, id)
	if mode == DefaultConstruct {
		info, _ := ar.registry.Lookup(id)
		info.Construct(ptr)
	}
	return ptr, true
}

// Detach removes component id from entity, running its destructor first. A
// no-op if entity does not currently own id (or is unknown to the archive).
func (ar *Archive) Detach(entity Entity, id ComponentId) {
	ed, exists := ar.entities[entity]
	if !exists || !ed.archetype.Contains(id) {
		return
	}
	oldArch, oldAlloc := ed.archetype, ed.alloc
	oldList, ok := ar.findChunkList(oldArch)
	if !ok {
		panic("archon: entity's current archetype has no chunk list")
	}

	ptr, _ := oldList.AddressOfComponent(oldAlloc, id)
	info, _ := ar.registry.Lookup(id)
	info.Destruct(ptr)

	newArch := oldArch.Without(id)
	if newArch.IsEmpty() {
		oldList.Destroy(oldAlloc)
		ed.archetype = newArch
		ed.alloc = SentinelAllocation
		return
	}

	newList := ar.getOrCreateChunkList(newArch)
	newAlloc := newList.Create()
	MoveData(oldList, oldAlloc, newList, newAlloc)
	ed.archetype = newArch
	ed.alloc = newAlloc
}

// Get returns a pointer to entity's component id, or (nil, false) if entity
// does not own it. The pointer is a short-lived borrow: any subsequent
// Attach, Detach, Destroy, Defragment, or ShrinkToFit touching the relevant
// chunk list invalidates it. Use GetHandle for a reference stable across
// those calls.
func (ar *Archive) Get(entity Entity, id ComponentId) (unsafe.Pointer, bool) {
	ed, exists := ar.entities[entity]
	if !exists || !ed.archetype.Contains(id) {
		return nil, false
	}
	list, ok := ar.findChunkList(ed.archetype)
	if !ok {
		return nil, false
	}
	return list.AddressOfComponent(ed.alloc, id)
}

// GetHandle returns an opaque Handle that re-resolves entity's component id
// through this Archive on every Deref call, surviving migrations,
// defragmentation, and chunk-list growth.
func (ar *Archive) GetHandle(entity Entity, id ComponentId) Handle {
	return Handle{archive: ar, entity: entity, id: id}
}

// DestroyEntity runs the destructor for every component entity currently
// owns, frees its slot, and removes it from the archive. A no-op if entity
// is not present.
func (ar *Archive) DestroyEntity(entity Entity) {
	ed, exists := ar.entities[entity]
	if !exists {
		return
	}
	if !ed.archetype.IsEmpty() {
		list, ok := ar.findChunkList(ed.archetype)
		if ok {
			for _, id := range ed.archetype.Ids() {
				ptr, _ := list.AddressOfComponent(ed.alloc, id)
				info, _ := ar.registry.Lookup(id)
				info.Destruct(ptr)
			}
			list.Destroy(ed.alloc)
		}
	}
	delete(ar.entities, entity)
}

// QueryArchetype returns entity's current archetype, or EmptyArchetype if
// entity is unknown to the archive.
func (ar *Archive) QueryArchetype(entity Entity) Archetype {
	ed, exists := ar.entities[entity]
	if !exists {
		return EmptyArchetype
	}
	return ed.archetype
}

// IsSameArchetype reports whether e1 and e2 currently own the exact same set
// of components. Two entities absent from the archive compare equal.
func (ar *Archive) IsSameArchetype(e1, e2 Entity) bool {
	return ar.QueryArchetype(e1).Equal(ar.QueryArchetype(e2))
}

// Defragment re-packs every chunk list toward the front: for each entity
// whose allocation sits at or beyond the list's current first-non-full
// chunk, it reallocates (landing, by the chunk allocator's lowest-first
// policy, at the lowest free slot of that first non-full chunk, which is at
// or before its current chunk), migrates the data, and updates
// the entity's allocation. No constructors or destructors run. Raw pointers
// obtained from prior Get calls are invalidated; Handles remain valid.
func (ar *Archive) Defragment() {
	for _, ed := range ar.entities {
		if ed.archetype.IsEmpty() || ed.alloc.IsSentinel() {
			continue
		}
		list, ok := ar.findChunkList(ed.archetype)
		if !ok {
			continue
		}
		if list.FreeChunkIndex() <= ed.alloc.ChunkIndex {
			newAlloc := list.Create()
			MoveData(list, ed.alloc, list, newAlloc)
			ed.alloc = newAlloc
		}
	}
}

// ShrinkToFit optionally defragments, then drops every trailing run of
// empty chunks from every chunk list, returning the total number of chunks
// removed.
func (ar *Archive) ShrinkToFit(alsoDefragment bool) int {
	if alsoDefragment {
		ar.Defragment()
	}
	total := 0
	for _, entry := range ar.entries {
		total += entry.list.ShrinkToFit()
	}
	return total
}

// Close destroys every remaining entity (running its components'
// destructors) and releases the archive's chunk lists. After Close, the
// Archive is empty but may be reused.
func (ar *Archive) Close() {
	for entity := range ar.entities {
		ar.DestroyEntity(entity)
	}
	ar.entries = nil
	ar.byDigest = make(map[uint64][]int)
}

// NumEntities returns the number of entities currently tracked by the
// archive, including those with an empty archetype.
func (ar *Archive) NumEntities() int { return len(ar.entities) }

// Registry returns the archive's component registry.
func (ar *Archive) Registry() *ComponentRegistry { return ar.registry }
