package archon

import (
	"sort"
	"unsafe"
)

// Allocation identifies one slot within one chunk of a ChunkList:
// (chunkIndex, slotIndex). SentinelAllocation means "no allocation" and is
// used for entities whose archetype is empty.
type Allocation struct {
	ChunkIndex int
	SlotIndex  int
}

// SentinelAllocation is the "no allocation" value.
var SentinelAllocation = Allocation{ChunkIndex: -1, SlotIndex: -1}

// IsSentinel reports whether a is the sentinel allocation.
func (a Allocation) IsSentinel() bool { return a.ChunkIndex < 0 }

// ComponentRange is the {offset, size} of one component's bytes within an
// entity's slot.
type ComponentRange struct {
	Offset uintptr
	Size   uintptr
}

// ChunkList is the chunk sequence for exactly one archetype: it owns the
// chunks, the per-component layout packed from that archetype's
// ComponentInfos, and entity-independent (chunk, slot) addressing. It does
// not know which entity occupies which slot — Archive owns that mapping.
type ChunkList struct {
	ranges    map[ComponentId]ComponentRange
	pool      *ChunkPool
	Archetype Archetype
	chunks    []*Chunk
	slotSize  uintptr
	chunkSize int
	alignment uintptr
}

// NewChunkList packs infos (which must describe exactly the components in
// archetype) into sequential, unpadded ComponentRanges starting at offset 0,
// in ascending ComponentId order, and returns a ChunkList ready to allocate
// chunks of chunkSize bytes aligned to alignment. If pool is non-nil, new
// chunks are carved from it instead of allocated directly.
func NewChunkList(archetype Archetype, infos []ComponentInfo, chunkSize int, alignment uintptr, pool *ChunkPool) *ChunkList {
	ordered := make([]ComponentInfo, len(infos))
	copy(ordered, infos)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Id < ordered[j].Id })

	ranges := make(map[ComponentId]ComponentRange, len(ordered))
	var offset uintptr
	for _, info := range ordered {
		ranges[info.Id] = ComponentRange{Offset: offset, Size: info.Size}
		offset += info.Size
	}
	slotSize := offset
	if slotSize == 0 {
		slotSize = 1
	}
	return &ChunkList{
		Archetype: archetype,
		ranges:    ranges,
		slotSize:  slotSize,
		chunkSize: chunkSize,
		alignment: alignment,
		pool:      pool,
	}
}

// FreeChunkIndex returns the index of the first non-full chunk, or
// len(chunks) if every existing chunk is full (meaning a new one must be
// appended).
func (cl *ChunkList) FreeChunkIndex() int {
	for i, c := range cl.chunks {
		if !c.IsFull() {
			return i
		}
	}
	return len(cl.chunks)
}

func (cl *ChunkList) newChunk() *Chunk {
	if cl.pool != nil {
		return NewChunkFromPool(cl.slotSize, cl.pool)
	}
	return NewChunk(cl.slotSize, cl.chunkSize, cl.alignment)
}

// Create finds the lowest-indexed non-full chunk (appending a new one if
// every chunk is full) and allocates a slot in it. Never fails absent OOM.
func (cl *ChunkList) Create() Allocation {
	idx := cl.FreeChunkIndex()
	if idx == len(cl.chunks) {
		cl.chunks = append(cl.chunks, cl.newChunk())
	}
	slot := cl.chunks[idx].Allocate()
	return Allocation{ChunkIndex: idx, SlotIndex: slot}
}

// Destroy deallocates alloc's slot. It never invokes any component
// destructor — that responsibility belongs to Archive.
func (cl *ChunkList) Destroy(alloc Allocation) {
	cl.chunks[alloc.ChunkIndex].Deallocate(alloc.SlotIndex)
}

// AddressOf returns the base address of alloc's slot.
func (cl *ChunkList) AddressOf(alloc Allocation) unsafe.Pointer {
	return cl.chunks[alloc.ChunkIndex].AddressOf(alloc.SlotIndex)
}

// AddressOfComponent returns the address of component id's bytes within
// alloc's slot, or ok=false if id is not part of this archetype.
func (cl *ChunkList) AddressOfComponent(alloc Allocation, id ComponentId) (ptr unsafe.Pointer, ok bool) {
	r, ok := cl.ranges[id]
	if !ok {
		return nil, false
	}
	base := cl.chunks[alloc.ChunkIndex].AddressOf(alloc.SlotIndex)
	return unsafe.Add(base, r.Offset), true
}

// Supports reports whether id is part of this ChunkList's archetype.
func (cl *ChunkList) Supports(id ComponentId) bool {
	_, ok := cl.ranges[id]
	return ok
}

// ComponentAllocationInfo returns the ComponentRange layout entry for id,
// with ok=false if id is not part of this archetype.
func (cl *ChunkList) ComponentAllocationInfo(id ComponentId) (ComponentRange, bool) {
	r, ok := cl.ranges[id]
	return r, ok
}

// ShrinkToFit drops the trailing run of empty chunks and returns how many
// were removed; an empty chunk followed by a non-empty one is kept.
// Remaining chunks retain their relative order so that Allocation values
// elsewhere that refer to surviving chunks stay valid. The design assumes
// empty chunks can only be the trailing run of a just-defragmented list; any
// caller that shrinks without first defragmenting must not hold outstanding
// allocations into chunks this call removes.
func (cl *ChunkList) ShrinkToFit() int {
	last := len(cl.chunks)
	for last > 0 && cl.chunks[last-1].IsEmpty() {
		last--
	}
	removed := len(cl.chunks) - last
	cl.chunks = cl.chunks[:last]
	return removed
}

// NumChunks returns the number of chunks currently in the list.
func (cl *ChunkList) NumChunks() int { return len(cl.chunks) }

// ChunkAt returns the chunk at index i.
func (cl *ChunkList) ChunkAt(i int) *Chunk { return cl.chunks[i] }

// MoveData byte-copies every component present in both src's and dst's
// layouts from src's slot into dst's slot, using each side's own offsets,
// then destroys the source allocation. No constructor or destructor runs:
// components present only in src have already had their destructor run by
// the caller before calling MoveData; components present only in dst are
// left in their raw, indeterminate allocated state for the caller to
// construct.
func MoveData(src *ChunkList, srcAlloc Allocation, dst *ChunkList, dstAlloc Allocation) {
	srcBase := src.AddressOf(srcAlloc)
	dstBase := dst.AddressOf(dstAlloc)
	for id, srcRange := range src.ranges {
		dstRange, ok := dst.ranges[id]
		if !ok {
			continue
		}
		if srcRange.Size != dstRange.Size {
			panic("archon: MoveData component size mismatch")
		}
		srcPtr := unsafe.Add(srcBase, srcRange.Offset)
		dstPtr := unsafe.Add(dstBase, dstRange.Offset)
		copyBytes(dstPtr, srcPtr, srcRange.Size)
	}
	src.Destroy(srcAlloc)
}

// copyBytes is memcpy via unsafe.Slice + copy, the idiomatic Go stand-in for
// a raw memcpy over two unsafe.Pointers of known size.
func copyBytes(dst, src unsafe.Pointer, size uintptr) {
	if size == 0 {
		return
	}
	dstBytes := unsafe.Slice((*byte)(dst), size)
	srcBytes := unsafe.Slice((*byte)(src), size)
	copy(dstBytes, srcBytes)
}
