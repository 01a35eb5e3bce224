package archon

import "unsafe"

// ChunkPool fronts per-chunk aligned allocation with one large aligned
// arena, carved into chunkSize-sized regions up front. It is optional:
// ChunkLists that are not given a pool allocate each Chunk's backing region
// directly from the system allocator instead, with identical observable
// behavior either way.
type ChunkPool struct {
	arena     []byte
	free      []int
	chunkSize int
}

// NewChunkPool carves a poolSize-byte arena, aligned to alignment, into
// chunkSize-sized regions.
func NewChunkPool(poolSize, chunkSize int, alignment uintptr) *ChunkPool {
	if chunkSize <= 0 || poolSize < chunkSize {
		panic("archon: invalid ChunkPool sizing")
	}
	regions := poolSize / chunkSize
	p := &ChunkPool{
		arena:     alignedAlloc(uintptr(poolSize), alignment),
		chunkSize: chunkSize,
		free:      make([]int, regions),
	}
	for i := range p.free {
		// Highest index first so Allocate (pop-from-tail) hands out
		// low-numbered regions first, matching Chunk's own lowest-first bias.
		p.free[i] = regions - 1 - i
	}
	return p
}

// Allocate pops a chunkSize-byte region from the arena. Returns nil if the
// arena is exhausted.
func (p *ChunkPool) Allocate() []byte {
	if len(p.free) == 0 {
		return nil
	}
	idx := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	start := idx * p.chunkSize
	return p.arena[start : start+p.chunkSize : start+p.chunkSize]
}

// Deallocate returns a region obtained from Allocate back to the pool.
func (p *ChunkPool) Deallocate(region []byte) {
	base := uintptr(unsafe.Pointer(&p.arena[0]))
	regionBase := uintptr(unsafe.Pointer(&region[0]))
	idx := int(regionBase-base) / p.chunkSize
	p.free = append(p.free, idx)
}
