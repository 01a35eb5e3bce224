// Package archon implements an archetype-based Entity-Component storage
// engine: entities are opaque handles, components are type-erased byte
// records, and entities sharing the same exact set of component kinds (their
// archetype) are packed contiguously into fixed-size aligned chunks to keep
// bulk iteration cache-friendly.
//
// The package is single-owner: an Archive and everything it reaches
// (chunk lists, chunks, indices) form one exclusive-access unit with no
// internal locking. The only operation safe to call concurrently is
// GenerateEntity.
package archon

// ChunkSize is the default size, in bytes, of one Chunk's backing region.
const ChunkSize = 16384

// ChunkAlignment is the default alignment, in bytes, of a Chunk's backing
// region and of the ChunkPool arena it is carved from.
const ChunkAlignment = 64

// DefaultPoolSize is the default arena size, in bytes, for a ChunkPool.
const DefaultPoolSize = 64 * 1024 * 1024

// LargePoolSize is the arena size used by the large-workload ChunkPool
// variant, for callers that need headroom beyond DefaultPoolSize.
const LargePoolSize = 512 * 1024 * 1024
