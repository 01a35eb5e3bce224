package archon

import (
	"errors"
	"fmt"
	"unsafe"
)

// ComponentId is a stable, nonzero 32-bit identifier for a registered
// component kind, derived deterministically from the kind's name. Zero is
// reserved as invalid.
type ComponentId uint32

// InvalidComponentId is the reserved zero id.
const InvalidComponentId ComponentId = 0

// ConstructFunc default-constructs a component instance in place at ptr.
type ConstructFunc func(ptr unsafe.Pointer)

// DestructFunc runs a component's destructor in place at ptr.
type DestructFunc func(ptr unsafe.Pointer)

// ComponentInfo describes one registered component kind: its identity,
// storage footprint, and the thunks used to bring an instance into and out
// of existence. It is created once at registration and is immutable
// thereafter.
type ComponentInfo struct {
	Construct ConstructFunc
	Destruct  DestructFunc
	Name      string
	Id        ComponentId
	Size      uintptr
	Align     uintptr
}

// NewComponentInfo builds a ComponentInfo for a kind named name, deriving its
// Id from the name via HashName. construct/destruct may be nil, in which case
// they are no-ops — appropriate for zero-size tag components.
//
// Constructing a zero-size component under a non-empty name is a programmer
// error and panics; use the empty string for true zero-size marker kinds.
func NewComponentInfo(name string, size, align uintptr, construct ConstructFunc, destruct DestructFunc) ComponentInfo {
	if size == 0 && name != "" {
		panic("archon: zero-size ComponentInfo must be registered with an empty name")
	}
	if construct == nil {
		construct = func(unsafe.Pointer) {}
	}
	if destruct == nil {
		destruct = func(unsafe.Pointer) {}
	}
	return ComponentInfo{
		Id:        HashName(name),
		Name:      name,
		Size:      size,
		Align:     align,
		Construct: construct,
		Destruct:  destruct,
	}
}

// ErrComponentIdCollision is returned by ComponentRegistry.Register when two
// distinct component kind names hash to the same ComponentId. The ELF hash
// used by HashName has ample entropy for the small kind counts typical of
// this system, but collisions are a programmer-visible condition, not one to
// paper over silently.
var ErrComponentIdCollision = errors.New("archon: component id collision between distinct kind names")

// ComponentRegistry is a process-wide map from ComponentId to the
// ComponentInfo captured at registration time. Registration is idempotent:
// re-registering the same id with the same name overwrites the entry (last
// writer wins). Registering a different name that happens to hash to an
// already-occupied id is a collision and is reported via
// ErrComponentIdCollision.
type ComponentRegistry struct {
	infos map[ComponentId]ComponentInfo
}

// NewComponentRegistry returns an empty registry ready for use.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{infos: make(map[ComponentId]ComponentInfo)}
}

// Register installs info in the registry under info.Id. It returns
// ErrComponentIdCollision if a different kind is already registered under
// that id.
func (r *ComponentRegistry) Register(info ComponentInfo) error {
	if info.Id == InvalidComponentId {
		return fmt.Errorf("archon: cannot register the invalid component id")
	}
	if existing, ok := r.infos[info.Id]; ok && existing.Name != info.Name {
		return fmt.Errorf("%w: %q and %q both hash to %d", ErrComponentIdCollision, existing.Name, info.Name, info.Id)
	}
	r.infos[info.Id] = info
	return nil
}

// Lookup returns the ComponentInfo registered under id, if any.
func (r *ComponentRegistry) Lookup(id ComponentId) (ComponentInfo, bool) {
	info, ok := r.infos[id]
	return info, ok
}

// HashName derives a stable, nonzero 32-bit ComponentId from a component
// kind's registered name using the ELF string hash — the same algorithm the
// original implementation used for this purpose. Any deterministic nonzero
// 32-bit hash is an equally valid substitute; the specific algorithm is not
// load-bearing for correctness, only for stability across registrations.
func HashName(name string) ComponentId {
	var hash, x uint32
	for i := 0; i < len(name); i++ {
		hash = (hash << 4) + uint32(name[i])
		x = hash & 0xF0000000
		if x != 0 {
			hash ^= x >> 24
		}
		hash &^= x
	}
	if hash == 0 {
		// Fold the reserved-zero sentinel onto a fixed nonzero bucket rather
		// than silently colliding every empty/degenerate name onto 0.
		hash = 0x9e3779b9
	}
	return ComponentId(hash)
}
