package archon

import (
	"reflect"
	"unsafe"
)

// Generic, typed sugar over the untyped core. Only the untyped Archive
// methods carry real logic — RegisterType/Attach/Get/Detach are thin facades
// that resolve a ComponentId for T and cast the raw pointer, mirroring how a
// statically typed caller would wrap any type-erased storage engine.
//
// The T → ComponentId cache is keyed per ComponentRegistry, not globally:
// two independent registries may register the same Go type under distinct
// ids (or one may omit it entirely), and a global cache would let a lookup
// against the wrong registry silently hit a stale id.
var typeIds = make(map[*ComponentRegistry]map[reflect.Type]ComponentId)

// typeFor mirrors reflect.TypeFor (added in Go 1.22); kept local since this
// module builds against Go 1.21.
func typeFor[T any]() reflect.Type {
	var v T
	if t := reflect.TypeOf(v); t != nil {
		return t
	}
	return reflect.TypeOf((*T)(nil)).Elem()
}

// RegisterType registers T as a component kind (named after its reflect
// type) in reg and returns its ComponentId. Idempotent: calling it again for
// the same (reg, T) pair returns the same id without re-registering.
func RegisterType[T any](reg *ComponentRegistry) ComponentId {
	var zero T
	t := typeFor[T]()
	ids, ok := typeIds[reg]
	if !ok {
		ids = make(map[reflect.Type]ComponentId)
		typeIds[reg] = ids
	}
	if id, ok := ids[t]; ok {
		return id
	}
	construct := func(ptr unsafe.Pointer) { *(*T)(ptr) = zero }
	info := NewComponentInfo(t.String(), unsafe.Sizeof(zero), unsafe.Alignof(zero), construct, nil)
	if err := reg.Register(info); err != nil {
		panic(err)
	}
	ids[t] = info.Id
	return info.Id
}

func typeId[T any](reg *ComponentRegistry) (ComponentId, bool) {
	ids, ok := typeIds[reg]
	if !ok {
		return InvalidComponentId, false
	}
	id, ok := ids[typeFor[T]()]
	return id, ok
}

// Attach adds a component of type T to entity, default-constructing it (the
// constructor RegisterType installs writes T's Go zero value), and returns a
// pointer to it. Panics if T was never passed to RegisterType.
func Attach[T any](ar *Archive, entity Entity) (*T, bool) {
	id, ok := typeId[T](ar.Registry())
	if !ok {
		panic("archon: type not registered; call RegisterType[T] first")
	}
	ptr, ok := ar.Attach(entity, id, DefaultConstruct)
	if !ok {
		return nil, false
	}
	return (*T)(ptr), true
}

// Get retrieves entity's component of type T, or (nil, false) if absent.
func Get[T any](ar *Archive, entity Entity) (*T, bool) {
	id, ok := typeId[T](ar.Registry())
	if !ok {
		return nil, false
	}
	ptr, ok := ar.Get(entity, id)
	if !ok {
		return nil, false
	}
	return (*T)(ptr), true
}

// Detach removes entity's component of type T, if present.
func Detach[T any](ar *Archive, entity Entity) {
	id, ok := typeId[T](ar.Registry())
	if !ok {
		return
	}
	ar.Detach(entity, id)
}
