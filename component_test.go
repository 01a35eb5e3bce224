package archon

import (
	"errors"
	"testing"
	"unsafe"
)

func TestHashNameDeterministicAndNonZero(t *testing.T) {
	names := []string{"Velocity", "Health", "Inventory", ""}
	for _, name := range names {
		a := HashName(name)
		b := HashName(name)
		if a != b {
			t.Fatalf("HashName(%q) not deterministic: %d != %d", name, a, b)
		}
		if a == InvalidComponentId {
			t.Fatalf("HashName(%q) produced the reserved invalid id", name)
		}
	}
}

func TestNewComponentInfoZeroSizeNamedPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic constructing a zero-size ComponentInfo with a non-empty name")
		}
	}()
	NewComponentInfo("Marker", 0, 1, nil, nil)
}

func TestComponentRegistryReregisterSameKindIsIdempotent(t *testing.T) {
	reg := NewComponentRegistry()
	info := NewComponentInfo("Velocity", 8, 8, nil, nil)
	if err := reg.Register(info); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := reg.Register(info); err != nil {
		t.Fatalf("re-registering the same kind should be a no-op overwrite: %v", err)
	}
	got, ok := reg.Lookup(info.Id)
	if !ok || got.Name != "Velocity" {
		t.Fatalf("Lookup after re-register = %+v, %v", got, ok)
	}
}

func TestComponentRegistryDetectsIdCollision(t *testing.T) {
	reg := NewComponentRegistry()
	const sharedId = ComponentId(12345)
	a := ComponentInfo{Id: sharedId, Name: "Alpha", Size: 4, Align: 4,
		Construct: func(unsafe.Pointer) {}, Destruct: func(unsafe.Pointer) {}}
	b := ComponentInfo{Id: sharedId, Name: "Beta", Size: 4, Align: 4,
		Construct: func(unsafe.Pointer) {}, Destruct: func(unsafe.Pointer) {}}

	if err := reg.Register(a); err != nil {
		t.Fatalf("Register(a): %v", err)
	}
	err := reg.Register(b)
	if !errors.Is(err, ErrComponentIdCollision) {
		t.Fatalf("Register(b) = %v, want ErrComponentIdCollision", err)
	}
}
