package ggchart

import (
	"errors"
	"slices"
	"testing"
)

func TestRegistry(t *testing.T) {
	const name = "test-fake"
	t.Cleanup(func() { Unregister(name) })

	if IsRegistered(name) {
		t.Fatalf("%s registered before Register", name)
	}

	Register(name, func(w, h int) (Engine, error) {
		return newFakeEngine(w, h), nil
	})

	if !IsRegistered(name) {
		t.Error("IsRegistered() = false after Register")
	}
	if !slices.Contains(Available(), name) {
		t.Errorf("Available() = %v, missing %s", Available(), name)
	}

	e, err := NewEngine(name, 320, 200)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	if w, h := e.Size(); w != 320 || h != 200 {
		t.Errorf("Size() = %dx%d, want 320x200", w, h)
	}

	Unregister(name)
	if _, err := NewEngine(name, 1, 1); !errors.Is(err, ErrEngineNotRegistered) {
		t.Errorf("NewEngine() after Unregister error = %v, want ErrEngineNotRegistered", err)
	}
}

func TestRegistryFactoryError(t *testing.T) {
	const name = "test-broken"
	t.Cleanup(func() { Unregister(name) })

	boom := errors.New("boom")
	Register(name, func(int, int) (Engine, error) { return nil, boom })

	if _, err := NewEngine(name, 1, 1); !errors.Is(err, boom) {
		t.Errorf("NewEngine() error = %v, want wrapped boom", err)
	}
}

func TestRegisterNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Register(nil) did not panic")
		}
	}()
	Register("nil", nil)
}

func TestAvailableSorted(t *testing.T) {
	for _, n := range []string{"test-b", "test-a", "test-c"} {
		Register(n, func(w, h int) (Engine, error) { return newFakeEngine(w, h), nil })
		t.Cleanup(func() { Unregister(n) })
	}
	if got := Available(); !slices.IsSorted(got) {
		t.Errorf("Available() = %v, want sorted", got)
	}
}
