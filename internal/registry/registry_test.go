package registry

import (
	"sync"
	"testing"
	"time"

	"github.com/muurk/canemu/internal/can"
)

func TestInstance_Singleton(t *testing.T) {
	a := Instance()
	b := Instance()
	if a == nil || a != b {
		t.Fatalf("Instance() returned %p and %p, want the same non-nil registry", a, b)
	}
}

func TestHandle_UpsertLookup(t *testing.T) {
	r := New()

	h, release := r.Acquire()
	if _, ok := h.Lookup(4); ok {
		t.Error("Lookup(4) found a device in an empty registry")
	}
	h.Upsert(4, can.Device{Type: can.TalonSRX, ID: 4, Speed: 0.5})
	h.Upsert(4, can.Device{Type: can.TalonSRX, ID: 4, Speed: 0.75})
	release()

	h, release = r.Acquire()
	defer release()

	got, ok := h.Lookup(4)
	if !ok {
		t.Fatal("Lookup(4) = not found after Upsert")
	}
	if got.Speed != 0.75 {
		t.Errorf("Lookup(4).Speed = %v, want 0.75 (overwrite)", got.Speed)
	}
	if h.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.Len())
	}
}

func TestHandle_DevicesSorted(t *testing.T) {
	r := New()
	h, release := r.Acquire()
	defer release()

	for _, id := range []uint8{9, 1, 33, 2} {
		h.Upsert(id, can.Device{Type: can.VictorSPX, ID: id})
	}

	devs := h.Devices()
	want := []uint8{1, 2, 9, 33}
	if len(devs) != len(want) {
		t.Fatalf("Devices() returned %d devices, want %d", len(devs), len(want))
	}
	for i, d := range devs {
		if d.ID != want[i] {
			t.Errorf("Devices()[%d].ID = %d, want %d", i, d.ID, want[i])
		}
	}
}

func TestHandle_UseAfterReleasePanics(t *testing.T) {
	r := New()
	h, release := r.Acquire()
	release()
	release() // second release is a no-op

	defer func() {
		if recover() == nil {
			t.Error("Lookup() after release did not panic")
		}
	}()
	h.Lookup(1)
}

func TestAcquire_Exclusive(t *testing.T) {
	r := New()
	_, release := r.Acquire()

	acquired := make(chan struct{})
	go func() {
		_, rel := r.Acquire()
		close(acquired)
		rel()
	}()

	select {
	case <-acquired:
		t.Fatal("second Acquire() succeeded while the first handle was held")
	case <-time.After(50 * time.Millisecond):
	}

	release()

	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("second Acquire() did not proceed after release")
	}
}

func TestAcquire_Concurrent(t *testing.T) {
	r := New()
	const workers = 16
	const rounds = 200

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			id := uint8(w)
			for i := 0; i < rounds; i++ {
				h, release := r.Acquire()
				d, _ := h.Lookup(id)
				d.Type = can.TalonSRX
				d.ID = id
				d.Speed++
				h.Upsert(id, d)
				release()
			}
		}(w)
	}
	wg.Wait()

	h, release := r.Acquire()
	defer release()
	for w := 0; w < workers; w++ {
		d, ok := h.Lookup(uint8(w))
		if !ok || d.Speed != rounds {
			t.Errorf("device %d speed = %v (found %v), want %d", w, d.Speed, ok, rounds)
		}
	}
}

func TestRegistry_ZeroValue(t *testing.T) {
	var r Registry

	h, release := r.Acquire()
	h.Upsert(4, can.Device{Type: can.VictorSPX, ID: 4})
	release()

	h, release = r.Acquire()
	defer release()
	if d, ok := h.Lookup(4); !ok || d.Type != can.VictorSPX {
		t.Errorf("Lookup(4) = %+v, %v; want stored VictorSPX", d, ok)
	}
}
