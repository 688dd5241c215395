package registry

import (
	"sort"
	"sync"

	"github.com/muurk/canemu/internal/can"
)

var (
	// Process-wide instance (created lazily)
	globalRegistry     *Registry
	globalRegistryOnce sync.Once
)

// Registry is a lock-guarded mapping from device id to device state.
// The zero value is an empty registry ready to use.
type Registry struct {
	mu      sync.Mutex
	devices map[uint8]can.Device
}

// New creates an empty, independent Registry.
func New() *Registry {
	return &Registry{devices: make(map[uint8]can.Device)}
}

// Instance returns the process-wide registry, creating it on first call.
func Instance() *Registry {
	globalRegistryOnce.Do(func() {
		globalRegistry = New()
	})
	return globalRegistry
}

// Acquire takes exclusive access to the process-wide registry.
func Acquire() (*Handle, func()) {
	return Instance().Acquire()
}

// Acquire blocks until the registry is free and returns a handle plus the
// function that releases it. Calling release more than once is harmless.
func (r *Registry) Acquire() (*Handle, func()) {
	r.mu.Lock()
	if r.devices == nil {
		r.devices = make(map[uint8]can.Device)
	}
	h := &Handle{devices: r.devices, live: true}

	var once sync.Once
	release := func() {
		once.Do(func() {
			h.live = false
			h.devices = nil
			r.mu.Unlock()
		})
	}
	return h, release
}

// Handle is temporary exclusive access to a Registry's devices.
type Handle struct {
	devices map[uint8]can.Device
	live    bool
}

func (h *Handle) check() {
	if !h.live {
		panic("registry: handle used after release")
	}
}

// Upsert stores d under id, replacing any existing entry.
func (h *Handle) Upsert(id uint8, d can.Device) {
	h.check()
	h.devices[id] = d
}

// Lookup returns the device stored under id.
func (h *Handle) Lookup(id uint8) (can.Device, bool) {
	h.check()
	d, ok := h.devices[id]
	return d, ok
}

// Len returns the number of stored devices.
func (h *Handle) Len() int {
	h.check()
	return len(h.devices)
}

// Devices returns a copy of every stored device ordered by id.
func (h *Handle) Devices() []can.Device {
	h.check()
	ids := make([]int, 0, len(h.devices))
	for id := range h.devices {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)

	out := make([]can.Device, 0, len(ids))
	for _, id := range ids {
		out = append(out, h.devices[uint8(id)])
	}
	return out
}
