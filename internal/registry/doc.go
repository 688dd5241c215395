// Package registry holds the emulated devices of the CAN bus.
//
// A Registry maps device ids to their last decoded state. It stands in for the
// state a real bus driver would own, so there is normally exactly one per
// process, created lazily by Instance on first use and never torn down.
// Code that needs an isolated registry (tests, multiple emulators) uses New.
//
// # Exclusive Access
//
// The map is only reachable through a Handle obtained from Acquire. Acquire
// blocks until no other holder exists and returns the handle together with a
// release function that must run on every exit path:
//
//	h, release := registry.Acquire()
//	defer release()
//	h.Upsert(dev.ID, dev)
//
// A holder that never releases blocks every later bus call; this is a
// programming error. Using a handle after its release panics.
package registry
