// Package publish mirrors device state to an MQTT broker.
//
// A Publisher is a bus.Observer. Every stored update is queued and published
// retained to "<prefix>/device/<id>" with the serialized device as payload,
// so a subscriber joining late sees the current state of every controller.
//
// Publishing happens on a background goroutine; a full queue drops the update
// with a warning instead of stalling the bus caller.
package publish
