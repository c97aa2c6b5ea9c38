// Package telemetry provides particle population tracking, timing and CSV output.
package telemetry

import "github.com/pthm-cable/particlecore/host"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventSpawn EventType = iota
	EventEvict
	EventExpire
	EventSiteKill
	EventClear
)

func (t EventType) String() string {
	switch t {
	case EventSpawn:
		return "spawn"
	case EventEvict:
		return "evict"
	case EventExpire:
		return "expire"
	case EventSiteKill:
		return "site_kill"
	case EventClear:
		return "clear"
	}
	return "unknown"
}

// Event represents a single particle lifecycle event.
type Event struct {
	Type  EventType
	Tick  int32
	Kind  host.Kind
	Count int // Number of particles affected; 0 means 1
}

// NewSpawnEvent creates a spawn event.
func NewSpawnEvent(tick int32, kind host.Kind) Event {
	return Event{Type: EventSpawn, Tick: tick, Kind: kind}
}

// NewEvictEvent creates a pool eviction event.
func NewEvictEvent(tick int32, kind host.Kind) Event {
	return Event{Type: EventEvict, Tick: tick, Kind: kind}
}

// NewExpireEvent creates an age-out event.
func NewExpireEvent(tick int32, kind host.Kind) Event {
	return Event{Type: EventExpire, Tick: tick, Kind: kind}
}

// NewSiteKillEvent records n particles killed by a site kill.
func NewSiteKillEvent(tick int32, n int) Event {
	return Event{Type: EventSiteKill, Tick: tick, Count: n}
}

// NewClearEvent records n particles evicted by a bulk clear.
func NewClearEvent(tick int32, n int) Event {
	return Event{Type: EventClear, Tick: tick, Count: n}
}

func (e Event) count() int {
	if e.Count == 0 {
		return 1
	}
	return e.Count
}
