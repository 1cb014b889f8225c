package types

// ------------------------
// Input events
// ------------------------

// EventKind discriminates the two input sources.
type EventKind uint8

const (
	EventButton EventKind = iota
	EventEncoder
)

func (k EventKind) String() string {
	switch k {
	case EventButton:
		return "button"
	case EventEncoder:
		return "encoder"
	default:
		return "unknown"
	}
}

// InputEvent is created in interrupt context and consumed exactly once by
// the lighting controller. Never mutated after creation.
//
// Button: Data 1 = press, 0 = release.
// Encoder: Data +1 or -1, one detent step.
type InputEvent struct {
	Kind EventKind
	Data int8
	TSms int64 // producer timestamp, Unix milliseconds
}

// ------------------------
// Lighting state (retained on "light/state")
// ------------------------

type LightState struct {
	On         bool   `json:"on"`
	Brightness uint16 `json:"brightness"` // 0..Top (logical)
	Drops      uint32 `json:"drops,omitempty"`
}

// LightSet is the payload for "light/control/set".
type LightSet struct {
	Brightness uint16 `json:"brightness"` // 0..Top (logical)
}
