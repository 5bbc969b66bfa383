package components

// State is a person's behavioural state.
type State uint8

const (
	StateIdle State = iota
	StateWandering
	StateWalking
	StateCrossingStreet
	StateDeciding // stopped in front of a directive tile
	StateEntering
	StateCount
)

var stateNames = [...]string{
	StateIdle:           "idle",
	StateWandering:      "wandering",
	StateWalking:        "walking",
	StateCrossingStreet: "crossing_street",
	StateDeciding:       "deciding",
	StateEntering:       "entering",
}

// String returns the config name of a state.
func (s State) String() string {
	if s < StateCount {
		return stateNames[s]
	}
	return "unknown"
}

// ParseState maps a config name to a State.
func ParseState(name string) (State, bool) {
	for i, n := range stateNames {
		if n == name {
			return State(i), true
		}
	}
	return StateIdle, false
}
