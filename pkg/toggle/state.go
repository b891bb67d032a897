package toggle

// State is the presentation state of a dependent element.
type State int

const (
	// StateUnknown means the rule has not been applied, usually because one
	// of the elements could not be resolved.
	StateUnknown State = iota
	StateVisible
	StateHidden
)

// StateFor maps the visible flag to a State.
func StateFor(visible bool) State {
	if visible {
		return StateVisible
	}
	return StateHidden
}

func (s State) String() string {
	switch s {
	case StateVisible:
		return "visible"
	case StateHidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// Visible reports whether the state is StateVisible.
func (s State) Visible() bool {
	return s == StateVisible
}

// MarshalText renders the state name for JSON and YAML reports.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
