package views

type State int

const (
	Detached State = iota
	Active
	Suspended
	Destroyed
)

func (s State) String() string {
	switch s {
	case Detached:
		return "detached"
	case Active:
		return "active"
	case Suspended:
		return "suspended"
	case Destroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

type lifecycle struct {
	state State
}

func (l *lifecycle) State() State { return l.state }

func (l *lifecycle) Suspend() { l.state = Suspended }

func (l *lifecycle) Destroy() { l.state = Destroyed }
