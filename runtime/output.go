package pruntime

type OutputKind int

const (
	OutputLog OutputKind = iota
	OutputEmit
	OutputFetch
	OutputDelay
	OutputNavigate
)

func (k OutputKind) String() string {
	switch k {
	case OutputLog:
		return "log"
	case OutputEmit:
		return "emit"
	case OutputFetch:
		return "fetch"
	case OutputDelay:
		return "delay"
	case OutputNavigate:
		return "navigate"
	default:
		return "output"
	}
}

// Output is one observable side effect of running an action.
type Output struct {
	Kind  OutputKind
	Text  string
	Event string
	Data  Value
}
