package server

// State is the lifecycle state of the server process. The coordinator
// is its only writer; other components may read it but never
// transition it.
type State int32

const (
	// StateStarting is the initial state, before the socket binds.
	StateStarting State = iota

	// StateListening means the socket bound and requests are served.
	StateListening

	// StateShuttingDown means a termination signal was observed and
	// connection draining is in progress.
	StateShuttingDown

	// StateStopped means draining completed and the socket is closed.
	StateStopped
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateListening:
		return "listening"
	case StateShuttingDown:
		return "shutting down"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
