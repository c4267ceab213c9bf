package session

type State int

const (
	Unknown State = iota
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Reason says why a transition happened.
type Reason int

const (
	ReasonNone Reason = iota
	// ReasonRestored: a cached token was accepted at startup.
	ReasonRestored
	// ReasonNoSession: nothing was cached at startup.
	ReasonNoSession
	// ReasonRevoked: the cached token was rejected at startup.
	ReasonRevoked
	ReasonLogin
	ReasonLogoutRequested
	// ReasonSessionExpired: the transport reported an auth failure.
	ReasonSessionExpired
)

func (r Reason) String() string {
	switch r {
	case ReasonRestored:
		return "restored"
	case ReasonNoSession:
		return "no session"
	case ReasonRevoked:
		return "revoked"
	case ReasonLogin:
		return "login"
	case ReasonLogoutRequested:
		return "logout requested"
	case ReasonSessionExpired:
		return "session expired"
	default:
		return "none"
	}
}

// Event is delivered to observers on every state change.
type Event struct {
	State  State
	Reason Reason
}
