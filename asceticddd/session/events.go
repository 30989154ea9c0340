package session

type SessionScopeStartedEvent struct {
	Session Session
}

type SessionScopeEndedEvent struct {
	Session Session
	Err     error
}

// FlushedEvent is sent after a flush has applied its removals and assigned
// identifiers.
type FlushedEvent struct {
	Session    Session
	Removed    []any
	Identified []any
}
