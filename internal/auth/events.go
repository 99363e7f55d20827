package auth

// EventKind enumerates the token lifecycle transitions a session can report.
type EventKind int

const (
	// TokenExpired fires when Request finds the current token expired,
	// before any automatic renewal. Listeners on the implicit grant flow use
	// it to drive renewal themselves.
	TokenExpired EventKind = iota
	// TokenUpdated fires whenever the current token is replaced, even if the
	// new value equals the old one. Auto-refresh always triggers it, which
	// makes it the natural hook for persisting tokens.
	TokenUpdated
)

func (k EventKind) String() string {
	switch k {
	case TokenExpired:
		return "token_expired"
	case TokenUpdated:
		return "token_updated"
	default:
		return "unknown"
	}
}

// Event is a notification of a token lifecycle transition. Events are
// immutable and dispatched synchronously, never queued or coalesced.
type Event interface {
	Kind() EventKind
}

// TokenExpiredEvent carries the session, the expired token and the withhold
// flag the caller passed to Request.
type TokenExpiredEvent struct {
	Session       Session
	ExpiredToken  *Token
	WithholdToken bool
}

func (TokenExpiredEvent) Kind() EventKind { return TokenExpired }

// TokenUpdatedEvent carries the session, the previous token (nil on first
// installation) and the new token.
type TokenUpdatedEvent struct {
	Session  Session
	OldToken *Token
	NewToken *Token
}

func (TokenUpdatedEvent) Kind() EventKind { return TokenUpdated }

// Listener receives an event. A non-nil error aborts the operation that
// triggered the dispatch.
type Listener func(Event) error

// ListenerHandle identifies a registration for later removal.
type ListenerHandle struct {
	kind EventKind
	id   int
}

type listenerEntry struct {
	id int
	fn Listener
}

// listenerRegistry keeps an ordered list of subscribers per event kind.
// Invocation order is registration order.
type listenerRegistry struct {
	nextID  int
	entries map[EventKind][]listenerEntry
}

func (r *listenerRegistry) add(kind EventKind, fn Listener) ListenerHandle {
	if r.entries == nil {
		r.entries = make(map[EventKind][]listenerEntry)
	}
	r.nextID++
	r.entries[kind] = append(r.entries[kind], listenerEntry{id: r.nextID, fn: fn})
	return ListenerHandle{kind: kind, id: r.nextID}
}

func (r *listenerRegistry) remove(h ListenerHandle) error {
	entries := r.entries[h.kind]
	for i, entry := range entries {
		if entry.id == h.id {
			r.entries[h.kind] = append(entries[:i:i], entries[i+1:]...)
			return nil
		}
	}
	return ErrListenerNotFound
}

func (r *listenerRegistry) notify(e Event) error {
	for _, entry := range r.entries[e.Kind()] {
		if err := entry.fn(e); err != nil {
			return err
		}
	}
	return nil
}
