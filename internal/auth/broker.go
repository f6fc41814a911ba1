package auth

import "sync"

type EventKind string

const (
	SignedIn       EventKind = "signed_in"
	TokenRefreshed EventKind = "token_refreshed"
	SignedOut      EventKind = "signed_out"
)

// Event is a session lifecycle notification from the auth provider.
// Session is nil for SignedOut.
type Event struct {
	Kind    EventKind
	Session *Session
}

// Broker fans session events out to registered observers. Subscribers get an
// unsubscribe func and are expected to call it on teardown; no ambient global
// state is involved.
type Broker struct {
	mu   sync.Mutex
	subs map[int]func(Event)
	next int
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[int]func(Event))}
}

func (b *Broker) Subscribe(fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	b.subs[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

func (b *Broker) Publish(e Event) {
	b.mu.Lock()
	fns := make([]func(Event), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}
