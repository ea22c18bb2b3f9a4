package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrClosed is returned by Subscribe and Publish once the bus is closed.
// Listeners registered with SubscribeWithErr receive it when that happens.
var ErrClosed = errors.New("pubsub closed")

type Listener func(ctx context.Context, message []byte)

type ListenerWithErr func(ctx context.Context, message []byte, err error)

type genericListener struct {
	l  Listener
	le ListenerWithErr
}

func (g genericListener) send(ctx context.Context, message []byte) {
	if g.l != nil {
		g.l(ctx, message)
	}
	if g.le != nil {
		g.le(ctx, message, nil)
	}
}

func (g genericListener) drop(ctx context.Context, err error) {
	if g.le != nil {
		g.le(ctx, nil, err)
	}
}

// Pubsub fans each published message out to every listener of the event and
// returns once all of them have run.
type Pubsub struct {
	mut       sync.RWMutex
	closed    bool
	listeners map[string]map[uuid.UUID]genericListener
}

func New() *Pubsub {
	return &Pubsub{
		listeners: make(map[string]map[uuid.UUID]genericListener),
	}
}

func (m *Pubsub) Subscribe(event string, listener Listener) (cancel func(), err error) {
	return m.subscribeGeneric(event, genericListener{l: listener})
}

func (m *Pubsub) SubscribeWithErr(event string, listener ListenerWithErr) (cancel func(), err error) {
	return m.subscribeGeneric(event, genericListener{le: listener})
}

func (m *Pubsub) subscribeGeneric(event string, listener genericListener) (cancel func(), err error) {
	m.mut.Lock()
	defer m.mut.Unlock()
	if m.closed {
		return nil, ErrClosed
	}

	listeners, ok := m.listeners[event]
	if !ok {
		listeners = map[uuid.UUID]genericListener{}
		m.listeners[event] = listeners
	}
	var id uuid.UUID
	for {
		id = uuid.New()
		if _, ok = listeners[id]; !ok {
			break
		}
	}
	listeners[id] = listener

	return func() {
		m.mut.Lock()
		defer m.mut.Unlock()
		listeners := m.listeners[event]
		delete(listeners, id)
		if len(listeners) == 0 {
			delete(m.listeners, event)
		}
	}, nil
}

// Publish runs listeners outside the lock so they may subscribe or cancel.
func (m *Pubsub) Publish(event string, message []byte) error {
	m.mut.RLock()
	if m.closed {
		m.mut.RUnlock()
		return ErrClosed
	}
	listeners := make([]genericListener, 0, len(m.listeners[event]))
	for _, l := range m.listeners[event] {
		listeners = append(listeners, l)
	}
	m.mut.RUnlock()

	var wg sync.WaitGroup
	for _, listener := range listeners {
		wg.Add(1)
		go func() {
			defer wg.Done()
			listener.send(context.Background(), message)
		}()
	}
	wg.Wait()

	return nil
}

func (m *Pubsub) Close() error {
	m.mut.Lock()
	if m.closed {
		m.mut.Unlock()
		return nil
	}
	m.closed = true
	var dropped []genericListener
	for _, listeners := range m.listeners {
		for _, l := range listeners {
			dropped = append(dropped, l)
		}
	}
	m.listeners = make(map[string]map[uuid.UUID]genericListener)
	m.mut.Unlock()

	for _, l := range dropped {
		l.drop(context.Background(), ErrClosed)
	}
	return nil
}
