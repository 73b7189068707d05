package notification

import (
	"context"
	"sync"
)

// defaultStreamBuffer eventos pendientes por stream antes de descartar.
const defaultStreamBuffer = 16

var _ Feed = (*Broker)(nil)

type subscriber struct {
	ch chan Event
}

// Broker reparte los eventos de un único listener entre los streams abiertos de cada destinatario.
// Publish nunca bloquea: si un stream lento tiene el buffer lleno, el evento se descarta para él.
type Broker struct {
	mu     sync.Mutex
	subs   map[string]map[*subscriber]struct{}
	buffer int
}

// NewBroker construye el broker. buffer <= 0 usa el valor por defecto.
func NewBroker(buffer int) *Broker {
	if buffer <= 0 {
		buffer = defaultStreamBuffer
	}
	return &Broker{subs: make(map[string]map[*subscriber]struct{}), buffer: buffer}
}

// Publish entrega ev a los streams del destinatario y devuelve a cuántos llegó.
func (b *Broker) Publish(ev Event) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	delivered := 0
	for s := range b.subs[ev.RecipientID] {
		select {
		case s.ch <- ev:
			delivered++
		default:
		}
	}
	return delivered
}

// Listen registra un stream para recipientID y llama fn por cada evento hasta que ctx termina
// (devuelve nil) o fn falla (devuelve ese error).
func (b *Broker) Listen(ctx context.Context, recipientID string, fn func(Event) error) error {
	s := b.subscribe(recipientID)
	defer b.unsubscribe(recipientID, s)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-s.ch:
			if err := fn(ev); err != nil {
				return err
			}
		}
	}
}

// Subscribers streams abiertos en total.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, set := range b.subs {
		n += len(set)
	}
	return n
}

func (b *Broker) subscribe(recipientID string) *subscriber {
	s := &subscriber{ch: make(chan Event, b.buffer)}
	b.mu.Lock()
	defer b.mu.Unlock()
	set, ok := b.subs[recipientID]
	if !ok {
		set = make(map[*subscriber]struct{})
		b.subs[recipientID] = set
	}
	set[s] = struct{}{}
	return s
}

func (b *Broker) unsubscribe(recipientID string, s *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	set := b.subs[recipientID]
	delete(set, s)
	if len(set) == 0 {
		delete(b.subs, recipientID)
	}
}
