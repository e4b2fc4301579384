// Package realtime fans tracking events out to subscribers of per-order rooms.
//
// Publishing never blocks: an event is offered to every subscription of the order's
// room and dropped for subscriptions whose buffer is full. Listeners registered with
// OnLocationUpdate or OnDeliveryStatusChange are called synchronously for every event of
// their type, whatever room it belongs to.
package realtime

import (
	"context"
	"log/slog"
	"sync"

	"delivertrack/internal/core/domain/events"
	"delivertrack/internal/core/domain/model/kernel"
)

// DefaultBuffer is the subscription buffer used when Join is given a non-positive size.
const DefaultBuffer = 16

// Observer is told about hub activity, typically to feed metrics.
type Observer interface {
	EventPublished(eventType string)
	EventDropped(eventType string)
	SubscribersChanged(delta int)
}

type nopObserver struct{}

func (nopObserver) EventPublished(string) {}
func (nopObserver) EventDropped(string) {}
func (nopObserver) SubscribersChanged(int) {}

// Hub is an in-process pub/sub keyed by room. The zero value is not usable; use NewHub.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Subscription]struct{}

	listenerSeq      int
	locationListener map[int]func(events.LocationUpdated)
	statusListener   map[int]func(events.DeliveryStatusChanged)

	observer Observer
	logger   *slog.Logger
}

// NewHub creates a hub. observer may be nil.
func NewHub(observer Observer, logger *slog.Logger) *Hub {
	if observer == nil {
		observer = nopObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		rooms:            make(map[string]map[*Subscription]struct{}),
		locationListener: make(map[int]func(events.LocationUpdated)),
		statusListener:   make(map[int]func(events.DeliveryStatusChanged)),
		observer:         observer,
		logger:           logger.With("component", "RealtimeHub"),
	}
}

// Subscription receives the events of one room until it leaves.
type Subscription struct {
	hub  *Hub
	room string
	ch   chan events.Event
	once sync.Once
}

// Room returns the name of the joined room.
func (s *Subscription) Room() string {
	return s.room
}

// Events returns the channel delivering the room's events. It is closed on Leave.
func (s *Subscription) Events() <-chan events.Event {
	return s.ch
}

// Leave removes the subscription from its room. It is safe to call more than once.
func (s *Subscription) Leave() {
	s.hub.leave(s)
}

// Join subscribes to a room with the given buffer size.
func (h *Hub) Join(room string, buffer int) *Subscription {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	sub := &Subscription{hub: h, room: room, ch: make(chan events.Event, buffer)}

	h.mu.Lock()
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Subscription]struct{})
		h.rooms[room] = members
	}
	members[sub] = struct{}{}
	h.mu.Unlock()

	h.observer.SubscribersChanged(1)
	h.logger.Debug("joined room", "room", room)
	return sub
}

// JoinOrder subscribes to the room of an order.
func (h *Hub) JoinOrder(orderID kernel.ID, buffer int) *Subscription {
	return h.Join(events.Room(orderID), buffer)
}

func (h *Hub) leave(sub *Subscription) {
	sub.once.Do(func() {
		h.mu.Lock()
		if members, ok := h.rooms[sub.room]; ok {
			delete(members, sub)
			if len(members) == 0 {
				delete(h.rooms, sub.room)
			}
		}
		// Closing under the write lock keeps Publish from sending on a closed channel.
		close(sub.ch)
		h.mu.Unlock()

		h.observer.SubscribersChanged(-1)
		h.logger.Debug("left room", "room", sub.room)
	})
}

// Subscribers returns the number of subscriptions in a room.
func (h *Hub) Subscribers(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Publish delivers the event to its order's room and to the listeners of its type.
// It never fails; the error return satisfies ports.EventPublisher.
func (h *Hub) Publish(ctx context.Context, event events.Event) error {
	room := events.Room(event.OrderID())

	h.mu.RLock()
	for sub := range h.rooms[room] {
		select {
		case sub.ch <- event:
		default:
			h.observer.EventDropped(event.Type())
			h.logger.WarnContext(ctx, "subscriber buffer full, dropping event", "room", room, "type", event.Type())
		}
	}

	var (
		locationFns []func(events.LocationUpdated)
		statusFns   []func(events.DeliveryStatusChanged)
	)
	switch event.(type) {
	case events.LocationUpdated:
		for _, fn := range h.locationListener {
			locationFns = append(locationFns, fn)
		}
	case events.DeliveryStatusChanged:
		for _, fn := range h.statusListener {
			statusFns = append(statusFns, fn)
		}
	}
	h.mu.RUnlock()

	h.observer.EventPublished(event.Type())

	switch e := event.(type) {
	case events.LocationUpdated:
		for _, fn := range locationFns {
			fn(e)
		}
	case events.DeliveryStatusChanged:
		for _, fn := range statusFns {
			fn(e)
		}
	}
	return nil
}

// EmitLocationUpdate publishes a location sample for an order.
func (h *Hub) EmitLocationUpdate(ctx context.Context, orderID kernel.ID, location kernel.Location) error {
	return h.Publish(ctx, events.LocationUpdated{Order: orderID, Location: location})
}

// OnLocationUpdate registers fn for every location update. The returned func removes it.
func (h *Hub) OnLocationUpdate(fn func(events.LocationUpdated)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.listenerSeq++
	id := h.listenerSeq
	h.locationListener[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.locationListener, id)
	}
}

// OnDeliveryStatusChange registers fn for every status change. The returned func removes it.
func (h *Hub) OnDeliveryStatusChange(fn func(events.DeliveryStatusChanged)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.listenerSeq++
	id := h.listenerSeq
	h.statusListener[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.statusListener, id)
	}
}
