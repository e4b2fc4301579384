package session

import (
	"errors"
	"time"

	"delivertrack/internal/core/domain/model/kernel"
	"delivertrack/internal/pkg/errs"
)

const (
	// OriginLat and OriginLng are the coordinates every new session is seeded with
	// (New York City) until the partner's device reports a real position.
	OriginLat = 40.7128
	OriginLng = -74.006
)

// ErrDeliverySessionIsNotConstructed is returned when a DeliverySession was not created
// through NewDeliverySession or RestoreDeliverySession.
var ErrDeliverySessionIsNotConstructed = errors.New(
	"DeliverySession must be created via NewDeliverySession constructor")

// ErrDeliverySessionAlreadyExists is returned when storing a second session for an order.
var ErrDeliverySessionAlreadyExists = errs.NewValueIsInvalidErrorWithCause(
	"order id",
	errors.New("order already has a delivery session"),
)

// DeliverySession tracks the delivery of a single order. It is keyed by order id, so an
// order has at most one session, and sessions are closed rather than deleted.
//
// The route is append-only: every recorded sample is kept in arrival order, with no
// deduplication and no check that timestamps increase. The last recorded sample is the
// current location.
type DeliverySession struct {
	orderID           kernel.ID
	deliveryPartnerID kernel.ID

	currentLocation *kernel.Location
	route           []kernel.Location

	startedAt *time.Time
	endedAt   *time.Time

	isConstructed bool
}

// NewDeliverySession opens a session seeded with a single sample. The seed becomes both
// the current location and the only route entry, and the session start equals the seed
// capture time.
//
// Example:
//
//	seed, _ := kernel.NewLocation(session.OriginLat, session.OriginLng, time.Now())
//	s, err := session.NewDeliverySession(orderID, partnerID, seed)
func NewDeliverySession(orderID kernel.ID, partnerID kernel.ID, seed kernel.Location) (*DeliverySession, error) {
	if err := seed.Validate(); err != nil {
		return nil, err
	}

	started := seed.RecordedAt()
	return RestoreDeliverySession(orderID, partnerID, &seed, []kernel.Location{seed}, &started, nil)
}

// RestoreDeliverySession rebuilds a session from persisted state.
//
// Returns an error when an identifier is invalid, a location was not constructed, or
// the session ended before it started.
func RestoreDeliverySession(
	orderID kernel.ID,
	partnerID kernel.ID,
	currentLocation *kernel.Location,
	route []kernel.Location,
	startedAt *time.Time,
	endedAt *time.Time,
) (*DeliverySession, error) {
	if err := errors.Join(orderID.Validate(), partnerID.Validate()); err != nil {
		return nil, err
	}
	if currentLocation != nil {
		if err := currentLocation.Validate(); err != nil {
			return nil, err
		}
	}
	for _, loc := range route {
		if err := loc.Validate(); err != nil {
			return nil, err
		}
	}
	if startedAt != nil && endedAt != nil && endedAt.Before(*startedAt) {
		return nil, errs.NewValueIsInvalidError("end time is before start time")
	}

	s := &DeliverySession{
		orderID:           orderID,
		deliveryPartnerID: partnerID,
		route:             append([]kernel.Location(nil), route...),
		startedAt:         copyTime(startedAt),
		endedAt:           copyTime(endedAt),
		isConstructed:     true,
	}
	if currentLocation != nil {
		loc := *currentLocation
		s.currentLocation = &loc
	}

	return s, nil
}

// Validate ensures the session was properly constructed.
func (s *DeliverySession) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrDeliverySessionIsNotConstructed
	}
	return nil
}

// OrderID returns the order the session tracks; it is also the session key.
func (s *DeliverySession) OrderID() kernel.ID {
	return s.orderID
}

// DeliveryPartnerID returns the partner carrying the order.
func (s *DeliverySession) DeliveryPartnerID() kernel.ID {
	return s.deliveryPartnerID
}

// CurrentLocation returns the most recent sample, or nil if none was recorded.
func (s *DeliverySession) CurrentLocation() *kernel.Location {
	if s.currentLocation == nil {
		return nil
	}
	loc := *s.currentLocation
	return &loc
}

// Route returns a copy of every recorded sample in arrival order.
func (s *DeliverySession) Route() []kernel.Location {
	return append([]kernel.Location(nil), s.route...)
}

// RouteLen returns the number of recorded samples.
func (s *DeliverySession) RouteLen() int {
	return len(s.route)
}

// StartedAt returns when the session was opened, if known.
func (s *DeliverySession) StartedAt() *time.Time {
	return copyTime(s.startedAt)
}

// EndedAt returns when the session was closed, or nil while it is active.
func (s *DeliverySession) EndedAt() *time.Time {
	return copyTime(s.endedAt)
}

// IsActive reports whether the session has not been closed yet.
func (s *DeliverySession) IsActive() bool {
	return s.endedAt == nil
}

// RecordLocation makes loc the current location and appends it to the route.
func (s *DeliverySession) RecordLocation(loc kernel.Location) error {
	if err := loc.Validate(); err != nil {
		return err
	}

	s.currentLocation = &loc
	s.route = append(s.route, loc)
	return nil
}

// Close stamps the end of the session. Closing an already closed session moves the end
// to the new instant.
func (s *DeliverySession) Close(now time.Time) {
	if s.startedAt != nil && now.Before(*s.startedAt) {
		now = *s.startedAt
	}
	end := now.Truncate(time.Millisecond)
	s.endedAt = &end
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
