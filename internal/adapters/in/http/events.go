package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"delivertrack/internal/adapters/out/realtime"
	"delivertrack/internal/core/domain/events"
	"delivertrack/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

type locationUpdateMessage struct {
	OrderId  string   `json:"orderId"`
	Location Location `json:"location"`
}

type deliveryStatusChangeMessage struct {
	OrderId string `json:"orderId"`
	Status  string `json:"status"`
}

func eventMessage(event events.Event) (any, error) {
	switch e := event.(type) {
	case events.LocationUpdated:
		return locationUpdateMessage{
			OrderId: e.Order.String(),
			Location: Location{
				Lat:       e.Location.Lat(),
				Lng:       e.Location.Lng(),
				Timestamp: e.Location.TimestampMillis(),
			},
		}, nil
	case events.DeliveryStatusChanged:
		return deliveryStatusChangeMessage{OrderId: e.Order.String(), Status: e.Status.String()}, nil
	default:
		return nil, fmt.Errorf("unsupported event type %q", event.Type())
	}
}

// GetOrderEvents handles GET /api/v1/orders/{orderId}/events. It joins the order's room
// and streams its events as server-sent events until the client goes away.
func (s *Server) GetOrderEvents(ctx echo.Context, orderId string) error {
	orderID, err := kernel.IDFromString(orderId)
	if err != nil {
		return writeError(ctx, s.logger, err)
	}

	sub := s.hub.JoinOrder(orderID, realtime.DefaultBuffer)
	defer sub.Leave()

	w := ctx.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	// The first comment tells the client the stream is open.
	if _, err = fmt.Fprintf(w, ": joined %s\n\n", sub.Room()); err != nil {
		return nil
	}
	w.Flush()

	keepAlive := time.NewTicker(s.keepAlive)
	defer keepAlive.Stop()

	done := ctx.Request().Context().Done()
	for {
		select {
		case <-done:
			return nil
		case <-keepAlive.C:
			if _, err = fmt.Fprint(w, ": ping\n\n"); err != nil {
				return nil
			}
			w.Flush()
		case event, ok := <-sub.Events():
			if !ok {
				return nil
			}
			message, err := eventMessage(event)
			if err != nil {
				s.logger.Warn("skipping event", "error", err)
				continue
			}
			data, err := json.Marshal(message)
			if err != nil {
				s.logger.Warn("skipping event", "type", event.Type(), "error", err)
				continue
			}
			if _, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type(), data); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
