package web

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/glimmerlab/ornascene/gesture"
	"github.com/glimmerlab/ornascene/input"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// rawInputEvent is the renderer page's wire format for pointer, touch and
// wheel events.
type rawInputEvent struct {
	Type       string  `json:"type"`
	X          float32 `json:"x"`
	Separation float32 `json:"separation"`
	Delta      float32 `json:"delta"`
}

func (ev *rawInputEvent) decode() (input.Event, bool) {
	switch ev.Type {
	case "pointerdown":
		return input.PointerDownEvent{X: ev.X}, true
	case "pointermove":
		return input.PointerMoveEvent{X: ev.X}, true
	case "pointerup":
		return input.PointerUpEvent{}, true
	case "pinchstart":
		return input.PinchStartEvent{Separation: ev.Separation}, true
	case "pinchmove":
		return input.PinchMoveEvent{Separation: ev.Separation}, true
	case "pinchend":
		return input.PinchEndEvent{}, true
	case "wheel":
		return input.WheelEvent{Delta: ev.Delta}, true
	}
	return nil, false
}

// HandlerInputWS receives raw input events from the renderer page and
// queues them for the engine. Malformed events are logged and skipped; the
// frame loop never waits on this connection.
func (s *Server) HandlerInputWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var raw rawInputEvent
		if err := json.Unmarshal(data, &raw); err != nil {
			log.Printf("[web] Malformed input event: %v", err)
			continue
		}
		if ev, ok := raw.decode(); ok {
			s.engine.Dispatch(ev)
		} else {
			log.Printf("[web] Unknown input event type %q", raw.Type)
		}
	}
}

// HandlerGestureWS receives samples from the external vision process and
// publishes them into the single-slot exchange. The producer sets its own
// cadence; only the latest value is ever consumed.
func (s *Server) HandlerGestureWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	for {
		var sample gesture.Sample
		if err := conn.ReadJSON(&sample); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[web] Gesture stream ended: %v", err)
			}
			return
		}
		s.slot.Publish(sample)
	}
}
