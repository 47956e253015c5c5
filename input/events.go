package input

// Event is one raw input occurrence delivered by the host (websocket
// handler, test harness). Events are queued and applied on the engine
// goroutine so the Controller keeps a single writer.
type Event interface {
	Apply(c *Controller)
}

type PointerDownEvent struct {
	X float32 `json:"x"`
}

type PointerMoveEvent struct {
	X float32 `json:"x"`
}

type PointerUpEvent struct{}

type PinchStartEvent struct {
	Separation float32 `json:"separation"`
}

type PinchMoveEvent struct {
	Separation float32 `json:"separation"`
}

type PinchEndEvent struct{}

type WheelEvent struct {
	Delta float32 `json:"delta"`
}

func (e PointerDownEvent) Apply(c *Controller) { c.PointerDown(e.X) }
func (e PointerMoveEvent) Apply(c *Controller) { c.PointerMove(e.X) }
func (e PointerUpEvent) Apply(c *Controller)   { c.PointerUp() }
func (e PinchStartEvent) Apply(c *Controller)  { c.PinchStart(e.Separation) }
func (e PinchMoveEvent) Apply(c *Controller)   { c.PinchMove(e.Separation) }
func (e PinchEndEvent) Apply(c *Controller)    { c.PinchEnd() }
func (e WheelEvent) Apply(c *Controller)       { c.Wheel(e.Delta) }
