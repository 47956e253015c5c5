// Package input fuses pointer drag, touch pinch, wheel scroll and the
// external hand-gesture signal into a single camera placement and a single
// assembly rotation angle. It is a three-mode state machine (auto-spin,
// drag, gesture-grab) with physics-like inertia and continuity guarantees
// across mode switches.
package input

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/glimmerlab/ornascene/config"
	"github.com/glimmerlab/ornascene/utils"
)

type Mode int

const (
	ModeAutoSpin Mode = iota
	ModeDrag
	ModeGrab
)

func (m Mode) String() string {
	switch m {
	case ModeDrag:
		return "drag"
	case ModeGrab:
		return "grab"
	}
	return "autospin"
}

// Sample is one reading of the external gesture detector, already
// normalized to [-1, 1] on both axes.
type Sample struct {
	X, Y     float32
	Detected bool
}

// Controller owns the whole Input State. It is written exclusively from
// the engine goroutine; event producers hand their events to the engine,
// which applies them here between frames.
type Controller struct {
	cfg config.Input

	rotation float32
	velocity float32 // rad/s, decays toward cfg.BaseSpin when idle

	dragging  bool
	pinching  bool
	lastX     float32
	havePrevX bool
	dragDelta float32 // accumulated, consumed by Step

	grabbed    bool
	grabOffset float32
	grabX      float32 // smoothed horizontal gesture coordinate
	lastRaw    mgl32.Vec2

	parallax mgl32.Vec2

	pinchSep     float32
	havePinchSep bool

	distanceTarget float32
	distance       float32
}

func NewController(cfg config.Input) *Controller {
	return &Controller{
		cfg:            cfg,
		velocity:       cfg.BaseSpin,
		distanceTarget: cfg.StartDistance,
		distance:       cfg.StartDistance,
	}
}

// SetConfig swaps tuning parameters without resetting any transient state;
// input state survives scene reconfiguration by design.
func (c *Controller) SetConfig(cfg config.Input) {
	c.cfg = cfg
	c.clampDistanceTarget()
}

func (c *Controller) Mode() Mode {
	switch {
	case c.grabbed:
		return ModeGrab
	case c.dragging:
		return ModeDrag
	}
	return ModeAutoSpin
}

func (c *Controller) Rotation() float32       { return c.rotation }
func (c *Controller) Velocity() float32       { return c.velocity }
func (c *Controller) DistanceTarget() float32 { return c.distanceTarget }

// PointerDown starts a drag: auto-spin is suspended and the pointer is
// considered captured until PointerUp.
func (c *Controller) PointerDown(x float32) {
	c.dragging = true
	c.havePrevX = true
	c.lastX = x
	c.dragDelta = 0
	c.velocity = 0
}

func (c *Controller) PointerMove(x float32) {
	if !c.dragging {
		return
	}
	if c.pinching {
		// a second touch turned this drag into a pinch; the pointer no
		// longer rotates the scene
		c.lastX = x
		return
	}
	if c.havePrevX {
		c.dragDelta += (x - c.lastX) * c.cfg.DragGain
	}
	c.lastX = x
	c.havePrevX = true
}

// PointerUp ends the drag; whatever velocity the last frame computed is
// left as inertia.
func (c *Controller) PointerUp() {
	c.dragging = false
	c.havePrevX = false
}

func (c *Controller) PinchStart(separation float32) {
	c.pinching = true
	c.pinchSep = separation
	c.havePinchSep = true
}

// PinchMove zooms: decreasing finger separation increases camera distance.
func (c *Controller) PinchMove(separation float32) {
	if !c.pinching || !c.havePinchSep {
		c.PinchStart(separation)
		return
	}
	c.distanceTarget += (c.pinchSep - separation) * c.cfg.PinchGain
	c.clampDistanceTarget()
	c.pinchSep = separation
}

func (c *Controller) PinchEnd() {
	c.pinching = false
	c.havePinchSep = false
}

func (c *Controller) Wheel(delta float32) {
	c.distanceTarget += delta * c.cfg.WheelGain
	c.clampDistanceTarget()
}

func (c *Controller) clampDistanceTarget() {
	c.distanceTarget = mgl32.Clamp(c.distanceTarget, c.cfg.MinDistance, c.cfg.MaxDistance)
}

func valid(v float32) bool {
	return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0) && v >= -1 && v <= 1
}

// sanitize degrades a malformed gesture sample to "last known position,
// not detected" instead of letting it reach the state machine.
func (c *Controller) sanitize(s Sample) Sample {
	if !s.Detected {
		return Sample{X: c.lastRaw.X(), Y: c.lastRaw.Y(), Detected: false}
	}
	if !valid(s.X) || !valid(s.Y) {
		return Sample{X: c.lastRaw.X(), Y: c.lastRaw.Y(), Detected: false}
	}
	c.lastRaw = mgl32.Vec2{s.X, s.Y}
	return s
}

// Step advances the state machine one frame. Gesture-grab has priority
// over drag, drag over auto-spin.
func (c *Controller) Step(s Sample, dt float32) {
	if dt < 0 {
		dt = 0
	}
	if dt > c.cfg.MaxDelta {
		dt = c.cfg.MaxDelta
	}
	s = c.sanitize(s)

	c.stepGrabState(s)
	c.stepRotation(s, dt)
	c.stepCamera(s, dt)
}

func (c *Controller) stepGrabState(s Sample) {
	if s.Detected && !c.grabbed {
		c.grabbed = true
		c.grabX = s.X
		// continuity guarantee: fix the offset once at grab entry so the
		// scene does not jump when the hand is first detected
		c.grabOffset = c.rotation - s.X*c.cfg.AngularGain
	} else if !s.Detected && c.grabbed {
		c.grabbed = false
		// never let the scene fully stall after a grab
		if float32(math.Abs(float64(c.velocity))) < c.cfg.VelocityEps {
			c.velocity = c.cfg.BaseSpin
		}
	}
}

func (c *Controller) stepRotation(s Sample, dt float32) {
	switch {
	case c.grabbed:
		c.dragDelta = 0 // grab overrides any concurrent drag
		c.grabX += (s.X - c.grabX) * utils.DampFactor(c.cfg.GrabSmoothRate, dt)
		target := c.grabX*c.cfg.AngularGain + c.grabOffset
		applied := (target - c.rotation) * utils.DampFactor(c.cfg.RotationRate, dt)
		c.rotation += applied
		if dt > 0 {
			c.velocity = applied / dt
		}
	case c.dragging && !c.pinching:
		c.rotation += c.dragDelta
		if dt > 0 {
			c.velocity = c.dragDelta / dt
		}
		c.dragDelta = 0
	default:
		c.dragDelta = 0
		c.rotation += c.velocity * dt
		// inertia decays back to the base auto-spin velocity
		c.velocity += (c.cfg.BaseSpin - c.velocity) * utils.DampFactor(c.cfg.SpinRelaxRate, dt)
	}
}

func (c *Controller) stepCamera(s Sample, dt float32) {
	// parallax chases the gesture coordinate with its own, slower rate;
	// neutral when no gesture source is active
	target := mgl32.Vec2{}
	if s.Detected {
		target = mgl32.Vec2{s.X, s.Y}
	}
	f := utils.DampFactor(c.cfg.ParallaxRate, dt)
	c.parallax = mgl32.Vec2{
		c.parallax.X() + (target.X()-c.parallax.X())*f,
		c.parallax.Y() + (target.Y()-c.parallax.Y())*f,
	}

	c.distance += (c.distanceTarget - c.distance) * utils.DampFactor(c.cfg.ZoomRate, dt)
}

// Camera returns the smoothed camera placement: parallax offsets the eye,
// and the camera pulls back as the viewer looks further sideways.
func (c *Controller) Camera() (pos, target mgl32.Vec3) {
	widened := c.distance + c.cfg.WidenFactor*float32(math.Abs(float64(c.parallax.X())))
	pos = mgl32.Vec3{
		c.parallax.X() * c.cfg.ParallaxScaleX,
		c.cfg.CameraHeight + c.parallax.Y()*c.cfg.ParallaxScaleY,
		widened,
	}
	target = mgl32.Vec3{0, c.cfg.LookAtHeight, 0}
	return pos, target
}
