// Package engine owns the frame loop. One goroutine advances the
// interpolator and the input controller in fixed order every tick and
// publishes an immutable snapshot for the renderer. All controller state
// has exactly one writer: this loop.
package engine

import (
	"log"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/glimmerlab/ornascene/config"
	"github.com/glimmerlab/ornascene/gesture"
	"github.com/glimmerlab/ornascene/input"
	"github.com/glimmerlab/ornascene/interp"
	"github.com/glimmerlab/ornascene/layout"
	"github.com/glimmerlab/ornascene/scene"
	"github.com/glimmerlab/ornascene/utils"
)

type Engine struct {
	slot *gesture.Slot

	targetBits uint32 // assembly target, float32 bits, host-writable

	snap atomic.Value // *Snapshot
	sink func(*Snapshot)

	cmds  chan func()
	evs   chan input.Event
	stopc chan struct{}
	done  chan struct{}

	runMu   sync.Mutex
	running bool

	// loop-owned state, touched outside the loop only while stopped
	cfg    *config.Config
	coll   *scene.Collection
	interp *interp.Interpolator
	ctrl   *input.Controller
}

func New(cfg *config.Config, coll *scene.Collection, slot *gesture.Slot) *Engine {
	e := &Engine{
		slot:   slot,
		cfg:    cfg,
		coll:   coll,
		interp: interp.New(cfg.Interp),
		ctrl:   input.NewController(cfg.Input),
		cmds:   make(chan func()),
		evs:    make(chan input.Event, 256),
		stopc:  make(chan struct{}),
		done:   make(chan struct{}),
	}
	e.snap.Store(e.buildSnapshot(0))
	return e
}

// SetAssemblyTarget sets the process-wide assembly scalar: 0 scattered,
// 1 formed. Callable from any goroutine at any rate; smoothing happens in
// the interpolator.
func (e *Engine) SetAssemblyTarget(v float32) {
	atomic.StoreUint32(&e.targetBits, math.Float32bits(utils.Clamp01(v)))
}

func (e *Engine) AssemblyTarget() float32 {
	return math.Float32frombits(atomic.LoadUint32(&e.targetBits))
}

// Dispatch queues a raw input event for the next frame. Never blocks; if
// the queue is full the event is dropped, which only costs a fraction of a
// pointer delta.
func (e *Engine) Dispatch(ev input.Event) {
	select {
	case e.evs <- ev:
	default:
	}
}

// SetSink registers the per-frame snapshot consumer. Must be called before
// Start.
func (e *Engine) SetSink(fn func(*Snapshot)) {
	e.sink = fn
}

// Snapshot returns the most recently published frame.
func (e *Engine) Snapshot() *Snapshot {
	return e.snap.Load().(*Snapshot)
}

func (e *Engine) Start() error {
	e.runMu.Lock()
	defer e.runMu.Unlock()
	if e.running {
		return errors.Errorf("Engine already started")
	}
	e.running = true
	e.stopc = make(chan struct{})
	e.done = make(chan struct{})
	go e.loop()
	log.Printf("[engine] Started frame loop at %dHz", e.cfg.Engine.TickHz)
	return nil
}

func (e *Engine) Stop() {
	e.runMu.Lock()
	defer e.runMu.Unlock()
	if !e.running {
		return
	}
	close(e.stopc)
	<-e.done
	e.running = false
	log.Printf("[engine] Stopped")
}

// Reconfigure rebuilds the collection wholesale from a new configuration.
// Layout errors surface synchronously; the running frame never sees a
// half-built scene. Input state survives: only tuning parameters change.
func (e *Engine) Reconfigure(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "Invalid configuration")
	}
	gen, err := layout.New(&cfg.Layout, nil)
	if err != nil {
		return err
	}
	coll, err := scene.NewCollection(cfg, gen)
	if err != nil {
		return err
	}
	e.do(func() {
		blend := e.interp.Blend()
		e.cfg = cfg
		e.coll = coll
		e.interp = interp.New(cfg.Interp)
		e.interp.SetBlend(blend)
		e.ctrl.SetConfig(cfg.Input)
	})
	log.Printf("[engine] Reconfigured: %d instances", len(coll.Instances))
	return nil
}

// Config returns the active configuration (loop-consistent copy).
func (e *Engine) Config() *config.Config {
	var cfg *config.Config
	e.do(func() { cfg = e.cfg })
	return cfg
}

// Describe returns the static scene description for renderer bootstrap.
func (e *Engine) Describe() []InstanceInfo {
	var coll *scene.Collection
	e.do(func() { coll = e.coll })
	out := make([]InstanceInfo, len(coll.Instances))
	for i := range coll.Instances {
		inst := &coll.Instances[i]
		out[i] = InstanceInfo{
			Index:    inst.Index,
			Category: inst.Category.String(),
			Caption:  inst.Caption,
			Image:    inst.Image,
			Color:    [3]float32{inst.Color[0], inst.Color[1], inst.Color[2]},
			Chaos:    NewPoseState(inst.Pair.Chaos),
			Formed:   NewPoseState(inst.Pair.Formed),
		}
	}
	return out
}

// do runs fn on the loop goroutine, or inline when the loop is not
// running.
func (e *Engine) do(fn func()) {
	e.runMu.Lock()
	running := e.running
	stopc := e.stopc
	e.runMu.Unlock()
	if !running {
		fn()
		return
	}
	donec := make(chan struct{})
	select {
	case e.cmds <- func() { fn(); close(donec) }:
		<-donec
	case <-stopc:
		fn()
	}
}

func (e *Engine) loop() {
	defer close(e.done)
	ticker := time.NewTicker(e.cfg.Engine.TickInterval())
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-e.stopc:
			return
		case cmd := <-e.cmds:
			cmd()
		case now := <-ticker.C:
			dt := float32(now.Sub(last).Seconds())
			last = now
			e.step(dt)
		}
	}
}

// step runs one frame in the fixed component order: drain input events,
// advance the interpolator, advance the input fusion controller, publish.
func (e *Engine) step(dt float32) {
	for {
		select {
		case ev := <-e.evs:
			ev.Apply(e.ctrl)
			continue
		default:
		}
		break
	}

	raw := e.slot.Latest(e.cfg.Engine.StaleAfter())
	sample := input.Sample{X: raw.Horizontal, Y: raw.Vertical, Detected: raw.Detected}

	if e.cfg.Input.GestureDrivesAssembly {
		if sample.Detected {
			e.SetAssemblyTarget(1)
		} else {
			e.SetAssemblyTarget(0)
		}
	}

	e.interp.Step(e.AssemblyTarget(), dt)
	e.ctrl.Step(sample, dt)

	snap := e.buildSnapshot(dt)
	e.snap.Store(snap)
	if e.sink != nil {
		e.sink(snap)
	}
}

func (e *Engine) buildSnapshot(dt float32) *Snapshot {
	camPos, camTarget := e.ctrl.Camera()
	rotation := e.ctrl.Rotation()
	// billboarding happens in assembly-local space, so un-rotate the camera
	localCam := utils.RotateY(camPos, -rotation)

	snap := &Snapshot{
		Time:     time.Now().UnixMilli(),
		Delta:    dt,
		Blend:    e.interp.Blend(),
		Rotation: rotation,
		Mode:     e.ctrl.Mode().String(),
		Camera: CameraState{
			Position: [3]float32{camPos[0], camPos[1], camPos[2]},
			Target:   [3]float32{camTarget[0], camTarget[1], camTarget[2]},
		},
		Instances: make([]InstanceState, len(e.coll.Instances)),
	}
	for i := range e.coll.Instances {
		inst := &e.coll.Instances[i]
		pose := e.interp.Pose(inst, localCam)
		snap.Instances[i] = InstanceState{
			Index:    inst.Index,
			Category: inst.Category.String(),
			Pose:     NewPoseState(pose),
			Glow:     e.interp.Glow(inst, pose.Position, localCam),
		}
	}
	return snap
}
