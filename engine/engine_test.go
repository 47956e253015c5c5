package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glimmerlab/ornascene/config"
	"github.com/glimmerlab/ornascene/gesture"
	"github.com/glimmerlab/ornascene/input"
	"github.com/glimmerlab/ornascene/layout"
	"github.com/glimmerlab/ornascene/scene"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := config.Default()
	gen, err := layout.New(&cfg.Layout, nil)
	require.NoError(t, err)
	coll, err := scene.NewCollection(cfg, gen)
	require.NoError(t, err)
	return New(cfg, coll, gesture.NewSlot())
}

func TestAssemblyTargetClamped(t *testing.T) {
	e := newEngine(t)
	e.SetAssemblyTarget(5)
	assert.Equal(t, float32(1), e.AssemblyTarget())
	e.SetAssemblyTarget(-2)
	assert.Equal(t, float32(0), e.AssemblyTarget())
	e.SetAssemblyTarget(0.4)
	assert.Equal(t, float32(0.4), e.AssemblyTarget())
}

func TestInitialSnapshot(t *testing.T) {
	e := newEngine(t)
	snap := e.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, float32(0), snap.Blend)
	assert.Len(t, snap.Instances, len(e.Describe()))
	for _, inst := range snap.Instances {
		for a := 0; a < 3; a++ {
			assert.Greater(t, inst.Pose.Scale[a], float32(0))
		}
	}
}

func TestFrameLoopAdvancesBlend(t *testing.T) {
	e := newEngine(t)
	e.SetAssemblyTarget(1)

	var frames int
	e.SetSink(func(*Snapshot) { frames++ })

	require.NoError(t, e.Start())
	require.Error(t, e.Start(), "double start must be rejected")
	time.Sleep(300 * time.Millisecond)
	e.Stop()

	snap := e.Snapshot()
	assert.Greater(t, frames, 5, "sink should have seen frames")
	assert.Greater(t, snap.Blend, float32(0), "blend should chase the target")
	assert.LessOrEqual(t, snap.Blend, float32(1))
	assert.Greater(t, snap.Rotation, float32(0), "auto-spin should rotate the scene")

	// Stop is idempotent
	e.Stop()
}

func TestDispatchReachesController(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.Start())
	for i := 0; i < 20; i++ {
		e.Dispatch(input.WheelEvent{Delta: 1e6})
	}
	time.Sleep(200 * time.Millisecond)
	e.Stop()

	z := e.Snapshot().Camera.Position[2]
	cfg := config.Default()
	assert.Greater(t, z, cfg.Input.StartDistance, "zoom out should move the camera back")
	assert.LessOrEqual(t, z, cfg.Input.MaxDistance+cfg.Input.WidenFactor)
}

func TestReconfigureRebuildsWholesale(t *testing.T) {
	e := newEngine(t)
	before := len(e.Describe())

	cfg := config.Default()
	cfg.Layout.Categories = cfg.Layout.Categories[:1]
	cfg.Layout.Categories[0].Count = 7
	require.NoError(t, e.Reconfigure(cfg))
	assert.Len(t, e.Describe(), 7)
	assert.NotEqual(t, before, len(e.Describe()))

	bad := config.Default()
	bad.Layout.Categories[0].BaseRadius = -1
	require.Error(t, e.Reconfigure(bad), "layout errors must surface synchronously")
	assert.Len(t, e.Describe(), 7, "failed reconfigure must not touch the scene")
}

func TestReconfigureWhileRunning(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.Start())
	defer e.Stop()

	cfg := config.Default()
	cfg.Layout.Categories = cfg.Layout.Categories[:2]
	require.NoError(t, e.Reconfigure(cfg))
	time.Sleep(100 * time.Millisecond)

	want := cfg.Layout.Categories[0].Count + cfg.Layout.Categories[1].Count
	assert.Len(t, e.Snapshot().Instances, want)
}
