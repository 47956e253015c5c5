package gltfexport

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glimmerlab/ornascene/config"
	"github.com/glimmerlab/ornascene/engine"
	"github.com/glimmerlab/ornascene/gesture"
	"github.com/glimmerlab/ornascene/layout"
	"github.com/glimmerlab/ornascene/scene"
)

func buildScene(t *testing.T) (*config.Config, *scene.Collection) {
	t.Helper()
	cfg := config.Default()
	gen, err := layout.New(&cfg.Layout, rand.New(rand.NewSource(11)))
	require.NoError(t, err)
	coll, err := scene.NewCollection(cfg, gen)
	require.NoError(t, err)
	return cfg, coll
}

func TestFormedDocument(t *testing.T) {
	_, coll := buildScene(t)
	doc := FormedDocument(coll)

	require.Len(t, doc.Nodes, len(coll.Instances))
	require.NotEmpty(t, doc.Scenes)
	assert.Len(t, doc.Scenes[0].Nodes, len(coll.Instances))

	for i, node := range doc.Nodes {
		assert.NotEmpty(t, node.Name)
		for a := 0; a < 3; a++ {
			assert.Greater(t, node.Scale[a], float32(0), "node %d", i)
		}
		// formed document carries the assembled pose exactly
		assert.Equal(t, engine.NewPoseState(coll.Instances[i].Pair.Formed).Position, node.Translation)
	}
}

func TestSnapshotDocumentAndWrite(t *testing.T) {
	cfg, coll := buildScene(t)
	e := engine.New(cfg, coll, gesture.NewSlot())
	snap := e.Snapshot()

	doc := SnapshotDocument(snap)
	require.Len(t, doc.Nodes, len(snap.Instances))

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, snap))
	assert.Contains(t, buf.String(), "\"nodes\"")
}
