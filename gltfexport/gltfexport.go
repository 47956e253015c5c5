// Package gltfexport writes scene poses as a glTF document so external
// tools can inspect the assembly without talking to the live websocket.
package gltfexport

import (
	"fmt"
	"io"

	"github.com/qmuntal/gltf"

	"github.com/glimmerlab/ornascene/engine"
	"github.com/glimmerlab/ornascene/interp"
	"github.com/glimmerlab/ornascene/scene"
)

func node(name string, p engine.PoseState) *gltf.Node {
	return &gltf.Node{
		Name:        name,
		Translation: p.Position,
		Rotation:    p.Rotation,
		Scale:       p.Scale,
	}
}

func finish(doc *gltf.Document) {
	for iNode := range doc.Nodes {
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(iNode))
	}
}

// SnapshotDocument converts one live frame into a flat node-per-instance
// scene.
func SnapshotDocument(snap *engine.Snapshot) *gltf.Document {
	doc := gltf.NewDocument()
	for i := range snap.Instances {
		inst := &snap.Instances[i]
		name := fmt.Sprintf("%s_%03d", inst.Category, inst.Index)
		doc.Nodes = append(doc.Nodes, node(name, inst.Pose))
	}
	finish(doc)
	return doc
}

// FormedDocument exports the fully assembled tree, independent of the
// current blend.
func FormedDocument(coll *scene.Collection) *gltf.Document {
	doc := gltf.NewDocument()
	for i := range coll.Instances {
		inst := &coll.Instances[i]
		pose := interp.BlendPose(inst.Pair, 1)
		name := fmt.Sprintf("%s_%03d", inst.Category, inst.Index)
		doc.Nodes = append(doc.Nodes, node(name, engine.NewPoseState(pose)))
	}
	finish(doc)
	return doc
}

func WriteSnapshot(w io.Writer, snap *engine.Snapshot) error {
	return write(w, SnapshotDocument(snap))
}

func WriteFormed(w io.Writer, coll *scene.Collection) error {
	return write(w, FormedDocument(coll))
}

func write(w io.Writer, doc *gltf.Document) error {
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = false
	return encoder.Encode(doc)
}
