package engine

import "github.com/glimmerlab/ornascene/scene"

// PoseState is a pose flattened for the wire: position, quaternion
// (x, y, z, w) and per-axis scale.
type PoseState struct {
	Position [3]float32 `json:"position"`
	Rotation [4]float32 `json:"rotation"`
	Scale    [3]float32 `json:"scale"`
}

func NewPoseState(p scene.Pose) PoseState {
	return PoseState{
		Position: [3]float32{p.Position[0], p.Position[1], p.Position[2]},
		Rotation: [4]float32{p.Rotation.V[0], p.Rotation.V[1], p.Rotation.V[2], p.Rotation.W},
		Scale:    [3]float32{p.Scale[0], p.Scale[1], p.Scale[2]},
	}
}

type InstanceState struct {
	Index    int       `json:"index"`
	Category string    `json:"category"`
	Pose     PoseState `json:"pose"`
	Glow     float32   `json:"glow,omitempty"`
}

type CameraState struct {
	Position [3]float32 `json:"position"`
	Target   [3]float32 `json:"target"`
}

// Snapshot is one fully-resolved frame: everything the renderer needs and
// nothing it can mutate.
type Snapshot struct {
	Time      int64           `json:"time"`
	Delta     float32         `json:"delta"`
	Blend     float32         `json:"blend"`
	Rotation  float32         `json:"rotation"`
	Mode      string          `json:"mode"`
	Camera    CameraState     `json:"camera"`
	Instances []InstanceState `json:"instances"`
}

// InstanceInfo is the static description served once at renderer
// bootstrap: category, styling and both endpoint poses.
type InstanceInfo struct {
	Index    int        `json:"index"`
	Category string     `json:"category"`
	Caption  string     `json:"caption,omitempty"`
	Image    string     `json:"image,omitempty"`
	Color    [3]float32 `json:"color"`
	Chaos    PoseState  `json:"chaos"`
	Formed   PoseState  `json:"formed"`
}
