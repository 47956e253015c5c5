// Package interp advances the smoothed assembly blend and resolves each
// instance's current pose from its endpoint pair. Every function here is a
// total numeric transform: it runs once per instance per frame and never
// fails.
package interp

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/glimmerlab/ornascene/config"
	"github.com/glimmerlab/ornascene/scene"
	"github.com/glimmerlab/ornascene/utils"
)

var up = mgl32.Vec3{0, 1, 0}

type Interpolator struct {
	cfg     config.Interp
	blend   float32
	elapsed float32
}

func New(cfg config.Interp) *Interpolator {
	return &Interpolator{cfg: cfg}
}

func (ip *Interpolator) Blend() float32 { return ip.blend }

// SetBlend seeds the smoothed value, used to carry it across a scene
// reconfiguration.
func (ip *Interpolator) SetBlend(v float32) { ip.blend = utils.Clamp01(v) }

// Step chases the assembly target with exponential smoothing. dt is
// clamped so a stalled frame (backgrounded tab, hitch) cannot jump the
// blend.
func (ip *Interpolator) Step(target, dt float32) float32 {
	if dt < 0 {
		dt = 0
	}
	if dt > ip.cfg.MaxDelta {
		dt = ip.cfg.MaxDelta
	}
	ip.elapsed += dt
	ip.blend += (utils.Clamp01(target) - ip.blend) * utils.DampFactor(ip.cfg.SmoothingRate, dt)
	return ip.blend
}

// BlendPose is the pure endpoint blend: exact at t=0 and t=1, linear in
// position and scale, spherical in rotation.
func BlendPose(pair scene.TransformPair, t float32) scene.Pose {
	if t <= 0 {
		return pair.Chaos
	}
	if t >= 1 {
		return pair.Formed
	}
	return scene.Pose{
		Position: utils.LerpV3(pair.Chaos.Position, pair.Formed.Position, t),
		Rotation: mgl32.QuatSlerp(pair.Chaos.Rotation, pair.Formed.Rotation, t),
		Scale:    utils.LerpV3(pair.Chaos.Scale, pair.Formed.Scale, t),
	}
}

// OutwardRotation orients an instance to look away from the tree axis,
// derived from its own position.
func OutwardRotation(pos mgl32.Vec3) mgl32.Quat {
	out := mgl32.Vec3{pos[0], 0, pos[2]}
	if out.Dot(out) < 1e-6 {
		out = mgl32.Vec3{0, 0, 1}
	} else {
		out = out.Normalize()
	}
	return mgl32.QuatLookAtV(pos, pos.Add(out), up)
}

// BillboardRotation faces an instance at the camera.
func BillboardRotation(pos, camera mgl32.Vec3) mgl32.Quat {
	if pos.Sub(camera).Dot(pos.Sub(camera)) < 1e-6 {
		return mgl32.QuatIdent()
	}
	return mgl32.QuatLookAtV(pos, camera, up)
}

// Pose resolves the instance's current pose at the current blend, applying
// the category orientation rules on top of the pure blend: assembled
// outward-facing categories lock to the tree surface, dispersed instances
// tumble or billboard. camera is expected in assembly-local space.
func (ip *Interpolator) Pose(inst *scene.Instance, camera mgl32.Vec3) scene.Pose {
	pose := BlendPose(inst.Pair, ip.blend)

	switch {
	case ip.blend > ip.cfg.OutwardThreshold && inst.Category.FacesOutward():
		pose.Rotation = OutwardRotation(inst.Pair.Formed.Position)
	case ip.blend < ip.cfg.OutwardThreshold && inst.Category.Billboards():
		// portraits stay readable: billboard until they lock outward
		pose.Rotation = BillboardRotation(pose.Position, camera)
	case ip.blend < ip.cfg.TumbleThreshold:
		// chaos motion: keep tumbling while dispersed
		spin := ip.elapsed*ip.cfg.TumbleSpeed + inst.Pair.Tilt
		pose.Rotation = mgl32.QuatRotate(spin, up).Mul(pose.Rotation)
	}
	return pose
}

// Glow is the portrait brightness hint: monotonically decreasing with
// camera distance, scaled by the blend, clamped so a close pass never
// overexposes. Purely presentational.
func (ip *Interpolator) Glow(inst *scene.Instance, pos, camera mgl32.Vec3) float32 {
	if inst.Category != scene.CategoryPortrait {
		return 0
	}
	d := float64(pos.Sub(camera).Len())
	g := utils.Lerp(ip.cfg.GlowMin, ip.cfg.GlowMax, ip.blend/float32(1+0.05*d*d))
	if math.IsNaN(float64(g)) {
		return ip.cfg.GlowMin
	}
	return mgl32.Clamp(g, ip.cfg.GlowMin, ip.cfg.GlowMax)
}
