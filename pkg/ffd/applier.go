package ffd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/latticeffd/pkg/math"
)

// Mesh is the host mesh as seen by an Applier: a writable flat xyz position
// buffer and a hook to mark derived normals stale. Implementations key a map,
// so they must be comparable; pointer types are.
type Mesh interface {
	Positions() []float32
	MarkNormalsDirty()
}

type restPose struct {
	rest    []float32
	scratch []float32
}

// Applier runs an Evaluator over the rest pose of meshes. The rest pose of a
// mesh is captured the first time it is deformed and reused on every later
// call, so deformations never accumulate.
type Applier struct {
	poses map[Mesh]*restPose
	log   *zap.Logger
}

// NewApplier returns an applier with an empty rest-pose table.
func NewApplier(opts ...Option) *Applier {
	o := buildOptions(opts)
	return &Applier{
		poses: make(map[Mesh]*restPose),
		log:   o.log,
	}
}

// Apply evaluates every rest-pose vertex of m through ev and writes the
// results into m's live buffer. The live buffer is left untouched if any
// vertex fails to evaluate.
func (a *Applier) Apply(m Mesh, ev Evaluator) error {
	if m == nil {
		return fmt.Errorf("%w: nil mesh", ErrMissingRestPose)
	}
	live := m.Positions()
	if len(live) == 0 {
		return fmt.Errorf("%w: mesh has no vertices", ErrMissingRestPose)
	}

	pose, ok := a.poses[m]
	if !ok {
		if len(live)%3 != 0 {
			return fmt.Errorf("%w: position buffer length %d is not a multiple of 3", ErrIndexOutOfRange, len(live))
		}
		pose = &restPose{
			rest:    append([]float32(nil), live...),
			scratch: make([]float32, len(live)),
		}
		a.poses[m] = pose
		a.log.Debug("captured rest pose", zap.Int("vertices", len(live)/3))
	} else if len(live) != len(pose.rest) {
		return fmt.Errorf("%w: mesh has %d position values, rest pose has %d; invalidate it first",
			ErrIndexOutOfRange, len(live), len(pose.rest))
	}

	n := len(pose.rest) / 3
	for i := 0; i < n; i++ {
		p, err := ev.Eval(math.ReadVec3(pose.rest, i))
		if err != nil {
			return fmt.Errorf("vertex %d: %w", i, err)
		}
		math.WriteVec3(pose.scratch, i, p)
	}
	copy(live, pose.scratch)
	m.MarkNormalsDirty()
	return nil
}

// RestPose returns the cached rest pose of m, if any. Callers must not modify
// it.
func (a *Applier) RestPose(m Mesh) ([]float32, bool) {
	pose, ok := a.poses[m]
	if !ok {
		return nil, false
	}
	return pose.rest, true
}

// Invalidate drops the cached rest pose of m. The next Apply recaptures it
// from the live buffer, so call it only when that buffer holds a new rest
// pose, e.g. after the mesh was rebuilt.
func (a *Applier) Invalidate(m Mesh) {
	delete(a.poses, m)
}

// Len returns the number of meshes with a cached rest pose.
func (a *Applier) Len() int {
	return len(a.poses)
}
