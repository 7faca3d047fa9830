// Package editor owns the interactive lattice editing state: it maps UI
// events onto lattice edits and applies the active deformation once per
// frame.
package editor

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/latticeffd/internal/camera"
	"github.com/Faultbox/latticeffd/internal/config"
	"github.com/Faultbox/latticeffd/internal/debug"
	"github.com/Faultbox/latticeffd/internal/picking"
	"github.com/Faultbox/latticeffd/pkg/ffd"
	"github.com/Faultbox/latticeffd/pkg/math"
	"github.com/Faultbox/latticeffd/pkg/mesh"
)

var (
	// ErrUnknownEvent is returned by HandleEvent for event types it does not handle.
	ErrUnknownEvent = errors.New("unknown event")
	// ErrEmptyMesh is returned when the mesh source produces no vertices.
	ErrEmptyMesh = errors.New("empty mesh")
)

// DefaultEvalDensity is the number of sample intervals per axis for the
// evaluation point overlay.
const DefaultEvalDensity = 10

// handleRadiusFraction sizes the pick sphere around each handle relative to
// the lattice extent.
const handleRadiusFraction = 0.03

// Mode selects which deformer drives the mesh.
type Mode int

const (
	ModeBernstein Mode = iota
	ModeTrilinear
)

func (m Mode) String() string {
	if m == ModeTrilinear {
		return "trilinear"
	}
	return "bernstein"
}

// Session is one editor instance. It is not safe for concurrent use.
type Session struct {
	cfg *config.Config
	log *zap.Logger

	mode           Mode
	spans          ffd.SpanCounts
	subdLevel      int
	showEvalPoints bool
	selected       int
	dirty          bool

	// Bernstein mode deforms mesh in world space.
	mesh    *mesh.Mesh
	lattice *ffd.Lattice
	applier *ffd.Applier

	// Trilinear mode deforms a copy fitted to the unit cube.
	local    *mesh.Mesh
	deformer *ffd.LatticeDeformer

	camera *camera.OrbitCamera

	newMesh func(mc config.MeshConfig, subdLevel int) (*mesh.Mesh, error)
}

// New creates a session from a validated config.
func New(cfg *config.Config, log *zap.Logger) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}

	s := &Session{
		cfg:       cfg,
		log:       log,
		spans:     ffd.SpanCounts(cfg.FFD.InitialSpanCounts),
		subdLevel: cfg.FFD.InitialSubdLevel,
		selected:  -1,
		camera:    camera.NewOrbitCamera(),
		newMesh:   buildMesh,
	}

	opts := []ffd.Option{
		ffd.WithLogger(log.Named("ffd")),
		ffd.WithClampParams(cfg.FFD.ClampParams),
	}
	s.lattice = ffd.NewLattice(opts...)
	s.applier = ffd.NewApplier(opts...)

	var err error
	s.deformer, err = ffd.NewLatticeDeformer(ffd.Resolution(cfg.Trilinear.Resolution), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create trilinear deformer: %w", err)
	}

	m, err := s.newMesh(cfg.Mesh, s.subdLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to build mesh: %w", err)
	}
	if err := s.setMesh(m); err != nil {
		return nil, err
	}
	if err := s.rebuildLattice(); err != nil {
		return nil, err
	}
	s.frameCamera()

	log.Info("editor session ready",
		zap.String("shape", cfg.Mesh.Shape),
		zap.Int("vertices", s.mesh.VertexCount()),
		zap.Ints("spans", s.spans[:]),
		zap.Int("subd_level", s.subdLevel),
	)
	return s, nil
}

// buildMesh creates the configured demo mesh. Subdivision only applies to
// the box; SDF shapes use their own cell resolution.
func buildMesh(mc config.MeshConfig, subdLevel int) (*mesh.Mesh, error) {
	switch mc.Shape {
	case config.ShapeSphere:
		return mesh.Sphere(mc.Size/2, mc.SDFCells)
	case config.ShapeCylinder:
		return mesh.Cylinder(mc.Size, mc.Size/4, mc.SDFCells)
	case config.ShapeBox, "":
		return mesh.NewBox(math.Vec3{X: mc.Size, Y: mc.Size, Z: mc.Size}, subdLevel), nil
	default:
		return nil, fmt.Errorf("%w: unknown mesh shape %q", config.ErrInvalid, mc.Shape)
	}
}

// setMesh installs m as the Bernstein mesh and a unit cube fitted clone as
// the trilinear mesh. Cached rest poses of the previous meshes are left to
// the caller.
func (s *Session) setMesh(m *mesh.Mesh) error {
	if m.IsEmpty() {
		return ErrEmptyMesh
	}
	s.mesh = m
	s.local = m.Clone()
	s.local.Center()
	s.local.Fit(1)
	s.dirty = true
	return nil
}

// rebuildLattice fits the Bernstein lattice to the undeformed mesh. An
// unchanged box and span counts keep the current edits.
func (s *Session) rebuildLattice() error {
	var (
		b  math.Box
		ok bool
	)
	if rest, captured := s.applier.RestPose(s.mesh); captured {
		b, ok = math.BoxFromPositions(rest)
	} else {
		b, ok = s.mesh.Bounds()
	}
	if !ok {
		return fmt.Errorf("%w: mesh has no vertices", ffd.ErrDegenerateLattice)
	}
	if err := s.lattice.Rebuild(b, s.spans); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

// HandleEvent applies one UI event. Deformation is deferred to Frame.
func (s *Session) HandleEvent(ev Event) error {
	s.log.Debug("event", zap.Stringer("type", ev.Type))

	switch ev.Type {
	case EventNone:
	case EventPick:
		s.selected = s.pick(ev.Ray)
	case EventDrag:
		if s.selected < 0 {
			return nil
		}
		p, ok := picking.DragPlanePoint(ev.Ray, s.Handles().Handle(s.selected), ev.View)
		if !ok {
			return nil
		}
		return s.moveHandle(s.selected, p)
	case EventRelease:
		s.selected = -1
	case EventMoveHandle:
		return s.moveHandle(ev.Index, ev.Position)
	case EventSpanCount:
		return s.setSpanCount(ev.Axis, ev.Value)
	case EventSubdLevel:
		return s.setSubdLevel(ev.Value)
	case EventReset:
		s.reset()
	case EventToggleMode:
		if s.mode == ModeBernstein {
			s.mode = ModeTrilinear
		} else {
			s.mode = ModeBernstein
		}
		s.selected = -1
		s.dirty = true
		s.frameCamera()
		s.log.Info("mode changed", zap.Stringer("mode", s.mode))
	case EventShowEvalPoints:
		s.showEvalPoints = ev.Enabled
	default:
		return fmt.Errorf("%w: %d", ErrUnknownEvent, ev.Type)
	}
	return nil
}

// frameCamera points the camera at the active lattice.
func (s *Session) frameCamera() {
	if s.mode == ModeTrilinear {
		s.camera.FitToBox(math.Box{
			Min: math.Vec3{X: -0.5, Y: -0.5, Z: -0.5},
			Max: math.Vec3{X: 0.5, Y: 0.5, Z: 0.5},
		})
		return
	}
	s.camera.FitToBox(s.lattice.Box())
}

// PickEvent builds a pick event for a cursor position in a w by h viewport.
func (s *Session) PickEvent(x, y, w, h float64) Event {
	return Event{Type: EventPick, Ray: s.camera.ScreenRay(x, y, w, h)}
}

// DragEvent builds a drag event for a cursor position in a w by h viewport.
// The handle moves in the plane facing the camera.
func (s *Session) DragEvent(x, y, w, h float64) Event {
	return Event{Type: EventDrag, Ray: s.camera.ScreenRay(x, y, w, h), View: s.camera.Forward()}
}

func (s *Session) moveHandle(index int, p math.Vec3) error {
	var err error
	if s.mode == ModeTrilinear {
		err = s.deformer.UpdateControlPoint(index, p)
	} else {
		err = s.lattice.SetPosition(index, p)
	}
	if err != nil {
		return err
	}
	s.dirty = true
	return nil
}

func (s *Session) setSpanCount(axis, value int) error {
	if axis < 0 || axis > 2 {
		return fmt.Errorf("%w: axis %d", ffd.ErrIndexOutOfRange, axis)
	}
	value = s.cfg.FFD.ClampSpanCount(value)
	if value == s.spans[axis] {
		return nil
	}

	prev := s.spans
	s.spans[axis] = value
	if err := s.rebuildLattice(); err != nil {
		s.spans = prev
		return err
	}
	if s.mode == ModeBernstein {
		s.selected = -1
	}
	s.log.Debug("span counts changed", zap.Ints("spans", s.spans[:]))
	return nil
}

// setSubdLevel swaps in a mesh built at level. If the lattice cannot be
// fitted to it, the previous meshes and their rest poses stay in place.
func (s *Session) setSubdLevel(level int) error {
	level = s.cfg.FFD.ClampSubdLevel(level)
	if level == s.subdLevel {
		return nil
	}

	m, err := s.newMesh(s.cfg.Mesh, level)
	if err != nil {
		return fmt.Errorf("failed to build mesh: %w", err)
	}

	prevMesh, prevLocal, prevLevel := s.mesh, s.local, s.subdLevel
	if err := s.setMesh(m); err != nil {
		return err
	}
	s.subdLevel = level
	if err := s.rebuildLattice(); err != nil {
		s.mesh, s.local, s.subdLevel = prevMesh, prevLocal, prevLevel
		return err
	}
	s.applier.Invalidate(prevMesh)
	s.deformer.Applier().Invalidate(prevLocal)

	s.log.Debug("subdivision level changed",
		zap.Int("level", level),
		zap.Int("vertices", s.mesh.VertexCount()),
	)
	return nil
}

func (s *Session) reset() {
	if s.mode == ModeTrilinear {
		s.deformer.Reset()
	} else {
		s.lattice.Reset()
	}
	s.dirty = true
}

// pick returns the handle under r, or -1. Rays that miss the padded bounds
// of the handle cage skip the per-handle test.
func (s *Session) pick(r picking.Ray) int {
	handles := s.Handles().Data()
	radius := s.handleRadius()
	cage, ok := math.BoxFromPositions(handles)
	if !ok {
		return -1
	}
	if _, hit := r.IntersectBox(math.PadBox(cage, radius)); !hit {
		return -1
	}
	return picking.PickHandle(r, handles, radius)
}

func (s *Session) handleRadius() float64 {
	if s.mode == ModeTrilinear {
		return handleRadiusFraction
	}
	e := math.Extent(s.lattice.Box())
	largest := e.X
	if e.Y > largest {
		largest = e.Y
	}
	if e.Z > largest {
		largest = e.Z
	}
	return handleRadiusFraction * largest
}

// Frame applies the active deformation if anything changed since the last
// frame and refreshes the mesh normals.
func (s *Session) Frame() error {
	if !s.dirty {
		return nil
	}

	m := s.Mesh()
	var err error
	if s.mode == ModeTrilinear {
		err = s.deformer.Deform(m)
	} else {
		err = s.applier.Apply(m, s.lattice)
	}
	if err != nil {
		return fmt.Errorf("failed to apply %s deformation: %w", s.mode, err)
	}

	if m.NormalsDirty() {
		m.RecomputeNormals()
	}
	s.dirty = false
	return nil
}

// EvalPoints returns the evaluation point overlay, or nil when it is hidden.
func (s *Session) EvalPoints() ([]math.Vec3, error) {
	if !s.showEvalPoints {
		return nil, nil
	}
	if s.mode == ModeTrilinear {
		cube := math.Box{
			Min: math.Vec3{X: -0.5, Y: -0.5, Z: -0.5},
			Max: math.Vec3{X: 0.5, Y: 0.5, Z: 0.5},
		}
		return sampleGrid(s.deformer, cube, DefaultEvalDensity)
	}
	return s.lattice.SamplePoints(DefaultEvalDensity)
}

// sampleGrid evaluates ev on an (n+1)^3 grid spanning b.
func sampleGrid(ev ffd.Evaluator, b math.Box, n int) ([]math.Vec3, error) {
	if n < 1 {
		n = 1
	}
	size := math.Extent(b)
	out := make([]math.Vec3, 0, (n+1)*(n+1)*(n+1))
	for i := 0; i <= n; i++ {
		for j := 0; j <= n; j++ {
			for k := 0; k <= n; k++ {
				p := math.Vec3{
					X: b.Min.X + size.X*float64(i)/float64(n),
					Y: b.Min.Y + size.Y*float64(j)/float64(n),
					Z: b.Min.Z + size.Z*float64(k)/float64(n),
				}
				q, err := ev.Eval(p)
				if err != nil {
					return nil, err
				}
				out = append(out, q)
			}
		}
	}
	return out, nil
}

// Mesh returns the mesh driven by the active mode.
func (s *Session) Mesh() *mesh.Mesh {
	if s.mode == ModeTrilinear {
		return s.local
	}
	return s.mesh
}

// Handles returns the control point handles of the active mode.
func (s *Session) Handles() *ffd.HandleBuffer {
	if s.mode == ModeTrilinear {
		return s.deformer.Handles()
	}
	return s.lattice.Handles()
}

// Wireframe returns the lattice cage lines of the active mode.
func (s *Session) Wireframe() []float32 {
	if s.mode == ModeTrilinear {
		return debug.DeformerWireframe(s.deformer)
	}
	return debug.LatticeWireframe(s.lattice)
}

// BoundsWireframe outlines the Bernstein lattice box.
func (s *Session) BoundsWireframe() []float32 {
	return debug.PaddedBBoxWireframe(s.lattice.Box(), debug.DefaultBBoxPadding)
}

// Mode returns the active mode.
func (s *Session) Mode() Mode { return s.mode }

// SpanCounts returns the Bernstein span counts.
func (s *Session) SpanCounts() ffd.SpanCounts { return s.spans }

// SubdLevel returns the mesh subdivision level.
func (s *Session) SubdLevel() int { return s.subdLevel }

// ShowEvalPoints reports whether the evaluation point overlay is on.
func (s *Session) ShowEvalPoints() bool { return s.showEvalPoints }

// Selected returns the picked handle index, or -1.
func (s *Session) Selected() int { return s.selected }

// Camera returns the view camera. Callers may orbit and zoom it.
func (s *Session) Camera() *camera.OrbitCamera { return s.camera }

// Lattice returns the Bernstein lattice.
func (s *Session) Lattice() *ffd.Lattice { return s.lattice }

// Deformer returns the trilinear deformer.
func (s *Session) Deformer() *ffd.LatticeDeformer { return s.deformer }
