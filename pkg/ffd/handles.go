package ffd

import (
	"github.com/Faultbox/latticeffd/pkg/math"
)

// HandleBuffer is the flat xyz mirror of a control-point sequence that a
// renderer draws as point handles. It is owned separately from the control
// points and kept index-aligned by explicit syncs.
type HandleBuffer struct {
	data    []float32
	version uint64
}

// Data returns the xyz buffer. Callers must not modify it.
func (h *HandleBuffer) Data() []float32 {
	return h.data
}

// Len returns the number of handles.
func (h *HandleBuffer) Len() int {
	return len(h.data) / 3
}

// Version increases on every sync. A renderer re-uploads when it changes.
func (h *HandleBuffer) Version() uint64 {
	return h.version
}

// Handle returns the i-th handle position.
func (h *HandleBuffer) Handle(i int) math.Vec3 {
	return math.ReadVec3(h.data, i)
}

// Sync writes one control point into the buffer.
func (h *HandleBuffer) Sync(i int, p math.Vec3) {
	math.WriteVec3(h.data, i, p)
	h.version++
}

// SyncAll replaces the buffer contents with points, resizing as needed.
func (h *HandleBuffer) SyncAll(points []math.Vec3) {
	if cap(h.data) < len(points)*3 {
		h.data = make([]float32, len(points)*3)
	}
	h.data = h.data[:len(points)*3]
	for i, p := range points {
		math.WriteVec3(h.data, i, p)
	}
	h.version++
}
