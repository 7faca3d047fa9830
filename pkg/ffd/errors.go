package ffd

import "errors"

var (
	ErrDegenerateLattice = errors.New("degenerate lattice")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrMissingRestPose   = errors.New("missing rest pose")
)
