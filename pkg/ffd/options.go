package ffd

import "go.uber.org/zap"

type options struct {
	log         *zap.Logger
	clampParams bool
}

// Option configures a Lattice, LatticeDeformer or Applier.
type Option func(*options)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithClampParams clamps parametric coordinates to [0,1] before a Lattice
// evaluates them. Without it, points outside the box extrapolate the basis.
// Ignored by the other types.
func WithClampParams(clamp bool) Option {
	return func(o *options) {
		o.clampParams = clamp
	}
}

func buildOptions(opts []Option) options {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
