// Package ffd implements lattice-based free-form deformation.
//
// Two evaluators are provided. Lattice is a trivariate Bernstein (Bezier
// volume) lattice built around a world-space bounding box; every control point
// influences every evaluated point. LatticeDeformer is a trilinear lattice over
// the normalized cube [-0.5,0.5]^3 where only the eight surrounding control
// points influence a point.
//
// Both satisfy Evaluator, and an Applier runs an Evaluator over a mesh's
// rest-pose vertices each frame.
//
// Nothing in this package is safe for concurrent use.
package ffd
