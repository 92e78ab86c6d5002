// Package interp provides sub-sample peak refinement.
//
// [Parabolic] fits a parabola through three equally spaced samples and
// returns the offset of its vertex. [RefinePeak] applies it to a discrete
// peak inside a sequence and leaves peaks on the first or last index
// unrefined, since one neighbour is missing there.
package interp
