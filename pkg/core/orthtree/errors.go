package orthtree

import "errors"

// Contract violations. Operations that receive caller data (New, Split,
// Refine, Locate) return them wrapped; accessors that are only misused by
// buggy callers (Parent, Child, AdjacentNode) panic with them, the same way
// an out-of-range slice index does.
var (
	ErrOutOfBounds         = errors.New("point outside the root bounding box")
	ErrInvalidSplit        = errors.New("cannot split a node that is not a leaf")
	ErrInvalidParentAccess = errors.New("the root node has no parent")
	ErrInvalidChildAccess  = errors.New("invalid child access")
	ErrInvalidDirection    = errors.New("invalid adjacency direction")
	ErrInvalidDimension    = errors.New("invalid dimension")
	ErrDepthLimit          = errors.New("maximum depth reached")
)
