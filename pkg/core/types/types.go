package types

// Candidate is a point returned by a proximity query, identified by its
// index in the indexed point slice.
type Candidate struct {
	Id       uint32
	Distance float64
}

// Stats describes the shape of a tree.
type Stats struct {
	Dimension int `json:"dimension" yaml:"dimension"`
	Nodes     int `json:"nodes" yaml:"nodes"`
	Leaves    int `json:"leaves" yaml:"leaves"`
	MaxDepth  int `json:"max_depth" yaml:"max_depth"`
	Points    int `json:"points" yaml:"points"`
	// largest number of points held by a single leaf
	MaxLeafPoints int `json:"max_leaf_points" yaml:"max_leaf_points"`
}

// IndexInfo describes a named index held by the engine.
type IndexInfo struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Stats
}
