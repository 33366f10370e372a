package orthtree

// nodeSet is a dense bit set of node indices.
type nodeSet struct {
	buckets []uint64
}

func newNodeSet(capacity int) *nodeSet {
	return &nodeSet{buckets: make([]uint64, capacity>>6+1)}
}

func (s *nodeSet) add(n NodeIndex) {
	b := n >> 6
	if b >= uint32(len(s.buckets)) {
		grown := make([]uint64, b+1)
		copy(grown, s.buckets)
		s.buckets = grown
	}
	s.buckets[b] |= 1 << (n & 63)
}

func (s *nodeSet) has(n NodeIndex) bool {
	b := n >> 6
	if b >= uint32(len(s.buckets)) {
		return false
	}
	return s.buckets[b]&(1<<(n&63)) != 0
}
