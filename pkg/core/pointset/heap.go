package pointset

import "github.com/sanonone/kektortree/pkg/core/types"

// maxHeap keeps the k best candidates found so far with the farthest on top,
// so it is the one replaced when a closer point shows up.
type maxHeap []types.Candidate

func (h maxHeap) Len() int { return len(h) }

// Ties on distance put the larger id on top so that results are deterministic.
func (h maxHeap) Less(i, j int) bool {
	if h[i].Distance != h[j].Distance {
		return h[i].Distance > h[j].Distance
	}
	return h[i].Id > h[j].Id
}

func (h maxHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *maxHeap) Push(x any) { *h = append(*h, x.(types.Candidate)) }

func (h *maxHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// worse reports whether c ranks after the top of the heap.
func (h maxHeap) worse(c types.Candidate) bool {
	top := h[0]
	if c.Distance != top.Distance {
		return c.Distance > top.Distance
	}
	return c.Id > top.Id
}
