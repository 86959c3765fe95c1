package pathfinder

import "github.com/kszonsteg/yasa/internal/model"

// pathNode is a single A* search node: a square reached with some remaining
// movement budget and cumulative success probability.
type pathNode struct {
	position     model.Square
	parent       int // index into the closed set; -1 for the start node
	gScore       float64
	hScore       float64
	fScore       float64
	movesLeft    int
	gfisLeft     int
	prob         float64
	pickedUpBall bool
}

func newPathNode(position model.Square, movesLeft, gfisLeft int) *pathNode {
	return &pathNode{
		position:  position,
		parent:    -1,
		movesLeft: movesLeft,
		gfisLeft:  gfisLeft,
		prob:      1.0,
	}
}

// fromParent derives a child node stepping from parent into position.
func fromParent(parentIndex int, parent *pathNode, position model.Square, moveProb float64, usesGFI bool) *pathNode {
	movesLeft := parent.movesLeft
	gfisLeft := parent.gfisLeft
	if usesGFI {
		gfisLeft = saturatingSub(gfisLeft, 1)
	} else {
		movesLeft = saturatingSub(movesLeft, 1)
	}
	return &pathNode{
		position:     position,
		parent:       parentIndex,
		movesLeft:    movesLeft,
		gfisLeft:     gfisLeft,
		prob:         parent.prob * moveProb,
		pickedUpBall: parent.pickedUpBall,
	}
}

func (n *pathNode) totalMovesLeft() int { return n.movesLeft + n.gfisLeft }

// updateGScore applies the risk-weighted cost: steps taken plus a penalty
// proportional to the path's failure probability (§4.4).
func (n *pathNode) updateGScore(steps int, risk float64) {
	n.gScore = float64(steps) + (1.0-n.prob)*risk
	n.fScore = n.gScore + n.hScore
}

// nodeHeap is a min-heap on fScore, tie-broken by higher probability first.
type nodeHeap []*pathNode

func (h nodeHeap) Len() int { return len(h) }

func (h nodeHeap) Less(i, j int) bool {
	if h[i].fScore != h[j].fScore {
		return h[i].fScore < h[j].fScore
	}
	return h[i].prob > h[j].prob
}

func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x any) {
	*h = append(*h, x.(*pathNode))
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
