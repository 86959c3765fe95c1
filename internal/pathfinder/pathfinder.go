// Package pathfinder implements the A* search over (square, moves-left,
// gfis-left, probability) described in §4.4: for every reachable square it
// finds the single dominating path, ranked by joint success probability.
package pathfinder

import (
	"container/heap"
	"sort"

	"github.com/kszonsteg/yasa/internal/geometry"
	"github.com/kszonsteg/yasa/internal/model"
	"github.com/pkg/errors"
)

const (
	riskWeight       = 10.0
	minProbThreshold = 0.01
)

// Pathfinder finds every reachable path for one player from its current
// position, accounting for tackle zones, dodges, and go-for-it rolls.
type Pathfinder struct {
	state           *model.GameState
	player          *model.Player
	current         model.Square
	ballPosition    *model.Square
	opponentTeamID  string
	isBlizzard      bool
	isQuickSnap     bool
	tackleZones     [geometry.Height][geometry.Width]int
}

// New builds a Pathfinder for player in the given state. The player must
// have a position; the state must have a current team and both rosters
// present — any violation is a state invariant error (§7).
func New(state *model.GameState, player *model.Player) (*Pathfinder, error) {
	if player.Position == nil {
		return nil, errors.New("player must have a position for pathfinding")
	}
	if state.CurrentTeamID == nil {
		return nil, errors.New("no current team id")
	}

	var opponentTeamID string
	if state.IsHomeTeam(*state.CurrentTeamID) {
		if state.AwayTeam == nil {
			return nil, errors.New("no away team")
		}
		opponentTeamID = state.AwayTeam.TeamID
	} else {
		if state.HomeTeam == nil {
			return nil, errors.New("no home team")
		}
		opponentTeamID = state.HomeTeam.TeamID
	}

	var ballPosition *model.Square
	if len(state.Balls) > 0 && !state.Balls[0].IsCarried && state.Balls[0].Position != nil {
		pos := *state.Balls[0].Position
		ballPosition = &pos
	}

	quickSnap := state.TurnState != nil && state.TurnState.QuickSnap

	pf := &Pathfinder{
		state:          state,
		player:         player,
		current:        *player.Position,
		ballPosition:   ballPosition,
		opponentTeamID: opponentTeamID,
		isBlizzard:     state.Weather == model.WeatherBlizzard,
		isQuickSnap:    quickSnap,
	}
	pf.precomputeTackleZones()
	return pf, nil
}

func (pf *Pathfinder) precomputeTackleZones() {
	var opponents *model.Team
	if pf.state.IsHomeTeam(pf.opponentTeamID) {
		opponents = pf.state.HomeTeam
	} else {
		opponents = pf.state.AwayTeam
	}
	if opponents == nil {
		return
	}
	for _, opp := range opponents.PlayersByID {
		if opp.Position == nil || !opp.State.Up || opp.State.Stunned {
			continue
		}
		for _, n := range geometry.AdjacentSquares(*opp.Position, true) {
			if n.X >= 0 && n.X < geometry.Width && n.Y >= 0 && n.Y < geometry.Height {
				pf.tackleZones[n.Y][n.X]++
			}
		}
	}
}

func (pf *Pathfinder) tackleZonesAt(sq model.Square) int {
	if sq.X < 0 || sq.X >= geometry.Width || sq.Y < 0 || sq.Y >= geometry.Height {
		return 0
	}
	return pf.tackleZones[sq.Y][sq.X]
}

// FindAllPaths returns, for every reachable square, the best path sorted by
// probability descending then remaining movement descending.
func (pf *Pathfinder) FindAllPaths() []model.Path {
	ma := pf.player.GetMA()
	movesUsed := pf.player.State.Moves

	movesLeft := saturatingSub(ma, movesUsed)
	gfisLeft := min(maxGFI, saturatingSub(ma+maxGFI, movesUsed))

	if pf.isQuickSnap {
		movesLeft = 1
		gfisLeft = 0
	}

	start := newPathNode(pf.current, movesLeft, gfisLeft)

	bestNodes := make(map[model.Square]*pathNode)
	open := &nodeHeap{start}
	heap.Init(open)
	var closed []*pathNode

	for open.Len() > 0 {
		current := heap.Pop(open).(*pathNode)

		if existing, ok := bestNodes[current.position]; ok {
			if existing.prob >= current.prob && existing.totalMovesLeft() >= current.totalMovesLeft() {
				continue
			}
		}

		currentIndex := len(closed)
		closed = append(closed, current)
		bestNodes[current.position] = current

		if current.totalMovesLeft() == 0 {
			continue
		}

		for _, neighbour := range pf.validNeighbours(current.position) {
			moveProb, usesGFI := pf.moveProbability(current, neighbour)
			if moveProb < minProbThreshold {
				continue
			}
			if usesGFI && current.gfisLeft == 0 {
				continue
			}

			child := fromParent(currentIndex, current, neighbour, moveProb, usesGFI)
			if pf.ballPosition != nil && neighbour == *pf.ballPosition {
				child.pickedUpBall = true
			}

			steps := (ma - child.movesLeft) + (maxGFI - child.gfisLeft)
			child.updateGScore(steps, riskWeight)

			if existing, ok := bestNodes[neighbour]; ok {
				if existing.prob >= child.prob && existing.totalMovesLeft() >= child.totalMovesLeft() {
					continue
				}
			}
			if child.prob >= minProbThreshold {
				heap.Push(open, child)
			}
		}
	}

	return pf.extractPaths(closed)
}

// FindPathTo returns the best path to target, if reachable.
func (pf *Pathfinder) FindPathTo(target model.Square) (model.Path, bool) {
	for _, p := range pf.FindAllPaths() {
		if p.Target == target {
			return p, true
		}
	}
	return model.Path{}, false
}

func (pf *Pathfinder) validNeighbours(sq model.Square) []model.Square {
	var out []model.Square
	for _, n := range geometry.AdjacentSquares(sq, false) {
		if _, err := pf.state.GetPlayerAt(n); err == nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

// moveProbability returns (probability, usesGFI) for stepping from `from`'s
// position into `to` (§4.4 step transitions).
func (pf *Pathfinder) moveProbability(from *pathNode, to model.Square) (float64, bool) {
	usesGFI := from.movesLeft == 0
	prob := 1.0

	if usesGFI {
		gfiTarget := model.GFITargetNormal
		if pf.isBlizzard {
			gfiTarget = model.GFITargetBlizzard
		}
		prob *= float64(7-gfiTarget) / 6.0
	}

	if !pf.isQuickSnap {
		if pf.tackleZonesAt(from.position) > 0 {
			prob *= pf.dodgeProbability(to)
		}
	}

	return prob, usesGFI
}

func (pf *Pathfinder) dodgeProbability(to model.Square) float64 {
	ag := pf.player.GetAG()
	if ag > 6 {
		ag = 6
	}
	baseTarget := model.AgilityTable[ag]
	modifier := pf.tackleZonesAt(to)
	target := clamp(baseTarget+1+modifier, 2, 6)
	return float64(7-target) / 6.0
}

func (pf *Pathfinder) extractPaths(closed []*pathNode) []model.Path {
	var paths []model.Path

	for idx, node := range closed {
		if node.position == pf.current {
			continue
		}

		var squares []model.Square
		pickedUpBall := false
		currentIdx := idx
		for {
			n := closed[currentIdx]
			if n.pickedUpBall {
				pickedUpBall = true
			}
			if n.position != pf.current {
				squares = append(squares, n.position)
			}
			if n.parent < 0 {
				break
			}
			currentIdx = n.parent
		}
		reverse(squares)

		ma := pf.player.GetMA()
		paths = append(paths, model.Path{
			Squares:     squares,
			Target:      node.position,
			Prob:        node.prob,
			MovesUsed:   ma - node.movesLeft,
			GFIsUsed:    maxGFI - node.gfisLeft,
			PicksUpBall: pickedUpBall,
		})
	}

	ma := pf.player.GetMA()
	sort.SliceStable(paths, func(i, j int) bool {
		if paths[i].Prob != paths[j].Prob {
			return paths[i].Prob > paths[j].Prob
		}
		remainingI := ma + maxGFI - paths[i].TotalCost()
		remainingJ := ma + maxGFI - paths[j].TotalCost()
		return remainingI > remainingJ
	})

	seen := make(map[model.Square]bool, len(paths))
	deduped := paths[:0]
	for _, p := range paths {
		if seen[p.Target] {
			continue
		}
		seen[p.Target] = true
		deduped = append(deduped, p)
	}
	return deduped
}

const maxGFI = model.MaxGFI

func saturatingSub(a, b int) int {
	if b >= a {
		return 0
	}
	return a - b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func reverse(s []model.Square) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
