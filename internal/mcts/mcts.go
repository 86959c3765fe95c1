// Package mcts is the decision/chance Monte Carlo Tree Search described in
// §4.5: a flat node arena mixing decision nodes (the active player chooses)
// and chance nodes (dice decide), UCB1 selection, expectimax-style
// evaluation through a pluggable heuristic.Policy, and a wall-clock search
// budget.
package mcts

import (
	"math"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/kszonsteg/yasa/internal/heuristic"
	"github.com/kszonsteg/yasa/internal/model"
	"github.com/kszonsteg/yasa/internal/parameters"
	"github.com/kszonsteg/yasa/internal/procedures"
)

// nodeKind distinguishes decision nodes (the active player chooses) from
// chance nodes (the dice decide).
type nodeKind int

const (
	decisionNode nodeKind = iota
	chanceNode
)

// prunedActionTypes strips a fixed set of sub-turn starters from the tree's
// action space at decision-node creation (§4.5). Implementations may vary
// the set; this one matches the reference.
var prunedActionTypes = map[model.ActionType]bool{
	model.ActionStartBlitz:   true,
	model.ActionStartPass:    true,
	model.ActionStartHandoff: true,
	model.ActionStartFoul:    true,
}

// node is one arena entry. Every field below nodes is indexed, never
// pointer-linked, so the arena is a flat growable slice with no cycles
// (§9 "Cyclic parent/child in MCTS").
type node struct {
	state model.GameState
	kind  nodeKind

	// parent is the index of the creating node, or -1 for the root.
	parent int

	// edgeProbability is the probability of the edge that produced this
	// node from its parent: 1.0 for a deterministic action or the
	// deterministic entry into a chance procedure, or the rollout
	// probability when this node is one outcome of a chance expansion.
	edgeProbability float64

	terminal bool

	// Decision-node fields.
	children   map[model.ActionKey]int
	actions    map[model.ActionKey]model.Action
	childOrder []model.ActionKey
	untried    []model.Action

	// Chance-node fields.
	outcomes []int

	visits     int
	totalScore float64
}

func (n *node) fullyExpanded() bool {
	if n.kind == decisionNode {
		return len(n.untried) == 0
	}
	return len(n.outcomes) > 0
}

// Searcher runs one MCTS query against a single arena. It is not
// goroutine-safe and not reused across queries (§5: one query owns one
// tree).
type Searcher struct {
	registry  procedures.Registry
	policy    heuristic.Policy
	cExplore  float64
	rng       *rand.Rand
	nodes     []node
}

// New returns a Searcher configured with the exploration constant cExplore
// (the "c" in UCB1) and the random source rng (injected so tests are
// reproducible per §5).
func New(policy heuristic.Policy, cExplore float64, rng *rand.Rand) *Searcher {
	return &Searcher{
		registry: procedures.New(),
		policy:   policy,
		cExplore: cExplore,
		rng:      rng,
	}
}

// defaultCExplore is UCB1's "c" term when params doesn't set one.
const defaultCExplore = 1.4

// Config is the subset of a Searcher's tuning knobs that params can
// override: the UCB1 exploration constant and a default iteration budget,
// the same two knobs the teacher's "mcts" search config exposes.
type Config struct {
	CExplore        float64
	IterationBudget int
}

// ConfigFromParams reads Config from params, the way the teacher builds its
// search configs from a Params map (see internal/parameters).
func ConfigFromParams(params parameters.Params) (Config, error) {
	cfg := Config{CExplore: defaultCExplore}
	cExplore, err := parameters.GetParamOr(params, "mcts_c_explore", float64(defaultCExplore))
	if err != nil {
		return cfg, errors.Wrap(err, "mcts: parsing mcts_c_explore")
	}
	cfg.CExplore = cExplore
	cfg.IterationBudget, err = parameters.GetParamOr(params, "mcts_iteration_budget", 0)
	if err != nil {
		return cfg, errors.Wrap(err, "mcts: parsing mcts_iteration_budget")
	}
	return cfg, nil
}

// NewFromParams returns a Searcher configured from params. Only
// Config.CExplore is applied; Config.IterationBudget is not used by the
// Searcher, whose iteration cap is Search's maxIterations argument.
func NewFromParams(params parameters.Params, policy heuristic.Policy, rng *rand.Rand) (*Searcher, error) {
	cfg, err := ConfigFromParams(params)
	if err != nil {
		return nil, err
	}
	return New(policy, cfg.CExplore, rng), nil
}

// Search runs the tree search rooted at initial until deadline elapses (or
// maxIterations is reached, if positive — mainly useful for deterministic
// tests; pass 0 to rely on the deadline alone), then returns the best root
// action (§4.5 "Best-action selection").
//
// terminalMode selects which root states are acceptable: when false (the
// default variant, used at the start of a player's turn) a root that is
// already terminal is a state invariant violation. When true (used for a
// root that may be a mid-chain node, e.g. immediately after a block or
// push), an already-terminal root short-circuits to its first available
// action instead of searching an empty tree.
func (s *Searcher) Search(initial *model.GameState, deadline time.Time, terminalMode bool, maxIterations int) (model.Action, error) {
	root := initial.Clone()
	if len(root.AvailableActions) == 0 {
		if err := s.registry.Discover(&root); err != nil {
			return model.Action{}, errors.Wrap(err, "mcts: discovering root actions")
		}
	}

	s.nodes = s.nodes[:0]
	rootIdx, err := s.newDecisionNode(root, -1, 1.0)
	if err != nil {
		return model.Action{}, err
	}

	if s.nodes[rootIdx].terminal {
		if !terminalMode {
			return model.Action{}, errors.New("mcts: root state is already terminal; expected a player-turn decision point")
		}
		if len(root.AvailableActions) == 0 {
			return model.Action{}, errors.New("mcts: terminal root has no available actions")
		}
		return root.AvailableActions[0], nil
	}

	iterations := 0
	start := time.Now()
	for time.Now().Before(deadline) {
		leaf, err := s.selectForExpansion(rootIdx)
		if err != nil {
			return model.Action{}, err
		}

		var evalIdx int
		if s.nodes[leaf].terminal {
			evalIdx = leaf
		} else {
			evalIdx, err = s.expand(leaf)
			if err != nil {
				return model.Action{}, err
			}
		}

		score, err := s.evaluate(evalIdx)
		if err != nil {
			return model.Action{}, err
		}
		s.backup(evalIdx, score)

		iterations++
		if maxIterations > 0 && iterations >= maxIterations {
			break
		}
	}

	if klog.V(1).Enabled() {
		elapsed := time.Since(start)
		klog.V(1).Infof("mcts: searched %d iterations in %s (%.1f/s)", iterations, elapsed, float64(iterations)/elapsed.Seconds())
	}

	return s.bestAction(rootIdx)
}

// newDecisionNode builds a decision node for state, applying the §4.5
// pruning set and terminal test.
func (s *Searcher) newDecisionNode(state model.GameState, parent int, edgeProbability float64) (int, error) {
	untried := make([]model.Action, 0, len(state.AvailableActions))
	for _, a := range state.AvailableActions {
		if prunedActionTypes[a.ActionType] {
			continue
		}
		untried = append(untried, a)
	}
	terminal := len(untried) == 0 ||
		state.GameOver ||
		state.Procedure == model.EndTurn ||
		state.Procedure == model.Touchdown ||
		state.Procedure == model.Turnover

	idx := len(s.nodes)
	s.nodes = append(s.nodes, node{
		state:           state,
		kind:            decisionNode,
		parent:          parent,
		edgeProbability: edgeProbability,
		terminal:        terminal,
		children:        make(map[model.ActionKey]int),
		actions:         make(map[model.ActionKey]model.Action),
		untried:         untried,
	})
	return idx, nil
}

// newChanceNode builds a chance node awaiting rollout expansion.
func (s *Searcher) newChanceNode(state model.GameState, parent int, edgeProbability float64) int {
	idx := len(s.nodes)
	s.nodes = append(s.nodes, node{
		state:           state,
		kind:            chanceNode,
		parent:          parent,
		edgeProbability: edgeProbability,
	})
	return idx
}

// selectForExpansion walks from root to either a terminal node or a node
// that isn't fully expanded, per §4.5 "Selection".
func (s *Searcher) selectForExpansion(idx int) (int, error) {
	for {
		n := &s.nodes[idx]
		if n.terminal {
			return idx, nil
		}
		switch n.kind {
		case decisionNode:
			if len(n.untried) > 0 {
				return idx, nil
			}
			next, err := s.selectBestChild(idx)
			if err != nil {
				return 0, err
			}
			idx = next
		case chanceNode:
			if len(n.outcomes) == 0 {
				return idx, nil
			}
			idx = s.sampleOutcome(n)
		}
	}
}

// selectBestChild applies UCB1 over a fully-expanded decision node's
// children, skipping an already-visited EndTurn child unless it is the
// only one available (§4.5).
func (s *Searcher) selectBestChild(idx int) (int, error) {
	n := &s.nodes[idx]
	best := -1
	bestUCB := math.Inf(-1)
	for _, key := range n.childOrder {
		childIdx := n.children[key]
		child := &s.nodes[childIdx]
		isEndTurn := n.actions[key].ActionType == model.ActionEndTurn
		if isEndTurn && child.visits >= 1 && len(n.childOrder) > 1 {
			continue
		}
		ucb := ucb1(child, n.visits, s.cExplore)
		if ucb > bestUCB {
			bestUCB = ucb
			best = childIdx
		}
	}
	if best == -1 {
		// Every child was skipped (should not happen outside a single
		// EndTurn-only child, which is excluded from the skip above) —
		// fall back to the first child rather than getting stuck.
		best = n.children[n.childOrder[0]]
	}
	return best, nil
}

func ucb1(child *node, parentVisits int, c float64) float64 {
	if child.visits == 0 {
		return math.Inf(1)
	}
	exploitation := child.totalScore / float64(child.visits)
	exploration := c * math.Sqrt(math.Log(float64(parentVisits))/float64(child.visits))
	return exploitation + exploration
}

// sampleOutcome picks one of a chance node's already-expanded outcomes by
// cumulative probability (§4.5).
func (s *Searcher) sampleOutcome(n *node) int {
	r := s.rng.Float64()
	cumulative := 0.0
	for _, childIdx := range n.outcomes {
		cumulative += s.nodes[childIdx].edgeProbability
		if r <= cumulative {
			return childIdx
		}
	}
	// Floating-point slack: fall back to the last outcome.
	return n.outcomes[len(n.outcomes)-1]
}

// expand creates exactly one new child of idx, per §4.5 "Expansion".
func (s *Searcher) expand(idx int) (int, error) {
	if s.nodes[idx].kind == decisionNode {
		return s.expandDecision(idx)
	}
	return s.expandChance(idx)
}

func (s *Searcher) expandDecision(idx int) (int, error) {
	if len(s.nodes[idx].untried) == 0 {
		return 0, errors.New("mcts: cannot expand a fully-expanded decision node")
	}
	action := s.nodes[idx].untried[0]
	s.nodes[idx].untried = s.nodes[idx].untried[1:]

	next := s.nodes[idx].state.Clone()
	if err := s.registry.Execute(&next, action); err != nil {
		return 0, errors.Wrapf(err, "mcts: executing action %s", action.ActionType)
	}

	var childIdx int
	var err error
	if model.ChanceProcedures[next.Procedure] {
		childIdx = s.newChanceNode(next, idx, 1.0)
	} else {
		if err = s.registry.Discover(&next); err != nil {
			return 0, errors.Wrap(err, "mcts: discovering child actions")
		}
		childIdx, err = s.newDecisionNode(next, idx, 1.0)
		if err != nil {
			return 0, err
		}
	}

	key := action.Key()
	s.nodes[idx].children[key] = childIdx
	s.nodes[idx].actions[key] = action
	s.nodes[idx].childOrder = append(s.nodes[idx].childOrder, key)
	return childIdx, nil
}

func (s *Searcher) expandChance(idx int) (int, error) {
	outcomes, err := s.registry.Rollout(&s.nodes[idx].state)
	if err != nil {
		return 0, errors.Wrap(err, "mcts: rolling out chance procedure")
	}
	if len(outcomes) == 0 {
		return 0, errors.New("mcts: chance procedure produced no outcomes")
	}

	firstChild := -1
	for _, outcome := range outcomes {
		resulting := outcome.ResultingState
		var childIdx int
		if model.ChanceProcedures[resulting.Procedure] {
			childIdx = s.newChanceNode(resulting, idx, outcome.Probability)
		} else {
			if err := s.registry.Discover(&resulting); err != nil {
				return 0, errors.Wrap(err, "mcts: discovering outcome actions")
			}
			childIdx, err = s.newDecisionNode(resulting, idx, outcome.Probability)
			if err != nil {
				return 0, err
			}
		}
		s.nodes[idx].outcomes = append(s.nodes[idx].outcomes, childIdx)
		if firstChild == -1 {
			firstChild = childIdx
		}
	}
	return firstChild, nil
}

// evaluate implements §4.5 "Evaluation": a leaf decision node is scored by
// the value policy from the mover's perspective; an internal decision node
// averages its children (expectimax); a chance node sums its children
// weighted by their edge probabilities.
func (s *Searcher) evaluate(idx int) (float64, error) {
	n := &s.nodes[idx]
	switch n.kind {
	case decisionNode:
		if len(n.childOrder) == 0 {
			return s.leafValue(&n.state)
		}
		var sum float64
		for _, key := range n.childOrder {
			v, err := s.evaluate(n.children[key])
			if err != nil {
				return 0, err
			}
			sum += v
		}
		return sum / float64(len(n.childOrder)), nil
	default: // chanceNode
		if len(n.outcomes) == 0 {
			return s.leafValue(&n.state)
		}
		var sum float64
		for _, childIdx := range n.outcomes {
			v, err := s.evaluate(childIdx)
			if err != nil {
				return 0, err
			}
			sum += s.nodes[childIdx].edgeProbability * v
		}
		return sum, nil
	}
}

func (s *Searcher) leafValue(state *model.GameState) (float64, error) {
	if state.CurrentTeamID == nil {
		return 0, errors.New("mcts: no current team id at leaf, cannot evaluate")
	}
	value, err := s.policy.Evaluate(state, *state.CurrentTeamID)
	if err != nil {
		return 0, errors.Wrap(err, "mcts: leaf evaluation")
	}
	return float64(value), nil
}

// backup walks from idx to the root, incrementing visits and adding score
// unchanged at every node (§4.5: "No per-level score transformation is
// applied").
func (s *Searcher) backup(idx int, score float64) {
	for {
		n := &s.nodes[idx]
		n.visits++
		n.totalScore += score
		if n.parent == -1 {
			return
		}
		idx = n.parent
	}
}

// bestAction implements §4.5 "Best-action selection": among root children
// with at least one visit, the highest mean score; if none have been
// visited, a random child.
func (s *Searcher) bestAction(rootIdx int) (model.Action, error) {
	root := &s.nodes[rootIdx]
	if len(root.childOrder) == 0 {
		return model.Action{}, errors.New("mcts: root has no children to select from")
	}

	bestKey := root.childOrder[0]
	bestScore := math.Inf(-1)
	found := false
	for _, key := range root.childOrder {
		child := &s.nodes[root.children[key]]
		if child.visits == 0 {
			continue
		}
		avg := child.totalScore / float64(child.visits)
		if !found || avg > bestScore {
			bestScore = avg
			bestKey = key
			found = true
		}
	}
	if !found {
		bestKey = root.childOrder[s.rng.Intn(len(root.childOrder))]
	}
	return root.actions[bestKey], nil
}
