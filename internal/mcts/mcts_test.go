package mcts

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kszonsteg/yasa/internal/heuristic"
	"github.com/kszonsteg/yasa/internal/model"
	"github.com/kszonsteg/yasa/internal/parameters"
)

func newCarryingMoveState(homePos model.Square) *model.GameState {
	home, away := "home", "away"
	return &model.GameState{
		Procedure:      model.MoveAction,
		CurrentTeamID:  &home,
		ActivePlayerID: strPtr("p1"),
		Orientation:    model.DefaultOrientation(),
		TurnState:      &model.TurnState{},
		HomeTeam: &model.Team{
			TeamID: home,
			PlayersByID: map[string]model.Player{
				"p1": {
					PlayerID: "p1", MA: 6, ST: 3, AG: 3, AV: 8,
					Position: &homePos, State: model.DefaultPlayerState(),
				},
			},
		},
		AwayTeam: &model.Team{TeamID: away, PlayersByID: map[string]model.Player{}},
		Balls:    []model.Ball{{Position: &homePos, IsCarried: true}},
	}
}

func strPtr(s string) *string { return &s }

// TestSearchPrefersScoringMoveOverEndTurn is a variant of §8 scenario 6: the
// root is a MoveAction for a carrier one square from the endzone it's
// driving for, offering one Move per reachable square plus EndPlayerTurn,
// and the search picks a Move (several of them score) over ending the
// player's turn.
func TestSearchPrefersScoringMoveOverEndTurn(t *testing.T) {
	targetColumn := model.DefaultOrientation().TargetColumn(true)
	pos := model.Square{X: targetColumn - 1, Y: 5}
	state := newCarryingMoveState(pos)

	s := New(heuristic.New(), 1.4, rand.New(rand.NewSource(1)))
	deadline := time.Now().Add(200 * time.Millisecond)
	action, err := s.Search(state, deadline, false, 200)
	require.NoError(t, err)
	assert.Equal(t, model.ActionMove, action.ActionType)
}

// TestSearchRootMustDiscoverFirst ensures Search auto-discovers actions
// when the caller hasn't already populated AvailableActions.
func TestSearchRootMustDiscoverFirst(t *testing.T) {
	pos := model.Square{X: 15, Y: 5}
	state := newCarryingMoveState(pos)
	require.Empty(t, state.AvailableActions)

	s := New(heuristic.New(), 1.4, rand.New(rand.NewSource(2)))
	deadline := time.Now().Add(100 * time.Millisecond)
	action, err := s.Search(state, deadline, false, 100)
	require.NoError(t, err)
	assert.Contains(t, []model.ActionType{model.ActionMove, model.ActionEndPlayerTurn}, action.ActionType)
}

// TestSearchTerminalRootRequiresTerminalMode covers the §6 terminal_mode
// contract: a root already in a terminal procedure is a state invariant
// violation unless the caller opts into terminalMode.
func TestSearchTerminalRootRequiresTerminalMode(t *testing.T) {
	home := "home"
	state := &model.GameState{
		Procedure:     model.EndTurn,
		CurrentTeamID: &home,
		HomeTeam:      &model.Team{TeamID: home, PlayersByID: map[string]model.Player{}},
		AwayTeam:      &model.Team{TeamID: "away", PlayersByID: map[string]model.Player{}},
		AvailableActions: []model.Action{
			model.NewAction(model.ActionEndTurn, nil, nil),
		},
	}

	s := New(heuristic.New(), 1.4, rand.New(rand.NewSource(3)))
	deadline := time.Now().Add(50 * time.Millisecond)

	_, err := s.Search(state, deadline, false, 10)
	assert.Error(t, err)

	action, err := s.Search(state, deadline, true, 10)
	require.NoError(t, err)
	assert.Equal(t, model.ActionEndTurn, action.ActionType)
}

// TestArenaParentChainReachesRoot is the §8 universal invariant: following
// parent links from any node reaches the root in finite steps.
func TestArenaParentChainReachesRoot(t *testing.T) {
	pos := model.Square{X: 15, Y: 5}
	state := newCarryingMoveState(pos)

	s := New(heuristic.New(), 1.4, rand.New(rand.NewSource(4)))
	deadline := time.Now().Add(100 * time.Millisecond)
	_, err := s.Search(state, deadline, false, 50)
	require.NoError(t, err)

	for i, n := range s.nodes {
		idx := i
		steps := 0
		for s.nodes[idx].parent != -1 {
			idx = s.nodes[idx].parent
			steps++
			require.Less(t, steps, len(s.nodes)+1, "cycle detected reaching root from node %d", i)
		}
		assert.Equal(t, 0, idx)
	}
}

func TestConfigFromParamsOverridesCExplore(t *testing.T) {
	cfg, err := ConfigFromParams(parameters.Params{"mcts_c_explore": "2.0", "mcts_iteration_budget": "50"})
	require.NoError(t, err)
	assert.Equal(t, 2.0, cfg.CExplore)
	assert.Equal(t, 50, cfg.IterationBudget)
}

func TestConfigFromParamsDefaultsWhenUnset(t *testing.T) {
	cfg, err := ConfigFromParams(nil)
	require.NoError(t, err)
	assert.Equal(t, defaultCExplore, cfg.CExplore)
	assert.Equal(t, 0, cfg.IterationBudget)
}

func TestNewFromParamsSearchesSuccessfully(t *testing.T) {
	targetColumn := model.DefaultOrientation().TargetColumn(true)
	pos := model.Square{X: targetColumn - 1, Y: 5}
	state := newCarryingMoveState(pos)

	s, err := NewFromParams(parameters.Params{"mcts_c_explore": "1.0"}, heuristic.New(), rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	deadline := time.Now().Add(100 * time.Millisecond)
	action, err := s.Search(state, deadline, false, 100)
	require.NoError(t, err)
	assert.Equal(t, model.ActionMove, action.ActionType)
}
