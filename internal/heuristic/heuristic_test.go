package heuristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kszonsteg/yasa/internal/model"
	"github.com/kszonsteg/yasa/internal/parameters"
)

func baseState() *model.GameState {
	home, away := "home", "away"
	return &model.GameState{
		Orientation: model.DefaultOrientation(),
		HomeTeam:    &model.Team{TeamID: home, PlayersByID: map[string]model.Player{}},
		AwayTeam:    &model.Team{TeamID: away, PlayersByID: map[string]model.Player{}},
	}
}

func TestEvaluateBallCarryFavoursOwnCarrier(t *testing.T) {
	state := baseState()
	target := state.Orientation.TargetColumn(true)
	pos := model.Square{X: target, Y: 8}
	state.HomeTeam.PlayersByID["p1"] = model.Player{
		PlayerID: "p1", MA: 6, ST: 3, AG: 3, AV: 8,
		Position: &pos, State: model.DefaultPlayerState(),
	}
	state.Balls = []model.Ball{{Position: &pos, IsCarried: true}}

	h := New()
	value, err := h.Evaluate(state, "home")
	require.NoError(t, err)
	assert.Greater(t, value, float32(0))

	opponentValue, err := h.Evaluate(state, "away")
	require.NoError(t, err)
	assert.Less(t, opponentValue, float32(0))
}

func TestEvaluateTouchdownIsMaximal(t *testing.T) {
	state := baseState()
	target := state.Orientation.TargetColumn(true)
	pos := model.Square{X: target, Y: 8}
	state.Procedure = model.Touchdown
	state.Balls = []model.Ball{{Position: &pos, IsCarried: false}}

	h := New()
	value, err := h.Evaluate(state, "home")
	require.NoError(t, err)
	assert.Equal(t, float32(1), value)
}

func TestEvaluateLooseBallProximity(t *testing.T) {
	state := baseState()
	ballPos := model.Square{X: 14, Y: 8}
	nearPos := model.Square{X: 13, Y: 8}
	state.HomeTeam.PlayersByID["p1"] = model.Player{
		PlayerID: "p1", MA: 6, ST: 3, AG: 3, AV: 8,
		Position: &nearPos, State: model.DefaultPlayerState(),
	}
	state.Balls = []model.Ball{{Position: &ballPos, IsCarried: false}}

	h := New()
	value, err := h.Evaluate(state, "home")
	require.NoError(t, err)
	assert.Greater(t, value, float32(0))
}

func TestEvaluateBoundedByOne(t *testing.T) {
	state := baseState()
	h := New()
	value, err := h.Evaluate(state, "home")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, value, float32(-1))
	assert.LessOrEqual(t, value, float32(1))
}

func TestEvaluateUnknownTeamErrors(t *testing.T) {
	state := baseState()
	h := New()
	_, err := h.Evaluate(state, "nonexistent")
	assert.Error(t, err)
}

func TestEvaluateKnockedOutPlayersPenaliseOwnTeam(t *testing.T) {
	state := baseState()
	pos := model.Square{X: 14, Y: 8}
	koState := model.DefaultPlayerState()
	koState.KnockedOut = true
	state.HomeTeam.PlayersByID["p1"] = model.Player{
		PlayerID: "p1", MA: 6, ST: 3, AG: 3, AV: 8,
		Position: &pos, State: koState,
	}

	h := New()
	value, err := h.Evaluate(state, "home")
	require.NoError(t, err)
	assert.Less(t, value, float32(0))
}

func TestWeightsFromParamsOverridesOnlyGivenKeys(t *testing.T) {
	params := parameters.Params{"end_zone_distance": "2.5"}
	w, err := WeightsFromParams(params)
	require.NoError(t, err)
	assert.Equal(t, float32(2.5), w.EndZoneDistance)
	assert.Equal(t, DefaultWeights().BallCarry, w.BallCarry)
}

func TestWeightsFromParamsRejectsUnparsable(t *testing.T) {
	_, err := WeightsFromParams(parameters.Params{"knock_out": "not-a-float"})
	assert.Error(t, err)
}

func TestNewFromParamsUsesOverriddenWeights(t *testing.T) {
	h, err := NewFromParams(parameters.Params{"ball_carry": "0"})
	require.NoError(t, err)
	assert.Equal(t, float32(0), h.weights.BallCarry)
}
