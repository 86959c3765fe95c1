package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kszonsteg/yasa/internal/model"
	"github.com/kszonsteg/yasa/internal/parameters"
)

func sampleTurnStateJSON(t *testing.T) string {
	t.Helper()
	pos := model.Square{X: 15, Y: 5}
	home, away := "home", "away"
	state := model.GameState{
		Procedure:      model.MoveAction,
		CurrentTeamID:  &home,
		ActivePlayerID: func() *string { s := "p1"; return &s }(),
		TurnState:      &model.TurnState{},
		HomeTeam: &model.Team{
			TeamID: home,
			PlayersByID: map[string]model.Player{
				"p1": {
					PlayerID: "p1", MA: 6, ST: 3, AG: 3, AV: 8,
					Position: &pos, State: model.DefaultPlayerState(),
				},
			},
		},
		AwayTeam: &model.Team{TeamID: away, PlayersByID: map[string]model.Player{}},
		Balls:    []model.Ball{{Position: &pos, IsCarried: true}},
	}
	data, err := json.Marshal(&state)
	require.NoError(t, err)
	return string(data)
}

func TestGetActionsReturnsAvailableActions(t *testing.T) {
	out, err := GetActions(sampleTurnStateJSON(t))
	require.NoError(t, err)

	var resp actionsResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.NotEmpty(t, resp.Actions)
	assert.Equal(t, model.ActionEndPlayerTurn, resp.Actions[len(resp.Actions)-1].ActionType)
}

func TestGetActionsRejectsMalformedJSON(t *testing.T) {
	_, err := GetActions("{not json")
	assert.Error(t, err)
}

func TestGetActionsRejectsUnknownEnum(t *testing.T) {
	_, err := GetActions(`{"procedure": "NOT_A_PROCEDURE"}`)
	assert.Error(t, err)
}

func TestGetMCTSActionReturnsAction(t *testing.T) {
	out, err := GetMCTSAction(sampleTurnStateJSON(t), 50, false)
	require.NoError(t, err)

	var resp actionResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Contains(t, []model.ActionType{model.ActionMove, model.ActionEndPlayerTurn, model.ActionStandUp}, resp.Action.ActionType)
}

func TestEvaluateStateHeuristicReturnsBothPerspectives(t *testing.T) {
	out, err := EvaluateStateHeuristic(sampleTurnStateJSON(t))
	require.NoError(t, err)

	var resp evaluateResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.GreaterOrEqual(t, resp.HomeValue, float32(-1))
	assert.LessOrEqual(t, resp.HomeValue, float32(1))
	assert.GreaterOrEqual(t, resp.AwayValue, float32(-1))
	assert.LessOrEqual(t, resp.AwayValue, float32(1))
}

func TestEvaluateStateHeuristicRequiresBothTeams(t *testing.T) {
	_, err := EvaluateStateHeuristic(`{"procedure": "TURN"}`)
	assert.Error(t, err)
}

func TestEvaluateStateHeuristicWithParamsHonoursOverrides(t *testing.T) {
	out, err := EvaluateStateHeuristicWithParams(sampleTurnStateJSON(t), parameters.Params{"ball_carry": "0", "end_zone_distance": "0"})
	require.NoError(t, err)

	var resp evaluateResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, float32(0), resp.HomeValue)
}

func TestGetMCTSActionWithParamsUsesOverriddenExploreConstant(t *testing.T) {
	out, err := GetMCTSActionWithParams(sampleTurnStateJSON(t), 50, false, parameters.Params{"mcts_c_explore": "2.0"})
	require.NoError(t, err)

	var resp actionResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Contains(t, []model.ActionType{model.ActionMove, model.ActionEndPlayerTurn, model.ActionStandUp}, resp.Action.ActionType)
}
