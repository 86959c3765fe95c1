package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionEqualityIgnoresPath(t *testing.T) {
	player := "p1"
	pos := Square{X: 3, Y: 4}
	a := NewAction(ActionMove, &player, &pos)
	b := NewAction(ActionMove, &player, &pos)
	b.Path = &Path{Target: pos, Prob: 0.5}

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Key(), b.Key())
}

func TestActionInequalityOnPosition(t *testing.T) {
	player := "p1"
	a := NewAction(ActionMove, &player, &Square{X: 1, Y: 1})
	b := NewAction(ActionMove, &player, &Square{X: 2, Y: 1})
	assert.False(t, a.Equal(b))
}

func TestStatClamping(t *testing.T) {
	p := Player{MA: 15, ST: 0, AG: 3, AV: -2}
	assert.Equal(t, 10, p.GetMA())
	assert.Equal(t, 1, p.GetST())
	assert.Equal(t, 3, p.GetAG())
	assert.Equal(t, 1, p.GetAV())
}

func TestCloneIndependence(t *testing.T) {
	pos := Square{X: 5, Y: 5}
	original := GameState{
		HomeTeam: &Team{
			TeamID: "home",
			PlayersByID: map[string]Player{
				"p1": {PlayerID: "p1", Position: &pos, State: DefaultPlayerState()},
			},
		},
	}

	clone := original.Clone()
	p := clone.HomeTeam.PlayersByID["p1"]
	p.Position.X = 99
	p.State.Used = true
	clone.HomeTeam.PlayersByID["p1"] = p

	assert.Equal(t, 5, original.HomeTeam.PlayersByID["p1"].Position.X)
	assert.False(t, original.HomeTeam.PlayersByID["p1"].State.Used)
}

func TestPassDistanceCategories(t *testing.T) {
	assert.Equal(t, PassQuick, GetPassDistance(0, 0))
	assert.Equal(t, PassHailMary, GetPassDistance(13, 13))
}

func TestEnumRoundTripJSON(t *testing.T) {
	data, err := ActionMove.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"MOVE"`, string(data))

	var a ActionType
	require.NoError(t, a.UnmarshalJSON([]byte(`"END_TURN"`)))
	assert.Equal(t, ActionEndTurn, a)

	var bad ActionType
	assert.Error(t, bad.UnmarshalJSON([]byte(`"NOT_A_REAL_ACTION"`)))
}

func TestParseGameStateRejectsUnknownProcedure(t *testing.T) {
	_, err := ParseGameState([]byte(`{"procedure": "NOT_A_PROCEDURE"}`))
	assert.Error(t, err)
}
