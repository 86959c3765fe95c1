package pathfinder

import (
	"testing"

	"github.com/kszonsteg/yasa/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState() *model.GameState {
	pos := model.Square{X: 5, Y: 5}
	home := "home"
	return &model.GameState{
		CurrentTeamID: &home,
		HomeTeam: &model.Team{
			TeamID: "home",
			PlayersByID: map[string]model.Player{
				"player1": {
					PlayerID: "player1", MA: 6, ST: 3, AG: 3, AV: 8,
					Position: &pos, State: model.DefaultPlayerState(),
				},
			},
		},
		AwayTeam: &model.Team{TeamID: "away", PlayersByID: map[string]model.Player{}},
	}
}

func addOpponent(state *model.GameState, pos model.Square, id string) {
	state.AwayTeam.PlayersByID[id] = model.Player{
		PlayerID: id, MA: 6, ST: 3, AG: 3, AV: 8,
		Position: &pos, State: model.DefaultPlayerState(),
	}
}

func TestNewRequiresPosition(t *testing.T) {
	state := newTestState()
	player := state.HomeTeam.PlayersByID["player1"]
	player.Position = nil
	state.HomeTeam.PlayersByID["player1"] = player

	p := state.HomeTeam.PlayersByID["player1"]
	_, err := New(state, &p)
	assert.Error(t, err)
}

func TestFindAllPathsEmptyField(t *testing.T) {
	state := newTestState()
	player := state.HomeTeam.PlayersByID["player1"]
	pf, err := New(state, &player)
	require.NoError(t, err)

	paths := pf.FindAllPaths()
	require.NotEmpty(t, paths)
	for _, p := range paths {
		if p.GFIsUsed == 0 {
			assert.InDelta(t, 1.0, p.Prob, 0.001)
		}
	}
}

func TestFindAllPathsMaxDistance(t *testing.T) {
	state := newTestState()
	player := state.HomeTeam.PlayersByID["player1"]
	pf, err := New(state, &player)
	require.NoError(t, err)

	paths := pf.FindAllPaths()
	maxDist := 0
	for _, p := range paths {
		d := p.Target.Distance(model.Square{X: 5, Y: 5})
		if d > maxDist {
			maxDist = d
		}
	}
	assert.GreaterOrEqual(t, maxDist, 6)
}

func TestFindAllPathsWithGFI(t *testing.T) {
	state := newTestState()
	player := state.HomeTeam.PlayersByID["player1"]
	pf, err := New(state, &player)
	require.NoError(t, err)

	paths := pf.FindAllPaths()
	found := false
	for _, p := range paths {
		if p.GFIsUsed > 0 {
			found = true
			assert.Less(t, p.Prob, 1.0)
		}
	}
	assert.True(t, found, "should have paths using GFI")
}

func TestFindAllPathsWithDodge(t *testing.T) {
	state := newTestState()
	addOpponent(state, model.Square{X: 5, Y: 4}, "opp1")
	player := state.HomeTeam.PlayersByID["player1"]
	pf, err := New(state, &player)
	require.NoError(t, err)

	paths := pf.FindAllPaths()
	found := false
	for _, p := range paths {
		if p.Prob < 1.0 && p.GFIsUsed == 0 {
			found = true
		}
	}
	assert.True(t, found, "should have paths requiring a dodge")
}

func TestPathsAvoidOccupiedSquares(t *testing.T) {
	state := newTestState()
	addOpponent(state, model.Square{X: 6, Y: 5}, "opp1")
	player := state.HomeTeam.PlayersByID["player1"]
	pf, err := New(state, &player)
	require.NoError(t, err)

	_, blocked := pf.FindPathTo(model.Square{X: 6, Y: 5})
	assert.False(t, blocked)

	_, around := pf.FindPathTo(model.Square{X: 7, Y: 5})
	assert.True(t, around)
}

func TestPathsSortedByProbabilityDescending(t *testing.T) {
	state := newTestState()
	addOpponent(state, model.Square{X: 4, Y: 4}, "opp1")
	player := state.HomeTeam.PlayersByID["player1"]
	pf, err := New(state, &player)
	require.NoError(t, err)

	paths := pf.FindAllPaths()
	for i := 1; i < len(paths); i++ {
		assert.GreaterOrEqual(t, paths[i-1].Prob, paths[i].Prob)
	}
}

func TestBallPickupFlag(t *testing.T) {
	state := newTestState()
	ballPos := model.Square{X: 7, Y: 5}
	state.Balls = []model.Ball{{Position: &ballPos, IsCarried: false}}
	player := state.HomeTeam.PlayersByID["player1"]
	pf, err := New(state, &player)
	require.NoError(t, err)

	path, ok := pf.FindPathTo(model.Square{X: 7, Y: 5})
	require.True(t, ok)
	assert.True(t, path.PicksUpBall)
}

func TestUniquePathsPerTarget(t *testing.T) {
	state := newTestState()
	player := state.HomeTeam.PlayersByID["player1"]
	pf, err := New(state, &player)
	require.NoError(t, err)

	paths := pf.FindAllPaths()
	seen := map[model.Square]bool{}
	for _, p := range paths {
		assert.False(t, seen[p.Target], "duplicate path to %v", p.Target)
		seen[p.Target] = true
	}
}

func TestBlizzardAffectsGFI(t *testing.T) {
	state := newTestState()
	state.Weather = model.WeatherBlizzard
	player := state.HomeTeam.PlayersByID["player1"]
	pf, err := New(state, &player)
	require.NoError(t, err)

	paths := pf.FindAllPaths()
	var gfiPath *model.Path
	for i := range paths {
		if paths[i].GFIsUsed == 1 {
			gfiPath = &paths[i]
			break
		}
	}
	require.NotNil(t, gfiPath)
	assert.InDelta(t, 4.0/6.0, gfiPath.Prob, 0.01)
}
