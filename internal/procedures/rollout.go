package procedures

import (
	"github.com/kszonsteg/yasa/internal/model"
	"github.com/pkg/errors"
)

func gfiRollout(state *model.GameState) ([]Outcome, error) {
	if state.Position == nil {
		return nil, errors.New("missing target position in GFI rollout")
	}
	target := *state.Position

	gfiTarget := model.GFITargetNormal
	if state.Weather == model.WeatherBlizzard {
		gfiTarget = model.GFITargetBlizzard
	}
	successProb := float64(7-gfiTarget) / 6.0

	success := state.Clone()
	if err := applyDeterministicStep(&success, target); err != nil {
		return nil, err
	}

	failure := state.Clone()
	if err := applyFailedStep(&failure, target); err != nil {
		return nil, err
	}

	return []Outcome{
		{Probability: successProb, ResultingState: success},
		{Probability: 1 - successProb, ResultingState: failure},
	}, nil
}

func dodgeRollout(state *model.GameState) ([]Outcome, error) {
	if state.Position == nil {
		return nil, errors.New("missing target position in dodge rollout")
	}
	target := *state.Position

	player, err := state.GetActivePlayer()
	if err != nil {
		return nil, err
	}
	teamID, err := requireCurrentTeam(state)
	if err != nil {
		return nil, err
	}
	tzAtDestination, err := state.GetTeamTackleZonesAt(teamID, target)
	if err != nil {
		return nil, err
	}
	ag := player.GetAG()
	if ag > 6 {
		ag = 6
	}
	dodgeTarget := clampInt(model.AgilityTable[ag]+1+tzAtDestination, 2, 6)
	successProb := float64(7-dodgeTarget) / 6.0

	success := state.Clone()
	if err := applyDeterministicStep(&success, target); err != nil {
		return nil, err
	}

	failure := state.Clone()
	if err := applyFailedStep(&failure, target); err != nil {
		return nil, err
	}

	return []Outcome{
		{Probability: successProb, ResultingState: success},
		{Probability: 1 - successProb, ResultingState: failure},
	}, nil
}

// applyFailedStep is the shared GFI/Dodge failure branch (§4.3.3): the
// player lands prone on the target square and possession turns over.
func applyFailedStep(state *model.GameState, target model.Square) error {
	if state.ActivePlayerID == nil {
		return errors.New("no active player for failed step")
	}
	teamID, err := state.GetPlayerTeamID(*state.ActivePlayerID)
	if err != nil {
		return err
	}
	team, err := state.GetTeam(teamID)
	if err != nil {
		return err
	}
	p := team.PlayersByID[*state.ActivePlayerID]
	p.Position = &target
	p.State.Up = false
	team.PlayersByID[*state.ActivePlayerID] = p

	state.Procedure = model.Turnover
	state.ParentProcedure = nil
	return nil
}

// blockRollOutcomes is the fixed five-face distribution for a one-die block
// (§4.3.3), in the order the reference implementation enumerates them.
var blockRollOutcomes = []struct {
	face model.ActionType
	prob float64
}{
	{model.ActionSelectDefenderStumbles, 1.0 / 6},
	{model.ActionSelectDefenderDown, 1.0 / 6},
	{model.ActionSelectPush, 2.0 / 6},
	{model.ActionSelectBothDown, 1.0 / 6},
	{model.ActionSelectAttackerDown, 1.0 / 6},
}

func blockRollRollout(state *model.GameState) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(blockRollOutcomes))
	for _, face := range blockRollOutcomes {
		child := state.Clone()
		child.Procedure = model.Block
		child.Rolls = []model.ActionType{face.face}
		outcomes = append(outcomes, Outcome{Probability: face.prob, ResultingState: child})
	}
	return outcomes, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
