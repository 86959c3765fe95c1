package procedures

import (
	"github.com/kszonsteg/yasa/internal/model"
	"github.com/pkg/errors"
)

func rerollDiscovery(state *model.GameState) error {
	state.AvailableActions = []model.Action{
		model.NewAction(model.ActionUseReroll, nil, nil),
		model.NewAction(model.ActionDontUseReroll, nil, nil),
	}
	return nil
}

// rerollExecution is a documented simplification (see DESIGN.md): the
// reference has no surviving execution/special.rs, so no "roll being
// rerolled" context is tracked. Using a reroll only consumes the team's
// counter; both options return to the procedure that requested the reroll.
func rerollExecution(state *model.GameState, action model.Action) error {
	if action.ActionType == model.ActionUseReroll {
		teamID, err := requireCurrentTeam(state)
		if err != nil {
			return err
		}
		team, err := state.GetTeam(teamID)
		if err != nil {
			return err
		}
		if team.Rerolls > 0 {
			team.Rerolls--
		}
	} else if action.ActionType != model.ActionDontUseReroll {
		return errors.Errorf("unexpected action type %s in reroll execution", action.ActionType)
	}
	if state.ParentProcedure != nil {
		state.Procedure = *state.ParentProcedure
	}
	return nil
}

func ejectionDiscovery(state *model.GameState) error {
	teamID, err := requireCurrentTeam(state)
	if err != nil {
		return err
	}
	team, err := state.GetTeam(teamID)
	if err != nil {
		return err
	}
	if team.Bribes > 0 {
		state.AvailableActions = []model.Action{
			model.NewAction(model.ActionUseBribe, nil, nil),
			model.NewAction(model.ActionDontUseBribe, nil, nil),
		}
	} else {
		state.AvailableActions = []model.Action{
			model.NewAction(model.ActionDontUseBribe, nil, nil),
		}
	}
	return nil
}

// ejectionExecution: using a bribe consumes it and cancels the ejection;
// declining leaves the ejected player's fate to whatever procedure invoked
// Ejection (no player-removal bookkeeping is tracked at this layer; see
// DESIGN.md).
func ejectionExecution(state *model.GameState, action model.Action) error {
	if action.ActionType == model.ActionUseBribe {
		teamID, err := requireCurrentTeam(state)
		if err != nil {
			return err
		}
		team, err := state.GetTeam(teamID)
		if err != nil {
			return err
		}
		if team.Bribes > 0 {
			team.Bribes--
		}
	} else if action.ActionType != model.ActionDontUseBribe {
		return errors.Errorf("unexpected action type %s in ejection execution", action.ActionType)
	}
	if state.ParentProcedure != nil {
		state.Procedure = *state.ParentProcedure
	}
	return nil
}
