package procedures

import (
	"github.com/kszonsteg/yasa/internal/generics"
	"github.com/kszonsteg/yasa/internal/model"
	"github.com/pkg/errors"
)

// startProcedureFor maps a Start* action to the procedure it opens
// (§4.3.2); turnExecution clears the TurnState flag of the four consumable
// options.
var startProcedureFor = map[model.ActionType]model.Procedure{
	model.ActionStartMove:    model.MoveAction,
	model.ActionStartBlitz:   model.BlitzAction,
	model.ActionStartPass:    model.PassAction,
	model.ActionStartHandoff: model.HandoffAction,
	model.ActionStartFoul:    model.FoulAction,
	model.ActionStartBlock:   model.BlockAction,
}

func turnDiscovery(state *model.GameState) error {
	state.AvailableActions = nil
	teamID, err := requireCurrentTeam(state)
	if err != nil {
		return err
	}
	team, err := state.GetTeam(teamID)
	if err != nil {
		return err
	}
	ts := state.TurnState
	if ts == nil {
		return errors.New("missing turn state in turn discovery")
	}

	for playerID := range generics.SortedKeys(team.PlayersByID) {
		player := team.PlayersByID[playerID]
		if player.State.Used || player.Position == nil {
			continue
		}
		if ts.Blitz {
			tz, err := state.GetTeamTackleZonesAt(teamID, *player.Position)
			if err != nil {
				return err
			}
			if tz > 0 {
				continue
			}
		}

		id := playerID
		state.AvailableActions = append(state.AvailableActions, model.NewAction(model.ActionStartMove, &id, nil))

		if ts.BlitzAvailable {
			state.AvailableActions = append(state.AvailableActions, model.NewAction(model.ActionStartBlitz, &id, nil))
		}
		if ts.PassAvailable {
			state.AvailableActions = append(state.AvailableActions, model.NewAction(model.ActionStartPass, &id, nil))
		}
		if ts.HandoffAvailable {
			state.AvailableActions = append(state.AvailableActions, model.NewAction(model.ActionStartHandoff, &id, nil))
		}
		if ts.FoulAvailable {
			state.AvailableActions = append(state.AvailableActions, model.NewAction(model.ActionStartFoul, &id, nil))
		}
		if player.State.Up && !ts.Blitz && !ts.QuickSnap {
			opponents, err := state.GetAdjacentOpponents(teamID, *player.Position)
			if err != nil {
				return err
			}
			hasStandingOpponent := false
			for _, opp := range opponents {
				if opp.State.Up {
					hasStandingOpponent = true
					break
				}
			}
			if hasStandingOpponent {
				state.AvailableActions = append(state.AvailableActions, model.NewAction(model.ActionStartBlock, &id, nil))
			}
		}
	}

	state.AvailableActions = append(state.AvailableActions, model.NewAction(model.ActionEndTurn, nil, nil))
	return nil
}

func turnExecution(state *model.GameState, action model.Action) error {
	if action.ActionType == model.ActionEndTurn {
		state.ActivePlayerID = nil
		state.Procedure = model.EndTurn
		return nil
	}

	procedure, ok := startProcedureFor[action.ActionType]
	if !ok {
		return errors.Errorf("unexpected action type %s in turn execution", action.ActionType)
	}
	if action.Player == nil {
		return errors.New("missing player in start-action execution")
	}
	playerID := *action.Player
	state.ActivePlayerID = &playerID
	state.Procedure = procedure
	parent := procedure
	state.ParentProcedure = &parent

	if state.TurnState != nil {
		switch action.ActionType {
		case model.ActionStartBlitz:
			state.TurnState.BlitzAvailable = false
		case model.ActionStartPass:
			state.TurnState.PassAvailable = false
		case model.ActionStartHandoff:
			state.TurnState.HandoffAvailable = false
		case model.ActionStartFoul:
			state.TurnState.FoulAvailable = false
		}
	}
	return nil
}

// endPlayerTurn is the shared effect of the EndPlayerTurn action, reached
// from whichever of Move/Blitz/Handoff/Foul/Pass action execution is active
// (§4.3.2).
func endPlayerTurn(state *model.GameState) error {
	if state.ActivePlayerID == nil {
		return errors.New("no active player to end turn for")
	}
	playerID := *state.ActivePlayerID
	teamID, err := state.GetPlayerTeamID(playerID)
	if err != nil {
		return err
	}
	team, err := state.GetTeam(teamID)
	if err != nil {
		return err
	}
	player := team.PlayersByID[playerID]
	player.State.Used = true
	player.State.Moves = 0
	player.State.SquaresMoved = nil
	player.State.HasBlocked = false
	team.PlayersByID[playerID] = player

	state.ActivePlayerID = nil
	state.ParentProcedure = nil
	state.Procedure = model.Turn
	return nil
}

func requireCurrentTeam(state *model.GameState) (string, error) {
	if state.CurrentTeamID == nil {
		return "", errors.New("current team is required")
	}
	return *state.CurrentTeamID, nil
}
