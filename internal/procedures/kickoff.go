package procedures

import (
	"github.com/kszonsteg/yasa/internal/generics"
	"github.com/kszonsteg/yasa/internal/model"
	"github.com/pkg/errors"
)

// This file covers the pre-drive sequence (coin toss through kickoff
// resolution). spec.md's essential cases fix only the discovery side of
// these procedures (§4.3.1); none of their executions survive in
// original_source (no execution/setup.rs, execution/special.rs, or a
// kickoff-table rollout). The sequencing below is a deterministic,
// documented simplification (see DESIGN.md): no coin-flip or kickoff-table
// randomness is modelled, since neither is specified anywhere in scope.

func coinTossFlipDiscovery(state *model.GameState) error {
	state.AvailableActions = []model.Action{
		model.NewAction(model.ActionHeads, nil, nil),
		model.NewAction(model.ActionTails, nil, nil),
	}
	return nil
}

// coinTossFlipExecution: the calling team always wins the toss, since no
// random source is available at the discovery/execution layer (§5: randomness
// is confined to MCTS chance-node sampling and root fallback).
func coinTossFlipExecution(state *model.GameState, action model.Action) error {
	if action.ActionType != model.ActionHeads && action.ActionType != model.ActionTails {
		return errors.Errorf("unexpected action type %s in coin toss flip execution", action.ActionType)
	}
	teamID, err := requireCurrentTeam(state)
	if err != nil {
		return err
	}
	state.CoinTossWinner = &teamID
	state.Procedure = model.CoinTossKickReceive
	return nil
}

func coinTossKickReceiveDiscovery(state *model.GameState) error {
	state.AvailableActions = []model.Action{
		model.NewAction(model.ActionKick, nil, nil),
		model.NewAction(model.ActionReceive, nil, nil),
	}
	return nil
}

func coinTossKickReceiveExecution(state *model.GameState, action model.Action) error {
	if state.CoinTossWinner == nil {
		return errors.New("no coin toss winner in kick/receive execution")
	}
	winner := *state.CoinTossWinner
	loser, err := otherTeamID(state, winner)
	if err != nil {
		return err
	}

	var kicking, receiving string
	switch action.ActionType {
	case model.ActionKick:
		kicking, receiving = winner, loser
	case model.ActionReceive:
		kicking, receiving = loser, winner
	default:
		return errors.Errorf("unexpected action type %s in kick/receive execution", action.ActionType)
	}

	state.KickingFirstHalf = &kicking
	state.ReceivingFirstHalf = &receiving
	state.KickingThisDrive = &kicking
	state.ReceivingThisDrive = &receiving
	state.CurrentTeamID = &kicking
	state.Procedure = model.Setup
	return nil
}

func otherTeamID(state *model.GameState, teamID string) (string, error) {
	if state.HomeTeam != nil && state.HomeTeam.TeamID == teamID {
		if state.AwayTeam == nil {
			return "", errors.New("no away team")
		}
		return state.AwayTeam.TeamID, nil
	}
	if state.AwayTeam != nil && state.AwayTeam.TeamID == teamID {
		if state.HomeTeam == nil {
			return "", errors.New("no home team")
		}
		return state.HomeTeam.TeamID, nil
	}
	return "", errors.Errorf("unknown team id %q", teamID)
}

func setupDiscovery(state *model.GameState) error {
	teamID, err := requireCurrentTeam(state)
	if err != nil {
		return err
	}
	if state.KickingThisDrive != nil && teamID == *state.KickingThisDrive {
		state.AvailableActions = []model.Action{
			model.NewAction(model.ActionSetupFormationZone, nil, nil),
			model.NewAction(model.ActionSetupFormationSpread, nil, nil),
		}
	} else {
		state.AvailableActions = []model.Action{
			model.NewAction(model.ActionSetupFormationWedge, nil, nil),
			model.NewAction(model.ActionSetupFormationLine, nil, nil),
		}
	}
	return nil
}

// setupExecution advances from the kicking team's setup to the receiving
// team's, then to PlaceBall once both have chosen a formation. The formation
// choice itself has no further modelled effect (no player-placement geometry
// is specified for it).
func setupExecution(state *model.GameState, action model.Action) error {
	switch action.ActionType {
	case model.ActionSetupFormationZone, model.ActionSetupFormationSpread,
		model.ActionSetupFormationWedge, model.ActionSetupFormationLine:
	default:
		return errors.Errorf("unexpected action type %s in setup execution", action.ActionType)
	}
	teamID, err := requireCurrentTeam(state)
	if err != nil {
		return err
	}
	if state.KickingThisDrive != nil && teamID == *state.KickingThisDrive {
		other, err := otherTeamID(state, teamID)
		if err != nil {
			return err
		}
		state.CurrentTeamID = &other
		return nil
	}
	if state.KickingThisDrive != nil {
		kicking := *state.KickingThisDrive
		state.CurrentTeamID = &kicking
	}
	state.Procedure = model.PlaceBall
	return nil
}

func placeBallDiscovery(state *model.GameState) error {
	positions := state.GetReceivingTeamSidePositions()
	state.AvailableActions = make([]model.Action, 0, len(positions))
	for _, pos := range positions {
		pos := pos
		state.AvailableActions = append(state.AvailableActions, model.NewAction(model.ActionPlaceBall, nil, &pos))
	}
	return nil
}

func placeBallExecution(state *model.GameState, action model.Action) error {
	if action.Position == nil {
		return errors.New("missing position in place ball execution")
	}
	if len(state.Balls) == 0 {
		state.Balls = []model.Ball{{}}
	}
	pos := *action.Position
	state.Balls[0].Position = &pos
	state.Balls[0].IsCarried = false
	state.Procedure = model.HighKick
	return nil
}

func touchbackDiscovery(state *model.GameState) error {
	state.AvailableActions = nil
	if state.ReceivingThisDrive == nil {
		return nil
	}
	team, err := state.GetTeam(*state.ReceivingThisDrive)
	if err != nil {
		return err
	}
	for id := range generics.SortedKeys(team.PlayersByID) {
		player := team.PlayersByID[id]
		if player.State.Up && player.Position != nil {
			id := id
			state.AvailableActions = append(state.AvailableActions, model.NewAction(model.ActionSelectPlayer, &id, nil))
		}
	}
	return nil
}

func touchbackExecution(state *model.GameState, action model.Action) error {
	if action.ActionType != model.ActionSelectPlayer || action.Player == nil {
		return errors.Errorf("unexpected action in touchback execution")
	}
	return giveBallTo(state, *action.Player)
}

func highKickDiscovery(state *model.GameState) error {
	state.AvailableActions = nil
	if state.ReceivingThisDrive == nil {
		return nil
	}
	team, err := state.GetTeam(*state.ReceivingThisDrive)
	if err != nil {
		return err
	}
	ballPos, err := state.GetBallPosition()
	if err != nil {
		return nil
	}
	if !state.IsTeamSide(ballPos, *state.ReceivingThisDrive) {
		return nil
	}
	if _, err := state.GetPlayerAt(ballPos); err == nil {
		return nil
	}
	for id := range generics.SortedKeys(team.PlayersByID) {
		player := team.PlayersByID[id]
		if player.Position == nil || !player.State.Up {
			continue
		}
		tz, err := state.GetTeamTackleZonesAt(*state.ReceivingThisDrive, *player.Position)
		if err != nil {
			return err
		}
		if tz == 0 {
			id := id
			state.AvailableActions = append(state.AvailableActions, model.NewAction(model.ActionSelectPlayer, &id, nil))
		}
	}
	state.AvailableActions = append(state.AvailableActions, model.NewAction(model.ActionSelectNone, nil, nil))
	return nil
}

func highKickExecution(state *model.GameState, action model.Action) error {
	switch action.ActionType {
	case model.ActionSelectPlayer:
		if action.Player == nil {
			return errors.New("missing player in high kick execution")
		}
		if err := giveBallTo(state, *action.Player); err != nil {
			return err
		}
		return nil
	case model.ActionSelectNone:
		state.Procedure = model.Touchback
		return nil
	default:
		return errors.Errorf("unexpected action type %s in high kick execution", action.ActionType)
	}
}

func giveBallTo(state *model.GameState, playerID string) error {
	player, err := state.GetPlayer(playerID)
	if err != nil {
		return err
	}
	if player.Position == nil {
		return errors.Errorf("player %s has no position to receive the ball", playerID)
	}
	if len(state.Balls) == 0 {
		return errors.New("no ball to assign")
	}
	pos := *player.Position
	state.Balls[0].Position = &pos
	state.Balls[0].IsCarried = true

	if state.ReceivingThisDrive != nil {
		receiving := *state.ReceivingThisDrive
		state.CurrentTeamID = &receiving
	}
	state.Procedure = model.Turn
	return nil
}
