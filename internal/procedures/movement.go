package procedures

import (
	"github.com/kszonsteg/yasa/internal/model"
	"github.com/kszonsteg/yasa/internal/pathfinder"
	"github.com/pkg/errors"
)

func moveDiscovery(state *model.GameState) error {
	state.AvailableActions = nil
	player, err := state.GetActivePlayer()
	if err != nil {
		return err
	}

	if state.ActivePath != nil {
		if state.ActivePath.Done() {
			state.AvailableActions = append(state.AvailableActions, model.NewAction(model.ActionEndPlayerTurn, nil, nil))
		} else {
			next := state.ActivePath.Path.Squares[state.ActivePath.CurrentStep]
			state.AvailableActions = append(state.AvailableActions, model.NewAction(model.ActionMove, nil, &next))
		}
		return nil
	}

	if !player.State.Up {
		state.AvailableActions = append(state.AvailableActions, model.NewAction(model.ActionStandUp, nil, nil))
	}

	pf, err := pathfinder.New(state, player)
	if err != nil {
		return err
	}
	for _, path := range pf.FindAllPaths() {
		path := path
		target := path.Target
		state.AvailableActions = append(state.AvailableActions, model.Action{ActionType: model.ActionMove, Position: &target, Path: &path})
	}

	state.AvailableActions = append(state.AvailableActions, model.NewAction(model.ActionEndPlayerTurn, nil, nil))
	return nil
}

// activePathIncomplete reports whether discovery must stop at the shared
// movement step because an ActivePath is mid-flight (§4.3.1).
func activePathIncomplete(state *model.GameState) bool {
	return state.ActivePath != nil && !state.ActivePath.Done()
}

func blitzDiscovery(state *model.GameState) error {
	if err := moveDiscovery(state); err != nil {
		return err
	}
	if activePathIncomplete(state) {
		return nil
	}

	player, err := state.GetActivePlayer()
	if err != nil {
		return err
	}
	if player.State.HasBlocked {
		return nil
	}

	teamID, err := state.GetPlayerTeamID(player.PlayerID)
	if err != nil {
		return err
	}
	movesNeeded := 1
	if !player.State.Up {
		movesNeeded = 4
	}
	const gfiAllowed = 2
	if player.State.Moves+movesNeeded > player.GetMA()+gfiAllowed {
		return nil
	}
	if player.Position == nil {
		return errors.New("active player missing position in blitz discovery")
	}
	opponents, err := state.GetAdjacentOpponents(teamID, *player.Position)
	if err != nil {
		return err
	}
	var blocks []model.Action
	for _, opp := range opponents {
		if !opp.State.Up {
			continue
		}
		pos := *opp.Position
		blocks = append(blocks, model.NewAction(model.ActionBlock, nil, &pos))
	}
	state.AvailableActions = append(blocks, state.AvailableActions...)
	return nil
}

func handoffDiscovery(state *model.GameState) error {
	if err := moveDiscovery(state); err != nil {
		return err
	}
	if activePathIncomplete(state) {
		return nil
	}
	if !state.IsActivePlayerCarryingBall() {
		return nil
	}

	teamID, err := requireCurrentTeam(state)
	if err != nil {
		return err
	}
	player, err := state.GetActivePlayer()
	if err != nil {
		return err
	}
	if player.Position == nil {
		return errors.New("missing active player position in handoff discovery")
	}
	teammates, err := state.GetAdjacentTeammates(teamID, *player.Position)
	if err != nil {
		return err
	}
	var handoffs []model.Action
	for _, mate := range teammates {
		if !mate.State.Up {
			continue
		}
		pos := *mate.Position
		handoffs = append(handoffs, model.NewAction(model.ActionHandoff, nil, &pos))
	}
	state.AvailableActions = append(handoffs, state.AvailableActions...)
	return nil
}

func foulDiscovery(state *model.GameState) error {
	if err := moveDiscovery(state); err != nil {
		return err
	}
	if activePathIncomplete(state) {
		return nil
	}

	if state.ActivePlayerID == nil {
		return errors.New("missing active player in foul discovery")
	}
	player, err := state.GetPlayer(*state.ActivePlayerID)
	if err != nil {
		return err
	}
	if player.State.HasBlocked {
		return errors.New("player already blocked in foul discovery")
	}
	teamID, err := state.GetPlayerTeamID(player.PlayerID)
	if err != nil {
		return err
	}
	if player.Position == nil {
		return errors.New("missing player position in foul discovery")
	}
	opponents, err := state.GetAdjacentOpponents(teamID, *player.Position)
	if err != nil {
		return err
	}
	var fouls []model.Action
	for _, opp := range opponents {
		if opp.State.Up {
			continue
		}
		pos := *opp.Position
		fouls = append(fouls, model.NewAction(model.ActionFoul, nil, &pos))
	}
	state.AvailableActions = append(fouls, state.AvailableActions...)
	return nil
}

// moveActionExecution dispatches the shared post-discovery actions for
// MoveAction/BlitzAction/HandoffAction/FoulAction/PassAction (§4.3.2).
func moveActionExecution(state *model.GameState, action model.Action) error {
	switch action.ActionType {
	case model.ActionMove:
		return moveExecution(state, action)
	case model.ActionStandUp:
		return standUpExecution(state)
	case model.ActionEndPlayerTurn:
		return endPlayerTurn(state)
	case model.ActionBlock:
		return blockActionExecution(state, action)
	case model.ActionHandoff:
		return handoffExecution(state, action)
	case model.ActionFoul:
		return foulExecution(state, action)
	case model.ActionPass:
		return passExecution(state, action)
	default:
		return errors.Errorf("unexpected action type %s in move action execution", action.ActionType)
	}
}

func moveExecution(state *model.GameState, action model.Action) error {
	var target model.Square
	if state.ActivePath != nil {
		if state.ActivePath.Done() {
			return errors.New("move execution called with a completed active path")
		}
		target = state.ActivePath.Path.Squares[state.ActivePath.CurrentStep]
	} else {
		if action.Path == nil {
			return errors.New("move action missing attached path")
		}
		pathCopy := action.Path.Clone()
		state.ActivePath = &model.ActivePath{Path: pathCopy}
		target = pathCopy.Squares[0]
	}

	player, err := state.GetActivePlayer()
	if err != nil {
		return err
	}
	gfiRequired := player.State.Moves+1 > player.GetMA()
	if gfiRequired {
		parent := state.Procedure
		state.ParentProcedure = &parent
		state.Procedure = model.GFI
		state.Position = &target
		return nil
	}

	teamID, err := requireCurrentTeam(state)
	if err != nil {
		return err
	}
	tz, err := state.GetTeamTackleZonesAt(teamID, *player.Position)
	if err != nil {
		return err
	}
	if tz > 0 {
		parent := state.Procedure
		state.ParentProcedure = &parent
		state.Procedure = model.Dodge
		state.Position = &target
		return nil
	}

	return applyDeterministicStep(state, target)
}

// applyDeterministicStep is the common tail of Move/GFI/Dodge success: one
// square of travel with ball pickup/carry/touchdown detection (§4.3.2,
// §4.3.3). It advances ActivePath and restores parent_procedure unless a
// touchdown was just scored.
func applyDeterministicStep(state *model.GameState, target model.Square) error {
	teamID, err := requireCurrentTeam(state)
	if err != nil {
		return err
	}
	wasCarrying := state.IsActivePlayerCarryingBall()

	playerID := *state.ActivePlayerID
	team, err := state.GetTeam(teamID)
	if err != nil {
		return err
	}
	p := team.PlayersByID[playerID]
	p.State.Moves++
	p.Position = &target
	p.State.SquaresMoved = append(p.State.SquaresMoved, target)
	team.PlayersByID[playerID] = p

	if state.ActivePath != nil {
		state.ActivePath.CurrentStep++
	}

	if ballPos, err := state.GetBallPosition(); err == nil && ballPos == target {
		state.Balls[0].IsCarried = true
		if state.ActivePath != nil && state.ActivePath.Done() {
			state.ActivePath = nil
		}
	}

	nowCarrying := state.IsActivePlayerCarryingBall()
	if wasCarrying || nowCarrying {
		pos := target
		state.Balls[0].Position = &pos

		if state.IsTargetEndzone(target, teamID) {
			state.Procedure = model.Touchdown
			team.Score++
			return nil
		}
	}

	if state.ParentProcedure != nil {
		state.Procedure = *state.ParentProcedure
	}
	return nil
}

func standUpExecution(state *model.GameState) error {
	if state.ActivePlayerID == nil {
		return errors.New("no active player for stand up execution")
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
	p.State.Up = true
	p.State.Moves += 3
	team.PlayersByID[*state.ActivePlayerID] = p
	return nil
}

// handoffExecution is a deterministic simplification: no accuracy roll is
// specified for Handoff in the reference (see DESIGN.md). The ball transfers
// immediately to the chosen teammate and the active player's turn ends.
func handoffExecution(state *model.GameState, action model.Action) error {
	if action.Position == nil {
		return errors.New("missing target position in handoff execution")
	}
	if len(state.Balls) == 0 {
		return errors.New("no ball to hand off")
	}
	pos := *action.Position
	state.Balls[0].Position = &pos
	state.Balls[0].IsCarried = true
	return endPlayerTurn(state)
}

// foulExecution is a deterministic simplification: no Armor/Injury roll is
// specified for Foul in the reference (see DESIGN.md). The target is stunned
// and the fouling player's turn ends.
func foulExecution(state *model.GameState, action model.Action) error {
	if action.Position == nil {
		return errors.New("missing target position in foul execution")
	}
	target, err := state.GetPlayerAt(*action.Position)
	if err != nil {
		return err
	}
	teamID, err := state.GetPlayerTeamID(target.PlayerID)
	if err != nil {
		return err
	}
	team, err := state.GetTeam(teamID)
	if err != nil {
		return err
	}
	p := team.PlayersByID[target.PlayerID]
	p.State.Stunned = true
	team.PlayersByID[target.PlayerID] = p

	if state.ActivePlayerID != nil {
		activeTeamID, err := state.GetPlayerTeamID(*state.ActivePlayerID)
		if err == nil {
			if activeTeam, err := state.GetTeam(activeTeamID); err == nil {
				ap := activeTeam.PlayersByID[*state.ActivePlayerID]
				ap.State.HasBlocked = true
				activeTeam.PlayersByID[*state.ActivePlayerID] = ap
			}
		}
	}
	return endPlayerTurn(state)
}
