package procedures

import (
	"github.com/kszonsteg/yasa/internal/model"
	"github.com/pkg/errors"
)

func blockActionDiscovery(state *model.GameState) error {
	state.AvailableActions = nil
	player, err := state.GetActivePlayer()
	if err != nil {
		return err
	}
	if player.State.HasBlocked {
		return errors.New("player already blocked in block discovery")
	}
	if player.Position == nil {
		return errors.New("missing player position in block discovery")
	}
	teamID, err := state.GetPlayerTeamID(player.PlayerID)
	if err != nil {
		return err
	}
	opponents, err := state.GetAdjacentOpponents(teamID, *player.Position)
	if err != nil {
		return err
	}
	for _, opp := range opponents {
		if !opp.State.Up {
			continue
		}
		pos := *opp.Position
		state.AvailableActions = append(state.AvailableActions, model.NewAction(model.ActionBlock, nil, &pos))
	}
	state.AvailableActions = append(state.AvailableActions, model.NewAction(model.ActionEndPlayerTurn, nil, nil))
	return nil
}

func blockActionExecution(state *model.GameState, action model.Action) error {
	if action.ActionType == model.ActionEndPlayerTurn {
		return endPlayerTurn(state)
	}
	if action.ActionType != model.ActionBlock {
		return errors.Errorf("unexpected action type %s in block action execution", action.ActionType)
	}
	if action.Position == nil {
		return errors.New("missing target position in block action execution")
	}
	if state.ActivePlayerID == nil {
		return errors.New("no active player for block action execution")
	}
	defender, err := state.GetPlayerAt(*action.Position)
	if err != nil {
		return err
	}
	state.BlockContext = &model.BlockContext{
		Attacker: *state.ActivePlayerID,
		Defender: defender.PlayerID,
		Position: *action.Position,
	}
	state.Procedure = model.BlockRoll
	return nil
}

func blockDiscovery(state *model.GameState) error {
	state.AvailableActions = nil
	for _, roll := range state.Rolls {
		state.AvailableActions = append(state.AvailableActions, model.NewAction(roll, nil, nil))
	}
	return nil
}

func blockExecution(state *model.GameState, action model.Action) error {
	if state.BlockContext == nil {
		return errors.New("no block context in block execution")
	}
	attacker := state.BlockContext.Attacker
	defender := state.BlockContext.Defender

	switch action.ActionType {
	case model.ActionSelectDefenderDown, model.ActionSelectDefenderStumbles, model.ActionSelectPush:
		if action.ActionType == model.ActionSelectDefenderDown || action.ActionType == model.ActionSelectDefenderStumbles {
			state.BlockContext.KnockOut = true
		}
		state.BlockContext.PushChain = append(state.BlockContext.PushChain, model.PushChainItem{
			Attacker: attacker,
			Defender: defender,
		})
		state.Procedure = model.Push
		return nil
	case model.ActionSelectBothDown:
		if err := knockOutPlayer(state, attacker); err != nil {
			return err
		}
		if err := knockOutPlayer(state, defender); err != nil {
			return err
		}
		state.Procedure = model.Turnover
		return nil
	case model.ActionSelectAttackerDown:
		if err := knockOutPlayer(state, attacker); err != nil {
			return err
		}
		state.Procedure = model.Turnover
		return nil
	default:
		return errors.Errorf("unexpected action type %s in block execution", action.ActionType)
	}
}

func knockOutPlayer(state *model.GameState, playerID string) error {
	teamID, err := state.GetPlayerTeamID(playerID)
	if err != nil {
		return err
	}
	team, err := state.GetTeam(teamID)
	if err != nil {
		return err
	}
	p := team.PlayersByID[playerID]
	p.State.Up = false
	p.State.KnockedOut = true
	team.PlayersByID[playerID] = p
	return nil
}

func pushDiscovery(state *model.GameState) error {
	state.AvailableActions = nil
	if state.BlockContext == nil || len(state.BlockContext.PushChain) == 0 {
		return errors.New("no push chain in push discovery")
	}
	tail := state.BlockContext.PushChain[len(state.BlockContext.PushChain)-1]
	attacker, err := state.GetPlayer(tail.Attacker)
	if err != nil {
		return err
	}
	defender, err := state.GetPlayer(tail.Defender)
	if err != nil {
		return err
	}
	if attacker.Position == nil || defender.Position == nil {
		return errors.New("missing position in push discovery")
	}

	candidates := adjacentSquaresIncludingOOB(*defender.Position)
	var empty, outOfBounds, occupied []model.Square

	straight := attacker.Position.X == defender.Position.X || attacker.Position.Y == defender.Position.Y
	for _, sq := range candidates {
		included := false
		if straight {
			included = attacker.Position.Distance(sq) >= 2
		} else {
			included = attacker.Position.ManhattanDistance(sq) >= 3
		}
		if !included {
			continue
		}
		if sq.OutOfBounds() {
			outOfBounds = append(outOfBounds, sq)
			continue
		}
		if _, err := state.GetPlayerAt(sq); err == nil {
			occupied = append(occupied, sq)
			continue
		}
		empty = append(empty, sq)
	}

	final := empty
	if len(final) == 0 {
		final = outOfBounds
	}
	if len(final) == 0 {
		final = occupied
	}
	for _, sq := range final {
		pos := sq
		state.AvailableActions = append(state.AvailableActions, model.NewAction(model.ActionPush, nil, &pos))
	}
	return nil
}

func pushExecution(state *model.GameState, action model.Action) error {
	if state.BlockContext == nil || len(state.BlockContext.PushChain) == 0 {
		return errors.New("no push chain in push execution")
	}
	if action.Position == nil {
		return errors.New("missing target position in push execution")
	}
	target := *action.Position
	tailIdx := len(state.BlockContext.PushChain) - 1
	pos := target
	state.BlockContext.PushChain[tailIdx].Position = &pos

	if target.OutOfBounds() {
		return errors.New("push target is out of bounds")
	}

	if occupant, err := state.GetPlayerAt(target); err == nil {
		state.BlockContext.PushChain = append(state.BlockContext.PushChain, model.PushChainItem{
			Attacker: state.BlockContext.PushChain[tailIdx].Attacker,
			Defender: occupant.PlayerID,
		})
		return pushDiscovery(state)
	}

	return executePushChain(state)
}

func executePushChain(state *model.GameState) error {
	chain := state.BlockContext.PushChain
	for i := len(chain) - 1; i >= 0; i-- {
		item := chain[i]
		if item.Position == nil {
			return errors.Errorf("push chain item for %s has no resolved position", item.Defender)
		}
		teamID, err := state.GetPlayerTeamID(item.Defender)
		if err != nil {
			return err
		}
		team, err := state.GetTeam(teamID)
		if err != nil {
			return err
		}
		p := team.PlayersByID[item.Defender]
		wasCarrying := isCarryingBallAt(state, p.Position)
		p.Position = item.Position
		team.PlayersByID[item.Defender] = p

		if wasCarrying && len(state.Balls) > 0 {
			ballPos := *item.Position
			state.Balls[0].Position = &ballPos
		}
	}

	if state.BlockContext.KnockOut {
		if err := knockOutPlayer(state, state.BlockContext.Defender); err != nil {
			return err
		}
	}

	state.Procedure = model.FollowUp
	if carrier, err := state.GetBallCarrier(); err == nil {
		carrierTeamID, err := state.GetPlayerTeamID(carrier.PlayerID)
		if err == nil && carrier.State.Up && !carrier.State.Stunned && !carrier.State.KnockedOut &&
			state.IsTargetEndzone(*carrier.Position, carrierTeamID) {
			state.Procedure = model.Touchdown
			if team, err := state.GetTeam(carrierTeamID); err == nil {
				team.Score++
			}
		}
	}
	return nil
}

func isCarryingBallAt(state *model.GameState, pos *model.Square) bool {
	if pos == nil || len(state.Balls) == 0 || !state.Balls[0].IsCarried || state.Balls[0].Position == nil {
		return false
	}
	return *state.Balls[0].Position == *pos
}

func followUpDiscovery(state *model.GameState) error {
	if state.BlockContext == nil {
		return errors.New("no block context in follow up discovery")
	}
	player, err := state.GetActivePlayer()
	if err != nil {
		return err
	}
	formerDefenderSquare := state.BlockContext.Position
	state.AvailableActions = []model.Action{
		model.NewAction(model.ActionFollowUp, nil, &formerDefenderSquare),
		model.NewAction(model.ActionFollowUp, nil, player.Position),
	}
	return nil
}

func followUpExecution(state *model.GameState, action model.Action) error {
	if state.ActivePlayerID == nil {
		return errors.New("no active player for follow up execution")
	}
	if action.Position == nil {
		return errors.New("missing target position in follow up execution")
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
	p.State.HasBlocked = true
	pos := *action.Position
	p.Position = &pos
	team.PlayersByID[*state.ActivePlayerID] = p

	if state.ParentProcedure != nil && *state.ParentProcedure == model.BlitzAction {
		state.Procedure = model.BlitzAction
	} else {
		p.State.Used = true
		team.PlayersByID[*state.ActivePlayerID] = p
		state.ActivePlayerID = nil
		state.ParentProcedure = nil
		state.Procedure = model.Turn
	}
	state.BlockContext = nil
	return nil
}

func adjacentSquaresIncludingOOB(sq model.Square) []model.Square {
	var out []model.Square
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			out = append(out, model.Square{X: sq.X + dx, Y: sq.Y + dy})
		}
	}
	return out
}
