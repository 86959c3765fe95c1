package procedures

import (
	"github.com/kszonsteg/yasa/internal/geometry"
	"github.com/kszonsteg/yasa/internal/model"
	"github.com/pkg/errors"
)

// passActionDiscovery enumerates pass targets across the pitch interior when
// the active player carries the ball. The reference's exact distance-banded
// target set (`get_pass_distances_at`) did not survive distillation; this is
// a documented simplification (see DESIGN.md) offering every interior square
// as a candidate target, leaving range legality to the heuristic/search
// layer rather than the discovery layer.
func passActionDiscovery(state *model.GameState) error {
	if err := moveDiscovery(state); err != nil {
		return err
	}
	if activePathIncomplete(state) {
		return nil
	}
	if !state.IsActivePlayerCarryingBall() {
		return nil
	}

	player, err := state.GetActivePlayer()
	if err != nil {
		return err
	}
	if player.Position == nil {
		return errors.New("active player has no position in pass action discovery")
	}

	var passes []model.Action
	for x := 1; x <= geometry.Width-2; x++ {
		for y := 1; y <= geometry.Height-2; y++ {
			sq := model.Square{X: x, Y: y}
			if sq == *player.Position {
				continue
			}
			passes = append(passes, model.NewAction(model.ActionPass, nil, &sq))
		}
	}
	state.AvailableActions = append(passes, state.AvailableActions...)
	return nil
}

func passExecution(state *model.GameState, action model.Action) error {
	if action.Position == nil {
		return errors.New("missing target position in pass execution")
	}
	parent := state.Procedure
	state.ParentProcedure = &parent
	state.Procedure = model.Interception
	target := *action.Position
	state.Position = &target
	return nil
}

func interceptionDiscovery(state *model.GameState) error {
	state.AvailableActions = nil
	if state.Position == nil {
		return errors.New("missing target position in interception discovery")
	}
	target := *state.Position

	player, err := state.GetActivePlayer()
	if err != nil {
		return err
	}
	if player.Position == nil {
		return errors.New("active player has no position in interception discovery")
	}
	teamID, err := requireCurrentTeam(state)
	if err != nil {
		return err
	}

	interceptors, err := findInterceptors(state, *player.Position, target, teamID)
	if err != nil {
		return err
	}
	for _, id := range interceptors {
		id := id
		state.AvailableActions = append(state.AvailableActions, model.NewAction(model.ActionSelectPlayer, &id, nil))
	}
	state.AvailableActions = append(state.AvailableActions, model.NewAction(model.ActionSelectNone, nil, nil))
	return nil
}

func findInterceptors(state *model.GameState, passer, target model.Square, passingTeamID string) ([]string, error) {
	maxDistance := passer.Distance(target)
	line := geometry.PassLine(passer, target)

	candidates := make(map[model.Square]bool)
	for _, sq := range line {
		candidates[sq] = true
		for _, n := range geometry.AdjacentSquares(sq, false) {
			if n.Distance(passer) > maxDistance || n.Distance(target) > maxDistance {
				continue
			}
			if n.X > max(passer.X, target.X) || n.X < min(passer.X, target.X) {
				continue
			}
			if n.Y > max(passer.Y, target.Y) || n.Y < min(passer.Y, target.Y) {
				continue
			}
			candidates[n] = true
		}
	}
	delete(candidates, passer)
	delete(candidates, target)

	opponents, err := state.GetOpposingTeam(passingTeamID)
	if err != nil {
		return nil, err
	}

	var interceptors []string
	for sq := range candidates {
		p, err := state.GetPlayerAt(sq)
		if err != nil {
			continue
		}
		if _, ok := opponents.PlayersByID[p.PlayerID]; !ok {
			continue
		}
		if p.State.Up && !p.State.Stunned && !p.State.KnockedOut {
			interceptors = append(interceptors, p.PlayerID)
		}
	}
	return interceptors, nil
}

// interceptionExecution is a documented simplification (see DESIGN.md): no
// accuracy/catch roll is specified for the reference Pass/Catch pair, so
// resolution is deterministic. SelectNone lands the ball, uncarried, on the
// target square; a chosen interceptor catches it immediately and possession
// turns over.
func interceptionExecution(state *model.GameState, action model.Action) error {
	if state.Position == nil {
		return errors.New("missing target position in interception execution")
	}
	target := *state.Position

	if len(state.Balls) == 0 {
		return errors.New("no ball to resolve pass for")
	}

	switch action.ActionType {
	case model.ActionSelectNone:
		state.Balls[0].Position = &target
		state.Balls[0].IsCarried = false
		if state.ParentProcedure != nil {
			state.Procedure = *state.ParentProcedure
		}
		state.ParentProcedure = nil
		state.Position = nil
		return nil
	case model.ActionSelectPlayer:
		if action.Player == nil {
			return errors.New("missing intercepting player in interception execution")
		}
		interceptor, err := state.GetPlayer(*action.Player)
		if err != nil {
			return err
		}
		state.Balls[0].Position = interceptor.Position
		state.Balls[0].IsCarried = true
		state.Procedure = model.Turnover
		state.ParentProcedure = nil
		state.Position = nil
		return nil
	default:
		return errors.Errorf("unexpected action type %s in interception execution", action.ActionType)
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
