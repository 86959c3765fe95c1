// Package procedures is the procedure state machine (§4.3): for each
// Procedure tag, a discovery routine that enumerates legal actions, an
// execution routine that applies one, and — for chance procedures — a
// rollout routine that returns the outcome distribution.
package procedures

import (
	"k8s.io/klog/v2"

	"github.com/kszonsteg/yasa/internal/model"
	"github.com/pkg/errors"
)

// Outcome is one branch of a chance procedure's resolution: the probability
// of reaching resultingState from the state rollout_chance_outcomes was
// called on.
type Outcome struct {
	Probability   float64
	ResultingState model.GameState
}

// Registry dispatches discovery, execution, and rollout by the state's
// current Procedure. It is stateless: every method call takes its state
// explicitly and registry values carry no mutable fields of their own.
type Registry struct{}

// New returns a ready-to-use Registry.
func New() Registry { return Registry{} }

// Discover writes state.AvailableActions for the current procedure. It is
// idempotent and mutates nothing but AvailableActions (§4.3).
func (Registry) Discover(state *model.GameState) error {
	switch state.Procedure {
	case model.CoinTossFlip:
		return coinTossFlipDiscovery(state)
	case model.CoinTossKickReceive:
		return coinTossKickReceiveDiscovery(state)
	case model.Setup:
		return setupDiscovery(state)
	case model.PlaceBall:
		return placeBallDiscovery(state)
	case model.Touchback:
		return touchbackDiscovery(state)
	case model.HighKick:
		return highKickDiscovery(state)
	case model.Turn:
		return turnDiscovery(state)
	case model.Reroll:
		return rerollDiscovery(state)
	case model.Ejection:
		return ejectionDiscovery(state)
	case model.MoveAction:
		return moveDiscovery(state)
	case model.BlitzAction:
		return blitzDiscovery(state)
	case model.HandoffAction:
		return handoffDiscovery(state)
	case model.FoulAction:
		return foulDiscovery(state)
	case model.PassAction:
		return passActionDiscovery(state)
	case model.Interception:
		return interceptionDiscovery(state)
	case model.BlockAction:
		return blockActionDiscovery(state)
	case model.Block:
		return blockDiscovery(state)
	case model.Push:
		return pushDiscovery(state)
	case model.FollowUp:
		return followUpDiscovery(state)
	case model.Touchdown, model.Turnover, model.EndTurn:
		// Terminal procedures offer no actions.
		state.AvailableActions = nil
		return nil
	default:
		klog.Errorf("discovery: unsupported procedure %s", state.Procedure)
		return errors.Errorf("procedure not supported %s in action discovery", state.Procedure)
	}
}

// Execute mutates state to the post-action configuration for action,
// transitioning Procedure/ParentProcedure/auxiliary context as needed.
func (Registry) Execute(state *model.GameState, action model.Action) error {
	switch state.Procedure {
	case model.CoinTossFlip:
		return coinTossFlipExecution(state, action)
	case model.CoinTossKickReceive:
		return coinTossKickReceiveExecution(state, action)
	case model.Setup:
		return setupExecution(state, action)
	case model.PlaceBall:
		return placeBallExecution(state, action)
	case model.Touchback:
		return touchbackExecution(state, action)
	case model.HighKick:
		return highKickExecution(state, action)
	case model.Turn:
		return turnExecution(state, action)
	case model.Reroll:
		return rerollExecution(state, action)
	case model.Ejection:
		return ejectionExecution(state, action)
	case model.MoveAction, model.BlitzAction, model.HandoffAction, model.FoulAction, model.PassAction:
		return moveActionExecution(state, action)
	case model.Interception:
		return interceptionExecution(state, action)
	case model.BlockAction:
		return blockActionExecution(state, action)
	case model.Block:
		return blockExecution(state, action)
	case model.Push:
		return pushExecution(state, action)
	case model.FollowUp:
		return followUpExecution(state, action)
	default:
		klog.Errorf("execution: unsupported procedure %s", state.Procedure)
		return errors.Errorf("procedure not supported %s in action execution", state.Procedure)
	}
}

// Rollout returns the outcome distribution for a chance procedure. Callers
// must check model.ChanceProcedures[state.Procedure] first.
func (Registry) Rollout(state *model.GameState) ([]Outcome, error) {
	switch state.Procedure {
	case model.GFI:
		return gfiRollout(state)
	case model.Dodge:
		return dodgeRollout(state)
	case model.BlockRoll:
		return blockRollRollout(state)
	default:
		return nil, errors.Errorf("procedure %s is not a chance procedure", state.Procedure)
	}
}
