// Package engine exposes the three pure, string-in/string-out entry points
// the host runtime calls (§6): discovering legal actions, running MCTS to
// pick one, and scoring a state heuristically from each side's view. Every
// exported function here is safe to call repeatedly with unrelated states —
// no cross-query state is retained (§1, §5).
package engine

import (
	"encoding/json"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/kszonsteg/yasa/internal/heuristic"
	"github.com/kszonsteg/yasa/internal/mcts"
	"github.com/kszonsteg/yasa/internal/model"
	"github.com/kszonsteg/yasa/internal/parameters"
	"github.com/kszonsteg/yasa/internal/procedures"
)

// DefaultExplorationConstant is the UCB1 "c" term used when the caller
// doesn't configure one via internal/parameters.
const DefaultExplorationConstant = 1.4

// Params configure the heuristic weights and MCTS tuning knobs used by
// GetMCTSAction and EvaluateStateHeuristic; a zero value is the reference
// configuration (DefaultWeights, DefaultExplorationConstant).
type Params = parameters.Params

// actionsResponse is the §6 get_actions wire response.
type actionsResponse struct {
	Actions []model.Action `json:"actions"`
}

// GetActions decodes stateJSON, runs discovery on its current procedure,
// and returns the available actions as JSON (§6 entry point 1).
func GetActions(stateJSON string) (string, error) {
	state, err := model.ParseGameState([]byte(stateJSON))
	if err != nil {
		return "", err
	}
	registry := procedures.New()
	if err := registry.Discover(state); err != nil {
		return "", errors.Wrap(err, "engine: get_actions")
	}
	out, err := json.Marshal(actionsResponse{Actions: state.AvailableActions})
	if err != nil {
		return "", errors.Wrap(err, "engine: encoding actions response")
	}
	return string(out), nil
}

// actionResponse is the §6 get_mcts_action wire response.
type actionResponse struct {
	Action model.Action `json:"action"`
}

// GetMCTSAction decodes stateJSON, searches for timeLimitMs milliseconds,
// and returns the chosen action as JSON (§6 entry point 2). terminalMode
// mirrors the mcts.Searcher.Search contract: set it when the root may
// already be in a terminal procedure (e.g. a mid-chain query) rather than
// the start of a player's turn.
func GetMCTSAction(stateJSON string, timeLimitMs int, terminalMode bool) (string, error) {
	return GetMCTSActionWithParams(stateJSON, timeLimitMs, terminalMode, nil)
}

// GetMCTSActionWithParams is GetMCTSAction with the heuristic weights and
// MCTS tuning knobs (§9's "Configuration") read from params instead of the
// built-in defaults.
func GetMCTSActionWithParams(stateJSON string, timeLimitMs int, terminalMode bool, params parameters.Params) (string, error) {
	state, err := model.ParseGameState([]byte(stateJSON))
	if err != nil {
		return "", err
	}

	policy, err := heuristic.NewFromParams(params)
	if err != nil {
		return "", errors.Wrap(err, "engine: get_mcts_action: configuring heuristic")
	}
	searcher, err := mcts.NewFromParams(params, policy, rand.New(rand.NewSource(time.Now().UnixNano())))
	if err != nil {
		return "", errors.Wrap(err, "engine: get_mcts_action: configuring searcher")
	}
	deadline := time.Now().Add(time.Duration(timeLimitMs) * time.Millisecond)
	action, err := searcher.Search(state, deadline, terminalMode, 0)
	if err != nil {
		return "", errors.Wrap(err, "engine: get_mcts_action")
	}

	out, err := json.Marshal(actionResponse{Action: action})
	if err != nil {
		return "", errors.Wrap(err, "engine: encoding action response")
	}
	return string(out), nil
}

// evaluateResponse is the §6 evaluate_state_heuristic wire response.
type evaluateResponse struct {
	HomeValue float32 `json:"home_value"`
	AwayValue float32 `json:"away_value"`
}

// EvaluateStateHeuristic decodes stateJSON and returns the heuristic value
// from each team's perspective (§6 entry point 3).
func EvaluateStateHeuristic(stateJSON string) (string, error) {
	return EvaluateStateHeuristicWithParams(stateJSON, nil)
}

// EvaluateStateHeuristicWithParams is EvaluateStateHeuristic with the
// heuristic weights read from params instead of the built-in defaults.
func EvaluateStateHeuristicWithParams(stateJSON string, params parameters.Params) (string, error) {
	state, err := model.ParseGameState([]byte(stateJSON))
	if err != nil {
		return "", err
	}
	if state.HomeTeam == nil || state.AwayTeam == nil {
		return "", errors.New("engine: evaluate_state_heuristic requires both teams")
	}

	policy, err := heuristic.NewFromParams(params)
	if err != nil {
		return "", errors.Wrap(err, "engine: evaluate_state_heuristic: configuring heuristic")
	}
	homeValue, err := policy.Evaluate(state, state.HomeTeam.TeamID)
	if err != nil {
		return "", errors.Wrap(err, "engine: evaluating home team")
	}
	awayValue, err := policy.Evaluate(state, state.AwayTeam.TeamID)
	if err != nil {
		return "", errors.Wrap(err, "engine: evaluating away team")
	}

	out, err := json.Marshal(evaluateResponse{HomeValue: homeValue, AwayValue: awayValue})
	if err != nil {
		return "", errors.Wrap(err, "engine: encoding evaluate response")
	}
	return string(out), nil
}
