// Package heuristic is the reference value policy (§4.6): a bounded scalar
// in [-1, 1], from one team's perspective, combining six weighted terms.
// It is pluggable — any type satisfying Policy can stand in for it in
// internal/mcts (§9 "Pluggable value policy").
package heuristic

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"github.com/kszonsteg/yasa/internal/geometry"
	"github.com/kszonsteg/yasa/internal/model"
	"github.com/kszonsteg/yasa/internal/parameters"
)

// Policy is the capability internal/mcts leaf-evaluates against: a scalar
// in [-1, 1] from teamID's perspective, plus a name for diagnostics.
type Policy interface {
	Evaluate(state *model.GameState, teamID string) (float32, error)
	Name() string
}

// Weights are the six term multipliers from §4.6, recovered verbatim from
// the original implementation's HeuristicParameters (see DESIGN.md).
type Weights struct {
	BallCarry          float32
	EndZoneDistance    float32
	ProtectingCarrier  float32
	StandingPlayers    float32
	KnockOut           float32
	EnemyPlayerBlocked float32
}

// DefaultWeights match the original implementation's Default impl.
func DefaultWeights() Weights {
	return Weights{
		BallCarry:          1.0,
		EndZoneDistance:    10.0,
		ProtectingCarrier:  0.05,
		StandingPlayers:    0.5,
		KnockOut:           0.5,
		EnemyPlayerBlocked: 0.2,
	}
}

// scaleDivisor squashes the weighted sum into tanh's useful range before the
// final [-1, 1] clamp, matching the original's fixed scaling factor.
const scaleDivisor = 10.0

// Heuristic is the reference Policy implementation.
type Heuristic struct {
	weights Weights
}

// New returns a Heuristic configured with the default weights.
func New() *Heuristic { return &Heuristic{weights: DefaultWeights()} }

// NewWithWeights returns a Heuristic configured with custom weights, e.g.
// read from internal/parameters.
func NewWithWeights(w Weights) *Heuristic { return &Heuristic{weights: w} }

// WeightsFromParams reads the six term multipliers from params, falling
// back to DefaultWeights() for any key the caller didn't set. Keys mirror
// the Weights field names in snake_case (e.g. "end_zone_distance").
func WeightsFromParams(params parameters.Params) (Weights, error) {
	w := DefaultWeights()
	var err error
	if w.BallCarry, err = parameters.GetParamOr(params, "ball_carry", w.BallCarry); err != nil {
		return w, errors.Wrap(err, "heuristic: parsing ball_carry weight")
	}
	if w.EndZoneDistance, err = parameters.GetParamOr(params, "end_zone_distance", w.EndZoneDistance); err != nil {
		return w, errors.Wrap(err, "heuristic: parsing end_zone_distance weight")
	}
	if w.ProtectingCarrier, err = parameters.GetParamOr(params, "protecting_carrier", w.ProtectingCarrier); err != nil {
		return w, errors.Wrap(err, "heuristic: parsing protecting_carrier weight")
	}
	if w.StandingPlayers, err = parameters.GetParamOr(params, "standing_players", w.StandingPlayers); err != nil {
		return w, errors.Wrap(err, "heuristic: parsing standing_players weight")
	}
	if w.KnockOut, err = parameters.GetParamOr(params, "knock_out", w.KnockOut); err != nil {
		return w, errors.Wrap(err, "heuristic: parsing knock_out weight")
	}
	if w.EnemyPlayerBlocked, err = parameters.GetParamOr(params, "enemy_player_blocked", w.EnemyPlayerBlocked); err != nil {
		return w, errors.Wrap(err, "heuristic: parsing enemy_player_blocked weight")
	}
	return w, nil
}

// NewFromParams returns a Heuristic configured from params, the same way
// the teacher's search configurations are built from a Params map.
func NewFromParams(params parameters.Params) (*Heuristic, error) {
	w, err := WeightsFromParams(params)
	if err != nil {
		return nil, err
	}
	return NewWithWeights(w), nil
}

func (h *Heuristic) Name() string { return "heuristic" }

// Evaluate scores state from teamID's perspective. A Touchdown procedure
// always evaluates to +1 for the scoring side (§4.6); otherwise it is the
// tanh-squashed sum of ball-carry, endzone-distance, carrier-protection,
// enemy-blocks, and player-condition terms.
func (h *Heuristic) Evaluate(state *model.GameState, teamID string) (float32, error) {
	team, err := state.GetTeam(teamID)
	if err != nil {
		return 0, errors.Wrap(err, "heuristic: evaluate")
	}

	if state.Procedure == model.Touchdown {
		// The team that most recently scored is whichever side just moved the
		// ball into its target endzone; that information isn't retained on
		// GameState once the score is applied, so the caller is expected to
		// invoke evaluation from the scoring side's viewpoint (the mover).
		// We still honour the general-case formula below if the ball's
		// location doesn't settle the question, keeping the contract total.
		if sq, err := state.GetBallPosition(); err == nil && state.IsTargetEndzone(sq, teamID) {
			return 1, nil
		}
	}

	total := h.ballState(state, team) +
		h.carrierProximity(state, team) +
		h.blocks(state, teamID) +
		h.teamStates(state, teamID)

	return math32.Tanh(total / scaleDivisor), nil
}

func (h *Heuristic) targetColumn(state *model.GameState, teamID string) int {
	return state.Orientation.TargetColumn(state.IsHomeTeam(teamID))
}

// ballState implements terms 1-3 of §4.6: carrying/conceding the ball,
// advancing it toward the endzone, or (loose ball) closing the distance.
func (h *Heuristic) ballState(state *model.GameState, team *model.Team) float32 {
	ballPos, err := state.GetBallPosition()
	if err != nil {
		return 0
	}
	carrier, err := state.GetBallCarrier()
	if err != nil {
		// Loose ball: mean proximity of the team's on-pitch players.
		var total float32
		var count int
		for _, p := range team.PlayersByID {
			if p.Position == nil {
				continue
			}
			dist := float32(p.Position.Distance(ballPos))
			total += 1 - dist/geometry.Width
			count++
		}
		if count == 0 {
			return 0
		}
		return h.weights.BallCarry * (total / float32(count))
	}

	carrierTeamID, err := state.GetPlayerTeamID(carrier.PlayerID)
	if err != nil || carrierTeamID != team.TeamID {
		return -h.weights.BallCarry
	}

	target := h.targetColumn(state, team.TeamID)
	dist := float32(abs(carrier.Position.X - target))
	distScore := 1 - dist/geometry.Width
	return h.weights.BallCarry + h.weights.EndZoneDistance*distScore
}

// carrierProximity implements term 4: teammates clustered around the
// carrier score higher, whichever side holds the ball.
func (h *Heuristic) carrierProximity(state *model.GameState, team *model.Team) float32 {
	carrier, err := state.GetBallCarrier()
	if err != nil {
		return 0
	}
	const maxDist = 10.0
	var score float32
	for _, p := range team.PlayersByID {
		if p.PlayerID == carrier.PlayerID || p.Position == nil {
			continue
		}
		dist := float32(p.Position.Distance(*carrier.Position))
		if dist < maxDist {
			score += 1 - dist/maxDist
		}
	}
	return score * h.weights.ProtectingCarrier
}

// blocks implements term 5: reward for every upright, non-KO'd enemy
// adjacent to at least one of our players, with a bonus if that enemy is
// the ball carrier.
func (h *Heuristic) blocks(state *model.GameState, teamID string) float32 {
	enemy, err := state.GetOpposingTeam(teamID)
	if err != nil {
		return 0
	}
	carrierID := ""
	if carrier, err := state.GetBallCarrier(); err == nil {
		carrierID = carrier.PlayerID
	}

	var score float32
	for _, p := range enemy.PlayersByID {
		if !p.State.Up || p.State.KnockedOut || p.Position == nil {
			continue
		}
		blockers, err := state.GetAdjacentOpponents(enemy.TeamID, *p.Position)
		if err != nil || len(blockers) == 0 {
			continue
		}
		score += h.weights.EnemyPlayerBlocked
		if carrierID != "" && p.PlayerID == carrierID {
			score += h.weights.EnemyPlayerBlocked
		}
	}
	return score
}

// teamStates implements term 6: penalise our knocked-out/down players,
// reward the same states in the opponent.
func (h *Heuristic) teamStates(state *model.GameState, teamID string) float32 {
	var score float32
	for _, team := range []*model.Team{state.HomeTeam, state.AwayTeam} {
		if team == nil {
			continue
		}
		isUs := team.TeamID == teamID
		for _, p := range team.PlayersByID {
			sign := float32(1)
			if isUs {
				sign = -1
			}
			if p.State.KnockedOut {
				score += sign * h.weights.KnockOut
				continue
			}
			if p.Position != nil && !p.State.Up {
				score += sign * h.weights.StandingPlayers
			}
		}
	}
	return score
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
