package model

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// marshalEnum and unmarshalEnum implement the SCREAMING_SNAKE_CASE wire
// format shared by every closed enum in the JSON schema (§6): unknown values
// are rejected as input errors rather than silently accepted.

func marshalEnum[T comparable](value T, names map[T]string) ([]byte, error) {
	name, ok := names[value]
	if !ok {
		return nil, errors.Errorf("cannot marshal unknown enum value %v", value)
	}
	return json.Marshal(name)
}

func unmarshalEnum[T comparable](data []byte, values map[string]T, kind string) (T, error) {
	var zero T
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return zero, errors.Wrapf(err, "%s must be a JSON string", kind)
	}
	value, ok := values[name]
	if !ok {
		return zero, errors.Errorf("unknown %s %q", kind, name)
	}
	return value, nil
}

// PlayerRole is the archetype of a player, affecting no rule directly but
// carried on the wire for presentation and future skill-set defaults.
type PlayerRole int

const (
	RoleLineman PlayerRole = iota
	RoleBlitzer
	RoleCatcher
	RoleThrower
)

var playerRoleNames = map[PlayerRole]string{
	RoleLineman: "LINEMAN",
	RoleBlitzer: "BLITZER",
	RoleCatcher: "CATCHER",
	RoleThrower: "THROWER",
}

var playerRoleValues = invert(playerRoleNames)

func (r PlayerRole) String() string { return playerRoleNames[r] }

func (r PlayerRole) MarshalJSON() ([]byte, error) { return marshalEnum(r, playerRoleNames) }

func (r *PlayerRole) UnmarshalJSON(data []byte) error {
	v, err := unmarshalEnum(data, playerRoleValues, "player role")
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Skill is a closed multiset member a player may carry.
type Skill int

const (
	SkillBlock Skill = iota
	SkillCatch
	SkillDodge
	SkillPass
	SkillSureHands
)

var skillNames = map[Skill]string{
	SkillBlock:     "BLOCK",
	SkillCatch:     "CATCH",
	SkillDodge:     "DODGE",
	SkillPass:      "PASS",
	SkillSureHands: "SURE_HANDS",
}

var skillValues = invert(skillNames)

func (s Skill) String() string { return skillNames[s] }

func (s Skill) MarshalJSON() ([]byte, error) { return marshalEnum(s, skillNames) }

func (s *Skill) UnmarshalJSON(data []byte) error {
	v, err := unmarshalEnum(data, skillValues, "skill")
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Weather affects GFI targets (§4.3.3) and nothing else in this engine.
type Weather int

const (
	WeatherNice Weather = iota
	WeatherVerySunny
	WeatherPouringRain
	WeatherBlizzard
	WeatherSwelteringHeat
)

var weatherNames = map[Weather]string{
	WeatherNice:           "NICE",
	WeatherVerySunny:      "VERY_SUNNY",
	WeatherPouringRain:    "POURING_RAIN",
	WeatherBlizzard:       "BLIZZARD",
	WeatherSwelteringHeat: "SWELTERING_HEAT",
}

var weatherValues = invert(weatherNames)

func (w Weather) String() string { return weatherNames[w] }

func (w Weather) MarshalJSON() ([]byte, error) { return marshalEnum(w, weatherNames) }

func (w *Weather) UnmarshalJSON(data []byte) error {
	v, err := unmarshalEnum(data, weatherValues, "weather")
	if err != nil {
		return err
	}
	*w = v
	return nil
}

// PassDistance categorises a pass attempt by range.
type PassDistance int

const (
	PassQuick PassDistance = iota
	PassShort
	PassLong
	PassLongBomb
	PassHailMary
)

var passDistanceNames = map[PassDistance]string{
	PassQuick:    "QUICK_PASS",
	PassShort:    "SHORT_PASS",
	PassLong:     "LONG_PASS",
	PassLongBomb: "LONG_BOMB",
	PassHailMary: "HAIL_MARY",
}

var passDistanceValues = invert(passDistanceNames)

func (p PassDistance) String() string { return passDistanceNames[p] }

// Procedure tags the game-state phase currently active (GLOSSARY); it
// selects both the discovery and execution handler in the registry.
type Procedure int

const (
	CoinTossFlip Procedure = iota
	CoinTossKickReceive
	Setup
	PlaceBall
	Touchback
	HighKick
	Kickoff
	Turn
	Reroll
	Ejection
	MoveAction
	BlitzAction
	FoulAction
	HandoffAction
	PassAction
	Interception
	BlockAction
	Block
	BlockRoll
	Push
	FollowUp
	GFI
	Dodge
	Pickup
	Catch
	Bounce
	Armor
	Injury
	Casualty
	Turnover
	Touchdown
	EndTurn
	EndPlayerTurn
	Half
	EndGame
)

var procedureNames = map[Procedure]string{
	CoinTossFlip:        "COIN_TOSS_FLIP",
	CoinTossKickReceive: "COIN_TOSS_KICK_RECEIVE",
	Setup:               "SETUP",
	PlaceBall:           "PLACE_BALL",
	Touchback:           "TOUCHBACK",
	HighKick:            "HIGH_KICK",
	Kickoff:             "KICKOFF",
	Turn:                "TURN",
	Reroll:              "REROLL",
	Ejection:            "EJECTION",
	MoveAction:          "MOVE_ACTION",
	BlitzAction:         "BLITZ_ACTION",
	FoulAction:          "FOUL_ACTION",
	HandoffAction:       "HANDOFF_ACTION",
	PassAction:          "PASS_ACTION",
	Interception:        "INTERCEPTION",
	BlockAction:         "BLOCK_ACTION",
	Block:               "BLOCK",
	BlockRoll:           "BLOCK_ROLL",
	Push:                "PUSH",
	FollowUp:            "FOLLOW_UP",
	GFI:                 "GFI",
	Dodge:               "DODGE",
	Pickup:              "PICKUP",
	Catch:               "CATCH",
	Bounce:              "BOUNCE",
	Armor:               "ARMOR",
	Injury:              "INJURY",
	Casualty:            "CASUALTY",
	Turnover:            "TURNOVER",
	Touchdown:           "TOUCHDOWN",
	EndTurn:             "END_TURN",
	EndPlayerTurn:       "END_PLAYER_TURN",
	Half:                "HALF",
	EndGame:             "END_GAME",
}

var procedureValues = invert(procedureNames)

// ChanceProcedures is the minimum closed set of procedures whose execution
// resolves via rollout_chance_outcomes instead of a deterministic execution
// (§4.3). Implementations may grow this set; the registry below does not.
var ChanceProcedures = map[Procedure]bool{
	BlockRoll: true,
	GFI:       true,
	Dodge:     true,
}

func (p Procedure) String() string { return procedureNames[p] }

func (p Procedure) MarshalJSON() ([]byte, error) { return marshalEnum(p, procedureNames) }

func (p *Procedure) UnmarshalJSON(data []byte) error {
	v, err := unmarshalEnum(data, procedureValues, "procedure")
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ActionType is the closed set of action kinds the registry may produce or
// accept for execution.
type ActionType int

const (
	ActionBlock ActionType = iota
	ActionContinue
	ActionDontUseApothecary
	ActionDontUseBribe
	ActionDontUseReroll
	ActionEndPlayerTurn
	ActionEndSetup
	ActionEndTurn
	ActionFollowUp
	ActionFoul
	ActionHandoff
	ActionHeads
	ActionKick
	ActionMove
	ActionPass
	ActionPlaceBall
	ActionPlacePlayer
	ActionPush
	ActionReceive
	ActionSelectAttackerDown
	ActionSelectBothDown
	ActionSelectDefenderDown
	ActionSelectDefenderStumbles
	ActionSelectFirstRoll
	ActionSelectNone
	ActionSelectPlayer
	ActionSelectPush
	ActionSelectSecondRoll
	ActionSetupFormationLine
	ActionSetupFormationSpread
	ActionSetupFormationWedge
	ActionSetupFormationZone
	ActionStandUp
	ActionStartBlitz
	ActionStartBlock
	ActionStartFoul
	ActionStartGame
	ActionStartHandoff
	ActionStartMove
	ActionStartPass
	ActionTails
	ActionUseBribe
	ActionUseReroll
)

var actionTypeNames = map[ActionType]string{
	ActionBlock:                  "BLOCK",
	ActionContinue:               "CONTINUE",
	ActionDontUseApothecary:      "DONT_USE_APOTHECARY",
	ActionDontUseBribe:           "DONT_USE_BRIBE",
	ActionDontUseReroll:          "DONT_USE_REROLL",
	ActionEndPlayerTurn:          "END_PLAYER_TURN",
	ActionEndSetup:               "END_SETUP",
	ActionEndTurn:                "END_TURN",
	ActionFollowUp:               "FOLLOW_UP",
	ActionFoul:                   "FOUL",
	ActionHandoff:                "HANDOFF",
	ActionHeads:                  "HEADS",
	ActionKick:                   "KICK",
	ActionMove:                   "MOVE",
	ActionPass:                   "PASS",
	ActionPlaceBall:              "PLACE_BALL",
	ActionPlacePlayer:            "PLACE_PLAYER",
	ActionPush:                   "PUSH",
	ActionReceive:                "RECEIVE",
	ActionSelectAttackerDown:     "SELECT_ATTACKER_DOWN",
	ActionSelectBothDown:         "SELECT_BOTH_DOWN",
	ActionSelectDefenderDown:     "SELECT_DEFENDER_DOWN",
	ActionSelectDefenderStumbles: "SELECT_DEFENDER_STUMBLES",
	ActionSelectFirstRoll:        "SELECT_FIRST_ROLL",
	ActionSelectNone:             "SELECT_NONE",
	ActionSelectPlayer:           "SELECT_PLAYER",
	ActionSelectPush:             "SELECT_PUSH",
	ActionSelectSecondRoll:       "SELECT_SECOND_ROLL",
	ActionSetupFormationLine:     "SETUP_FORMATION_LINE",
	ActionSetupFormationSpread:   "SETUP_FORMATION_SPREAD",
	ActionSetupFormationWedge:    "SETUP_FORMATION_WEDGE",
	ActionSetupFormationZone:     "SETUP_FORMATION_ZONE",
	ActionStandUp:                "STAND_UP",
	ActionStartBlitz:             "START_BLITZ",
	ActionStartBlock:             "START_BLOCK",
	ActionStartFoul:              "START_FOUL",
	ActionStartGame:              "START_GAME",
	ActionStartHandoff:           "START_HANDOFF",
	ActionStartMove:              "START_MOVE",
	ActionStartPass:              "START_PASS",
	ActionTails:                  "TAILS",
	ActionUseBribe:               "USE_BRIBE",
	ActionUseReroll:              "USE_REROLL",
}

var actionTypeValues = invert(actionTypeNames)

// rollActionTypes lists the five BlockRoll dice-face outcomes (§4.3.3).
// Block discovery reads its options from GameState.Rolls and the BlockRoll
// rollout keeps its own weighted table; neither reads this list.
var rollActionTypes = []ActionType{
	ActionSelectDefenderStumbles,
	ActionSelectDefenderDown,
	ActionSelectPush,
	ActionSelectBothDown,
	ActionSelectAttackerDown,
}

func (a ActionType) String() string { return actionTypeNames[a] }

func (a ActionType) MarshalJSON() ([]byte, error) { return marshalEnum(a, actionTypeNames) }

func (a *ActionType) UnmarshalJSON(data []byte) error {
	v, err := unmarshalEnum(data, actionTypeValues, "action type")
	if err != nil {
		return err
	}
	*a = v
	return nil
}

func invert[T comparable](m map[T]string) map[string]T {
	out := make(map[string]T, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}
