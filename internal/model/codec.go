package model

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// ParseGameState decodes the §6 JSON schema into a GameState, rejecting
// malformed JSON and unknown enum values as input errors (§7 kind 1).
func ParseGameState(data []byte) (*GameState, error) {
	var g GameState
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, errors.Wrap(err, "invalid game state JSON")
	}
	g.Orientation = DefaultOrientation()
	return &g, nil
}

// ToJSON encodes the state back to the §6 wire schema.
func (g *GameState) ToJSON() ([]byte, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode game state")
	}
	return data, nil
}
