package model

import (
	"github.com/pkg/errors"
)

// IsHomeTeam is an identity test against the home team's id.
func (g *GameState) IsHomeTeam(teamID string) bool {
	return g.HomeTeam != nil && g.HomeTeam.TeamID == teamID
}

// GetTeam returns the team owning teamID, or an error if neither side
// matches (a state-invariant violation per §7).
func (g *GameState) GetTeam(teamID string) (*Team, error) {
	return g.teamByID(teamID)
}

// teamByID returns the team owning teamID, or an error if neither side
// matches (a state-invariant violation per §7).
func (g *GameState) teamByID(teamID string) (*Team, error) {
	if g.HomeTeam != nil && g.HomeTeam.TeamID == teamID {
		return g.HomeTeam, nil
	}
	if g.AwayTeam != nil && g.AwayTeam.TeamID == teamID {
		return g.AwayTeam, nil
	}
	return nil, errors.Errorf("unknown team id %q", teamID)
}

// GetOpposingTeam returns the team facing teamID.
func (g *GameState) GetOpposingTeam(teamID string) (*Team, error) {
	return g.opposingTeam(teamID)
}

func (g *GameState) opposingTeam(teamID string) (*Team, error) {
	if g.HomeTeam != nil && g.HomeTeam.TeamID == teamID {
		if g.AwayTeam == nil {
			return nil, errors.New("no away team")
		}
		return g.AwayTeam, nil
	}
	if g.AwayTeam != nil && g.AwayTeam.TeamID == teamID {
		if g.HomeTeam == nil {
			return nil, errors.New("no home team")
		}
		return g.HomeTeam, nil
	}
	return nil, errors.Errorf("unknown team id %q", teamID)
}

// IsTeamSide reports whether sq lies on the half of the pitch attributed to
// teamID: home occupies x >= W/2, away occupies x < W/2 (§4.2), independent
// of which endzone that team defends.
func (g *GameState) IsTeamSide(sq Square, teamID string) bool {
	half := sq.X >= homeHalfBoundary()
	if g.IsHomeTeam(teamID) {
		return half
	}
	return !half
}

func homeHalfBoundary() int {
	const width = 28
	return width / 2
}

// GetPlayer looks up a player by id across both rosters.
func (g *GameState) GetPlayer(playerID string) (*Player, error) {
	if g.HomeTeam != nil {
		if p, ok := g.HomeTeam.PlayersByID[playerID]; ok {
			return &p, nil
		}
	}
	if g.AwayTeam != nil {
		if p, ok := g.AwayTeam.PlayersByID[playerID]; ok {
			return &p, nil
		}
	}
	return nil, errors.Errorf("unknown player id %q", playerID)
}

// GetPlayerTeamID returns the id of the team rostering playerID.
func (g *GameState) GetPlayerTeamID(playerID string) (string, error) {
	if g.HomeTeam != nil {
		if _, ok := g.HomeTeam.PlayersByID[playerID]; ok {
			return g.HomeTeam.TeamID, nil
		}
	}
	if g.AwayTeam != nil {
		if _, ok := g.AwayTeam.PlayersByID[playerID]; ok {
			return g.AwayTeam.TeamID, nil
		}
	}
	return "", errors.Errorf("unknown player id %q", playerID)
}

// GetActivePlayer resolves the currently active player, or errors if none.
func (g *GameState) GetActivePlayer() (*Player, error) {
	if g.ActivePlayerID == nil {
		return nil, errors.New("no active player")
	}
	return g.GetPlayer(*g.ActivePlayerID)
}

// GetPlayerAt returns the single player occupying sq, failing if the square
// is empty (§4.2: at most one player occupies a square).
func (g *GameState) GetPlayerAt(sq Square) (*Player, error) {
	for _, team := range g.teams() {
		for id, p := range team.PlayersByID {
			if p.Position != nil && *p.Position == sq {
				player := team.PlayersByID[id]
				return &player, nil
			}
		}
	}
	return nil, errors.Errorf("no player at %v", sq)
}

func (g *GameState) teams() []*Team {
	var teams []*Team
	if g.HomeTeam != nil {
		teams = append(teams, g.HomeTeam)
	}
	if g.AwayTeam != nil {
		teams = append(teams, g.AwayTeam)
	}
	return teams
}

// GetAdjacentOpponents returns the opposing-team players within Chebyshev
// distance 1 of sq. A missing position on any player is an error.
func (g *GameState) GetAdjacentOpponents(teamID string, sq Square) ([]Player, error) {
	opp, err := g.opposingTeam(teamID)
	if err != nil {
		return nil, err
	}
	return adjacentPlayers(opp, sq)
}

// GetAdjacentTeammates returns the same-team players within Chebyshev
// distance 1 of sq.
func (g *GameState) GetAdjacentTeammates(teamID string, sq Square) ([]Player, error) {
	team, err := g.teamByID(teamID)
	if err != nil {
		return nil, err
	}
	return adjacentPlayers(team, sq)
}

func adjacentPlayers(team *Team, sq Square) ([]Player, error) {
	var out []Player
	for _, p := range team.PlayersByID {
		if p.Position == nil {
			return nil, errors.Errorf("player %s has no position", p.PlayerID)
		}
		if p.Position.IsAdjacent(sq) {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetTeamTackleZonesAt counts the opposing, standing, unstunned players
// adjacent to sq — the tackle-zone count teamID is exposed to at sq.
func (g *GameState) GetTeamTackleZonesAt(teamID string, sq Square) (int, error) {
	opp, err := g.opposingTeam(teamID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, p := range opp.PlayersByID {
		if p.Position == nil {
			continue
		}
		if p.State.Up && !p.State.Stunned && p.Position.IsAdjacent(sq) {
			count++
		}
	}
	return count, nil
}

// GetBallPosition returns the position of the (first) ball, erroring if it
// has none.
func (g *GameState) GetBallPosition() (Square, error) {
	if len(g.Balls) == 0 || g.Balls[0].Position == nil {
		return Square{}, errors.New("no ball position")
	}
	return *g.Balls[0].Position, nil
}

// IsBallCarried reports whether the (first) ball is currently carried.
func (g *GameState) IsBallCarried() bool {
	return len(g.Balls) > 0 && g.Balls[0].IsCarried
}

// GetBallCarrier returns the player carrying the ball, if any.
func (g *GameState) GetBallCarrier() (*Player, error) {
	if !g.IsBallCarried() {
		return nil, errors.New("ball is not carried")
	}
	pos, err := g.GetBallPosition()
	if err != nil {
		return nil, err
	}
	return g.GetPlayerAt(pos)
}

// IsActivePlayerCarryingBall reports whether the active player is the ball
// carrier.
func (g *GameState) IsActivePlayerCarryingBall() bool {
	if g.ActivePlayerID == nil || !g.IsBallCarried() {
		return false
	}
	carrier, err := g.GetBallCarrier()
	if err != nil {
		return false
	}
	return carrier.PlayerID == *g.ActivePlayerID
}

// GetReceivingTeamSidePositions enumerates every in-bounds square on the
// receiving team's half, excluding the pitch border.
func (g *GameState) GetReceivingTeamSidePositions() []Square {
	if g.ReceivingThisDrive == nil {
		return nil
	}
	var out []Square
	for x := 1; x <= width-2; x++ {
		for y := 1; y <= height-2; y++ {
			sq := Square{X: x, Y: y}
			if g.IsTeamSide(sq, *g.ReceivingThisDrive) {
				out = append(out, sq)
			}
		}
	}
	return out
}

const (
	width  = 28
	height = 17
)

// GetPassDistance looks up the pass-range category for a throw of (dx, dy).
func GetPassDistance(dx, dy int) PassDistance {
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dx > 13 {
		dx = 13
	}
	if dy > 13 {
		dy = 13
	}
	category := PassMatrix[dx][dy]
	if category > 0 {
		category--
	}
	if category > 4 {
		category = 4
	}
	return passDistanceByCategory[category]
}

// IsTargetEndzone reports whether sq is in the endzone column teamID scores
// by reaching, per the game's fixed Orientation.
func (g *GameState) IsTargetEndzone(sq Square, teamID string) bool {
	return sq.X == g.Orientation.TargetColumn(g.IsHomeTeam(teamID))
}
