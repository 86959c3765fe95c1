// Package model is the domain model for the pitch: players, teams, the
// ball, and the aggregate GameState the procedure registry, pathfinder and
// heuristic all operate on. Every value type here is clone-by-copy; a
// GameState held by one MCTS node never aliases mutable state with another.
package model

import (
	"slices"

	"github.com/kszonsteg/yasa/internal/geometry"
)

// Square re-exports geometry.Square so domain code doesn't need to import
// both packages for the common case of "a position".
type Square = geometry.Square

// PlayerState is the mutable, per-drive state of a player.
type PlayerState struct {
	Up           bool             `json:"up"`
	Used         bool             `json:"used"`
	Moves        int              `json:"moves"`
	Stunned      bool             `json:"stunned"`
	KnockedOut   bool             `json:"knocked_out"`
	HasBlocked   bool             `json:"has_blocked"`
	SquaresMoved []Square         `json:"squares_moved"`
}

// DefaultPlayerState is the state of a player at the start of a drive.
func DefaultPlayerState() PlayerState {
	return PlayerState{Up: true}
}

// Clone returns a deep copy.
func (s PlayerState) Clone() PlayerState {
	s.SquaresMoved = slices.Clone(s.SquaresMoved)
	return s
}

// Player is one piece on the pitch or in reserves.
type Player struct {
	PlayerID string      `json:"player_id"`
	Role     PlayerRole  `json:"role"`
	Skills   []Skill     `json:"skills"`
	MA       int         `json:"ma"`
	ST       int         `json:"st"`
	AG       int         `json:"ag"`
	AV       int         `json:"av"`
	Position *Square     `json:"position,omitempty"`
	State    PlayerState `json:"state"`
}

// clampStat implements the [1,10] stat clamp §3 requires on every read.
func clampStat(v int) int {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

func (p *Player) GetMA() int { return clampStat(p.MA) }
func (p *Player) GetST() int { return clampStat(p.ST) }
func (p *Player) GetAG() int { return clampStat(p.AG) }
func (p *Player) GetAV() int { return clampStat(p.AV) }

// HasSkill reports whether the player's skill multiset contains sk.
func (p *Player) HasSkill(sk Skill) bool {
	return slices.Contains(p.Skills, sk)
}

// Clone returns a deep copy.
func (p Player) Clone() Player {
	p.Skills = slices.Clone(p.Skills)
	if p.Position != nil {
		pos := *p.Position
		p.Position = &pos
	}
	p.State = p.State.Clone()
	return p
}

// Team is one side: its roster and the per-match counters it accumulates.
type Team struct {
	TeamID       string            `json:"team_id"`
	PlayersByID  map[string]Player `json:"players_by_id"`
	Score        int               `json:"score"`
	Rerolls      int               `json:"rerolls"`
	Bribes       int               `json:"bribes"`
}

// Clone returns a deep copy.
func (t Team) Clone() Team {
	players := make(map[string]Player, len(t.PlayersByID))
	for id, p := range t.PlayersByID {
		players[id] = p.Clone()
	}
	t.PlayersByID = players
	return t
}

// Dugout is the off-pitch roster state for one team: reserves waiting to
// come on, the knocked-out box, and the casualty ("dungeon") box.
type Dugout struct {
	TeamID   string   `json:"team_id"`
	Reserves []string `json:"reserves"`
	KOd      []string `json:"kod"`
	Dungeon  []string `json:"dungeon"`
}

func (d Dugout) Clone() Dugout {
	d.Reserves = slices.Clone(d.Reserves)
	d.KOd = slices.Clone(d.KOd)
	d.Dungeon = slices.Clone(d.Dungeon)
	return d
}

// Ball is the loose or carried ball. The engine models exactly one in
// practice, but GameState keeps a slice per §3 ("usually length 1").
type Ball struct {
	Position  *Square `json:"position,omitempty"`
	IsCarried bool    `json:"is_carried"`
}

func (b Ball) Clone() Ball {
	if b.Position != nil {
		pos := *b.Position
		b.Position = &pos
	}
	return b
}

// TurnState is the per-turn availability bookkeeping (§3). Each *_available
// flag starts true and is cleared the first time its action is initiated.
type TurnState struct {
	Blitz            bool `json:"blitz"`
	QuickSnap        bool `json:"quick_snap"`
	BlitzAvailable   bool `json:"blitz_available"`
	PassAvailable    bool `json:"pass_available"`
	FoulAvailable    bool `json:"foul_available"`
	HandoffAvailable bool `json:"handoff_available"`
}

// DefaultTurnState is the state at the start of a team's turn.
func DefaultTurnState() TurnState {
	return TurnState{
		BlitzAvailable:   true,
		PassAvailable:    true,
		FoulAvailable:    true,
		HandoffAvailable: true,
	}
}

// PushChainItem is one link of a block's push chain.
type PushChainItem struct {
	Attacker string  `json:"attacker"`
	Defender string  `json:"defender"`
	Position *Square `json:"position,omitempty"`
}

// BlockContext is live only during a block sequence (§3).
type BlockContext struct {
	Attacker  string          `json:"attacker"`
	Defender  string          `json:"defender"`
	Position  Square          `json:"position"`
	KnockOut  bool            `json:"knock_out"`
	PushChain []PushChainItem `json:"push_chain"`
}

func (b *BlockContext) Clone() *BlockContext {
	if b == nil {
		return nil
	}
	clone := *b
	clone.PushChain = slices.Clone(b.PushChain)
	for i, item := range clone.PushChain {
		if item.Position != nil {
			pos := *item.Position
			clone.PushChain[i].Position = &pos
		}
	}
	return &clone
}

// Action is a legal move the active side may take. Equality and hashing are
// defined only over (ActionType, Player, Position); Path is decoration.
type Action struct {
	ActionType ActionType `json:"action_type"`
	Player     *string    `json:"player,omitempty"`
	Position   *Square    `json:"position,omitempty"`
	Path       *Path      `json:"-"`
}

// NewAction builds an action with no attached path.
func NewAction(actionType ActionType, player *string, position *Square) Action {
	return Action{ActionType: actionType, Player: player, Position: position}
}

// Key returns the comparable identity of the action, ignoring Path, suitable
// for use as a map key (MCTS child lookups, action-equality tests).
type ActionKey struct {
	ActionType ActionType
	Player     string
	HasPlayer  bool
	Position   Square
	HasPos     bool
}

func (a Action) Key() ActionKey {
	k := ActionKey{ActionType: a.ActionType}
	if a.Player != nil {
		k.Player = *a.Player
		k.HasPlayer = true
	}
	if a.Position != nil {
		k.Position = *a.Position
		k.HasPos = true
	}
	return k
}

// Equal compares two actions by identity only, per §3/§8.
func (a Action) Equal(other Action) bool {
	return a.Key() == other.Key()
}

// Probability is the action's success probability: 1.0 unless a Path is
// attached, in which case it is the path's probability.
func (a Action) Probability() float64 {
	if a.Path != nil {
		return a.Path.Prob
	}
	return 1.0
}

func (a Action) Clone() Action {
	if a.Player != nil {
		player := *a.Player
		a.Player = &player
	}
	if a.Position != nil {
		pos := *a.Position
		a.Position = &pos
	}
	if a.Path != nil {
		path := a.Path.Clone()
		a.Path = &path
	}
	return a
}

// Path is a pathfinder result: the sequence of squares after the start up to
// target, with the joint probability of completing every step.
type Path struct {
	Squares     []Square `json:"squares"`
	Target      Square   `json:"target"`
	Prob        float64  `json:"prob"`
	MovesUsed   int      `json:"moves_used"`
	GFIsUsed    int      `json:"gfis_used"`
	PicksUpBall bool     `json:"picks_up_ball"`
}

// TotalCost is the movement points spent reaching Target.
func (p Path) TotalCost() int { return p.MovesUsed + p.GFIsUsed }

func (p Path) Clone() Path {
	p.Squares = slices.Clone(p.Squares)
	return p
}

// GameState aggregates everything the registry, pathfinder, and heuristic
// need to answer one query. It is value-cloneable: every MCTS tree node
// holds its own Clone, never aliasing another node's mutable fields.
type GameState struct {
	Half                int        `json:"half"`
	Round               int        `json:"round"`
	GameOver            bool       `json:"game_over"`
	Weather             Weather    `json:"weather"`
	HomeTeam            *Team      `json:"home_team,omitempty"`
	AwayTeam            *Team      `json:"away_team,omitempty"`
	HomeDugout          *Dugout    `json:"home_dugout,omitempty"`
	AwayDugout          *Dugout    `json:"away_dugout,omitempty"`
	KickingFirstHalf    *string    `json:"kicking_first_half,omitempty"`
	ReceivingFirstHalf  *string    `json:"receiving_first_half,omitempty"`
	KickingThisDrive    *string    `json:"kicking_this_drive,omitempty"`
	ReceivingThisDrive  *string    `json:"receiving_this_drive,omitempty"`
	CoinTossWinner      *string    `json:"coin_toss_winner,omitempty"`
	CurrentTeamID       *string    `json:"current_team_id,omitempty"`
	ActivePlayerID      *string    `json:"active_player_id,omitempty"`
	Balls               []Ball     `json:"balls"`
	TurnState           *TurnState `json:"turn_state,omitempty"`
	Procedure           Procedure  `json:"procedure"`
	ParentProcedure     *Procedure `json:"parent_procedure,omitempty"`
	Rolls               []ActionType `json:"rolls,omitempty"`
	BlockContext        *BlockContext `json:"block_context,omitempty"`
	Position            *Square    `json:"position,omitempty"`
	ActivePath          *ActivePath `json:"active_path,omitempty"`
	AvailableActions    []Action   `json:"available_actions"`

	// Orientation resolves the open question of which endzone column each
	// team defends (§9); it is fixed once at decode time and then never
	// recomputed, so the evaluator and touchdown detection agree (§4.2).
	Orientation BoardOrientation `json:"-"`
}

// ActivePath is the small state machine (§9 "Multi-step Move") tracking a
// move in progress across intermediate dice resolutions.
type ActivePath struct {
	Path        Path `json:"path"`
	CurrentStep int  `json:"current_step"`
}

func (a *ActivePath) Clone() *ActivePath {
	if a == nil {
		return nil
	}
	clone := *a
	clone.Path = a.Path.Clone()
	return &clone
}

// Done reports whether every step of the path has been executed.
func (a *ActivePath) Done() bool {
	return a.CurrentStep >= len(a.Path.Squares)
}

// BoardOrientation fixes which column each team defends (§9 Open Question).
type BoardOrientation struct {
	// HomeDefendsLowX is true when the home team's own endzone is column 1
	// (the away team then scores by reaching x == 1, and home scores by
	// reaching x == Width-2). This is the convention adopted throughout
	// (movement.rs's touchdown check and heuristic.rs's target_x agree).
	HomeDefendsLowX bool
}

// DefaultOrientation matches the original implementation: home defends the
// low-x endzone.
func DefaultOrientation() BoardOrientation {
	return BoardOrientation{HomeDefendsLowX: true}
}

// TargetColumn is the endzone column the given team must reach to score.
func (o BoardOrientation) TargetColumn(isHomeTeam bool) int {
	lowX := geometry.Width - geometry.Width + 1 // 1
	highX := geometry.Width - 2
	if isHomeTeam {
		if o.HomeDefendsLowX {
			return highX
		}
		return lowX
	}
	if o.HomeDefendsLowX {
		return lowX
	}
	return highX
}

// Clone returns a deep copy of the full game state.
func (g GameState) Clone() GameState {
	if g.HomeTeam != nil {
		t := g.HomeTeam.Clone()
		g.HomeTeam = &t
	}
	if g.AwayTeam != nil {
		t := g.AwayTeam.Clone()
		g.AwayTeam = &t
	}
	if g.HomeDugout != nil {
		d := g.HomeDugout.Clone()
		g.HomeDugout = &d
	}
	if g.AwayDugout != nil {
		d := g.AwayDugout.Clone()
		g.AwayDugout = &d
	}
	g.Balls = slices.Clone(g.Balls)
	for i, b := range g.Balls {
		g.Balls[i] = b.Clone()
	}
	if g.TurnState != nil {
		ts := *g.TurnState
		g.TurnState = &ts
	}
	if g.ParentProcedure != nil {
		pp := *g.ParentProcedure
		g.ParentProcedure = &pp
	}
	g.Rolls = slices.Clone(g.Rolls)
	g.BlockContext = g.BlockContext.Clone()
	if g.Position != nil {
		pos := *g.Position
		g.Position = &pos
	}
	g.ActivePath = g.ActivePath.Clone()
	g.AvailableActions = make([]Action, len(g.AvailableActions))
	for i, a := range g.AvailableActions {
		g.AvailableActions[i] = a.Clone()
	}
	return g
}
