package poker

import "fmt"

// PlayerID is an opaque non-negative integer, stable across a game.
type PlayerID int

// Stage is a phase of betting; the total order is the stage-advance order.
type Stage int

const (
	Preflop Stage = iota
	Flop
	Turn
	River
	Showdown
)

func (s Stage) String() string {
	switch s {
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// ActionKind is the richer, state-machine-internal vocabulary recorded in
// the action log; PlayerAction (below) is the narrower client-facing form.
type ActionKind struct {
	Kind string // "Fold" | "Check" | "Call" | "Bet" | "Raise" | "PostBlind"

	Amount     int64 // Call, Bet
	RaiseTo    int64 // Raise
	RaiseBy    int64 // Raise
	BlindKind  string // "sb" | "bb", for PostBlind
	BlindPaid  int64  // PostBlind
}

func ActionFold() ActionKind                 { return ActionKind{Kind: "Fold"} }
func ActionCheck() ActionKind                { return ActionKind{Kind: "Check"} }
func ActionCall(amount int64) ActionKind     { return ActionKind{Kind: "Call", Amount: amount} }
func ActionBet(amount int64) ActionKind      { return ActionKind{Kind: "Bet", Amount: amount} }
func ActionRaise(to, by int64) ActionKind    { return ActionKind{Kind: "Raise", RaiseTo: to, RaiseBy: by} }
func ActionPostBlind(kind string, amount int64) ActionKind {
	return ActionKind{Kind: "PostBlind", BlindKind: kind, BlindPaid: amount}
}

// PlayerActionKind identifies the narrow client-facing action vocabulary.
type PlayerActionKind string

const (
	ActFold      PlayerActionKind = "Fold"
	ActCheckCall PlayerActionKind = "CheckCall"
	ActBetAction PlayerActionKind = "Bet"
)

// PlayerAction is the client-facing action: Fold | CheckCall | Bet(amount).
type PlayerAction struct {
	Kind   PlayerActionKind
	Amount int64 // only meaningful for ActBetAction
}

// HandResult is one player's showdown outcome, part of a Showdown event.
type HandResult struct {
	PlayerID PlayerID
	Hand     HandRank
	Cards    [2]Card
}

// ActionEvent is the single canonical log entity: a tagged union of a
// player's action or a game-driven transition.
type ActionEvent struct {
	Kind string // "PlayerAction" | "StageChanged" | "DealtHole" | "DealtCommunity" | "Showdown" | "PotAwarded"

	// PlayerAction
	PlayerID PlayerID
	Action   ActionKind

	// StageChanged
	Stage Stage

	// DealtHole
	DealtTo PlayerID

	// DealtCommunity
	Cards []Card

	// Showdown
	Results []HandResult

	// PotAwarded
	Winners []PlayerID
	Amount  int64
}

func evStageChanged(s Stage) ActionEvent { return ActionEvent{Kind: "StageChanged", Stage: s} }
func evDealtHole(p PlayerID) ActionEvent { return ActionEvent{Kind: "DealtHole", DealtTo: p} }
func evDealtCommunity(cards []Card) ActionEvent {
	return ActionEvent{Kind: "DealtCommunity", Cards: cards}
}
func evPlayerAction(p PlayerID, a ActionKind) ActionEvent {
	return ActionEvent{Kind: "PlayerAction", PlayerID: p, Action: a}
}
func evShowdown(results []HandResult) ActionEvent {
	return ActionEvent{Kind: "Showdown", Results: results}
}
func evPotAwarded(winners []PlayerID, amount int64) ActionEvent {
	return ActionEvent{Kind: "PotAwarded", Winners: winners, Amount: amount}
}

// Player is the private, authoritative seat record.
type Player struct {
	ID          PlayerID
	Name        string
	Stack       uint32
	Hole        [2]Card
	HasFolded   bool
	AllIn       bool
	IsBot       bool
	BetThisRound int64
}

// PlayerPublic is the per-viewer-safe projection of a Player: hole cards are
// present only for the viewer themself.
type PlayerPublic struct {
	ID           PlayerID
	Name         string
	Stack        uint32
	Hole         *[2]Card
	HasFolded    bool
	BetThisRound int64
}

// RejectReason explains why apply_action rejected an action (RuleViolation).
type RejectReason string

const (
	RejectNotToAct       RejectReason = "not this player's turn"
	RejectFolded         RejectReason = "player has folded"
	RejectAllIn          RejectReason = "player is all-in"
	RejectShowdown       RejectReason = "hand is in showdown"
	RejectNoGame         RejectReason = "no active game"
	RejectBetTooSmall    RejectReason = "bet does not exceed the current bet"
	RejectRaiseTooSmall  RejectReason = "raise is smaller than the minimum raise"
	RejectUnknownPlayer  RejectReason = "unknown player"
	RejectWrongStage     RejectReason = "wrong stage for this operation"
	RejectNotEnoughSeats RejectReason = "not enough players to start a hand"
)

func (r RejectReason) Error() string { return string(r) }
