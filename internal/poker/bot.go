package poker

import "math/rand/v2"

// BotContext is the public view a bot's policy decides from; it carries no
// reference back to the Game so the policy stays a pure function.
type BotContext struct {
	Stack        int64
	CallAmount   int64
	CurrentBet   int64
	BigBlind     int64
	Stage        Stage
	Position     int
	TotalPlayers int
}

// ContextFor builds a BotContext for the seat currently to act, from the
// same public projection used to render GameStatePublic.
func (g *Game) ContextFor(id PlayerID) BotContext {
	p, idx := g.findPlayer(id)
	call := g.CurrentBet - g.RoundBets[id]
	if call < 0 {
		call = 0
	}
	return BotContext{
		Stack:        int64(p.Stack),
		CallAmount:   call,
		CurrentBet:   g.CurrentBet,
		BigBlind:     g.BigBlind,
		Stage:        g.Stage,
		Position:     idx,
		TotalPlayers: len(g.Players),
	}
}

// DecideAction is the bot policy: a stateless function from public context
// to an action, following the open/continue/fold shape described for the
// state machine it feeds.
func DecideAction(ctx BotContext, r *rand.Rand) PlayerAction {
	if r == nil {
		r = rand.New(rand.NewPCG(0, 0))
	}

	if ctx.CallAmount == 0 {
		if r.Float64() < 0.30 {
			return PlayerAction{Kind: ActCheckCall}
		}
		choices := []int64{ctx.BigBlind, 2 * ctx.BigBlind, ctx.BigBlind * 5 / 2, 3 * ctx.BigBlind}
		amount := choices[r.IntN(len(choices))]
		if amount > ctx.Stack {
			amount = ctx.Stack
		}
		return PlayerAction{Kind: ActBetAction, Amount: amount}
	}

	if ctx.CallAmount >= ctx.Stack {
		return PlayerAction{Kind: ActCheckCall}
	}

	denom := ctx.Stack + ctx.CurrentBet
	relative := 0.0
	if denom > 0 {
		relative = float64(ctx.CallAmount) / float64(denom)
	}
	foldChance := clamp(0.10+relative*0.90, 0, 0.95)
	if r.Float64() < foldChance {
		return PlayerAction{Kind: ActFold}
	}

	if r.Float64() < 0.20 {
		remaining := ctx.Stack - ctx.CallAmount
		lo := maxInt64(ctx.BigBlind, ctx.CurrentBet/2)
		candidates := []int64{
			maxInt64(ctx.BigBlind, ctx.CurrentBet/2),
			maxInt64(ctx.BigBlind, ctx.CurrentBet),
			maxInt64(ctx.BigBlind, ctx.CurrentBet*3/2),
			remaining / 2,
			remaining,
		}
		amount := candidates[r.IntN(len(candidates))]
		if amount < lo {
			amount = lo
		}
		if amount > remaining {
			amount = remaining
		}
		return PlayerAction{Kind: ActBetAction, Amount: ctx.CallAmount + amount}
	}

	return PlayerAction{Kind: ActCheckCall}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
