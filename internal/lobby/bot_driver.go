package lobby

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/tpetri/mcgserver/internal/poker"
)

// BotDriver is the single background actor that injects bot actions. It
// competes for the lobby write lock on equal footing with every transport
// adapter, so a human action and a bot action are never distinguished by
// the message handler they both travel through.
type BotDriver struct {
	lobby    *Lobby
	rng      *rand.Rand
	minDelay time.Duration
	maxDelay time.Duration
	idleWait time.Duration
}

func NewBotDriver(l *Lobby, r *rand.Rand, minDelay, maxDelay time.Duration) *BotDriver {
	if r == nil {
		r = rand.New(rand.NewPCG(2, 2))
	}
	return &BotDriver{
		lobby:    l,
		rng:      r,
		minDelay: minDelay,
		maxDelay: maxDelay,
		idleWait: 50 * time.Millisecond,
	}
}

// Run loops until ctx is cancelled. Each tick either drives one bot action
// or sleeps briefly when no bot currently owes an action.
func (d *BotDriver) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		acted, err := d.tick()
		if err != nil {
			d.lobby.logger.Error().Err(err).Msg("bot driver tick failed")
		}

		wait := d.idleWait
		if acted {
			wait = d.randomDelay()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (d *BotDriver) randomDelay() time.Duration {
	span := d.maxDelay - d.minDelay
	if span <= 0 {
		return d.minDelay
	}
	return d.minDelay + time.Duration(d.rng.Int64N(int64(span)))
}

// tick captures the seat to act (if it is a bot), decides an action from
// the public view, and applies it through the same path a human action
// takes. It returns whether a bot action was taken this tick.
func (d *BotDriver) tick() (bool, error) {
	d.lobby.mu.RLock()
	g := d.lobby.game
	if g == nil || g.Stage == poker.Showdown {
		d.lobby.mu.RUnlock()
		return false, nil
	}
	actorID := g.Players[g.ToAct].ID
	isBot := d.lobby.bots[actorID]
	if !isBot {
		d.lobby.mu.RUnlock()
		return false, nil
	}
	ctx := g.ContextFor(actorID)
	d.lobby.mu.RUnlock()

	action := poker.DecideAction(ctx, d.rng)

	d.lobby.mu.Lock()
	g = d.lobby.game
	if g == nil || g.Stage == poker.Showdown || g.Players[g.ToAct].ID != actorID {
		d.lobby.mu.Unlock()
		return false, nil
	}
	if err := g.ApplyAction(actorID, action); err != nil {
		d.lobby.mu.Unlock()
		return false, err
	}
	d.lobby.logNewEvents()
	d.lobby.mu.Unlock()

	d.lobby.publish(0, false)
	return true, nil
}
