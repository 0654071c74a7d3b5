// Package lobby holds the single authoritative game behind a read-write
// lock, fans out a minimal mutation signal to every subscribed session,
// and runs the background bot driver.
package lobby

import (
	"math/rand/v2"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tpetri/mcgserver/internal/poker"
)

// updateBufferSize is the bounded broadcast channel depth per subscriber;
// a slow consumer has its oldest pending signal dropped rather than
// blocking the mutation path (§9: drop-oldest, adapters re-request state).
const updateBufferSize = 8

// Config carries the values a freshly created Game needs that the wire
// protocol's NewGame message does not itself carry.
type Config struct {
	SmallBlind int64
	BigBlind   int64
}

// Lobby is the process-wide singleton: one Game, one bot roster, one
// broadcast fanout. The write lock is the only synchronization point for
// the hand state machine; Game itself never takes its own lock.
type Lobby struct {
	mu        sync.RWMutex
	game      *poker.Game
	bots      map[poker.PlayerID]bool
	logCursor int

	cfg    Config
	rng    *rand.Rand
	logger zerolog.Logger

	subMu      sync.Mutex
	nextSubID  uint64
	subs       map[uint64]chan uint64
	generation uint64
}

func New(cfg Config, r *rand.Rand, logger zerolog.Logger) *Lobby {
	if r == nil {
		r = rand.New(rand.NewPCG(1, 1))
	}
	return &Lobby{
		bots:   make(map[poker.PlayerID]bool),
		cfg:    cfg,
		rng:    r,
		logger: logger,
		subs:   make(map[uint64]chan uint64),
	}
}

// subscribe registers a new broadcast receiver and returns its id, channel,
// and an unsubscribe func. excludeID, when broadcasting, lets the acting
// session skip its own echo (the caller already gets a synchronous reply).
func (l *Lobby) subscribe() (uint64, <-chan uint64, func()) {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	id := l.nextSubID
	l.nextSubID++
	ch := make(chan uint64, updateBufferSize)
	l.subs[id] = ch
	unsub := func() {
		l.subMu.Lock()
		defer l.subMu.Unlock()
		if c, ok := l.subs[id]; ok {
			delete(l.subs, id)
			close(c)
		}
	}
	return id, ch, unsub
}

// publish bumps the generation counter and pushes it to every subscriber
// except excludeID. A full channel has its oldest pending value dropped so
// the publish never blocks on a slow consumer.
func (l *Lobby) publish(excludeID uint64, hasExclude bool) {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	l.generation++
	gen := l.generation
	for id, ch := range l.subs {
		if hasExclude && id == excludeID {
			continue
		}
		select {
		case ch <- gen:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- gen:
			default:
			}
		}
	}
}

// RegisterBot flags a player id as bot-controlled; the bot driver only
// acts for seats present in this set.
func (l *Lobby) RegisterBot(id poker.PlayerID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bots[id] = true
}

func (l *Lobby) isBot(id poker.PlayerID) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.bots[id]
}

// logNewEvents prints every action-log entry appended since the last call,
// at debug level, using the viewer-hiding player list for names. Callers
// must hold l.mu for writing.
func (l *Lobby) logNewEvents() {
	if l.game == nil {
		return
	}
	players := l.game.PublicState(-1).Players
	for _, ev := range l.game.Log[l.logCursor:] {
		l.logger.Debug().Msg(poker.FormatEvent(ev, players))
	}
	l.logCursor = len(l.game.Log)
}
