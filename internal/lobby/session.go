package lobby

import (
	"github.com/tpetri/mcgserver/internal/apperr"
	"github.com/tpetri/mcgserver/internal/poker"
	"github.com/tpetri/mcgserver/internal/protocol"
)

// Session is one connection's view of the lobby: it tracks whether this
// connection has subscribed yet and owns the broadcast receiver once it
// has. One Session exists per WebSocket connection or P2P stream; an HTTP
// request builds a throwaway Session for the single message it carries.
type Session struct {
	lobby  *Lobby
	viewer poker.PlayerID

	subID       uint64
	hasSub      bool
	updates     <-chan uint64
	unsubscribe func()
}

func (l *Lobby) NewSession(viewer poker.PlayerID) *Session {
	return &Session{lobby: l, viewer: viewer}
}

// Updates is nil until Subscribe succeeds; adapters should only select on
// it after a successful Subscribe reply.
func (s *Session) Updates() <-chan uint64 { return s.updates }

// Close releases the broadcast subscription, if any.
func (s *Session) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// Handle is the single dispatch point every transport adapter calls after
// parsing a ClientMsg: Subscribe, RequestState, NewGame, Action, NextHand.
func (s *Session) Handle(msg protocol.ClientMsg) protocol.ServerMsg {
	switch msg.Type {
	case protocol.MsgSubscribe:
		return s.handleSubscribe()
	case protocol.MsgRequestState:
		return s.handleRequestState()
	case protocol.MsgNewGame:
		return s.handleNewGame(msg.NewGame)
	case protocol.MsgAction:
		return s.handleAction(msg.Action)
	case protocol.MsgNextHand:
		return s.handleNextHand()
	default:
		return protocol.ErrorFrom(apperr.NewProtocol("Malformed ClientMsg"))
	}
}

func (s *Session) handleSubscribe() protocol.ServerMsg {
	if s.hasSub {
		return protocol.Error("already subscribed")
	}
	id, ch, unsub := s.lobby.subscribe()
	s.subID = id
	s.updates = ch
	s.unsubscribe = unsub
	s.hasSub = true
	return s.snapshotOrWelcome()
}

func (s *Session) snapshotOrWelcome() protocol.ServerMsg {
	s.lobby.mu.RLock()
	defer s.lobby.mu.RUnlock()
	if s.lobby.game == nil {
		return protocol.Welcome()
	}
	return protocol.State(s.lobby.game.PublicState(s.viewer))
}

func (s *Session) handleRequestState() protocol.ServerMsg {
	s.lobby.mu.RLock()
	defer s.lobby.mu.RUnlock()
	if s.lobby.game == nil {
		return protocol.ErrorFrom(apperr.NewRuleViolation(string(poker.RejectNoGame)))
	}
	return protocol.State(s.lobby.game.PublicState(s.viewer))
}

func (s *Session) handleNewGame(data *protocol.NewGameData) protocol.ServerMsg {
	if data == nil || len(data.Players) == 0 {
		return protocol.Error("NewGame requires at least one player")
	}
	players := make([]poker.PlayerConfig, len(data.Players))
	for i, pw := range data.Players {
		players[i] = poker.PlayerConfig{ID: pw.ID, Name: pw.Name, Stack: pw.Stack, IsBot: pw.IsBot}
	}

	s.lobby.mu.Lock()
	game, err := poker.NewGame(players, s.lobby.cfg.SmallBlind, s.lobby.cfg.BigBlind, s.lobby.rng)
	if err != nil {
		s.lobby.mu.Unlock()
		return protocol.ErrorFrom(apperr.NewInternal("starting new game", err))
	}
	s.lobby.game = game
	s.lobby.logCursor = 0
	for _, pw := range data.Players {
		if pw.IsBot {
			s.lobby.bots[pw.ID] = true
		}
	}
	s.lobby.logNewEvents()
	out := game.PublicState(s.viewer)
	s.lobby.mu.Unlock()

	s.lobby.publish(s.subID, s.hasSub)
	return protocol.State(out)
}

func (s *Session) handleAction(data *protocol.ActionData) protocol.ServerMsg {
	if data == nil {
		return protocol.Error("Malformed ClientMsg")
	}

	s.lobby.mu.Lock()
	if s.lobby.game == nil {
		s.lobby.mu.Unlock()
		return protocol.ErrorFrom(apperr.NewRuleViolation(string(poker.RejectNoGame)))
	}
	if err := s.lobby.game.ApplyAction(data.PlayerID, data.Action.ToDomain()); err != nil {
		s.lobby.mu.Unlock()
		return protocol.ErrorFrom(apperr.NewRuleViolation(err.Error()))
	}
	s.lobby.logNewEvents()
	out := s.lobby.game.PublicState(s.viewer)
	s.lobby.mu.Unlock()

	s.lobby.publish(s.subID, s.hasSub)
	return protocol.State(out)
}

func (s *Session) handleNextHand() protocol.ServerMsg {
	s.lobby.mu.Lock()
	if s.lobby.game == nil {
		s.lobby.mu.Unlock()
		return protocol.ErrorFrom(apperr.NewRuleViolation(string(poker.RejectNoGame)))
	}
	if s.lobby.game.Stage != poker.Showdown {
		s.lobby.mu.Unlock()
		return protocol.ErrorFrom(apperr.NewRuleViolation(string(poker.RejectWrongStage)))
	}
	if err := s.lobby.game.StartNewHand(); err != nil {
		s.lobby.mu.Unlock()
		return protocol.ErrorFrom(apperr.NewInternal("starting new hand", err))
	}
	s.lobby.logCursor = 0
	s.lobby.logNewEvents()
	out := s.lobby.game.PublicState(s.viewer)
	s.lobby.mu.Unlock()

	s.lobby.publish(s.subID, s.hasSub)
	return protocol.State(out)
}
