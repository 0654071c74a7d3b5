// Package protocol defines the wire shapes shared by every transport
// adapter: one ClientMsg → ServerMsg contract regardless of whether the
// bytes arrived over WebSocket, HTTP, or a P2P stream.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/tpetri/mcgserver/internal/poker"
)

// ClientMsgType is the tagged-union discriminant of an inbound message.
type ClientMsgType string

const (
	MsgSubscribe    ClientMsgType = "Subscribe"
	MsgRequestState ClientMsgType = "RequestState"
	MsgNewGame      ClientMsgType = "NewGame"
	MsgAction       ClientMsgType = "Action"
	MsgNextHand     ClientMsgType = "NextHand"
)

// PlayerConfigWire mirrors poker.PlayerConfig for NewGame requests.
type PlayerConfigWire struct {
	ID    poker.PlayerID `json:"id"`
	Name  string         `json:"name"`
	Stack uint32         `json:"stack"`
	IsBot bool           `json:"is_bot,omitempty"`
}

// NewGameData is the payload of a NewGame ClientMsg.
type NewGameData struct {
	Players []PlayerConfigWire `json:"players"`
}

// ActionData is the payload of an Action ClientMsg.
type ActionData struct {
	PlayerID poker.PlayerID    `json:"player_id"`
	Action   PlayerActionWire  `json:"action"`
}

// PlayerActionWire is the JSON shape of poker.PlayerAction: "Fold",
// "CheckCall", or {"Bet": amount}.
type PlayerActionWire struct {
	Kind   poker.PlayerActionKind
	Amount int64
}

func (a PlayerActionWire) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case poker.ActFold:
		return json.Marshal("Fold")
	case poker.ActCheckCall:
		return json.Marshal("CheckCall")
	case poker.ActBetAction:
		return json.Marshal(map[string]int64{"Bet": a.Amount})
	default:
		return nil, fmt.Errorf("protocol: unknown player action kind %q", a.Kind)
	}
}

func (a *PlayerActionWire) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		switch s {
		case "Fold":
			*a = PlayerActionWire{Kind: poker.ActFold}
			return nil
		case "CheckCall":
			*a = PlayerActionWire{Kind: poker.ActCheckCall}
			return nil
		default:
			return fmt.Errorf("protocol: unknown player action %q", s)
		}
	}
	var obj struct {
		Bet *int64 `json:"Bet"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("protocol: malformed player action: %w", err)
	}
	if obj.Bet == nil {
		return fmt.Errorf("protocol: malformed player action: missing Bet amount")
	}
	*a = PlayerActionWire{Kind: poker.ActBetAction, Amount: *obj.Bet}
	return nil
}

func (a PlayerActionWire) ToDomain() poker.PlayerAction {
	return poker.PlayerAction{Kind: a.Kind, Amount: a.Amount}
}

// ClientMsg is the single inbound tagged union every transport adapter
// parses before handing off to the message handler.
type ClientMsg struct {
	Type ClientMsgType `json:"type"`

	NewGame *NewGameData `json:"-"`
	Action  *ActionData  `json:"-"`
}

type clientMsgWire struct {
	Type ClientMsgType   `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

func (m ClientMsg) MarshalJSON() ([]byte, error) {
	wire := clientMsgWire{Type: m.Type}
	var data any
	switch m.Type {
	case MsgNewGame:
		data = m.NewGame
	case MsgAction:
		data = m.Action
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		wire.Data = raw
	}
	return json.Marshal(wire)
}

func (m *ClientMsg) UnmarshalJSON(b []byte) error {
	var wire clientMsgWire
	if err := json.Unmarshal(b, &wire); err != nil {
		return fmt.Errorf("protocol: malformed ClientMsg: %w", err)
	}
	m.Type = wire.Type
	m.NewGame = nil
	m.Action = nil
	switch wire.Type {
	case MsgSubscribe, MsgRequestState, MsgNextHand:
		// no payload
	case MsgNewGame:
		var data NewGameData
		if len(wire.Data) > 0 {
			if err := json.Unmarshal(wire.Data, &data); err != nil {
				return fmt.Errorf("protocol: malformed NewGame payload: %w", err)
			}
		}
		m.NewGame = &data
	case MsgAction:
		var data ActionData
		if err := json.Unmarshal(wire.Data, &data); err != nil {
			return fmt.Errorf("protocol: malformed Action payload: %w", err)
		}
		m.Action = &data
	default:
		return fmt.Errorf("protocol: unknown ClientMsg type %q", wire.Type)
	}
	return nil
}

// ServerMsgType is the tagged-union discriminant of an outbound message.
type ServerMsgType string

const (
	MsgWelcome ServerMsgType = "Welcome"
	MsgState   ServerMsgType = "State"
	MsgError   ServerMsgType = "Error"
)

// ServerMsg is the single outbound tagged union: Welcome | State | Error.
type ServerMsg struct {
	Type  ServerMsgType          `json:"type"`
	State *poker.GameStatePublic `json:"-"`
	Err   string                 `json:"-"`

	// Cause carries the typed error behind Err, when one exists, so a
	// transport can map it to a status code (e.g. HTTP) without
	// string-matching Err. It is never marshaled to the wire.
	Cause error `json:"-"`
}

type serverMsgWire struct {
	Type ServerMsgType   `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

func (m ServerMsg) MarshalJSON() ([]byte, error) {
	wire := serverMsgWire{Type: m.Type}
	switch m.Type {
	case MsgState:
		raw, err := json.Marshal(m.State)
		if err != nil {
			return nil, err
		}
		wire.Data = raw
	case MsgError:
		raw, err := json.Marshal(m.Err)
		if err != nil {
			return nil, err
		}
		wire.Data = raw
	}
	return json.Marshal(wire)
}

func (m *ServerMsg) UnmarshalJSON(b []byte) error {
	var wire serverMsgWire
	if err := json.Unmarshal(b, &wire); err != nil {
		return fmt.Errorf("protocol: malformed ServerMsg: %w", err)
	}
	m.Type = wire.Type
	m.State = nil
	m.Err = ""
	switch wire.Type {
	case MsgWelcome:
	case MsgState:
		var state poker.GameStatePublic
		if err := json.Unmarshal(wire.Data, &state); err != nil {
			return fmt.Errorf("protocol: malformed State payload: %w", err)
		}
		m.State = &state
	case MsgError:
		if err := json.Unmarshal(wire.Data, &m.Err); err != nil {
			return fmt.Errorf("protocol: malformed Error payload: %w", err)
		}
	default:
		return fmt.Errorf("protocol: unknown ServerMsg type %q", wire.Type)
	}
	return nil
}

func Welcome() ServerMsg                      { return ServerMsg{Type: MsgWelcome} }
func State(s poker.GameStatePublic) ServerMsg { return ServerMsg{Type: MsgState, State: &s} }
func Error(msg string) ServerMsg              { return ServerMsg{Type: MsgError, Err: msg} }

// ErrorFrom builds an Error reply that also carries the typed cause, for
// transports that map error categories to status codes.
func ErrorFrom(err error) ServerMsg {
	return ServerMsg{Type: MsgError, Err: err.Error(), Cause: err}
}
