package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/tpetri/mcgserver/internal/poker"
	"github.com/tpetri/mcgserver/internal/protocol"
)

// postMessage sends a ClientMsg to the server's /api/message endpoint and
// prints the returned ServerMsg as formatted JSON.
func postMessage(addr string, msg protocol.ClientMsg) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("mcgctl: encoding request: %w", err)
	}

	resp, err := http.Post(addr+"/api/message", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("mcgctl: request failed: %w", err)
	}
	defer resp.Body.Close()

	var reply protocol.ServerMsg
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return fmt.Errorf("mcgctl: decoding reply: %w", err)
	}

	pretty, err := json.MarshalIndent(reply, "", "  ")
	if err != nil {
		return fmt.Errorf("mcgctl: formatting reply: %w", err)
	}
	fmt.Println(string(pretty))
	return nil
}

// NewGameCmd starts a new game. Seats are given as repeated name:stack[:bot]
// triples, e.g. "A:1000 B:1000:bot".
type NewGameCmd struct {
	Seats []string `kong:"arg,help='Seats as name:stack[:bot], e.g. A:1000 B:1000:bot'"`
}

func (c *NewGameCmd) Run(cli *CLI) error {
	players, err := parseSeats(c.Seats)
	if err != nil {
		return err
	}
	return postMessage(cli.Addr, protocol.ClientMsg{
		Type:    protocol.MsgNewGame,
		NewGame: &protocol.NewGameData{Players: players},
	})
}

func parseSeats(seats []string) ([]protocol.PlayerConfigWire, error) {
	players := make([]protocol.PlayerConfigWire, 0, len(seats))
	for i, raw := range seats {
		parts := strings.Split(raw, ":")
		if len(parts) < 2 {
			return nil, fmt.Errorf("mcgctl: malformed seat %q (want name:stack[:bot])", raw)
		}
		stack, err := strconv.ParseUint(parts[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("mcgctl: malformed stack in seat %q: %w", raw, err)
		}
		isBot := len(parts) > 2 && parts[2] == "bot"
		players = append(players, protocol.PlayerConfigWire{
			ID: poker.PlayerID(i), Name: parts[0], Stack: uint32(stack), IsBot: isBot,
		})
	}
	return players, nil
}

// ActionCmd applies a single action for a seat.
type ActionCmd struct {
	Player int    `kong:"arg,help='Player id'"`
	Kind   string `kong:"arg,help='fold|call|check|bet'"`
	Amount int64  `kong:"arg,optional,help='Bet amount (only for bet)'"`
}

func (c *ActionCmd) Run(cli *CLI) error {
	var wire protocol.PlayerActionWire
	switch c.Kind {
	case "fold":
		wire = protocol.PlayerActionWire{Kind: poker.ActFold}
	case "call", "check":
		wire = protocol.PlayerActionWire{Kind: poker.ActCheckCall}
	case "bet":
		wire = protocol.PlayerActionWire{Kind: poker.ActBetAction, Amount: c.Amount}
	default:
		return fmt.Errorf("mcgctl: unknown action kind %q", c.Kind)
	}
	return postMessage(cli.Addr, protocol.ClientMsg{
		Type:   protocol.MsgAction,
		Action: &protocol.ActionData{PlayerID: poker.PlayerID(c.Player), Action: wire},
	})
}

// StateCmd fetches the current game state. The request names no viewer, so
// the HTTP adapter renders the spectator view with every hole card hidden.
type StateCmd struct{}

func (c *StateCmd) Run(cli *CLI) error {
	return postMessage(cli.Addr, protocol.ClientMsg{Type: protocol.MsgRequestState})
}

// NextHandCmd advances to the next hand once the current one reaches
// Showdown.
type NextHandCmd struct{}

func (c *NextHandCmd) Run(cli *CLI) error {
	return postMessage(cli.Addr, protocol.ClientMsg{Type: protocol.MsgNextHand})
}
