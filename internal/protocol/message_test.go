package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tpetri/mcgserver/internal/poker"
)

func TestClientMsgRoundTrip(t *testing.T) {
	cases := []ClientMsg{
		{Type: MsgSubscribe},
		{Type: MsgRequestState},
		{Type: MsgNextHand},
		{Type: MsgNewGame, NewGame: &NewGameData{Players: []PlayerConfigWire{
			{ID: 0, Name: "A", Stack: 1000},
			{ID: 1, Name: "B", Stack: 1000, IsBot: true},
		}}},
		{Type: MsgAction, Action: &ActionData{PlayerID: 1, Action: PlayerActionWire{Kind: poker.ActBetAction, Amount: 40}}},
		{Type: MsgAction, Action: &ActionData{PlayerID: 1, Action: PlayerActionWire{Kind: poker.ActFold}}},
	}
	for _, c := range cases {
		encoded, err := json.Marshal(c)
		require.NoError(t, err)
		var decoded ClientMsg
		require.NoError(t, json.Unmarshal(encoded, &decoded))
		require.Equal(t, c, decoded)
	}
}

func TestClientMsgRejectsUnknownType(t *testing.T) {
	var m ClientMsg
	err := json.Unmarshal([]byte(`{"type":"Bogus"}`), &m)
	require.Error(t, err)
}

func TestServerMsgRoundTrip(t *testing.T) {
	state := poker.GameStatePublic{Pot: 30, Stage: poker.Flop}
	cases := []ServerMsg{
		Welcome(),
		State(state),
		Error("not this player's turn"),
	}
	for _, c := range cases {
		encoded, err := json.Marshal(c)
		require.NoError(t, err)
		var decoded ServerMsg
		require.NoError(t, json.Unmarshal(encoded, &decoded))
		require.Equal(t, c, decoded)
	}
}

func TestActionWireShapeMatchesSpec(t *testing.T) {
	fold, err := json.Marshal(PlayerActionWire{Kind: poker.ActFold})
	require.NoError(t, err)
	require.JSONEq(t, `"Fold"`, string(fold))

	bet, err := json.Marshal(PlayerActionWire{Kind: poker.ActBetAction, Amount: 25})
	require.NoError(t, err)
	require.JSONEq(t, `{"Bet":25}`, string(bet))
}
