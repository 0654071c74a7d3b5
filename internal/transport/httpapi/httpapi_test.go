package httpapi

import (
	"bytes"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/tpetri/mcgserver/internal/lobby"
	"github.com/tpetri/mcgserver/internal/poker"
	"github.com/tpetri/mcgserver/internal/protocol"
)

func newTestLobby() *lobby.Lobby {
	return lobby.New(lobby.Config{SmallBlind: 5, BigBlind: 10}, rand.New(rand.NewPCG(1, 1)), zerolog.Nop())
}

func post(t *testing.T, mux *http.ServeMux, msg protocol.ClientMsg) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(msg)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/message", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	mux := Mux(newTestLobby(), zerolog.Nop(), Config{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body["ok"])
}

func TestMessageEndpointRequestStateWithoutGameIs404(t *testing.T) {
	mux := Mux(newTestLobby(), zerolog.Nop(), Config{})
	rec := post(t, mux, protocol.ClientMsg{Type: protocol.MsgRequestState})

	require.Equal(t, http.StatusNotFound, rec.Code)
	var reply protocol.ServerMsg
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	require.Equal(t, protocol.MsgError, reply.Type)
}

func TestMessageEndpointNewGameThenAction(t *testing.T) {
	mux := Mux(newTestLobby(), zerolog.Nop(), Config{})

	newGame := protocol.ClientMsg{
		Type: protocol.MsgNewGame,
		NewGame: &protocol.NewGameData{Players: []protocol.PlayerConfigWire{
			{ID: 0, Name: "A", Stack: 1000},
			{ID: 1, Name: "B", Stack: 1000},
		}},
	}
	rec := post(t, mux, newGame)
	require.Equal(t, http.StatusOK, rec.Code)

	action := protocol.ClientMsg{
		Type:   protocol.MsgAction,
		Action: &protocol.ActionData{PlayerID: 99, Action: protocol.PlayerActionWire{Kind: poker.ActFold}},
	}
	rec = post(t, mux, action)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMessageEndpointRejectsMalformedBody(t *testing.T) {
	mux := Mux(newTestLobby(), zerolog.Nop(), Config{})
	req := httptest.NewRequest(http.MethodPost, "/api/message", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var reply protocol.ServerMsg
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))
	require.Equal(t, protocol.MsgError, reply.Type)
	require.Equal(t, "Malformed ClientMsg", reply.Err)
}
