// Package ws is the WebSocket transport adapter: one goroutine pair per
// connection, biased toward draining inbound client frames before
// rendering a fresh broadcast update.
package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/tpetri/mcgserver/internal/lobby"
	"github.com/tpetri/mcgserver/internal/poker"
	"github.com/tpetri/mcgserver/internal/protocol"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 1 << 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ViewerIDFromRequest extracts the seat this connection speaks for; the
// spec leaves authentication out of scope, so this adapter trusts a
// query parameter the way a debug/dev deployment would.
func ViewerIDFromRequest(r *http.Request) poker.PlayerID {
	q := r.URL.Query().Get("player_id")
	var id int
	for _, c := range q {
		if c < '0' || c > '9' {
			return -1
		}
		id = id*10 + int(c-'0')
	}
	if q == "" {
		return -1
	}
	return poker.PlayerID(id)
}

// Handle upgrades the HTTP request to a WebSocket and runs the connection
// until the client disconnects or the stream errors.
func Handle(l *lobby.Lobby, logger zerolog.Logger, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	connID := uuid.New()
	logger = logger.With().Str("conn_id", connID.String()).Logger()

	viewer := ViewerIDFromRequest(r)
	session := l.NewSession(viewer)
	defer session.Close()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	writeJSON := func(msg protocol.ServerMsg) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(msg)
	}

	welcome := session.Handle(protocol.ClientMsg{Type: protocol.MsgSubscribe})
	if err := writeJSON(welcome); err != nil {
		return
	}

	incoming := make(chan protocol.ClientMsg, 16)
	closed := make(chan struct{})
	go readLoop(conn, logger, incoming, closed)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		// Inbound frames take priority: a pending client message is drained
		// before a queued broadcast is rendered, so a fold sitting next to
		// its own resulting state update never reads stale.
		select {
		case msg, ok := <-incoming:
			if !ok {
				return
			}
			reply := session.Handle(msg)
			if err := writeJSON(reply); err != nil {
				return
			}
			continue
		default:
		}

		select {
		case msg, ok := <-incoming:
			if !ok {
				return
			}
			reply := session.Handle(msg)
			if err := writeJSON(reply); err != nil {
				return
			}
		case _, ok := <-session.Updates():
			if !ok {
				return
			}
			state := session.Handle(protocol.ClientMsg{Type: protocol.MsgRequestState})
			if err := writeJSON(state); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

func readLoop(conn *websocket.Conn, logger zerolog.Logger, out chan<- protocol.ClientMsg, closed chan<- struct{}) {
	defer close(closed)
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Debug().Err(err).Msg("websocket closed unexpectedly")
			}
			close(out)
			return
		}
		var msg protocol.ClientMsg
		if err := json.Unmarshal(raw, &msg); err != nil {
			out <- protocol.ClientMsg{Type: "__malformed__"}
			continue
		}
		out <- msg
	}
}
