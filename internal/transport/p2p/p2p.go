// Package p2p is the peer-to-peer datagram adapter: a TCP listener
// standing in for the QUIC/iroh transport named in the protocol note,
// carrying newline-delimited ClientMsg/ServerMsg JSON per stream.
package p2p

import (
	"bufio"
	"context"
	"encoding/json"
	"net"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tpetri/mcgserver/internal/lobby"
	"github.com/tpetri/mcgserver/internal/poker"
	"github.com/tpetri/mcgserver/internal/protocol"
)

// alpnTag documents the protocol identity carried by a real iroh/QUIC
// handshake; this TCP stand-in has no ALPN negotiation, so the tag is
// only asserted in the handshake log line.
const alpnTag = "mcg/iroh/1"

const maxLineBytes = 1 << 16

// Listener accepts bidirectional streams and speaks the ClientMsg/ServerMsg
// protocol over each one independently.
type Listener struct {
	lobby  *lobby.Lobby
	logger zerolog.Logger
	ln     net.Listener
}

func Listen(ctx context.Context, addr string, l *lobby.Lobby, logger zerolog.Logger) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	p := &Listener{lobby: l, logger: logger, ln: ln}
	go p.acceptLoop(ctx)
	return p, nil
}

func (p *Listener) Addr() net.Addr { return p.ln.Addr() }

func (p *Listener) Close() error { return p.ln.Close() }

func (p *Listener) acceptLoop(ctx context.Context) {
	for {
		conn, err := p.ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
			}
			p.logger.Error().Err(err).Msg("p2p accept failed")
			return
		}
		go p.serveStream(ctx, conn)
	}
}

// serveStream implements §4.8's P2P contract: on accept the server sends
// nothing unsolicited. The peer's first Subscribe attaches the broadcast
// receiver; every line after that is handled the same way a WebSocket
// frame is.
func (p *Listener) serveStream(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	connID := uuid.New()
	logger := p.logger.With().Str("conn_id", connID.String()).Logger()
	logger.Debug().Str("alpn", alpnTag).Str("remote", conn.RemoteAddr().String()).Msg("p2p stream accepted")

	viewer := poker.PlayerID(-1)
	session := p.lobby.NewSession(viewer)
	defer session.Close()

	enc := json.NewEncoder(conn)
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 4096), maxLineBytes)

	lines := make(chan []byte, 16)
	scanErr := make(chan error, 1)
	go func() {
		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			lines <- line
		}
		scanErr <- scanner.Err()
		close(lines)
	}()

	var updates <-chan uint64
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				if err := <-scanErr; err != nil {
					logger.Debug().Err(err).Msg("p2p stream read error")
				}
				return
			}
			reply, newUpdates := p.handleLine(session, line)
			if newUpdates != nil {
				updates = newUpdates
			}
			if err := enc.Encode(reply); err != nil {
				return
			}
		case _, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			state := session.Handle(protocol.ClientMsg{Type: protocol.MsgRequestState})
			if err := enc.Encode(state); err != nil {
				return
			}
		}
	}
}

func (p *Listener) handleLine(session *lobby.Session, line []byte) (protocol.ServerMsg, <-chan uint64) {
	var msg protocol.ClientMsg
	if err := json.Unmarshal(line, &msg); err != nil {
		return protocol.Error("Malformed ClientMsg"), nil
	}
	reply := session.Handle(msg)
	if msg.Type == protocol.MsgSubscribe {
		return reply, session.Updates()
	}
	return reply, nil
}
