// Package httpapi is the request/response gateway to the message handler:
// one ClientMsg per request body, one ServerMsg per response, plus the
// static asset mounts and health check.
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/tpetri/mcgserver/internal/apperr"
	"github.com/tpetri/mcgserver/internal/lobby"
	"github.com/tpetri/mcgserver/internal/poker"
	"github.com/tpetri/mcgserver/internal/protocol"
)

// Config describes the static asset roots mounted alongside the API.
type Config struct {
	PkgDir    string
	MediaDir  string
	SPAIndex  string
}

// Mux builds the full HTTP surface: health check, the JSON message
// endpoint, and static/SPA fallback routes.
func Mux(l *lobby.Lobby, logger zerolog.Logger, cfg Config) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("POST /api/message", handleMessage(l, logger))

	if cfg.PkgDir != "" {
		mux.Handle("/pkg/", http.StripPrefix("/pkg/", http.FileServer(http.Dir(cfg.PkgDir))))
	}
	if cfg.MediaDir != "" {
		mux.Handle("/media/", http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.MediaDir))))
	}
	if cfg.SPAIndex != "" {
		mux.HandleFunc("/", spaFallback(cfg.SPAIndex))
	}
	return mux
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// viewerFromMessage derives the responding viewer id from an Action
// message's actor, falling back to the "unauthenticated spectator" id for
// every other message type; the HTTP adapter has no connection-scoped
// identity to carry across requests.
func viewerFromMessage(msg protocol.ClientMsg) poker.PlayerID {
	if msg.Type == protocol.MsgAction && msg.Action != nil {
		return msg.Action.PlayerID
	}
	return -1
}

func handleMessage(l *lobby.Lobby, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			writeServerMsg(w, http.StatusBadRequest, protocol.Error("Malformed ClientMsg"))
			return
		}

		var msg protocol.ClientMsg
		if err := json.Unmarshal(body, &msg); err != nil {
			writeServerMsg(w, http.StatusBadRequest, protocol.Error("Malformed ClientMsg"))
			return
		}

		session := l.NewSession(viewerFromMessage(msg))
		defer session.Close()

		reply := session.Handle(msg)
		writeServerMsg(w, statusFor(reply), reply)
		if reply.Type == protocol.MsgError {
			logger.Debug().Str("err", reply.Err).Msg("http message rejected")
		}
	}
}

func statusFor(reply protocol.ServerMsg) int {
	switch reply.Type {
	case protocol.MsgState, protocol.MsgWelcome:
		return http.StatusOK
	case protocol.MsgError:
		return statusForCause(reply.Cause, reply.Err)
	default:
		return http.StatusInternalServerError
	}
}

// statusForCause maps a typed apperr to its HTTP status without inspecting
// message text; reply.Err is only consulted as a fallback for replies that
// predate typed causes (e.g. the literal "already subscribed" reply).
func statusForCause(cause error, errText string) int {
	switch e := cause.(type) {
	case *apperr.RuleViolation:
		if poker.RejectReason(e.Reason) == poker.RejectNoGame {
			return http.StatusNotFound
		}
		return http.StatusBadRequest
	case *apperr.Protocol:
		return http.StatusBadRequest
	case *apperr.Internal:
		return http.StatusInternalServerError
	case *apperr.Transport:
		return http.StatusInternalServerError
	default:
		if poker.RejectReason(errText) == poker.RejectNoGame {
			return http.StatusNotFound
		}
		return http.StatusBadRequest
	}
}

func writeServerMsg(w http.ResponseWriter, status int, msg protocol.ServerMsg) {
	raw, err := json.Marshal(msg)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(raw)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(raw)
}

// spaFallback serves index at any path that isn't an actual file under the
// SPA's directory, so client-side routing owns unknown paths.
func spaFallback(indexPath string) http.HandlerFunc {
	dir := filepath.Dir(indexPath)
	fileServer := http.FileServer(http.Dir(dir))
	return func(w http.ResponseWriter, r *http.Request) {
		candidate := filepath.Join(dir, filepath.Clean(r.URL.Path))
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, indexPath)
	}
}
