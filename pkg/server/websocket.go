package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleUpdates pushes the active session and its transcript to the
// rendering layer whenever the chat state changes.
func (s *Server) handleUpdates(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade websocket", "error", err)
		return
	}
	defer ws.Close()

	clientID := uuid.New().String()
	slog.Debug("Updates client connected", "client", clientID)

	updates, cancel := s.conv.Subscribe()
	defer cancel()
	done := make(chan struct{})

	// Reader loop: only used to observe the close.
	go func() {
		defer close(done)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Initial snapshot.
	if err := s.pushSnapshot(ws); err != nil {
		slog.Error("Failed initial snapshot", "client", clientID, "error", err)
		return
	}

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			slog.Debug("Updates client disconnected", "client", clientID)
			return
		case <-updates:
			if err := s.pushSnapshot(ws); err != nil {
				slog.Error("Failed snapshot push", "client", clientID, "error", err)
				return
			}
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				slog.Debug("Keepalive failed", "client", clientID, "error", err)
				return
			}
		}
	}
}

func (s *Server) pushSnapshot(ws *websocket.Conn) error {
	return ws.WriteJSON(map[string]any{
		"active":     s.conv.ActiveSession(),
		"transcript": s.conv.Transcript(),
	})
}
