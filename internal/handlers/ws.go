package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The socket only carries outbound telemetry.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// EventsHandler handles GET /events
// It streams simulation trace events over a websocket, starting with a
// replay of the retained buffer
func (h *SimHandler) EventsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}
	defer conn.Close()

	events, cancel := h.bus.Subscribe()
	defer cancel()

	for _, event := range h.bus.Recent() {
		if err := conn.WriteJSON(event); err != nil {
			return
		}
	}

	// The reader unblocks the send loop when the client goes away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for event := range events {
		if err := conn.WriteJSON(event); err != nil {
			return
		}
	}
}
