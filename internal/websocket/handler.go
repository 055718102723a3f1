package websocket

import (
	"net/http"

	ws "github.com/coder/websocket"
)

// HandleWebSocket returns an HTTP handler that upgrades connections to
// WebSocket and runs them as Hub clients. originPatterns restricts the
// allowed Origin hosts; empty allows any origin, as on a household LAN.
// Repeated ?entity= parameters limit which changes the page is sent.
func HandleWebSocket(hub *Hub, originPatterns []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entities := r.URL.Query()["entity"]
		for _, e := range entities {
			if !IsEntity(e) {
				http.Error(w, "unknown entity "+e, http.StatusBadRequest)
				return
			}
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: len(originPatterns) == 0,
			OriginPatterns:     originPatterns,
		})
		if err != nil {
			hub.logger.Warn("accept", "error", err)
			return
		}
		conn.SetReadLimit(readLimit)

		client := NewClient(hub, conn, entities...)
		client.Run(r.Context())
	}
}
