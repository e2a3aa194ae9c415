package server

import (
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/goliatone/go-mfadmin/pkg/notify"
)

func (s *Server) toastSnapshot(w http.ResponseWriter, r *http.Request) {
	toasts := s.notifier.Visible()
	if toasts == nil {
		toasts = []notify.Toast{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": toasts})
}

// toastStream relays notifier events to a websocket client until either side
// goes away. Events the client is too slow for are dropped by the notifier.
func (s *Server) toastStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logf("server: websocket accept: %v", err)
		return
	}
	defer conn.CloseNow()

	events, cancel := s.notifier.Subscribe(32)
	defer cancel()

	ctx := conn.CloseRead(r.Context())
	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := wsjson.Write(ctx, conn, event); err != nil {
				if websocket.CloseStatus(err) == -1 {
					s.logf("server: toast stream write: %v", err)
				}
				return
			}
		}
	}
}
