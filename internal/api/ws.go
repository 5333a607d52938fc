package api

import (
	"context"
	"log/slog"
	"net/http"

	"nhooyr.io/websocket"

	"github.com/splitsync/splitsync/internal/events"
	"github.com/splitsync/splitsync/internal/metrics"
	"github.com/splitsync/splitsync/internal/middleware"
)

// wsHandler upgrades the connection and streams hub events to the client.
// The client receives a "connected" greeting, then one JSON message per
// published event. The connection is push-only: client frames are read
// solely to detect close.
func wsHandler(hub *events.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			slog.Warn("websocket accept failed", "error", err)
			return
		}
		defer conn.Close(websocket.StatusInternalError, "server error")

		metrics.WebsocketClients.Inc()
		defer metrics.WebsocketClients.Dec()

		userID := middleware.UserID(r.Context())
		slog.Info("websocket client connected", "user_id", userID)

		// CloseRead discards inbound frames and cancels the context when
		// the peer goes away.
		ctx := conn.CloseRead(r.Context())

		ch, cancel := hub.Subscribe()
		defer cancel()

		greeting := events.Event{
			Type: events.TypeConnected,
			Data: map[string]string{"userId": userID},
		}
		if err := writeEvent(ctx, conn, greeting); err != nil {
			return
		}

		for {
			select {
			case <-ctx.Done():
				conn.Close(websocket.StatusNormalClosure, "")
				return
			case ev := <-ch:
				if err := writeEvent(ctx, conn, ev); err != nil {
					slog.Debug("websocket write failed", "user_id", userID, "error", err)
					return
				}
			}
		}
	}
}

func writeEvent(ctx context.Context, conn *websocket.Conn, ev events.Event) error {
	b, err := ev.Encode()
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, b)
}
