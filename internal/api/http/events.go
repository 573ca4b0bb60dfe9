package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lantern-hub/lantern/internal/domain/notification"
)

// events streams riddle_solved notifications. Every connection gets its own
// client ID so a reconnect never evicts a live stream.
func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "streaming not supported")
		return
	}

	clientID := uuid.NewString()
	var userPtr *string
	if auth := authUserFromContext(r.Context()); auth != nil {
		userID := auth.UserID.String()
		userPtr = &userID
	}
	client := notification.NewSSEClient(clientID, userPtr)
	s.sseHub.Register(client)
	defer s.sseHub.Unregister(clientID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(": connected\n\n"))
	flusher.Flush()
	if err := s.sseHub.SendToClient(clientID, notification.NewConnectedMessage(client)); err != nil {
		s.logger.Debug().Err(err).Str("client_id", clientID).Msg("connected event not queued")
	}

	ping := time.NewTicker(s.opts.PingInterval)
	defer ping.Stop()

	ctx := r.Context()
	for {
		select {
		case msg, ok := <-client.MessageChan:
			if !ok || msg == nil {
				return
			}
			if err := writeEvent(w, msg); err != nil {
				return
			}
			flusher.Flush()
		case <-ping.C:
			if _, err := w.Write([]byte(": ping\n\n")); err != nil {
				return
			}
			flusher.Flush()
		case <-ctx.Done():
			return
		}
	}
}

func writeEvent(w io.Writer, msg *notification.SSEMessage) error {
	_, err := fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", msg.ID, msg.Event, msg.Data)
	return err
}
