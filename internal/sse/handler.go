package sse

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ConnectedPayload is the first message on every stream
type ConnectedPayload struct {
	ClientID string   `json:"client_id"`
	Theme    string   `json:"theme,omitempty"`
	Filters  []string `json:"filters,omitempty"`
	Resumed  bool     `json:"resumed,omitempty"`
}

type streamWriter struct {
	w http.ResponseWriter
	f http.Flusher
}

func (s streamWriter) send(evt Event) error {
	msg, err := FormatSSEMessage(evt)
	if err != nil {
		// A payload that cannot be encoded is skipped, the stream stays open
		slog.Error(LogMsgWriteError, "event_type", evt.Type, "error", err)
		return nil
	}
	if _, err := s.w.Write(msg); err != nil {
		return err
	}
	s.f.Flush()
	return nil
}

// Handler streams hub events to one EventSource. Query parameters "theme" and
// "types" (comma separated) narrow the stream; a Last-Event-ID header replays
// recent milestones missed while disconnected.
func Handler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		q := r.URL.Query()
		theme := q.Get(QueryParamTheme)
		var types []string
		for _, t := range strings.Split(q.Get(QueryParamTypes), ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, t)
			}
		}
		lastID := r.Header.Get(HeaderLastEventID)

		h := w.Header()
		h.Set("Content-Type", "text/event-stream")
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
		h.Set("X-Accel-Buffering", "no")

		client := hub.RegisterSince(theme, types, lastID)
		log := slog.With("client_id", client.ID)
		log.Info(LogMsgClientConnected, "theme", theme, "filters", types, "resumed", lastID != "", "total_clients", hub.ClientCount())
		defer func() {
			hub.Unregister(client.ID)
			log.Info(LogMsgClientDisconnected, "dropped", client.Dropped(), "total_clients", hub.ClientCount())
		}()

		out := streamWriter{w: w, f: flusher}
		if _, err := fmt.Fprintf(w, "retry: %d\n\n", RetryInterval.Milliseconds()); err != nil {
			return
		}
		err := out.send(Event{
			ID:        client.ID,
			Type:      EventTypeConnected,
			Timestamp: time.Now().UnixMilli(),
			Payload:   ConnectedPayload{ClientID: client.ID, Theme: theme, Filters: types, Resumed: lastID != ""},
		})
		if err != nil {
			return
		}

		keepalive := time.NewTicker(KeepaliveInterval)
		defer keepalive.Stop()

		for {
			var evt Event
			select {
			case <-r.Context().Done():
				return
			case e, open := <-client.EventChannel:
				if !open {
					return
				}
				evt = e
			case <-keepalive.C:
				evt = Event{Type: EventTypeKeepalive, Timestamp: time.Now().UnixMilli()}
			}
			if err := out.send(evt); err != nil {
				log.Warn(LogMsgWriteError, "error", err)
				return
			}
		}
	}
}
