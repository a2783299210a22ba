package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/MrSnakeDoc/dock/internal/httpserver/deps"
	"github.com/MrSnakeDoc/dock/internal/logger"
	"github.com/MrSnakeDoc/dock/internal/notify"
)

const (
	// EventConfigChanged is the SSE event name sent after every new snapshot.
	EventConfigChanged = "config-changed"

	eventsBuffer    = 16
	keepAlivePeriod = 25 * time.Second
)

// Events streams configuration changes as server-sent events. The current
// revision is sent first so a client can tell whether it missed anything.
func Events(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc := http.NewResponseController(w)
		// the server write timeout would otherwise cut the stream
		if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
			d.Logger.Debug("failed to clear write deadline", logger.Error(err))
		}

		events, release := d.Events.Subscribe(eventsBuffer)
		defer release()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		hello := notify.Event{Source: notify.SourceStartup, Revision: d.MemoryIndex.Revision(), At: d.Now()}
		if err := writeEvent(w, hello); err != nil || rc.Flush() != nil {
			return
		}

		keepAlive := time.NewTicker(keepAlivePeriod)
		defer keepAlive.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				if err := writeEvent(w, ev); err != nil {
					d.Logger.Debug("event stream closed", logger.Error(err))
					return
				}
			case <-keepAlive.C:
				if _, err := io.WriteString(w, ": keep-alive\n\n"); err != nil {
					return
				}
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

func writeEvent(w io.Writer, ev notify.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	_, err = fmt.Fprintf(w, "event: %s\nid: %s\ndata: %s\n\n",
		EventConfigChanged, strconv.FormatUint(ev.Revision, 10), data)
	return err
}
