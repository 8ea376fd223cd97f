package server

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Render stream event names, in the order a successful render sends them.
const (
	eventStarted  = "started"
	eventLayout   = "layout"
	eventComplete = "complete"
	eventError    = "error"
)

// eventStream writes the Server-Sent Events of one streamed render. Every
// event carries a sequence id.
type eventStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
	seq     int
}

// newEventStream switches w to an event stream. It fails when the connection
// cannot be flushed incrementally.
func newEventStream(w http.ResponseWriter) (*eventStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	return &eventStream{w: w, flusher: flusher}, nil
}

// send writes one event and flushes it to the client.
func (s *eventStream) send(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event, err)
	}

	s.seq++
	if _, err := fmt.Fprintf(s.w, "id: %d\nevent: %s\ndata: %s\n\n", s.seq, event, payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// fail ends the stream with the public error message.
func (s *eventStream) fail(message string) {
	_ = s.send(eventError, map[string]string{"error": message})
}
