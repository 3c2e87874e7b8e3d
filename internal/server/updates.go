package server

import (
	"net/http"

	"github.com/starfederation/datastar-go/datastar"
)

// handleUpdates streams refresh events. Each event patches the
// snapshots.<kind> signal with the new snapshot header.
func (s *Server) handleUpdates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := s.notifier.Subscribe()
	defer s.notifier.Unsubscribe(updates)
	s.metrics.SubscriberAdded()
	defer s.metrics.SubscriberRemoved()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case h, ok := <-updates:
			if !ok {
				return
			}
			signals := map[string]any{
				"snapshots": map[string]any{string(h.Kind): h},
			}
			if err := sse.MarshalAndPatchSignals(signals); err != nil {
				s.logger.Debug("update stream closed", "error", err)
				return
			}
		}
	}
}
