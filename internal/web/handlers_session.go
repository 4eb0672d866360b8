package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/JonMunkholm/racechart/internal/logging"
)

// sseHeartbeat keeps idle frame streams open through proxies.
const sseHeartbeat = 15 * time.Second

type speedRequest struct {
	IntervalMs int `json:"interval_ms" jsonschema_description:"Tick interval in milliseconds, clamped to 50-1000"`
}

type metricRequest struct {
	Metric string `json:"metric" jsonschema_description:"Caption shown above the chart"`
}

// handleCreateSession starts a session from ?sample= (default sample if unset).
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.service.CreateSession(r.Context(), r.URL.Query().Get("sample"))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Location", "/api/sessions/"+sess.ID())
	writeJSON(w, http.StatusCreated, sess.Frame())
}

// handleGetSession returns the current frame.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.Touch()
	writeJSON(w, http.StatusOK, sess.Frame())
}

// handleDeleteSession stops playback and forgets the session.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if err := s.service.CloseSession(sess.ID()); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	logging.FromContext(r.Context()).Info("session closed by client")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	frame, err := sessionFrom(r.Context()).Toggle()
	s.respondFrame(w, r, http.StatusOK, frame, err)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	frame, err := sessionFrom(r.Context()).Reset()
	s.respondFrame(w, r, http.StatusOK, frame, err)
}

// handleSpeed sets the tick interval. Out-of-range values are clamped, not
// rejected.
func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	var req speedRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	frame, err := sessionFrom(r.Context()).SetTickInterval(req.IntervalMs)
	s.respondFrame(w, r, http.StatusOK, frame, err)
}

func (s *Server) handleMetric(w http.ResponseWriter, r *http.Request) {
	var req metricRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	frame, err := sessionFrom(r.Context()).SetMetric(req.Metric)
	s.respondFrame(w, r, http.StatusOK, frame, err)
}

// handleStream sends the session's frames as Server-Sent Events. The event
// id is the frame version. When the session closes a final "closed" event
// is sent.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	logger := logging.FromContext(r.Context())

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	// The logging middleware wraps w, so flush through a ResponseController.
	rc := http.NewResponseController(w)
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		logger.Error("streaming not supported", "error", err)
		return
	}

	frames, cancel := sess.Subscribe()
	defer cancel()

	heartbeat := time.NewTicker(sseHeartbeat)
	defer heartbeat.Stop()

	logger.Debug("frame stream opened")
	for {
		select {
		case frame, ok := <-frames:
			if !ok {
				fmt.Fprint(w, "event: closed\ndata: {}\n\n")
				rc.Flush()
				return
			}
			data, err := json.Marshal(frame)
			if err != nil {
				logger.Error("encode frame", "error", err)
				continue
			}
			fmt.Fprintf(w, "id: %d\nevent: frame\ndata: %s\n\n", frame.Version, data)
			if err := rc.Flush(); err != nil {
				return
			}

		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			if err := rc.Flush(); err != nil {
				return
			}

		case <-r.Context().Done():
			logger.Debug("frame stream closed by client")
			return
		}
	}
}
