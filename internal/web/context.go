package web

import (
	"context"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/racechart/internal/core"
	"github.com/JonMunkholm/racechart/internal/logging"
)

type ctxKey int

const ctxKeySession ctxKey = iota

// sessionCtx loads the {sessionID} session into the request context and
// tags the context so log lines carry session_id.
func (s *Server) sessionCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		sess, err := s.service.Session(id)
		if err != nil {
			s.respondError(w, r, err, statusFor(err))
			return
		}

		ctx := logging.WithSession(r.Context(), id)
		ctx = context.WithValue(ctx, ctxKeySession, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionFrom returns the session loaded by sessionCtx.
func sessionFrom(ctx context.Context) *core.Session {
	sess, _ := ctx.Value(ctxKeySession).(*core.Session)
	return sess
}

// clientIP returns the request's IP without the port.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
