package apitest

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"
)

type ctxKey int

const userKey ctxKey = iota

// recoverer превращает панику обработчика в 500 с detail, как FastAPI
func recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						"error", err,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
					writeError(w, http.StatusInternalServerError, "Internal Server Error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// requestLogger логирует каждый запрос к фейковому API
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			logger.Debug("fake API request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"request_id", r.Header.Get("X-Request-ID"),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// requireAuth проверяет bearer token и кладет пользователя в контекст.
// Ответы повторяют FastAPI: 401 с detail "Could not validate credentials".
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		claims, err := parseToken(s.tokens, parts[1])
		if err != nil {
			s.logger.Debug("invalid access token", "error", err)
			writeError(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		id, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		s.mu.Lock()
		u, ok := s.users[id]
		valid := ok && claims.Generation == s.generation
		s.mu.Unlock()
		if !valid {
			writeError(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u.ID)))
	})
}

// currentUserID возвращает id пользователя, проверенного requireAuth
func currentUserID(r *http.Request) int64 {
	id, _ := r.Context().Value(userKey).(int64)
	return id
}
