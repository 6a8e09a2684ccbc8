package handler

import (
	"bufio"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// responseMeter records what the handler wrote.
type responseMeter struct {
	http.ResponseWriter
	status   int
	bytes    int64
	upgraded bool
}

func (m *responseMeter) WriteHeader(code int) {
	if m.status == 0 {
		m.status = code
	}
	m.ResponseWriter.WriteHeader(code)
}

func (m *responseMeter) Write(p []byte) (int, error) {
	if m.status == 0 {
		m.status = http.StatusOK
	}
	n, err := m.ResponseWriter.Write(p)
	m.bytes += int64(n)
	return n, err
}

func (m *responseMeter) Unwrap() http.ResponseWriter { return m.ResponseWriter }

func (m *responseMeter) Flush() {
	if f, ok := m.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack hands the connection to the WebSocket upgrader.
func (m *responseMeter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := m.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	m.upgraded = true
	m.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

// RequestLogger logs one line per request and tags the response with a
// request id (the caller's X-Request-ID when present). 5xx log at ERROR,
// 4xx at WARN and health probes at DEBUG.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := r.Header.Get(requestIDHeader)
		if reqID == "" || len(reqID) > 64 {
			reqID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, reqID)

		m := &responseMeter{ResponseWriter: w}
		next.ServeHTTP(m, r)
		if m.status == 0 {
			m.status = http.StatusOK
		}

		level := slog.LevelInfo
		switch {
		case m.status >= 500:
			level = slog.LevelError
		case m.status >= 400:
			level = slog.LevelWarn
		case r.URL.Path == "/api/health":
			level = slog.LevelDebug
		}
		attrs := []any{
			"request_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", m.status,
			"bytes", m.bytes,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", r.RemoteAddr,
		}
		if m.upgraded {
			attrs = append(attrs, "upgraded", true)
		}
		slog.Log(r.Context(), level, "request", attrs...)
	})
}
