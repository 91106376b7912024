package ipc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
)

// Handler processes a received envelope. Return nil to send no reply.
type Handler func(env Envelope) (*Envelope, error)

// Session is one match played over a connection. Envelopes are handled in
// arrival order on the Run goroutine, so a handler never sees two turns at once.
type Session struct {
	conn   net.Conn
	routes map[string]Handler
	served int
}

func NewSession(conn net.Conn) *Session {
	return &Session{conn: conn, routes: make(map[string]Handler)}
}

// Handle routes msgType to h, replacing any previous route.
func (s *Session) Handle(msgType string, h Handler) {
	s.routes[msgType] = h
}

// Served is the number of envelopes that reached a handler.
func (s *Session) Served() int { return s.served }

// Run reads envelopes until the peer hangs up or ctx is cancelled, and always
// closes the connection. A clean hang-up or cancellation returns nil. Handler
// errors are logged and the session keeps going.
func (s *Session) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { s.conn.Close() })
	defer stop()
	defer s.conn.Close()

	for {
		env, err := ReadEnvelope(s.conn)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		h, ok := s.routes[env.Type]
		if !ok {
			slog.Warn("no handler for message type", "type", env.Type)
			continue
		}
		s.served++

		resp, err := h(env)
		if err != nil {
			slog.Error("handler error", "type", env.Type, "error", err)
			continue
		}
		if resp == nil {
			continue
		}
		if err := WriteEnvelope(s.conn, *resp); err != nil {
			return fmt.Errorf("reply %s: %w", resp.Type, err)
		}
	}
}
