package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	figmatokens "github.com/kataras/figma-token-exporter"
)

const (
	wsWriteWait = 10 * time.Second
	wsPongWait  = 60 * time.Second
	wsPingEvery = (wsPongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// serveSession runs one panel session per connection. Requests are handled on their own
// goroutine so that the session can reject overlapping ones while the reader keeps going.
func (s *Server) serveSession(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	logger := s.logger.With("request_id", middleware.GetReqID(r.Context()))
	opts := s.session
	if opts.Logger == nil {
		opts.Logger = slogLogger{logger}
	}
	session, err := figmatokens.New(opts)
	if err != nil {
		logger.Error("open session", "err", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(wsPongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	writeCh := make(chan figmatokens.Outbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(wsPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-session.Done():
				conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "closed"))
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	// the first extraction may take a while; the reader must keep serving close and pongs
	go func() {
		push(ctx, writeCh, session.Start(ctx))
	}()

	for {
		var in figmatokens.Inbound
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			return
		}
		in.Type = strings.ToLower(strings.TrimSpace(in.Type))
		if in.Type == "" {
			push(ctx, writeCh, figmatokens.ErrorMessage{Message: "type is required"})
			continue
		}
		go func(in figmatokens.Inbound) {
			push(ctx, writeCh, session.Handle(ctx, in))
		}(in)
	}
}

func push(ctx context.Context, writeCh chan<- figmatokens.Outbound, out figmatokens.Outbound) {
	if out == nil {
		return
	}
	select {
	case writeCh <- out:
	case <-ctx.Done():
	}
}

// slogLogger adapts a *slog.Logger to figmatokens.Logger.
type slogLogger struct {
	l *slog.Logger
}

func (s slogLogger) Infof(format string, args ...any) {
	s.l.Info(fmt.Sprintf(format, args...))
}

func (s slogLogger) Warnf(format string, args ...any) {
	s.l.Warn(fmt.Sprintf(format, args...))
}

func (s slogLogger) Errorf(format string, args ...any) {
	s.l.Error(fmt.Sprintf(format, args...))
}
