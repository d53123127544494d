// Package ws serves statistics commands over a websocket session.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/heartmarshall/painstats-backend/internal/metrics"
	"github.com/heartmarshall/painstats-backend/internal/transport/command"
	"github.com/heartmarshall/painstats-backend/pkg/ctxutil"
)

// ChannelWS labels commands that arrive over the websocket.
const ChannelWS = "ws"

const writeTimeout = 10 * time.Second

type dispatcher interface {
	Handle(ctx context.Context, cmd command.Command, opts command.Options) command.Envelope
}

// Options configure a Handler.
type Options struct {
	OriginPatterns []string
	ReadLimit      int64
	// Export writes the spreadsheet after each successful command.
	Export bool
}

// Handler upgrades requests to websocket sessions. Each session reads one
// text frame, answers it with one envelope and only then reads the next.
type Handler struct {
	cmd     dispatcher
	opts    Options
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(cmd dispatcher, opts Options, m *metrics.Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		cmd:     cmd,
		opts:    opts,
		metrics: m,
		log:     logger.With("handler", "ws"),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Server read/write timeouts would otherwise cut long sessions.
	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.opts.OriginPatterns,
	})
	if err != nil {
		// Accept has already written the HTTP error.
		h.log.InfoContext(r.Context(), "websocket upgrade rejected", slog.String("error", err.Error()))
		return
	}
	defer conn.CloseNow() //nolint:errcheck

	if h.opts.ReadLimit > 0 {
		conn.SetReadLimit(h.opts.ReadLimit)
	}

	h.metrics.WSSessionsActive.Inc()
	defer h.metrics.WSSessionsActive.Dec()

	sessionID := ctxutil.RequestIDFromCtx(r.Context())
	log := h.log.With(slog.String("session_id", sessionID))
	log.InfoContext(r.Context(), "client connected")

	err = h.serve(r.Context(), conn, sessionID)

	switch status := websocket.CloseStatus(err); {
	case status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway:
		log.InfoContext(r.Context(), "client disconnected")
		conn.Close(websocket.StatusNormalClosure, "") //nolint:errcheck
	case errors.Is(err, context.Canceled):
		log.InfoContext(r.Context(), "session canceled")
		conn.Close(websocket.StatusGoingAway, "server shutting down") //nolint:errcheck
	default:
		log.ErrorContext(r.Context(), "connection fault", slog.String("error", err.Error()))
		conn.Close(websocket.StatusInternalError, "connection fault") //nolint:errcheck
	}
}

// serve runs the session loop until the peer goes away or the transport
// fails. It always returns a non-nil error.
func (h *Handler) serve(ctx context.Context, conn *websocket.Conn, sessionID string) error {
	for seq := 1; ; seq++ {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		msgCtx := ctxutil.WithRequestID(ctx, fmt.Sprintf("%s/%d", sessionID, seq))
		env := h.handleFrame(msgCtx, typ, data)

		if err := h.write(msgCtx, conn, env); err != nil {
			return err
		}
	}
}

func (h *Handler) handleFrame(ctx context.Context, typ websocket.MessageType, data []byte) command.Envelope {
	if typ != websocket.MessageText {
		h.log.InfoContext(ctx, "binary frame ignored", slog.String("request_id", ctxutil.RequestIDFromCtx(ctx)))
		return command.InvalidRequest{}
	}

	var cmd command.Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		h.log.InfoContext(ctx, "malformed message",
			slog.String("request_id", ctxutil.RequestIDFromCtx(ctx)),
			slog.String("error", err.Error()),
		)
		return command.InvalidRequest{}
	}

	return h.cmd.Handle(ctx, cmd, command.Options{
		Export:  h.opts.Export,
		Channel: ChannelWS,
	})
}

func (h *Handler) write(ctx context.Context, conn *websocket.Conn, env command.Envelope) error {
	// MarshalJSON directly: json.Marshal would HTML-escape the envelope.
	payload, err := env.MarshalJSON()
	if err != nil {
		h.log.ErrorContext(ctx, "encode envelope", slog.String("error", err.Error()))
		if payload, err = (command.ServerError{}).MarshalJSON(); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	return conn.Write(ctx, websocket.MessageText, payload)
}
