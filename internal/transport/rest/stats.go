package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/painstats-backend/internal/transport/command"
)

// ChannelREST labels commands that arrive over POST /get-stat.
const ChannelREST = "rest"

const maxBodyBytes = 64 << 10

type dispatcher interface {
	Handle(ctx context.Context, cmd command.Command, opts command.Options) command.Envelope
}

// StatsHandler serves POST /get-stat.
type StatsHandler struct {
	cmd    dispatcher
	export bool
	log    *slog.Logger
}

// NewStatsHandler creates a StatsHandler. When export is set every successful
// request also rewrites the spreadsheet file.
func NewStatsHandler(cmd dispatcher, export bool, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{cmd: cmd, export: export, log: logger.With("handler", "rest")}
}

// statRequest mirrors command.Command with pointers so absent fields can be
// told apart from empty ones.
type statRequest struct {
	Token  *string `json:"token"`
	Action *string `json:"action"`
	Type   *string `json:"type"`
}

// GetStat handles POST /get-stat.
//
// A body that is not a JSON object with string token, action and type gets
// 422; a wrong action or type gets 400. Every other outcome, errors included,
// is a 200 carrying the response envelope.
func (h *StatsHandler) GetStat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req statRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}
	if req.Token == nil || req.Action == nil || req.Type == nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	cmd := command.Command{Token: *req.Token, Action: *req.Action, Type: *req.Type}
	if !cmd.Valid() {
		// Counted and logged by the dispatcher; the REST shape differs from the envelope.
		h.cmd.Handle(r.Context(), cmd, command.Options{Channel: ChannelREST})
		writeError(w, http.StatusBadRequest, command.MsgInvalidRequest)
		return
	}

	env := h.cmd.Handle(r.Context(), cmd, command.Options{
		Export:  h.export,
		Channel: ChannelREST,
	})

	writeJSON(w, http.StatusOK, env)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
