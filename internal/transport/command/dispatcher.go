package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/heartmarshall/painstats-backend/internal/domain"
	"github.com/heartmarshall/painstats-backend/internal/metrics"
	"github.com/heartmarshall/painstats-backend/pkg/ctxutil"
)

type statsService interface {
	Verify(ctx context.Context, token string) (string, error)
	Collect(ctx context.Context, identity string) (*domain.Statistics, error)
	Export(ctx context.Context, s *domain.Statistics) (string, error)
}

// Options tune one dispatch.
type Options struct {
	// Export writes the spreadsheet after a successful collect.
	Export bool
	// Channel names the delivery endpoint for logs and metrics.
	Channel string
}

// Dispatcher runs commands against the statistics service.
type Dispatcher struct {
	svc     statsService
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(logger *slog.Logger, svc statsService, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		svc:     svc,
		metrics: m,
		log:     logger.With("handler", "command"),
	}
}

// Handle runs cmd and returns the envelope to send back. It never returns nil
// and never panics: an invalid command is rejected before the token is looked
// at, an unknown token never reaches the store, and any fault past
// verification becomes ServerError.
func (d *Dispatcher) Handle(ctx context.Context, cmd Command, opts Options) (env Envelope) {
	ctx = ctxutil.WithChannel(ctx, opts.Channel)
	log := d.log.With(
		slog.String("channel", opts.Channel),
		slog.String("request_id", ctxutil.RequestIDFromCtx(ctx)),
	)

	defer func() {
		if r := recover(); r != nil {
			log.ErrorContext(ctx, "panic in command",
				slog.String("panic", fmt.Sprint(r)),
				slog.String("stack", string(debug.Stack())),
			)
			env = ServerError{}
		}
		d.metrics.CommandsTotal.WithLabelValues(opts.Channel, env.Outcome()).Inc()
	}()

	if !cmd.Valid() {
		log.InfoContext(ctx, "invalid command",
			slog.String("action", cmd.Action),
			slog.String("type", cmd.Type),
		)
		return InvalidRequest{}
	}

	if cmd.Token == "" {
		log.InfoContext(ctx, "command without token")
		return InvalidToken{}
	}

	identity, err := d.svc.Verify(ctx, cmd.Token)
	switch {
	case errors.Is(err, domain.ErrVerifierUnavailable):
		log.WarnContext(ctx, "token verification unavailable", slog.String("error", err.Error()))
		return VerificationUnavailable{}
	case err != nil:
		log.InfoContext(ctx, "token rejected", slog.String("error", err.Error()))
		return InvalidToken{}
	}

	ctx = ctxutil.WithIdentity(ctx, identity)
	log = log.With(slog.String("phone", identity))

	stats, err := d.svc.Collect(ctx, identity)
	switch {
	case errors.Is(err, domain.ErrNoStats):
		return NoStats{}
	case err != nil:
		log.ErrorContext(ctx, "collect statistics", slog.String("error", err.Error()))
		return ServerError{}
	case stats == nil:
		return NoStats{}
	}

	if opts.Export {
		// The envelope does not report the export; a failure is only logged.
		if _, err := d.svc.Export(ctx, stats); err != nil {
			log.ErrorContext(ctx, "export statistics", slog.String("error", err.Error()))
		}
	}

	log.InfoContext(ctx, "statistics sent",
		slog.Int("months", len(stats.Months)),
		slog.Int("rows", stats.RowCount()),
	)

	return Success{Stats: stats}
}
