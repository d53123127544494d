package stats

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/painstats-backend/internal/domain"
	"github.com/heartmarshall/painstats-backend/internal/metrics"
	"github.com/heartmarshall/painstats-backend/pkg/ctxutil"
)

type tokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

type surveyRepo interface {
	ListByUser(ctx context.Context, userID string) ([]domain.SurveyRecord, error)
}

type exportWriter interface {
	Write(ctx context.Context, s *domain.Statistics) (string, error)
}

// Service resolves identities and builds their month-grouped survey statistics.
type Service struct {
	verifier tokenVerifier
	surveys  surveyRepo
	export   exportWriter
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// NewService creates a new statistics service.
func NewService(
	log *slog.Logger,
	verifier tokenVerifier,
	surveys surveyRepo,
	export exportWriter,
	m *metrics.Metrics,
) *Service {
	return &Service{
		verifier: verifier,
		surveys:  surveys,
		export:   export,
		metrics:  m,
		log:      log.With("service", "stats"),
	}
}

// Verify resolves a bearer token to an identity.
// Errors wrap domain.ErrInvalidToken or domain.ErrVerifierUnavailable.
func (s *Service) Verify(ctx context.Context, token string) (string, error) {
	return s.verifier.Verify(ctx, token)
}

// Collect fetches the survey records of identity and assembles them.
// It returns an error wrapping domain.ErrNoStats when there are no records and
// an *AssembleError when the store or the assembly fails.
func (s *Service) Collect(ctx context.Context, identity string) (*domain.Statistics, error) {
	log := s.log.With(
		slog.String("phone", identity),
		slog.String("request_id", ctxutil.RequestIDFromCtx(ctx)),
	)

	records, err := s.surveys.ListByUser(ctx, identity)
	if err != nil {
		log.ErrorContext(ctx, "fetch survey records", slog.String("error", err.Error()))
		return nil, &AssembleError{Kind: KindStore, Err: err}
	}

	if len(records) == 0 {
		log.InfoContext(ctx, "no survey records")
		return nil, fmt.Errorf("statistics for %s: %w", identity, domain.ErrNoStats)
	}

	log.InfoContext(ctx, "survey records found", slog.Int("count", len(records)))

	result, err := Assemble(identity, records)
	if err != nil {
		log.ErrorContext(ctx, "assemble statistics", slog.String("error", err.Error()))
		return nil, err
	}

	return result, nil
}

// Export renders the statistics to the spreadsheet file and returns its path.
func (s *Service) Export(ctx context.Context, result *domain.Statistics) (string, error) {
	path, err := s.export.Write(ctx, result)
	if err != nil {
		s.metrics.ExportsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("export statistics: %w", err)
	}

	s.metrics.ExportsTotal.WithLabelValues("ok").Inc()
	s.log.InfoContext(ctx, "statistics exported",
		slog.String("path", path),
		slog.String("phone", result.PhoneNumber),
	)

	return path, nil
}
