// Package authserver resolves bearer tokens to user identities through the
// external back-office users endpoint.
package authserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/heartmarshall/painstats-backend/internal/domain"
	"github.com/heartmarshall/painstats-backend/internal/metrics"
)

const (
	usersPath    = "/users"
	maxBodyBytes = 1 << 20
)

// Verification outcomes, used as metric labels.
const (
	outcomeOK          = "ok"
	outcomeInvalid     = "invalid"
	outcomeUnavailable = "unavailable"
	outcomePrechecked  = "precheck_rejected"
)

// tokenPrecheck rejects tokens locally before the outbound call.
type tokenPrecheck interface {
	Check(token string) error
}

// Verifier exchanges a bearer token for the phone number of its owner.
// One outbound call per Verify, no retries.
type Verifier struct {
	usersURL   string
	httpClient *http.Client
	precheck   tokenPrecheck
	metrics    *metrics.Metrics
	log        *slog.Logger
}

// Option customizes a Verifier.
type Option func(*Verifier)

// WithPrecheck runs p before every outbound call.
func WithPrecheck(p tokenPrecheck) Option {
	return func(v *Verifier) { v.precheck = p }
}

// WithHTTPClient replaces the default client. The client timeout is left as is.
func WithHTTPClient(c *http.Client) Option {
	return func(v *Verifier) { v.httpClient = c }
}

// NewVerifier creates a verifier for the service rooted at baseURL
// (e.g. https://backoffice.example.com/api/v1). Every call is bounded by timeout.
func NewVerifier(baseURL string, timeout time.Duration, m *metrics.Metrics, logger *slog.Logger, opts ...Option) *Verifier {
	v := &Verifier{
		usersURL:   strings.TrimRight(baseURL, "/") + usersPath,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    m,
		log:        logger.With("adapter", "authserver"),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// usersResponse is the subset of the users endpoint payload we rely on.
type usersResponse struct {
	Result *struct {
		Phone json.RawMessage `json:"phone"`
	} `json:"result"`
}

// Verify returns the identity behind token.
// It returns an error wrapping domain.ErrInvalidToken when the service rejects
// the token or answers without result.phone, and one wrapping
// domain.ErrVerifierUnavailable on network failure, timeout, or a 5xx answer.
func (v *Verifier) Verify(ctx context.Context, token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		v.count(outcomeInvalid)
		return "", fmt.Errorf("verify token: empty token: %w", domain.ErrInvalidToken)
	}

	if v.precheck != nil {
		if err := v.precheck.Check(token); err != nil {
			v.count(outcomePrechecked)
			return "", fmt.Errorf("verify token: %w", err)
		}
	}

	start := time.Now()
	identity, err := v.fetchIdentity(ctx, token)
	v.metrics.VerifierRequestDuration.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		v.count(outcomeOK)
		v.log.DebugContext(ctx, "token verified", slog.String("phone", identity))
	case errors.Is(err, domain.ErrVerifierUnavailable):
		v.count(outcomeUnavailable)
		v.log.ErrorContext(ctx, "token verification unavailable", slog.String("error", err.Error()))
	default:
		v.count(outcomeInvalid)
		v.log.InfoContext(ctx, "token rejected", slog.String("error", err.Error()))
	}

	return identity, err
}

func (v *Verifier) fetchIdentity(ctx context.Context, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.usersURL, nil)
	if err != nil {
		return "", fmt.Errorf("verify token: build request: %v: %w", err, domain.ErrVerifierUnavailable)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("verify token: %v: %w", err, domain.ErrVerifierUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return "", fmt.Errorf("verify token: status %d: %w", resp.StatusCode, domain.ErrVerifierUnavailable)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("verify token: status %d: %w", resp.StatusCode, domain.ErrInvalidToken)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("verify token: read body: %v: %w", err, domain.ErrVerifierUnavailable)
	}

	var payload usersResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("verify token: decode body: %v: %w", err, domain.ErrInvalidToken)
	}
	if payload.Result == nil {
		return "", fmt.Errorf("verify token: missing result: %w", domain.ErrInvalidToken)
	}

	phone, ok := parsePhone(payload.Result.Phone)
	if !ok {
		return "", fmt.Errorf("verify token: missing result.phone: %w", domain.ErrInvalidToken)
	}

	return phone, nil
}

// parsePhone accepts result.phone as a JSON string or number.
func parsePhone(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		return s, s != ""
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), true
	}

	return "", false
}

func (v *Verifier) count(outcome string) {
	v.metrics.VerifierRequestsTotal.WithLabelValues(outcome).Inc()
}
