package rest

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/painstats-backend/internal/domain"
	"github.com/heartmarshall/painstats-backend/internal/transport/command"
)

func fixedDispatcher(env command.Envelope) *dispatcherMock {
	return &dispatcherMock{
		HandleFunc: func(ctx context.Context, cmd command.Command, opts command.Options) command.Envelope {
			if !cmd.Valid() {
				return command.InvalidRequest{}
			}
			return env
		},
	}
}

func postStat(t *testing.T, h *StatsHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/get-stat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.GetStat(rec, req)
	return rec
}

const validBody = `{"token":"tok","action":"export_stats","type":"command"}`

func TestGetStat_Success(t *testing.T) {
	t.Parallel()

	stats := &domain.Statistics{
		PhoneNumber: "+79991234567",
		Months: []domain.MonthBucket{{
			Label: "2024-01",
			Rows:  []domain.StatRow{{Number: "r1", CreatedAt: "2024-01-05T10:00:00Z", UpdatedAt: "2024-01-05T10:00:00Z"}},
		}},
	}
	d := fixedDispatcher(command.Success{Stats: stats})
	h := NewStatsHandler(d, true, slog.Default())

	rec := postStat(t, h, validBody)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"status":"success"`)
	assert.Contains(t, rec.Body.String(), `"file_json":{"phone_number":"+79991234567","statistics":{"2024-01":[{"Номер":"r1"`)

	calls := d.HandleCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, command.Command{Token: "tok", Action: "export_stats", Type: "command"}, calls[0].Cmd)
	assert.Equal(t, command.Options{Export: true, Channel: ChannelREST}, calls[0].Opts)
}

func TestGetStat_ExportDisabled(t *testing.T) {
	t.Parallel()

	d := fixedDispatcher(command.NoStats{})
	h := NewStatsHandler(d, false, slog.Default())

	postStat(t, h, validBody)

	require.Len(t, d.HandleCalls(), 1)
	assert.False(t, d.HandleCalls()[0].Opts.Export)
}

func TestGetStat_ErrorEnvelopesAre200(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env  command.Envelope
		want string
	}{
		{command.InvalidToken{}, `"error":"invalid_token"`},
		{command.NoStats{}, `"error":"no_stats"`},
		{command.ServerError{}, `"error":"server_error"`},
		{command.VerificationUnavailable{}, `"error":"verification_unavailable"`},
	}

	for _, tt := range tests {
		t.Run(tt.env.Outcome(), func(t *testing.T) {
			t.Parallel()

			h := NewStatsHandler(fixedDispatcher(tt.env), true, slog.Default())
			rec := postStat(t, h, validBody)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestGetStat_InvalidActionOrType(t *testing.T) {
	t.Parallel()

	d := fixedDispatcher(command.ServerError{})
	h := NewStatsHandler(d, true, slog.Default())

	rec := postStat(t, h, `{"token":"tok","action":"import_stats","type":"command"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"Invalid action or type"}`, rec.Body.String())

	calls := d.HandleCalls()
	require.Len(t, calls, 1)
	assert.False(t, calls[0].Opts.Export)
}

func TestGetStat_MalformedBody(t *testing.T) {
	t.Parallel()

	bodies := map[string]string{
		"not json":      `token=tok`,
		"empty":         ``,
		"array":         `[]`,
		"missing token": `{"action":"export_stats","type":"command"}`,
		"missing type":  `{"token":"tok","action":"export_stats"}`,
		"number token":  `{"token":42,"action":"export_stats","type":"command"}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			d := fixedDispatcher(command.ServerError{})
			h := NewStatsHandler(d, true, slog.Default())

			rec := postStat(t, h, body)

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.JSONEq(t, `{"detail":"invalid request body"}`, rec.Body.String())
			assert.Empty(t, d.HandleCalls())
		})
	}
}

func TestGetStat_BodyTooLarge(t *testing.T) {
	t.Parallel()

	d := fixedDispatcher(command.ServerError{})
	h := NewStatsHandler(d, true, slog.Default())

	body := `{"token":"` + strings.Repeat("a", maxBodyBytes) + `","action":"export_stats","type":"command"}`
	rec := postStat(t, h, body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Empty(t, d.HandleCalls())
}
