package command

import (
	"bytes"
	"encoding/json"

	"github.com/heartmarshall/painstats-backend/internal/domain"
)

// Outcome labels, also used as metric label values.
const (
	OutcomeSuccess                 = "success"
	OutcomeInvalidRequest          = "invalid_request"
	OutcomeInvalidToken            = "invalid_token"
	OutcomeVerificationUnavailable = "verification_unavailable"
	OutcomeNoStats                 = "no_stats"
	OutcomeServerError             = "server_error"
)

const (
	MsgInvalidRequest          = "Invalid action or type"
	MsgInvalidToken            = "Invalid or expired JWT token. Please re-authenticate."
	MsgVerificationUnavailable = "Token verification service is unavailable. Please try again later."
	MsgNoStats                 = "No stats available."
	MsgServerError             = "An internal server error occurred. Please try again later."
)

// Envelope is a response to a Command. The set of implementations is closed.
type Envelope interface {
	json.Marshaler
	// Outcome names the variant.
	Outcome() string

	envelope()
}

type (
	// Success carries the assembled statistics.
	Success struct{ Stats *domain.Statistics }
	// InvalidRequest: the command is not export_stats/command.
	InvalidRequest struct{}
	// InvalidToken: the token did not resolve to an identity.
	InvalidToken struct{}
	// VerificationUnavailable: the verification service could not be reached.
	VerificationUnavailable struct{}
	// NoStats: the identity has no survey records.
	NoStats struct{}
	// ServerError: fetching or assembling the statistics failed.
	ServerError struct{}
)

func (Success) Outcome() string                 { return OutcomeSuccess }
func (InvalidRequest) Outcome() string          { return OutcomeInvalidRequest }
func (InvalidToken) Outcome() string            { return OutcomeInvalidToken }
func (VerificationUnavailable) Outcome() string { return OutcomeVerificationUnavailable }
func (NoStats) Outcome() string                 { return OutcomeNoStats }
func (ServerError) Outcome() string             { return OutcomeServerError }

func (Success) envelope()                 {}
func (InvalidRequest) envelope()          {}
func (InvalidToken) envelope()            {}
func (VerificationUnavailable) envelope() {}
func (NoStats) envelope()                 {}
func (ServerError) envelope()             {}

// wireEnvelope is the JSON shape shared by all variants. Field order is the
// key order on the wire.
type wireEnvelope struct {
	Type    string       `json:"type"`
	Status  string       `json:"status"`
	Action  string       `json:"action,omitempty"`
	Error   string       `json:"error,omitempty"`
	Message string       `json:"message,omitempty"`
	Data    *successData `json:"data,omitempty"`
}

type successData struct {
	FileJSON statisticsDTO `json:"file_json"`
}

func failure(action, code, msg string) wireEnvelope {
	return wireEnvelope{Type: "response", Status: "error", Action: action, Error: code, Message: msg}
}

func (e Success) MarshalJSON() ([]byte, error) {
	return marshal(wireEnvelope{
		Type:   "response",
		Status: "success",
		Action: ActionExportStats,
		Data:   &successData{FileJSON: newStatisticsDTO(e.Stats)},
	})
}

func (InvalidRequest) MarshalJSON() ([]byte, error) {
	return marshal(failure("", "", MsgInvalidRequest))
}

func (InvalidToken) MarshalJSON() ([]byte, error) {
	return marshal(failure("", OutcomeInvalidToken, MsgInvalidToken))
}

func (VerificationUnavailable) MarshalJSON() ([]byte, error) {
	return marshal(failure(ActionExportStats, OutcomeVerificationUnavailable, MsgVerificationUnavailable))
}

func (NoStats) MarshalJSON() ([]byte, error) {
	return marshal(failure(ActionExportStats, OutcomeNoStats, MsgNoStats))
}

func (ServerError) MarshalJSON() ([]byte, error) {
	return marshal(failure(ActionExportStats, OutcomeServerError, MsgServerError))
}

// marshal encodes v without HTML escaping, so user comments come through as
// typed. encoding/json does not re-escape the output of a Marshaler when the
// outer encoder has escaping disabled, so every nested Marshaler uses this too.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
