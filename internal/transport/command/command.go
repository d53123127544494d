// Package command holds the statistics command shared by the REST and
// websocket endpoints: the inbound message, the closed set of response
// envelopes and the dispatcher that maps one to the other.
package command

const (
	ActionExportStats = "export_stats"
	TypeCommand       = "command"
)

// Command is the inbound message of both endpoints.
type Command struct {
	Token  string `json:"token"`
	Action string `json:"action"`
	Type   string `json:"type"`
}

// Valid reports whether the command names the only supported operation.
func (c Command) Valid() bool {
	return c.Action == ActionExportStats && c.Type == TypeCommand
}
