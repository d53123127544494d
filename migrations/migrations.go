// Package migrations embeds the goose SQL migrations so that the migrate
// command and the test helpers apply the same files.
package migrations

import "embed"

// FS holds the *.sql migrations at its root.
//
//go:embed *.sql
var FS embed.FS
