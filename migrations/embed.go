// Package migrations embeds the development schema for goose.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
