// Package assets embeds the files shipped with the binaries: SQL migrations and e-mail templates.
package assets

import "embed"

//go:embed migrations/*.sql templates/email/*
var FS embed.FS
