// Package web holds the UI templates compiled into the server binary.
package web

import "embed"

//go:embed templates/*.html
var Templates embed.FS
