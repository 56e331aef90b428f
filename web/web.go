// Package web holds the static assets served by the catalog.
package web

import _ "embed"

// IndexHTML is the administration page served at "/".
//
//go:embed index.html
var IndexHTML []byte
