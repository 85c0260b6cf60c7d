// Package embedded provides embedded static assets for the application.
package embedded

import (
	"embed"
)

// Files contains the static status page served at the HTTP root. Keeping
// it in the binary means the service is a single deployable file.
//
//go:embed static
var Files embed.FS
