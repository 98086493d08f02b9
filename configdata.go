// Package tarkovtime embeds files shipped inside the binary.
package tarkovtime

import _ "embed"

// DefaultConfigTOML is config.default.toml, copied to the data directory on
// first run. Regenerate with go generate ./internal/config.
//
//go:embed config.default.toml
var DefaultConfigTOML []byte
