// Package embedded provides embedded static assets for the application.
package embedded

import (
	"embed"
)

// SeedPath is the location of the default seed inside Files
const SeedPath = "seed.toml"

// Files contains all files embedded in the Go binary:
//   - seed.toml - demo holdings and watchlist loaded when no SEED_FILE is set
//
//go:embed seed.toml
var Files embed.FS

// Seed returns the embedded default seed
func Seed() ([]byte, error) {
	return Files.ReadFile(SeedPath)
}
