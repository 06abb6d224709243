package sequencer

import "github.com/google/uuid"

// RunTokenGenerator generates unique run tokens for log and index
// correlation. Implemented by UUIDv7Generator (production) and
// FixedGenerator (tests).
type RunTokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run tokens.
//
// UUIDv7 embeds a timestamp in the most significant bits, making
// tokens sortable by creation time across runs.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns a predetermined run token for testing.
// It enables deterministic log and index assertions.
type FixedGenerator struct {
	token string
}

// NewFixedGenerator creates a generator that always returns token.
func NewFixedGenerator(token string) *FixedGenerator {
	return &FixedGenerator{token: token}
}

// Generate returns the fixed run token.
func (g *FixedGenerator) Generate() string {
	return g.token
}
