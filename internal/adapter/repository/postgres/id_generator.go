package postgres

import (
	"crypto/rand"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/iho/gobilling/internal/usecase"
)

// ULIDGenerator issues ULIDs stamped with the billing clock. IDs from one
// generator are strictly increasing, so rows that share a created_at still
// list in issue order.
type ULIDGenerator struct {
	mu      sync.Mutex
	clock   usecase.Clock
	entropy *ulid.MonotonicEntropy
}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator(clock usecase.Clock) *ULIDGenerator {
	return &ULIDGenerator{
		clock:   clock,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Generate returns the next ULID.
func (g *ULIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(g.clock.Now()), g.entropy).String()
}
