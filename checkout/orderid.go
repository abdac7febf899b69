package checkout

import (
	"fmt"
	"sync"
	"time"
)

// OrderIDGenerator produces ids like ORD483920007: the last six digits
// of the epoch millisecond clock plus a zero-padded sequence. Practical
// uniqueness within a run; the order collection's key semantics are the
// real uniqueness guarantee.
type OrderIDGenerator struct {
	mu  sync.Mutex
	seq int
}

func (g *OrderIDGenerator) Next() string {
	g.mu.Lock()
	g.seq++
	seq := g.seq % 1000
	g.mu.Unlock()

	millis := time.Now().UnixMilli() % 1_000_000
	return fmt.Sprintf("ORD%06d%03d", millis, seq)
}
