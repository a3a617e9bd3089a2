package ledger

import (
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"
)

// Sentinel errors the API surface maps onto the HTTP taxonomy.
var (
	// ErrNotFound covers a missing entity and, for owner-scoped lookups,
	// an ownership mismatch; callers cannot tell the two apart.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyFunded rejects contributions against a fully funded item.
	ErrAlreadyFunded = errors.New("item already funded")
)

// Authority says on whose behalf a cancellation runs.
type Authority string

const (
	// AuthorityOwner requires the contribution's identity token to match.
	AuthorityOwner Authority = "owner"
	// AuthorityAdmin bypasses the identity match.
	AuthorityAdmin Authority = "admin"
)

// Ledger owns the invariant between an item's target price, raised amount
// and funded flag. Every mutation runs inside a single transaction; the
// mutex serializes the read-modify-write so two concurrent contributions
// can never both see the same stale raised amount (SQLite offers no
// row-level locking to lean on).
type Ledger struct {
	db *gorm.DB
	mu sync.Mutex
}

func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

func wrapStore(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
