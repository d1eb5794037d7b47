package ports

import (
	"context"

	"github.com/bnema/snookertab/internal/domain"
)

// LedgerRepository owns the durable representation of the ledger. Load is
// failure-tolerant: missing or corrupt stored values come back as zero
// values, never as an error the caller has to handle mid-transition. Save
// persists a whole post-mutation snapshot.
type LedgerRepository interface {
	Load(ctx context.Context) (domain.Ledger, error)
	Save(ctx context.Context, ledger domain.Ledger) error
}
