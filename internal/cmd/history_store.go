package cmd

import (
	"github.com/nimbusdb/cstress/internal/history"
)

// openHistoryStore resolves the shared --history-db/--no-history flags
// into a Store. --no-history swaps in a MemoryStore whose rows vanish with
// the process, so run completion always has somewhere to Save() without a
// special case at the call site.
func openHistoryStore() (history.Store, error) {
	if noHistory {
		return history.NewMemoryStore(), nil
	}
	return history.OpenSQLiteStore(historyDB)
}
