package portfoliosync

import (
	"time"

	"github.com/investifai/investif/internal/model"
)

// Reconcile merges an incoming snapshot into the local list by
// last-write-wins on UpdatedAt.
//
// removed holds local deletions (ticker -> deletion time) the store may not
// have seen yet. The rules, per ticker:
//   - in both: the newer of the two versions wins;
//   - snapshot only: kept unless deleted locally after the snapshot's version;
//   - local only: kept if edited after the snapshot was taken, dropped otherwise.
//
// Tombstones older than the snapshot are pruned. The result follows snapshot
// order, then local order for local-only positions.
func Reconcile(local []model.Position, removed map[string]time.Time, snap model.Snapshot) ([]model.Position, map[string]time.Time) {
	byTicker := make(map[string]model.Position, len(local))
	for _, p := range local {
		byTicker[p.Ticker] = p
	}

	out := make([]model.Position, 0, len(snap.Positions)+len(local))
	inSnap := make(map[string]bool, len(snap.Positions))
	for _, remote := range snap.Positions {
		inSnap[remote.Ticker] = true
		if mine, ok := byTicker[remote.Ticker]; ok && mine.UpdatedAt.After(remote.UpdatedAt) {
			out = append(out, mine)
			continue
		}
		if at, ok := removed[remote.Ticker]; ok && at.After(remote.UpdatedAt) {
			continue
		}
		out = append(out, remote)
	}

	for _, mine := range local {
		if inSnap[mine.Ticker] {
			continue
		}
		if mine.UpdatedAt.After(snap.UpdatedAt) {
			out = append(out, mine)
		}
	}

	pruned := make(map[string]time.Time, len(removed))
	for ticker, at := range removed {
		if at.After(snap.UpdatedAt) {
			pruned[ticker] = at
		}
	}
	return out, pruned
}
