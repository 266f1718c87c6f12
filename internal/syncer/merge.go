package syncer

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/tally/internal/logger"
	"github.com/alexanderramin/tally/internal/remote"
	"github.com/alexanderramin/tally/internal/tabular"
)

// MergeResult counts the outcome of merging one entity type.
type MergeResult struct {
	// LocalWins counts ids present on both sides where the local copy was
	// at least as new.
	LocalWins int
	// LocalOnly counts ids the remote table did not have yet.
	LocalOnly int
	// RemoteWins counts ids where a strictly newer remote copy was applied
	// over the local one.
	RemoteWins int
	// Imported counts ids present only remotely, tombstones included.
	Imported int
	// Skipped counts remote rows that could not be decoded. They are
	// dropped from the remote table on write-back.
	Skipped int
}

// Total is the number of distinct sync_ids after the merge.
func (r MergeResult) Total() int {
	return r.LocalWins + r.LocalOnly + r.RemoteWins + r.Imported
}

// Changed reports whether the merge wrote anything locally.
func (r MergeResult) Changed() bool {
	return r.RemoteWins+r.Imported > 0
}

// Plan is the outcome of reconciling two snapshots of one entity type.
type Plan[T any] struct {
	// Winners holds one record per sync_id, sorted by sync_id.
	Winners []T
	// Apply holds the remote records that must be written locally.
	Apply  []T
	Result MergeResult
}

// Reconcile decides the winner for every sync_id in local ∪ remote by
// last-writer-wins on updated_at. Equal timestamps keep the local copy.
func Reconcile[T any](local, remote []T, syncID func(T) string, updatedAt func(T) int64) Plan[T] {
	var plan Plan[T]

	localByID := make(map[string]T, len(local))
	for _, l := range local {
		localByID[syncID(l)] = l
	}
	remoteByID := make(map[string]T, len(remote))
	for _, r := range remote {
		id := syncID(r)
		// Duplicate remote rows: keep the newest.
		if prev, dup := remoteByID[id]; dup && updatedAt(prev) >= updatedAt(r) {
			continue
		}
		remoteByID[id] = r
	}

	for id, l := range localByID {
		r, inRemote := remoteByID[id]
		switch {
		case !inRemote:
			plan.Winners = append(plan.Winners, l)
			plan.Result.LocalOnly++
		case updatedAt(l) >= updatedAt(r):
			plan.Winners = append(plan.Winners, l)
			plan.Result.LocalWins++
		default:
			plan.Winners = append(plan.Winners, r)
			plan.Apply = append(plan.Apply, r)
			plan.Result.RemoteWins++
		}
	}
	for id, r := range remoteByID {
		if _, inLocal := localByID[id]; inLocal {
			continue
		}
		plan.Winners = append(plan.Winners, r)
		plan.Apply = append(plan.Apply, r)
		plan.Result.Imported++
	}

	bySyncID := func(a, b T) int { return cmp.Compare(syncID(a), syncID(b)) }
	slices.SortFunc(plan.Winners, bySyncID)
	slices.SortFunc(plan.Apply, bySyncID)
	return plan
}

// table binds one entity type to its local replica and remote sub-table.
type table[T any] struct {
	name      string
	columns   []string
	syncID    func(T) string
	updatedAt func(T) int64
	encode    func(T) tabular.Row
	decode    func(tabular.Row) (T, error)
	list      func(ctx context.Context, includeDeleted bool) ([]T, error)
	apply     func(ctx context.Context, records []T) error
	// inspect, when set, sees every decoded row; used for recovery logging.
	inspect func(row tabular.Row, rec T)
}

func (t table[T]) rng() string {
	return remote.Range(t.name, len(t.columns))
}

func (t table[T]) header() [][]string {
	return [][]string{slices.Clone(t.columns)}
}

// mergeTable runs one full-table merge. The local snapshot and the remote
// read are taken concurrently. Local writes happen before the remote is
// touched, so a failed apply leaves both sides as they were.
func mergeTable[T any](ctx context.Context, gw remote.Gateway, containerID string, t table[T], log *logger.Logger) (MergeResult, error) {
	var (
		local []T
		rows  [][]string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		local, err = t.list(gctx, true)
		if err != nil {
			return fmt.Errorf("loading local %s: %w", t.name, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		rows, err = gw.ReadRange(gctx, containerID, t.rng())
		if err != nil {
			return fmt.Errorf("reading remote %s: %w", t.name, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return MergeResult{}, err
	}

	remoteRecs, skipped := decodeRows(rows, t, log)
	plan := Reconcile(local, remoteRecs, t.syncID, t.updatedAt)
	plan.Result.Skipped = skipped

	if len(plan.Apply) > 0 {
		if err := t.apply(ctx, plan.Apply); err != nil {
			return plan.Result, fmt.Errorf("applying remote %s: %w", t.name, err)
		}
	}

	out := t.header()
	for _, w := range plan.Winners {
		out = append(out, t.encode(w))
	}
	// Write first, then clear whatever the previous contents left below, so
	// a failed write never leaves the table empty.
	if err := gw.WriteRange(ctx, containerID, t.rng(), out); err != nil {
		return plan.Result, fmt.Errorf("writing remote %s: %w", t.name, err)
	}
	tail := remote.RangeFrom(t.name, len(t.columns), len(out)+1)
	if err := gw.ClearRange(ctx, containerID, tail); err != nil {
		return plan.Result, fmt.Errorf("clearing remote %s: %w", t.name, err)
	}

	log.Info("merged table",
		"table", t.name,
		"local_wins", plan.Result.LocalWins,
		"local_only", plan.Result.LocalOnly,
		"remote_wins", plan.Result.RemoteWins,
		"imported", plan.Result.Imported,
		"skipped", plan.Result.Skipped,
	)
	return plan.Result, nil
}

func decodeRows[T any](rows [][]string, t table[T], log *logger.Logger) ([]T, int) {
	// Sheet row numbers are 1-based.
	first := 1
	if len(rows) > 0 && tabular.IsHeader(rows[0]) {
		rows = rows[1:]
		first = 2
	}
	out := make([]T, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		if blank(row) {
			continue
		}
		rec, err := t.decode(row)
		if err != nil {
			log.Warn("skipping remote row", "table", t.name, "row", first+i, "error", err.Error())
			skipped++
			continue
		}
		if t.inspect != nil {
			t.inspect(row, rec)
		}
		out = append(out, rec)
	}
	return out, skipped
}

func blank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
