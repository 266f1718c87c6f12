// Package tabular maps activities and sessions to and from the flat rows
// stored in the remote sub-tables. Column order is fixed per entity type.
package tabular

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/alexanderramin/tally/internal/domain"
)

// ActivityColumns is the Activities sub-table header. Never reorder without
// migrating existing remote tables.
var ActivityColumns = []string{
	"sync_id", "name", "goal", "goal_scale", "color", "created_at", "updated_at", "deleted_at",
}

// SessionColumns is the Sessions sub-table header.
var SessionColumns = []string{
	"sync_id", "name", "start_time", "end_time", "activity_ids", "updated_at", "deleted_at",
}

// Row is one line of a remote sub-table.
type Row = []string

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

func formatNullable(v *int64) string {
	if v == nil {
		return ""
	}
	return formatInt(*v)
}

// formatFloat writes the shortest decimal that parses back to exactly g.
func formatFloat(g float64) string {
	return strconv.FormatFloat(g, 'f', -1, 64)
}

// pad extends row to n cells. Remote backends drop trailing empty cells.
func pad(row Row, n int) Row {
	if len(row) >= n {
		return row
	}
	out := make(Row, n)
	copy(out, row)
	return out
}

// IsHeader reports whether row starts with the sync_id column title.
func IsHeader(row Row) bool {
	return len(row) > 0 && row[0] == "sync_id"
}

type cellParser struct {
	syncID string
	err    error
}

func (p *cellParser) int(column, cell string) int64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseInt(cell, 10, 64)
	if err != nil {
		p.err = fmt.Errorf("row %s: column %s: %q is not an integer: %w", p.syncID, column, cell, domain.ErrMalformedRow)
	}
	return v
}

func (p *cellParser) nullable(column, cell string) *int64 {
	if cell == "" {
		return nil
	}
	v := p.int(column, cell)
	if p.err != nil {
		return nil
	}
	return &v
}

func (p *cellParser) float(column, cell string) float64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		p.err = fmt.Errorf("row %s: column %s: %q is not a finite number: %w", p.syncID, column, cell, domain.ErrMalformedRow)
		return 0
	}
	return v
}

func (p *cellParser) scale(column, cell string) domain.GoalScale {
	if p.err != nil {
		return ""
	}
	scale := domain.GoalScale(cell)
	if !domain.ValidGoalScales[scale] {
		p.err = fmt.Errorf("row %s: column %s: %q is not a goal scale: %w", p.syncID, column, cell, domain.ErrMalformedRow)
	}
	return scale
}

func newCellParser(row Row) (*cellParser, error) {
	if row[0] == "" {
		return nil, fmt.Errorf("row without sync_id: %w", domain.ErrMalformedRow)
	}
	return &cellParser{syncID: row[0]}, nil
}

// EncodeActivity flattens a into ActivityColumns order.
func EncodeActivity(a *domain.Activity) Row {
	return Row{
		a.SyncID,
		a.Name,
		formatFloat(a.Goal),
		string(a.GoalScale),
		a.Color,
		formatInt(a.CreatedAt),
		formatInt(a.UpdatedAt),
		formatNullable(a.DeletedAt),
	}
}

// DecodeActivity parses a row in ActivityColumns order. It fails with
// domain.ErrMalformedRow if sync_id is empty, a numeric cell does not parse
// to a finite number, or goal_scale is not a known scale.
func DecodeActivity(row Row) (*domain.Activity, error) {
	row = pad(row, len(ActivityColumns))
	p, err := newCellParser(row)
	if err != nil {
		return nil, err
	}
	a := &domain.Activity{
		SyncID:    row[0],
		Name:      row[1],
		Goal:      p.float("goal", row[2]),
		GoalScale: p.scale("goal_scale", row[3]),
		Color:     row[4],
		CreatedAt: p.int("created_at", row[5]),
		UpdatedAt: p.int("updated_at", row[6]),
		DeletedAt: p.nullable("deleted_at", row[7]),
	}
	if p.err != nil {
		return nil, p.err
	}
	return a, nil
}

// EncodeSession flattens s into SessionColumns order. ActivityIDs is
// written as a JSON array literal.
func EncodeSession(s *domain.Session) Row {
	return Row{
		s.SyncID,
		s.Name,
		formatInt(s.StartTime),
		formatInt(s.EndTime),
		encodeIDs(s.ActivityIDs),
		formatInt(s.UpdatedAt),
		formatNullable(s.DeletedAt),
	}
}

// DecodeSession parses a row in SessionColumns order. An unparsable
// activity_ids cell decodes to an empty list; see DecodeIDs.
func DecodeSession(row Row) (*domain.Session, error) {
	row = pad(row, len(SessionColumns))
	p, err := newCellParser(row)
	if err != nil {
		return nil, err
	}
	ids, _ := DecodeIDs(row[4])
	s := &domain.Session{
		SyncID:      row[0],
		Name:        row[1],
		StartTime:   p.int("start_time", row[2]),
		EndTime:     p.int("end_time", row[3]),
		ActivityIDs: ids,
		UpdatedAt:   p.int("updated_at", row[5]),
		DeletedAt:   p.nullable("deleted_at", row[6]),
	}
	if p.err != nil {
		return nil, p.err
	}
	return s, nil
}

func encodeIDs(ids []string) string {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// DecodeIDs parses a JSON array literal of sync_ids. It always returns a
// usable non-nil list; ok is false when cell could not be parsed and the
// empty list was substituted.
func DecodeIDs(cell string) (ids []string, ok bool) {
	if cell == "" {
		return []string{}, false
	}
	if err := json.Unmarshal([]byte(cell), &ids); err != nil || ids == nil {
		return []string{}, false
	}
	return ids, true
}

// RecoveredIDs reports whether decoding the session row would substitute
// an empty activity_ids list for an unparsable cell.
func RecoveredIDs(row Row) bool {
	row = pad(row, len(SessionColumns))
	if row[4] == "" {
		return false
	}
	_, ok := DecodeIDs(row[4])
	return !ok
}
