// Package remote defines the tabular backend the sync engine replicates to.
// A container is a named document holding one table per entity type.
package remote

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Gateway is the remote tabular backend. Every error returned by an
// implementation wraps domain.ErrGateway. Writes replace the target range
// wholesale; the last caller wins.
type Gateway interface {
	// FindContainer looks a container up by name. found is false when none
	// exists.
	FindContainer(ctx context.Context, name string) (id string, found bool, err error)
	// CreateContainer creates a container holding the named empty tables.
	CreateContainer(ctx context.Context, name string, tables []string) (id string, err error)
	ListTables(ctx context.Context, containerID string) ([]string, error)
	CreateTable(ctx context.Context, containerID, table string) error
	// ReadRange returns the rows of rng in order, header row first.
	ReadRange(ctx context.Context, containerID, rng string) ([][]string, error)
	WriteRange(ctx context.Context, containerID, rng string, rows [][]string) error
	ClearRange(ctx context.Context, containerID, rng string) error
}

// Range returns the A1 range covering every row of the first columns
// columns of table, e.g. Range("Activities", 8) == "Activities!A1:H".
func Range(table string, columns int) string {
	return RangeFrom(table, columns, 1)
}

// RangeFrom is Range starting at the 1-based row fromRow.
func RangeFrom(table string, columns, fromRow int) string {
	return fmt.Sprintf("%s!A%d:%s", table, fromRow, columnLetter(columns))
}

// StartRow returns the 1-based first row of an A1 range, or 1 when the
// range names a whole table.
func StartRow(rng string) int {
	cell := rng[len(TableOf(rng)):]
	cell = strings.TrimPrefix(cell, "!")
	if i := strings.IndexByte(cell, ':'); i >= 0 {
		cell = cell[:i]
	}
	digits := strings.TrimLeft(cell, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// TableOf returns the table part of an A1 range.
func TableOf(rng string) string {
	for i := len(rng) - 1; i >= 0; i-- {
		if rng[i] == '!' {
			return rng[:i]
		}
	}
	return rng
}

func columnLetter(n int) string {
	var out []byte
	for n > 0 {
		n--
		out = append([]byte{byte('A' + n%26)}, out...)
		n /= 26
	}
	return string(out)
}
