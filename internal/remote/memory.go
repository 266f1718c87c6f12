package remote

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/alexanderramin/tally/internal/domain"
)

// Memory is an in-process Gateway. It backs tests and dry runs.
//
// Fail injects an error for an operation, optionally scoped to one table:
// Fail("WriteRange", "Sessions", err) fails only session writes, and
// Fail("FindContainer", "", err) fails every lookup.
type Memory struct {
	mu         sync.Mutex
	containers map[string]*memContainer
	byName     map[string]string
	failures   map[string]error
	calls      []string
	nextID     int
}

type memContainer struct {
	name   string
	tables map[string][][]string
}

func NewMemory() *Memory {
	return &Memory{
		containers: make(map[string]*memContainer),
		byName:     make(map[string]string),
		failures:   make(map[string]error),
	}
}

// Fail makes op return err until cleared with a nil err.
func (m *Memory) Fail(op, table string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := failureKey(op, table)
	if err == nil {
		delete(m.failures, key)
		return
	}
	m.failures[key] = err
}

// Calls returns the operations issued so far, as "Op" or "Op:table".
func (m *Memory) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.calls)
}

// Table returns a copy of a table's rows, for assertions.
func (m *Memory) Table(containerID, table string) [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.containers[containerID]
	if !ok {
		return nil
	}
	return cloneRows(c.tables[table])
}

// SetTable replaces a table's rows, creating the table if needed.
func (m *Memory) SetTable(containerID, table string, rows [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.containers[containerID]; ok {
		c.tables[table] = cloneRows(rows)
	}
}

func failureKey(op, table string) string {
	if table == "" {
		return op
	}
	return op + ":" + table
}

// enter records the call and returns any injected failure. Caller holds mu.
func (m *Memory) enter(op, table string) error {
	m.calls = append(m.calls, failureKey(op, table))
	if err, ok := m.failures[failureKey(op, table)]; ok {
		return fmt.Errorf("%s: %w: %w", failureKey(op, table), domain.ErrGateway, err)
	}
	if err, ok := m.failures[op]; ok && table != "" {
		return fmt.Errorf("%s: %w: %w", failureKey(op, table), domain.ErrGateway, err)
	}
	return nil
}

func (m *Memory) FindContainer(_ context.Context, name string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("FindContainer", ""); err != nil {
		return "", false, err
	}
	id, ok := m.byName[name]
	return id, ok, nil
}

func (m *Memory) CreateContainer(_ context.Context, name string, tables []string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CreateContainer", ""); err != nil {
		return "", err
	}
	m.nextID++
	id := "mem-" + strconv.Itoa(m.nextID)
	c := &memContainer{name: name, tables: make(map[string][][]string)}
	for _, t := range tables {
		c.tables[t] = nil
	}
	m.containers[id] = c
	m.byName[name] = id
	return id, nil
}

func (m *Memory) ListTables(_ context.Context, containerID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("ListTables", ""); err != nil {
		return nil, err
	}
	c, err := m.container(containerID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(c.tables))
	for t := range c.tables {
		names = append(names, t)
	}
	slices.Sort(names)
	return names, nil
}

func (m *Memory) CreateTable(_ context.Context, containerID, table string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CreateTable", table); err != nil {
		return err
	}
	c, err := m.container(containerID)
	if err != nil {
		return err
	}
	if _, exists := c.tables[table]; exists {
		return fmt.Errorf("table %s already exists: %w", table, domain.ErrGateway)
	}
	c.tables[table] = nil
	return nil
}

func (m *Memory) ReadRange(_ context.Context, containerID, rng string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table := TableOf(rng)
	if err := m.enter("ReadRange", table); err != nil {
		return nil, err
	}
	rows, err := m.table(containerID, table)
	if err != nil {
		return nil, err
	}
	return cloneRows(rows), nil
}

// WriteRange overwrites rows starting at the range's start row. Rows outside
// the written block are left alone and missing rows above it read back
// blank, as in a spreadsheet.
func (m *Memory) WriteRange(_ context.Context, containerID, rng string, rows [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	table := TableOf(rng)
	if err := m.enter("WriteRange", table); err != nil {
		return err
	}
	existing, err := m.table(containerID, table)
	if err != nil {
		return err
	}
	start := StartRow(rng) - 1
	end := start + len(rows)
	out := cloneRows(existing)
	for len(out) < end {
		out = append(out, []string{})
	}
	copy(out[start:end], cloneRows(rows))
	m.containers[containerID].tables[table] = out
	return nil
}

// ClearRange empties rows from the range's start row down. Column bounds
// are ignored.
func (m *Memory) ClearRange(_ context.Context, containerID, rng string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	table := TableOf(rng)
	if err := m.enter("ClearRange", table); err != nil {
		return err
	}
	rows, err := m.table(containerID, table)
	if err != nil {
		return err
	}
	keep := StartRow(rng) - 1
	if keep >= len(rows) {
		return nil
	}
	if keep == 0 {
		m.containers[containerID].tables[table] = nil
		return nil
	}
	m.containers[containerID].tables[table] = rows[:keep]
	return nil
}

func (m *Memory) container(id string) (*memContainer, error) {
	c, ok := m.containers[id]
	if !ok {
		return nil, fmt.Errorf("container %s does not exist: %w", id, domain.ErrGateway)
	}
	return c, nil
}

func (m *Memory) table(containerID, table string) ([][]string, error) {
	c, err := m.container(containerID)
	if err != nil {
		return nil, err
	}
	rows, ok := c.tables[table]
	if !ok {
		return nil, fmt.Errorf("table %s does not exist in %s: %w", table, containerID, domain.ErrGateway)
	}
	return rows, nil
}

func cloneRows(rows [][]string) [][]string {
	if rows == nil {
		return nil
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = slices.Clone(r)
	}
	return out
}

var _ Gateway = (*Memory)(nil)
