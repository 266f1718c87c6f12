package remote

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRange(t *testing.T) {
	assert.Equal(t, "Activities!A1:H", Range("Activities", 8))
	assert.Equal(t, "Sessions!A1:G", Range("Sessions", 7))
	assert.Equal(t, "Wide!A1:AB", Range("Wide", 28))
	assert.Equal(t, "Sessions", TableOf("Sessions!A1:G"))
	assert.Equal(t, "Plain", TableOf("Plain"))
	assert.Equal(t, "Sessions!A4:G", RangeFrom("Sessions", 7, 4))
	assert.Equal(t, 4, StartRow("Sessions!A4:G"))
	assert.Equal(t, 12, StartRow("Sessions!AB12:G"))
	assert.Equal(t, 1, StartRow("Sessions"))
	assert.Equal(t, 1, StartRow("Sessions!A:G"))
}

func TestMemory_ContainerLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, found, err := m.FindContainer(ctx, "Tally")
	require.NoError(t, err)
	assert.False(t, found)

	id, err := m.CreateContainer(ctx, "Tally", []string{"Activities"})
	require.NoError(t, err)

	got, found, err := m.FindContainer(ctx, "Tally")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, id, got)

	require.NoError(t, m.CreateTable(ctx, id, "Sessions"))
	tables, err := m.ListTables(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Activities", "Sessions"}, tables)

	err = m.CreateTable(ctx, id, "Sessions")
	assert.ErrorIs(t, err, domain.ErrGateway)
}

func TestMemory_WriteReadClear(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	id, err := m.CreateContainer(ctx, "Tally", []string{"Sessions"})
	require.NoError(t, err)
	rng := Range("Sessions", 7)

	rows := [][]string{{"sync_id"}, {"s1"}, {"s2"}}
	require.NoError(t, m.WriteRange(ctx, id, rng, rows))
	rows[1][0] = "mutated"

	got, err := m.ReadRange(ctx, id, rng)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"sync_id"}, {"s1"}, {"s2"}}, got, "writes are copied")

	require.NoError(t, m.WriteRange(ctx, id, rng, [][]string{{"sync_id"}}))
	got, err = m.ReadRange(ctx, id, rng)
	require.NoError(t, err)
	assert.Len(t, got, 3, "a shorter write leaves lower rows in place")

	require.NoError(t, m.ClearRange(ctx, id, RangeFrom("Sessions", 7, 2)))
	got, err = m.ReadRange(ctx, id, rng)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"sync_id"}}, got)

	require.NoError(t, m.ClearRange(ctx, id, rng))
	got, err = m.ReadRange(ctx, id, rng)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemory_WriteRangeHonorsStartRow(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	id, err := m.CreateContainer(ctx, "Tally", []string{"Sessions"})
	require.NoError(t, err)
	rng := Range("Sessions", 7)

	require.NoError(t, m.WriteRange(ctx, id, rng, [][]string{{"sync_id"}, {"s1"}, {"s2"}}))
	require.NoError(t, m.WriteRange(ctx, id, RangeFrom("Sessions", 7, 3), [][]string{{"s9"}}))
	got, err := m.ReadRange(ctx, id, rng)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"sync_id"}, {"s1"}, {"s9"}}, got)

	require.NoError(t, m.WriteRange(ctx, id, RangeFrom("Sessions", 7, 6), [][]string{{"s5"}}))
	got, err = m.ReadRange(ctx, id, rng)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"sync_id"}, {"s1"}, {"s9"}, {}, {}, {"s5"}}, got, "rows above the range are blank-filled")
}

func TestMemory_MissingTableIsGatewayError(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	id, err := m.CreateContainer(ctx, "Tally", nil)
	require.NoError(t, err)

	_, err = m.ReadRange(ctx, id, "Nope!A1:B")
	assert.ErrorIs(t, err, domain.ErrGateway)
	_, err = m.ListTables(ctx, "unknown")
	assert.ErrorIs(t, err, domain.ErrGateway)
}

func TestMemory_FailureInjection(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	id, err := m.CreateContainer(ctx, "Tally", []string{"Activities", "Sessions"})
	require.NoError(t, err)

	boom := errors.New("quota exceeded")
	m.Fail("WriteRange", "Sessions", boom)

	require.NoError(t, m.WriteRange(ctx, id, "Activities!A1:H", [][]string{{"x"}}))
	err = m.WriteRange(ctx, id, "Sessions!A1:G", [][]string{{"x"}})
	assert.ErrorIs(t, err, domain.ErrGateway)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, m.Table(id, "Sessions"), "failed write leaves the table untouched")

	m.Fail("WriteRange", "Sessions", nil)
	require.NoError(t, m.WriteRange(ctx, id, "Sessions!A1:G", [][]string{{"x"}}))

	m.Fail("ReadRange", "", boom)
	_, err = m.ReadRange(ctx, id, "Activities!A1:H")
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, []string{
		"CreateContainer",
		"WriteRange:Activities",
		"WriteRange:Sessions",
		"WriteRange:Sessions",
		"ReadRange:Activities",
	}, m.Calls())
}
