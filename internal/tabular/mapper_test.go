package tabular

import (
	"math"
	"testing"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSession_RunRow(t *testing.T) {
	row := Row{"s2", "Run", "1000", "2000", `["a1"]`, "1500", ""}

	s, err := DecodeSession(row)
	require.NoError(t, err)
	assert.Equal(t, "s2", s.SyncID)
	assert.Equal(t, "Run", s.Name)
	assert.Equal(t, int64(1000), s.StartTime)
	assert.Equal(t, int64(2000), s.EndTime)
	assert.Equal(t, []string{"a1"}, s.ActivityIDs)
	assert.Equal(t, int64(1500), s.UpdatedAt)
	assert.Nil(t, s.DeletedAt)
}

func TestActivityRoundTrip(t *testing.T) {
	cases := []*domain.Activity{
		testutil.NewTestActivity("Read", testutil.WithGoal(2.5, domain.GoalWeekly)),
		testutil.NewTestActivity("Zero", testutil.WithGoal(0, domain.GoalDaily), testutil.WithActivityDeletedAt(123456789)),
		testutil.NewTestActivity("Tiny", testutil.WithGoal(0.1+0.2, domain.GoalYearly), testutil.WithColor("")),
		testutil.NewTestActivity("Big", testutil.WithGoal(math.MaxFloat64, domain.GoalMonthly)),
		testutil.NewTestActivity(`Commas, "quotes" and [brackets]`),
	}
	for _, a := range cases {
		t.Run(a.Name, func(t *testing.T) {
			got, err := DecodeActivity(EncodeActivity(a))
			require.NoError(t, err)
			assert.True(t, a.SameValue(got), "want %+v, got %+v", a, got)
			assert.Equal(t, a.CreatedAt, got.CreatedAt)
		})
	}
}

func TestSessionRoundTrip(t *testing.T) {
	cases := []*domain.Session{
		testutil.NewTestSession("None"),
		testutil.NewTestSession("Two", testutil.WithActivities("a1", "a2")),
		testutil.NewTestSession("Gone", testutil.WithActivities("a1"), testutil.WithSessionDeletedAt(42)),
		testutil.NewTestSession("Odd ids", testutil.WithActivities(`quo"te`, "", "ünï")),
	}
	for _, s := range cases {
		t.Run(s.Name, func(t *testing.T) {
			got, err := DecodeSession(EncodeSession(s))
			require.NoError(t, err)
			assert.True(t, s.SameValue(got), "want %+v, got %+v", s, got)
		})
	}
}

func TestEncode_NullIsEmptyCell(t *testing.T) {
	a := testutil.NewTestActivity("Live")
	assert.Equal(t, "", EncodeActivity(a)[7])

	s := testutil.NewTestSession("Live")
	row := EncodeSession(s)
	assert.Equal(t, "", row[6])
	assert.Equal(t, "[]", row[4])
}

func TestEncodeSession_NilIDsWriteEmptyArray(t *testing.T) {
	s := testutil.NewTestSession("x")
	s.ActivityIDs = nil
	assert.Equal(t, "[]", EncodeSession(s)[4])
}

func TestEncodeActivity_ShortestFloat(t *testing.T) {
	a := testutil.NewTestActivity("x", testutil.WithGoal(3, domain.GoalDaily))
	assert.Equal(t, "3", EncodeActivity(a)[2])

	a.Goal = 1.25
	assert.Equal(t, "1.25", EncodeActivity(a)[2])
}

func TestDecodeSession_UnparsableIDsRecoverToEmpty(t *testing.T) {
	for _, cell := range []string{"not json", `{"a":1}`, "null", "[1,2]", ""} {
		row := Row{"s1", "Run", "1", "2", cell, "3", ""}
		s, err := DecodeSession(row)
		require.NoError(t, err, cell)
		assert.NotNil(t, s.ActivityIDs, cell)
		assert.Empty(t, s.ActivityIDs, cell)
	}
}

func TestRecoveredIDs(t *testing.T) {
	assert.True(t, RecoveredIDs(Row{"s1", "Run", "1", "2", "garbage"}))
	assert.False(t, RecoveredIDs(Row{"s1", "Run", "1", "2", `["a"]`}))
	assert.False(t, RecoveredIDs(Row{"s1", "Run", "1", "2"}))
}

func TestDecode_PadsShortRows(t *testing.T) {
	a, err := DecodeActivity(Row{"a1", "Read", "1", "daily", "#fff", "10", "20"})
	require.NoError(t, err)
	assert.Nil(t, a.DeletedAt)
	assert.Equal(t, int64(20), a.UpdatedAt)

	s, err := DecodeSession(Row{"s1", "Run", "1", "2", `["a1"]`, "5"})
	require.NoError(t, err)
	assert.Nil(t, s.DeletedAt)
}

func TestDecode_MalformedRows(t *testing.T) {
	activityRows := []Row{
		{"", "Read", "1", "daily", "#fff", "10", "20", ""},
		{"a1", "Read", "lots", "daily", "#fff", "10", "20", ""},
		{"a1", "Read", "1", "daily", "#fff", "", "20", ""},
		{"a1", "Read", "1", "daily", "#fff", "10", "20", "yesterday"},
		{"a1", "Read", "1", "", "#fff", "10", "20", ""},
		{"a1", "Read", "1", "hourly", "#fff", "10", "20", ""},
		{"a1", "Read", "NaN", "daily", "#fff", "10", "20", ""},
		{"a1", "Read", "+Inf", "daily", "#fff", "10", "20", ""},
		{"a1", "Read", "-inf", "daily", "#fff", "10", "20", ""},
		{"a9", "Yoga", "1", "", "", "1", "5"},
		{"a1"},
	}
	for _, row := range activityRows {
		_, err := DecodeActivity(row)
		assert.ErrorIs(t, err, domain.ErrMalformedRow, "%v", row)
	}

	_, err := DecodeSession(Row{"s1", "Run", "1.5", "2", "[]", "3", ""})
	assert.ErrorIs(t, err, domain.ErrMalformedRow)
	assert.Contains(t, err.Error(), "start_time")
}

func TestIsHeader(t *testing.T) {
	assert.True(t, IsHeader(ActivityColumns))
	assert.True(t, IsHeader(SessionColumns))
	assert.False(t, IsHeader(Row{"a1"}))
	assert.False(t, IsHeader(nil))
}
