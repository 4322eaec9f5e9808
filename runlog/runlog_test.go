package runlog

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aman-coder03/microyield-go/yield"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testRun(ts time.Time) *yield.DistributionRun {
	return &yield.DistributionRun{
		TotalPrincipal:      decimal.RequireFromString("1000"),
		DailyYieldGenerated: decimal.RequireFromString("0.2191780"),
		Credited: []yield.CreditEntry{{
			Account:    "GALICE",
			Principal:  decimal.RequireFromString("250"),
			YieldAdded: decimal.RequireFromString("0.0547945"),
			Hash:       "deadbeef",
		}},
		Timestamp: ts,
	}
}

func TestRecordAndLatest(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Latest()
	assert.ErrorIs(t, err, ErrNoRuns)

	first := testRun(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	second := testRun(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	require.NoError(t, s.Record(first))
	require.NoError(t, s.Record(second))

	latest, err := s.Latest()
	require.NoError(t, err)
	assert.True(t, latest.Timestamp.Equal(second.Timestamp))
	assert.True(t, latest.TotalPrincipal.Equal(second.TotalPrincipal))
	require.Len(t, latest.Credited, 1)
	assert.Equal(t, "GALICE", latest.Credited[0].Account)
	assert.True(t, latest.Credited[0].YieldAdded.Equal(decimal.RequireFromString("0.0547945")))
}

func TestRecordNilRun(t *testing.T) {
	s := openTestStore(t)
	assert.ErrorIs(t, s.Record(nil), ErrNilRun)
}

func TestHasRunOn(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Record(testRun(time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC))))

	sameDay, err := s.HasRunOn(time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, sameDay)

	nextDay, err := s.HasRunOn(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, nextDay)

	prevDay, err := s.HasRunOn(time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, prevDay)
}

func TestHasRunOnNonUTCInput(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Record(testRun(time.Date(2026, 3, 1, 1, 0, 0, 0, time.UTC))))

	// 2026-02-28 20:00 -05:00 is 2026-03-01 01:00 UTC.
	est := time.FixedZone("EST", -5*60*60)
	got, err := s.HasRunOn(time.Date(2026, 2, 28, 20, 0, 0, 0, est))
	require.NoError(t, err)
	assert.True(t, got, "day boundaries are evaluated in UTC")
}

func TestReopenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(testRun(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	latest, err := s.Latest()
	require.NoError(t, err)
	assert.True(t, latest.DailyYieldGenerated.Equal(decimal.RequireFromString("0.2191780")))
}
