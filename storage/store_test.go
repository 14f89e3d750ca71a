package storage

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	s, err := Open(context.Background(), Config{Driver: DriverSQLite, DSN: dsn}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Stop() })
	return s
}

func TestSaveRaceLinksSessionLaps(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	for i, lt := range []float64{31.5, 29.25, 30.0} {
		require.NoError(t, s.SaveLap(ctx, &LapRecord{Session: "s1", Car: "Kart", Lap: i + 1, LapTime: lt}))
	}
	require.NoError(t, s.SaveLap(ctx, &LapRecord{Session: "s2", Car: "Kart", Lap: 1, LapTime: 40}))

	res := &RaceResult{Car: "Kart", Kart: "koji", Laps: 3, TotalTime: 90.75, BestLap: 29.25}
	require.NoError(t, s.SaveRace(ctx, "s1", res))
	require.NotZero(t, res.ID)

	got, err := s.Race(ctx, res.ID)
	require.NoError(t, err)
	require.Len(t, got.LapTimes, 3)
	assert.Equal(t, 1, got.LapTimes[0].Lap)
	assert.Equal(t, 29.25, got.BestLap)

	races, err := s.Races(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, races, 1)
}

func TestBestLaps(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	for _, lt := range []float64{33, 28, 35, 30} {
		require.NoError(t, s.SaveLap(ctx, &LapRecord{Session: "s", Car: "Kart", LapTime: lt}))
	}

	best, err := s.BestLaps(ctx, 2)
	require.NoError(t, err)
	require.Len(t, best, 2)
	assert.Equal(t, 28.0, best[0].LapTime)
	assert.Equal(t, 30.0, best[1].LapTime)
}

func TestRaceNotFound(t *testing.T) {
	s := openTest(t)
	_, err := s.Race(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClosedAndUnknownDriver(t *testing.T) {
	s := New(Config{}, zerolog.Nop())
	assert.Equal(t, DriverSQLite, s.cfg.Driver)
	assert.Equal(t, MemoryDSN, s.cfg.DSN)
	assert.ErrorIs(t, s.SaveLap(context.Background(), &LapRecord{}), ErrClosed)
	assert.NoError(t, s.Stop())

	_, err := Open(context.Background(), Config{Driver: "mongo"}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrUnknownDriver)
}
