package signals_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	apperrors "github.com/jrsteele09/go-signal-server/internal/errors"
	"github.com/jrsteele09/go-signal-server/signals"
	"github.com/stretchr/testify/require"
)

func TestLedger_Append(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	l := signals.NewLedger(signals.WithNowFunc(func() time.Time { return now }))

	t.Run("advisor ingress keeps casing", func(t *testing.T) {
		s, err := l.Append("eurUsd", "BUY", signals.AdvisorIngress)
		require.NoError(t, err)
		require.Equal(t, int64(1), s.ID)
		require.Equal(t, "eurUsd", s.Asset)
		require.Equal(t, "BUY", s.Signal)
		require.Equal(t, "MT4 Advisor", s.Source)
		require.Equal(t, now, s.Timestamp)
	})

	t.Run("query ingress normalizes casing", func(t *testing.T) {
		s, err := l.Append("eurUsd", "BUY", signals.QueryIngress)
		require.NoError(t, err)
		require.Equal(t, int64(2), s.ID)
		require.Equal(t, "EURUSD", s.Asset)
		require.Equal(t, "buy", s.Signal)
	})

	t.Run("normalization is configurable per ingress", func(t *testing.T) {
		s, err := l.Append("gbpUsd", "Sell", signals.AdvisorIngress.WithNormalize(true))
		require.NoError(t, err)
		require.Equal(t, "GBPUSD", s.Asset)
		require.Equal(t, "sell", s.Signal)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := l.Append("", "buy", signals.AdvisorIngress)
		require.ErrorIs(t, err, apperrors.ErrInvalidRequest)

		_, err = l.Append("EURUSD", "  ", signals.QueryIngress)
		require.ErrorIs(t, err, apperrors.ErrInvalidRequest)
		require.Equal(t, 3, l.Len())
	})
}

func TestLedger_EvictsOldestFirst(t *testing.T) {
	const limit = 1000
	l := signals.NewLedger()

	for i := 0; i < limit+250; i++ {
		_, err := l.Append(fmt.Sprintf("A%d", i), "buy", signals.AdvisorIngress)
		require.NoError(t, err)
		require.LessOrEqual(t, l.Len(), limit)
	}

	all := l.ListAll()
	require.Len(t, all, limit)
	require.Equal(t, int64(limit+250), all[0].ID)
	require.Equal(t, int64(251), all[len(all)-1].ID)
	for i := 1; i < len(all); i++ {
		require.Greater(t, all[i-1].ID, all[i].ID)
	}
}

func TestLedger_ListRecentAndStats(t *testing.T) {
	l := signals.NewLedger(signals.WithHistoryLimit(5))
	for _, dir := range []string{"buy", "sell", "BUY", "buy", "hold", "sell"} {
		_, err := l.Append("XAUUSD", dir, signals.AdvisorIngress)
		require.NoError(t, err)
	}

	recent := l.ListRecent(2)
	require.Len(t, recent, 2)
	require.Equal(t, int64(6), recent[0].ID)
	require.Equal(t, int64(5), recent[1].ID)

	require.Len(t, l.ListRecent(50), 5)
	require.Empty(t, l.ListRecent(0))

	stats := l.Stats(3)
	require.Equal(t, 5, stats.Total)
	require.Equal(t, map[string]int{"sell": 2, "buy": 2, "hold": 1}, stats.ByDirection)
	require.Len(t, stats.Recent, 3)

	latest, ok := l.Latest()
	require.True(t, ok)
	require.Equal(t, int64(6), latest.ID)
}

func TestLedger_ConcurrentAppendsKeepUniqueIDs(t *testing.T) {
	l := signals.NewLedger(signals.WithHistoryLimit(100))

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_, _ = l.Append("BTCUSD", "buy", signals.QueryIngress)
			}
		}()
	}
	wg.Wait()

	all := l.ListAll()
	require.Len(t, all, 100)
	require.Equal(t, int64(400), all[0].ID)
	for i := 1; i < len(all); i++ {
		require.Equal(t, all[i-1].ID-1, all[i].ID)
	}
}

func TestLedger_EmptyLatest(t *testing.T) {
	_, ok := signals.NewLedger().Latest()
	require.False(t, ok)
}
