package observations

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"preciazo-backend/lib/precio"
	"preciazo-backend/lib/testutil"
	"preciazo-backend/services/observations/db"

	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (Service, context.Context) {
	result, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "observations",
		DbSchema: db.Schema,
	})
	t.Cleanup(cleanup)
	t.Cleanup(func() { result.DB.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	t.Cleanup(cancel)

	return NewService(result.DB), ctx
}

func TestAppendThenHistoryOrdering(t *testing.T) {
	service, ctx := setup(t)

	base := time.Date(2024, time.March, 2, 12, 0, 0, 0, time.UTC)
	t1 := base
	t2 := base.Add(time.Hour)
	t3 := base.Add(2 * time.Hour)

	// inserted out of order on purpose, read order is by fetch time
	for _, fetchedAt := range []time.Time{t2, t3, t1} {
		err := service.Append(ctx, precio.Point{
			EAN:            "7790001",
			PrecioCentavos: precio.Centavos(19990),
			InStock:        precio.Stock(true),
		}, fetchedAt)
		require.NoError(t, err)
	}

	history, err := service.History(ctx, "7790001")
	require.NoError(t, err)
	require.Len(t, history, 3)
	require.Equal(t, t1.Unix(), history[0].FetchedAt.Unix())
	require.Equal(t, t2.Unix(), history[1].FetchedAt.Unix())
	require.Equal(t, t3.Unix(), history[2].FetchedAt.Unix())
}

func TestHistoryBreaksFetchTimeTiesByInsertion(t *testing.T) {
	service, ctx := setup(t)

	fetchedAt := time.Date(2024, time.March, 2, 12, 0, 0, 0, time.UTC)

	// three observations sharing one fetch time, distinguishable by price
	prices := []int64{19990, 20990, 21990}
	for _, p := range prices {
		err := service.Append(ctx, precio.Point{
			EAN:            "7790001",
			PrecioCentavos: precio.Centavos(p),
		}, fetchedAt)
		require.NoError(t, err)
	}

	history, err := service.History(ctx, "7790001")
	require.NoError(t, err)
	require.Len(t, history, 3)
	for i, p := range prices {
		require.NotNil(t, history[i].PrecioCentavos)
		require.Equal(t, p, *history[i].PrecioCentavos)
	}
	require.Less(t, history[0].ID, history[1].ID)
	require.Less(t, history[1].ID, history[2].ID)
}

func TestHistoryUnknownEan(t *testing.T) {
	service, ctx := setup(t)

	history, err := service.History(ctx, "0000000")
	require.NoError(t, err)
	require.Len(t, history, 0)
}

func TestAppendRejectsInvalidRecords(t *testing.T) {
	service, ctx := setup(t)

	err := service.Append(ctx, precio.Point{PrecioCentavos: precio.Centavos(100)}, time.Now())
	require.True(t, errors.Is(err, precio.ErrInvalidRecord))

	err = service.Append(ctx, precio.Point{
		EAN:            "7790001",
		PrecioCentavos: precio.Centavos(-50),
	}, time.Now())
	require.True(t, errors.Is(err, precio.ErrInvalidRecord))

	history, err := service.History(ctx, "7790001")
	require.NoError(t, err)
	require.Len(t, history, 0)
}

func TestLatestMetadata(t *testing.T) {
	service, ctx := setup(t)

	base := time.Date(2024, time.March, 2, 12, 0, 0, 0, time.UTC)

	err := service.Append(ctx, precio.Point{
		EAN:  "7790001",
		Name: "Yerba Mate Taragui 500 Gr.",
	}, base)
	require.NoError(t, err)

	// later observation without a name must not shadow the metadata
	err = service.Append(ctx, precio.Point{
		EAN:            "7790001",
		PrecioCentavos: precio.Centavos(20990),
	}, base.Add(time.Hour))
	require.NoError(t, err)

	meta, ok, err := service.LatestMetadata(ctx, "7790001")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Yerba Mate Taragui 500 Gr.", meta.Name)
	require.Equal(t, base.Unix(), meta.FetchedAt.Unix())

	err = service.Append(ctx, precio.Point{
		EAN:  "7790001",
		Name: "Yerba Mate Taragui Sin Palo 500 Gr.",
	}, base.Add(2*time.Hour))
	require.NoError(t, err)

	meta, ok, err = service.LatestMetadata(ctx, "7790001")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Yerba Mate Taragui Sin Palo 500 Gr.", meta.Name)

	_, ok, err = service.LatestMetadata(ctx, "0000000")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestApproximateCount(t *testing.T) {
	service, ctx := setup(t)

	count, err := service.ApproximateCount(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(0), count)

	for i := 0; i < 5; i++ {
		err := service.Append(ctx, precio.Point{EAN: "7790001"}, time.Now())
		require.NoError(t, err)
	}

	count, err = service.ApproximateCount(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(5), count)
}

func TestConcurrentAppendsStaySeparate(t *testing.T) {
	service, ctx := setup(t)

	const perEan = 20
	var wg sync.WaitGroup
	for _, ean := range []string{"7790001", "7790002"} {
		ean := ean
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perEan; i++ {
				err := service.Append(ctx, precio.Point{
					EAN:  ean,
					Name: fmt.Sprintf("producto %s", ean),
				}, time.Now().Add(time.Duration(i)*time.Second))
				if err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	for _, ean := range []string{"7790001", "7790002"} {
		history, err := service.History(ctx, ean)
		require.NoError(t, err)
		require.Len(t, history, perEan)
		for _, row := range history {
			require.Equal(t, ean, row.EAN)
		}
	}
}
