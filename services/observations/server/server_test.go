package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"preciazo-backend/lib/precio"
	"preciazo-backend/lib/testutil"
	"preciazo-backend/services/observations"
	"preciazo-backend/services/observations/db"

	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *http.ServeMux {
	result, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "observations/server",
		DbSchema: db.Schema,
	})
	t.Cleanup(cleanup)
	t.Cleanup(func() { result.DB.Close() })

	service := observations.NewService(result.DB)

	fetchedAt := time.Date(2024, time.March, 2, 12, 0, 0, 0, time.UTC)
	err := service.Append(context.Background(), precio.Point{
		EAN:            "7790001",
		PrecioCentavos: precio.Centavos(19990),
		InStock:        precio.Stock(true),
		Name:           "Yerba Mate Taragui 500 Gr.",
	}, fetchedAt)
	require.NoError(t, err)
	err = service.Append(context.Background(), precio.Point{
		EAN:            "7790001",
		PrecioCentavos: precio.Centavos(20990),
	}, fetchedAt.Add(time.Hour))
	require.NoError(t, err)

	mux := http.NewServeMux()
	New(service).Register(mux)
	return mux
}

func get(t *testing.T, mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHistoryEndpoint(t *testing.T) {
	mux := setup(t)

	rec := get(t, mux, "/api/products/7790001/history")
	require.Equal(t, http.StatusOK, rec.Code)

	var history []observationJson
	err := json.Unmarshal(rec.Body.Bytes(), &history)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, "7790001", history[0].EAN)
	require.NotNil(t, history[0].PrecioCentavos)
	require.Equal(t, int64(19990), *history[0].PrecioCentavos)
	require.True(t, history[0].FetchedAt < history[1].FetchedAt)
}

func TestHistoryNotFound(t *testing.T) {
	mux := setup(t)

	rec := get(t, mux, "/api/products/0000000/history")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLatestEndpoint(t *testing.T) {
	mux := setup(t)

	rec := get(t, mux, "/api/products/7790001")
	require.Equal(t, http.StatusOK, rec.Code)

	var meta observationJson
	err := json.Unmarshal(rec.Body.Bytes(), &meta)
	require.NoError(t, err)
	// the second observation has no name, metadata comes from the first
	require.Equal(t, "Yerba Mate Taragui 500 Gr.", meta.Name)

	rec = get(t, mux, "/api/products/0000000")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatsEndpoint(t *testing.T) {
	mux := setup(t)

	rec := get(t, mux, "/api/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats map[string]int64
	err := json.Unmarshal(rec.Body.Bytes(), &stats)
	require.NoError(t, err)
	require.Equal(t, int64(2), stats["approximate_count"])
}
