package upstream_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"coffer_scanner/internal/infrastructure/upstream"
)

func newFeedServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv
}

func newPricesClient(srv *httptest.Server) *upstream.PricesClient {
	return upstream.NewPricesClient(
		upstream.NewFetcher(upstream.FetcherConfig{Name: "prices"}),
		srv.URL+"/api/v1/osrs",
		"24h",
	)
}

func TestPricesClient_FetchLatestPrices(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "Single envelope",
			body: `{"data":{"1":{"high":1200,"highTime":1700000000,"low":1000,"lowTime":1700000100},"abc":{"high":1}}}`,
		},
		{
			name: "Double envelope",
			body: `{"data":{"data":{"1":{"high":1200,"highTime":1700000000,"low":1000,"lowTime":1700000100}}}}`,
		},
		{
			name: "Bare map",
			body: `{"1":{"high":1200,"highTime":1700000000,"low":1000,"lowTime":1700000100}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rq := require.New(t)

			srv := newFeedServer(t, map[string]string{"/api/v1/osrs/latest": tt.body})

			latest, err := newPricesClient(srv).FetchLatestPrices(context.Background())
			rq.NoError(err)
			rq.Len(latest, 1)
			rq.InDelta(1200, latest[1].High, 0)
			rq.InDelta(1000, latest[1].Low, 0)
			rq.Equal(int64(1700000100), latest[1].LowTime.Unix())
			rq.True(latest[1].Usable())
		})
	}
}

func TestPricesClient_FetchLatestPrices_NullSide(t *testing.T) {
	rq := require.New(t)

	srv := newFeedServer(t, map[string]string{
		"/api/v1/osrs/latest": `{"data":{"2":{"high":null,"highTime":null,"low":500,"lowTime":1700000000}}}`,
	})

	latest, err := newPricesClient(srv).FetchLatestPrices(context.Background())
	rq.NoError(err)
	rq.False(latest[2].Usable())
}

func TestPricesClient_FetchMapping(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "Bare array", body: `[{"id":1,"name":"Rune sword","members":false,"limit":100,"value":20800}]`},
		{name: "Wrapped array", body: `{"data":[{"id":1,"name":"Rune sword","members":false,"limit":100,"value":20800}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rq := require.New(t)

			srv := newFeedServer(t, map[string]string{"/api/v1/osrs/mapping": tt.body})

			items, err := newPricesClient(srv).FetchMapping(context.Background())
			rq.NoError(err)
			rq.Len(items, 1)
			rq.Equal(int64(1), items[0].ID)
			rq.Equal("Rune sword", items[0].Name)
			rq.Equal(100, items[0].Limit)
			rq.True(items[0].Tradable())
		})
	}
}

func TestPricesClient_FetchMapping_UnexpectedShape(t *testing.T) {
	rq := require.New(t)

	srv := newFeedServer(t, map[string]string{"/api/v1/osrs/mapping": `{"items":[]}`})

	_, err := newPricesClient(srv).FetchMapping(context.Background())
	rq.ErrorIs(err, upstream.ErrUnexpectedShape)
}

func TestPricesClient_FetchVolumes(t *testing.T) {
	rq := require.New(t)

	srv := newFeedServer(t, map[string]string{
		"/api/v1/osrs/24h": `{"data":{"1":{"avgHighPrice":1210,"highPriceVolume":40,"avgLowPrice":null,"lowPriceVolume":75}},"timestamp":1700000000}`,
	})

	volumes, err := newPricesClient(srv).FetchVolumes(context.Background())
	rq.NoError(err)
	rq.Equal(int64(75), volumes[1].LowPriceVolume)
	rq.Equal(int64(40), volumes[1].HighPriceVolume)
	rq.InDelta(0, volumes[1].AvgLowPrice, 0)
}
