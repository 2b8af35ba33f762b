package application

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"coffer_scanner/internal/config"
)

const (
	fakeMapping = `[
		{"id":1289,"name":"Rune sword","members":false,"limit":70},
		{"id":13190,"name":"Old school bond","members":false,"limit":100},
		{"id":26000,"name":"Grid trophy","members":true,"limit":8},
		{"id":995,"name":"Coins","members":false,"limit":0}
	]`
	fakeLatest = `{"data":{
		"1289":{"high":360000,"highTime":1741600000,"low":350000,"lowTime":1741600000},
		"13190":{"high":5200000,"low":5000000},
		"26000":{"high":900000,"low":800000},
		"995":{"high":1,"low":1}
	}}`
	fakeVolumes = `{"data":{"1289":{"highPriceVolume":120,"lowPriceVolume":300}}}`
	fakeWiki    = `{"query":{"pages":{"1":{"links":[{"ns":0,"title":"Grid trophy"},{"ns":0,"title":"Not tradeable thing"}]}}}}`
)

func newFakeUpstream(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/prices/mapping", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, fakeMapping) })
	mux.HandleFunc("/prices/latest", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, fakeLatest) })
	mux.HandleFunc("/prices/24h", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, fakeVolumes) })
	mux.HandleFunc("/wiki/api.php", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, fakeWiki) })
	mux.HandleFunc("/itemdb/detail.json", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("item") != "1289" {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		_, _ = io.WriteString(w, `{"item":{"id":1289,"current":{"trend":"neutral","price":"366,667"}}}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func testConfig(baseURL string) config.Config {
	return config.Config{
		App:   config.App{Name: "coffer-test", LogFieldMaxLen: 1024},
		Store: config.Store{Driver: config.StoreDriverMemory},
		Upstream: config.Upstream{
			PricesURL:    baseURL + "/prices",
			VolumeWindow: "24h",
			ItemDBURL:    baseURL + "/itemdb/detail.json",
			WikiURL:      baseURL + "/wiki/api.php",
			UserAgent:    "coffer-test",
			Timeout:      time.Second,
		},
		Pipeline: config.Pipeline{
			MinBuyPrice:          100_000,
			MinOfficialPrice:     10_000,
			VolumeEstimateFactor: 5,
			MaxEnrichRetries:     2,
			JagexRateLimit:       time.Millisecond,
			RetryStep:            time.Millisecond,
			RetryJitter:          0,
			OfficialPriceTTL:     time.Hour,
			IneligibleTTL:        time.Hour,
			CleanupDays:          3,
			TopN:                 10,
			ReferencePages:       []string{"Grid_Master"},
			ExplicitNames:        []string{"old school bond"},
			ExplicitIDs:          []int64{},
		},
	}
}

func TestApplication_RunOnce(t *testing.T) {
	rq := require.New(t)

	srv := newFakeUpstream(t)
	ctx := context.Background()

	app, err := New(ctx, testConfig(srv.URL), slog.New(slog.NewTextHandler(io.Discard, nil)))
	rq.NoError(err)
	defer app.Close(ctx)

	report, err := app.RunOnce(ctx)
	rq.NoError(err)

	rq.Equal(4, report.Stats.MappingItems)
	rq.Equal(1, report.Stats.Candidates)
	rq.Equal(1, report.Stats.SuccessCount)
	rq.Equal(1, report.Stats.Published)
	rq.NotEmpty(report.Snapshot.Pathname)

	view, err := app.reader.Items(ctx)
	rq.NoError(err)
	rq.False(view.IsFallback)
	rq.Len(view.Items, 1)

	row := view.Items[0]
	rq.Equal(int64(1289), row.ID)
	rq.Equal(int64(350_000), row.BuyPrice)
	rq.Equal(int64(366_667), row.OfficialPrice)
	rq.Equal(int64(385_000), row.CofferValue)
	rq.InDelta(0.1, row.ROI, 1e-9)
	rq.Equal(int64(300), row.Volume)
	rq.False(row.VolumeEstimated)
}

func TestNewSettings(t *testing.T) {
	rq := require.New(t)

	p := testConfig("http://x").Pipeline
	p.MaxCandidates = 25

	s := newSettings(p)

	rq.Equal(int64(100_000), s.MinBuyPrice)
	rq.Equal(25, s.MaxCandidates)
	rq.Equal([]string{"Grid_Master"}, s.ReferencePages)
	rq.Equal(2, s.MaxEnrichRetries)
}
