package upstream_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"coffer_scanner/internal/infrastructure/upstream"
)

func TestWikiClient_Links(t *testing.T) {
	rq := require.New(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		rq.Equal("links", q.Get("prop"))
		rq.Equal("Grid_Master", q.Get("titles"))

		switch q.Get("plcontinue") {
		case "":
			_, _ = w.Write([]byte(`{"continue":{"plcontinue":"100|0|M","continue":"||"},"query":{"pages":{"100":{"pageid":100,"ns":0,"title":"Grid Master","links":[{"ns":0,"title":"Old school bond"},{"ns":14,"title":"Category:Rewards"}]}}}}`))
		case "100|0|M":
			_, _ = w.Write([]byte(`{"batchcomplete":"","query":{"pages":{"100":{"pageid":100,"ns":0,"title":"Grid Master","links":[{"ns":0,"title":"Dragon cannon barrel"}]}}}}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	client := upstream.NewWikiClient(upstream.NewFetcher(upstream.FetcherConfig{Name: "wiki"}), srv.URL+"/api.php")

	links, err := client.Links(context.Background(), "Grid_Master")
	rq.NoError(err)
	rq.Equal([]string{"Old school bond", "Dragon cannon barrel"}, links)
}
