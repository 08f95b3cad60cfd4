package taxlots

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/etnz/taxlots/date"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchPrices_DailyCache(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprintf(w, `{"prices":[{"asset":"BTC","price":"%d"}]}`, 100*hits)
	}))
	defer srv.Close()

	today := date.New(2025, time.March, 1)
	cache := &diskCache{base: http.DefaultTransport, dir: t.TempDir(), log: zerolog.Nop(), today: func() date.Date { return today }}
	client := &http.Client{Transport: cache}

	prices, err := FetchPrices(context.Background(), client, srv.URL, "")
	require.NoError(t, err)
	assertM(t, "100", prices["BTC"])

	// Same day: served from disk.
	prices, err = FetchPrices(context.Background(), client, srv.URL, "")
	require.NoError(t, err)
	assertM(t, "100", prices["BTC"])
	assert.Equal(t, 1, hits)

	// Next day: fetched again.
	today = today.Add(1)
	prices, err = FetchPrices(context.Background(), client, srv.URL, "")
	require.NoError(t, err)
	assertM(t, "200", prices["BTC"])
	assert.Equal(t, 2, hits)
}

func TestFetchPrices_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := FetchPrices(context.Background(), DailyClient(t.TempDir(), nil), srv.URL+"/prices.json", "")
	assert.ErrorContains(t, err, "404")
}
