package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AHRSentinel/internal/series"
)

func TestCoinGeckoFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/simple/price", r.URL.Path)
		assert.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		w.Write([]byte(`{"bitcoin":{"usd":67123.45}}`))
	}))
	defer srv.Close()

	price, err := NewCoinGeckoFetcher(srv.URL+"/", "").FetchCurrentPrice(context.Background())
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("67123.45")))
}

func TestCoinGeckoFetcher_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"rate limited", http.StatusTooManyRequests, `{"status":{"error_code":429}}`},
		{"missing price", http.StatusOK, `{"bitcoin":{}}`},
		{"bad json", http.StatusOK, `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()
			_, err := NewCoinGeckoFetcher(srv.URL, "").FetchCurrentPrice(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestCoinCapFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/assets/bitcoin", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":{"id":"bitcoin","priceUsd":"66000.129"}}`))
	}))
	defer srv.Close()

	price, err := NewCoinCapFetcher(srv.URL, "key", "").FetchCurrentPrice(context.Background())
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("66000.129")))
}

func TestFallbackFetcher(t *testing.T) {
	primary := &MockFetcher{Err: errors.New("boom")}
	backup := &MockFetcher{Price: decimal.NewFromInt(50000)}
	var failed []string
	f := NewFallbackFetcher(primary, backup)
	f.OnFailure = func(source string, _ error) { failed = append(failed, source) }

	price, err := f.FetchCurrentPrice(context.Background())
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, 1, primary.Calls)
	assert.Equal(t, 1, backup.Calls)
	assert.Equal(t, []string{"mock"}, failed)
	assert.Equal(t, "fallback:mock:mock", f.Name())
}

func TestFallbackFetcher_AllFail(t *testing.T) {
	f := NewFallbackFetcher(&MockFetcher{Err: errors.New("a")}, &MockFetcher{Price: decimal.Zero})
	_, err := f.FetchCurrentPrice(context.Background())
	assert.ErrorContains(t, err, "all price sources failed")

	_, err = NewFallbackFetcher().FetchCurrentPrice(context.Background())
	assert.Error(t, err)
}

func TestUpdater_UpsertsToday(t *testing.T) {
	path := filepath.Join(t.TempDir(), "btc.csv")
	fetcher := &MockFetcher{Price: decimal.RequireFromString("64000.6")}
	u := NewUpdater(fetcher, path)
	now := time.Date(2025, 10, 19, 9, 30, 0, 0, time.UTC)

	obs, err := u.Update(context.Background(), now)
	require.NoError(t, err)
	assert.True(t, obs.Price.Equal(decimal.NewFromInt(64001)))

	fetcher.Price = decimal.NewFromInt(65000)
	_, err = u.Update(context.Background(), now.Add(3*time.Hour))
	require.NoError(t, err)

	s, err := series.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
	last, _ := s.Last()
	assert.True(t, last.Price.Equal(decimal.NewFromInt(65000)))

	_, err = u.Update(context.Background(), now.AddDate(0, 0, 1))
	require.NoError(t, err)
	s, _ = series.LoadFile(path)
	assert.Equal(t, 2, s.Len())
}

func TestUpdater_FetchFailureLeavesFileAlone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "btc.csv")
	u := NewUpdater(&MockFetcher{Err: errors.New("down")}, path)
	_, err := u.Update(context.Background(), time.Now())
	assert.Error(t, err)
	assert.NoFileExists(t, path)
}
