package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
)

// CoinGeckoFetcher implements Fetcher using the CoinGecko simple price API.
type CoinGeckoFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewCoinGeckoFetcher creates a fetcher with optional proxy support.
func NewCoinGeckoFetcher(baseURL, proxyURL string) *CoinGeckoFetcher {
	return &CoinGeckoFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *CoinGeckoFetcher) Name() string { return "coingecko" }

func (f *CoinGeckoFetcher) FetchCurrentPrice(ctx context.Context) (decimal.Decimal, error) {
	endpoint := f.BaseURL + "/api/v3/simple/price?ids=bitcoin&vs_currencies=usd"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("coingecko fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return decimal.Zero, fmt.Errorf("coingecko: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Bitcoin struct {
			USD *decimal.Decimal `json:"usd"`
		} `json:"bitcoin"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return decimal.Zero, fmt.Errorf("coingecko decode: %w", err)
	}
	if result.Bitcoin.USD == nil {
		return decimal.Zero, fmt.Errorf("coingecko: no bitcoin price in response")
	}
	return *result.Bitcoin.USD, nil
}
