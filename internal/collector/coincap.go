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

// CoinCapFetcher implements Fetcher using the CoinCap assets API.
type CoinCapFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewCoinCapFetcher creates a fetcher with optional proxy support.
func NewCoinCapFetcher(baseURL, apiKey, proxyURL string) *CoinCapFetcher {
	return &CoinCapFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *CoinCapFetcher) Name() string { return "coincap" }

func (f *CoinCapFetcher) FetchCurrentPrice(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"/v2/assets/bitcoin", nil)
	if err != nil {
		return decimal.Zero, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("coincap fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return decimal.Zero, fmt.Errorf("coincap: status %d, body: %s", resp.StatusCode, string(body))
	}

	// priceUsd is a JSON string, e.g. "67123.4512".
	var result struct {
		Data struct {
			PriceUSD string `json:"priceUsd"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return decimal.Zero, fmt.Errorf("coincap decode: %w", err)
	}
	price, err := decimal.NewFromString(result.Data.PriceUSD)
	if err != nil {
		return decimal.Zero, fmt.Errorf("coincap parse price %q: %w", result.Data.PriceUSD, err)
	}
	return price, nil
}
