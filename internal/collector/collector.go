package collector

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"AHRSentinel/internal/model"
	"AHRSentinel/internal/series"
)

// MockFetcher returns a controllable fixed price for development and testing.
type MockFetcher struct {
	Price decimal.Decimal
	Err   error
	Calls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchCurrentPrice(_ context.Context) (decimal.Decimal, error) {
	m.Calls++
	if m.Err != nil {
		return decimal.Zero, m.Err
	}
	return m.Price, nil
}

// FallbackFetcher tries each fetcher in order and returns the first price.
type FallbackFetcher struct {
	Fetchers  []Fetcher
	OnFailure func(source string, err error)
}

// NewFallbackFetcher creates a FallbackFetcher over the given sources.
func NewFallbackFetcher(fetchers ...Fetcher) *FallbackFetcher {
	return &FallbackFetcher{Fetchers: fetchers}
}

func (f *FallbackFetcher) Name() string {
	name := "fallback"
	for _, s := range f.Fetchers {
		name += ":" + s.Name()
	}
	return name
}

func (f *FallbackFetcher) FetchCurrentPrice(ctx context.Context) (decimal.Decimal, error) {
	var errs []error
	for _, s := range f.Fetchers {
		price, err := s.FetchCurrentPrice(ctx)
		if err == nil && !price.IsPositive() {
			err = fmt.Errorf("non-positive price %s", price)
		}
		if err == nil {
			return price, nil
		}
		log.Printf("[WARN] %s price fetch failed: %v", s.Name(), err)
		if f.OnFailure != nil {
			f.OnFailure(s.Name(), err)
		}
		errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return decimal.Zero, errors.New("no price sources configured")
	}
	return decimal.Zero, fmt.Errorf("all price sources failed: %w", errors.Join(errs...))
}

// Updater appends the day's price to the price file.
type Updater struct {
	Fetcher   Fetcher
	PriceFile string
}

// NewUpdater creates a new Updater.
func NewUpdater(fetcher Fetcher, priceFile string) *Updater {
	return &Updater{Fetcher: fetcher, PriceFile: priceFile}
}

// Update fetches the current price and upserts it under now's date.
// An existing row for that date is replaced rather than duplicated.
func (u *Updater) Update(ctx context.Context, now time.Time) (model.Observation, error) {
	price, err := u.Fetcher.FetchCurrentPrice(ctx)
	if err != nil {
		return model.Observation{}, fmt.Errorf("fetch current price: %w", err)
	}
	price = price.Round(0)

	s, err := series.LoadFile(u.PriceFile)
	if err != nil {
		return model.Observation{}, fmt.Errorf("load price file: %w", err)
	}
	day := model.Day(now)
	before := s.Len()
	if err := s.Upsert(day, price); err != nil {
		return model.Observation{}, err
	}
	if err := series.SaveFile(u.PriceFile, s); err != nil {
		return model.Observation{}, fmt.Errorf("save price file: %w", err)
	}

	if s.Len() == before {
		log.Printf("[INFO] updated existing entry for %s: $%s", day.Format(model.DateLayout), price)
	} else {
		log.Printf("[INFO] added new entry for %s: $%s", day.Format(model.DateLayout), price)
	}
	return model.Observation{Date: day, Price: price}, nil
}
