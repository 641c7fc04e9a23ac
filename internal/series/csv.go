package series

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"AHRSentinel/internal/model"
)

var header = []string{"date", "btc price"}

// Read parses a two-column date,price CSV with a header row. Blank rows are skipped.
func Read(r io.Reader) (*Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return &Series{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	s := &Series{}
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		if len(rec) < 2 || strings.TrimSpace(rec[0]) == "" || strings.TrimSpace(rec[1]) == "" {
			continue
		}
		date, err := model.ParseDay(strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, fmt.Errorf("parse date on line %d: %w", line, err)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(rec[1]))
		if err != nil {
			return nil, fmt.Errorf("parse price on line %d: %w", line, err)
		}
		if err := s.Upsert(date, price); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	return s, nil
}

// Write emits the series newest first, matching the layout of the price file.
func Write(w io.Writer, s *Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := len(s.obs) - 1; i >= 0; i-- {
		o := s.obs[i]
		if err := cw.Write([]string{o.Date.Format(model.DateLayout), o.Price.String()}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// LoadFile reads a series from path. A missing file yields an empty series.
func LoadFile(path string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Series{}, nil
		}
		return nil, fmt.Errorf("open price file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// SaveFile writes the series to path via a temp file and rename.
func SaveFile(path string, s *Series) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create price dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create price file: %w", err)
	}
	if err := Write(f, s); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write price file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close price file: %w", err)
	}
	return os.Rename(tmp, path)
}
