package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"btc-price-history/internal/rates"
)

const (
	// DefaultBitcoinDataset is the Kaggle handle of the BTC/USD history.
	DefaultBitcoinDataset = "mczielinski/bitcoin-historical-data"
	// DefaultBitcoinFile is the minute-granularity price file inside it.
	DefaultBitcoinFile = "btcusd_1-min_data.csv"
)

// BitcoinSource pulls the BTC/USD minute dataset from Kaggle and reduces it
// to one observation per calendar day.
type BitcoinSource struct {
	client *KaggleClient
	handle string
	file   string
	logger zerolog.Logger
}

// NewBitcoinSource wires a Kaggle-backed price source.
func NewBitcoinSource(client *KaggleClient, handle, file string, logger zerolog.Logger) *BitcoinSource {
	if handle == "" {
		handle = DefaultBitcoinDataset
	}
	if file == "" {
		file = DefaultBitcoinFile
	}
	return &BitcoinSource{
		client: client,
		handle: handle,
		file:   file,
		logger: logger.With().Str("component", "bitcoin_source").Logger(),
	}
}

// FetchPrices downloads the dataset and returns the daily observations.
func (s *BitcoinSource) FetchPrices(ctx context.Context) ([]rates.PriceObservation, error) {
	archive, err := s.client.DownloadDataset(ctx, s.handle)
	if err != nil {
		return nil, fmt.Errorf("download bitcoin dataset: %w", err)
	}

	file, err := openArchiveFile(archive, s.file)
	if err != nil {
		return nil, fmt.Errorf("bitcoin dataset: %w", err)
	}
	defer file.Close()

	obs, err := ParseMinutePrices(file)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.file, err)
	}

	s.logger.Info().Int("days", len(obs)).Msg("bitcoin price history loaded")
	return obs, nil
}

// ParseMinutePrices reads the minute-granularity BTC/USD CSV (Unix
// "Timestamp" column plus OHLCV) and keeps the first row of each calendar
// day, i.e. the midnight open. Rows with an unparseable timestamp or price
// are skipped.
func ParseMinutePrices(r io.Reader) ([]rates.PriceObservation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	tsCol, closeCol := -1, -1
	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(col))
		switch {
		case name == "timestamp":
			tsCol = i
		case closeCol < 0 && strings.Contains(name, "close"):
			closeCol = i
		}
	}
	if tsCol < 0 {
		return nil, fmt.Errorf("no timestamp column in header %v", header)
	}
	if closeCol < 0 {
		return nil, fmt.Errorf("no close column in header %v", header)
	}

	var obs []rates.PriceObservation
	seen := make(map[rates.Day]struct{})

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(record) <= tsCol || len(record) <= closeCol {
			continue
		}

		ts, err := strconv.ParseFloat(record[tsCol], 64)
		if err != nil {
			continue
		}
		day := rates.DayOf(time.Unix(int64(ts), 0))
		if _, ok := seen[day]; ok {
			continue
		}

		price, err := decimal.NewFromString(record[closeCol])
		if err != nil {
			continue
		}

		seen[day] = struct{}{}
		obs = append(obs, rates.PriceObservation{Day: day, USD: price})
	}

	return obs, nil
}

var _ PriceSource = (*BitcoinSource)(nil)
