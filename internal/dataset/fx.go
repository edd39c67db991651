package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"btc-price-history/internal/rates"
)

// DefaultCurrencyDataset is the Kaggle handle of the daily FX histories.
const DefaultCurrencyDataset = "usamabuttar/global-currency-historical-prices-updated-daily"

// quoteFiles maps each quote currency to its file inside the FX dataset.
var quoteFiles = map[rates.Currency]string{
	rates.EUR: "EUR_European-Euro.csv",
	rates.GBP: "GBP_Pound-Sterling.csv",
	rates.JPY: "JPY_Japanese-Yen.csv",
	rates.CAD: "CAD_Canadian-Dollar.csv",
	rates.AUD: "AUD_Australian-Dollar.csv",
	rates.CHF: "CHF_Swiss-Franc.csv",
	rates.CNY: "CNY_Chinese-Yuan-Renminbi.csv",
	rates.INR: "INR_Indian-Rupee.csv",
	rates.BRL: "BRL_Brazilian-Real.csv",
	rates.KRW: "KRW_South-Korean-Won.csv",
	rates.MXN: "MXN_Mexican-Peso.csv",
}

// CurrencySource pulls per-currency exchange-rate files from Kaggle.
type CurrencySource struct {
	client *KaggleClient
	handle string
	logger zerolog.Logger
}

// NewCurrencySource wires a Kaggle-backed rate source.
func NewCurrencySource(client *KaggleClient, handle string, logger zerolog.Logger) *CurrencySource {
	if handle == "" {
		handle = DefaultCurrencyDataset
	}
	return &CurrencySource{
		client: client,
		handle: handle,
		logger: logger.With().Str("component", "currency_source").Logger(),
	}
}

// FetchRates downloads the dataset and parses every supported currency file.
// A missing or unreadable currency file is logged and skipped; that currency
// simply stays absent from the output.
func (s *CurrencySource) FetchRates(ctx context.Context) ([]rates.RateObservation, error) {
	archive, err := s.client.DownloadDataset(ctx, s.handle)
	if err != nil {
		return nil, fmt.Errorf("download currency dataset: %w", err)
	}

	var obs []rates.RateObservation
	for _, c := range rates.Quotes {
		name := quoteFiles[c]

		file, err := openArchiveFile(archive, name)
		if err != nil {
			s.logger.Warn().Str("currency", string(c)).Str("file", name).Msg("currency file missing, skipping")
			continue
		}

		parsed, err := ParseCurrencyFile(file, c)
		file.Close()
		if err != nil {
			s.logger.Warn().Err(err).Str("currency", string(c)).Msg("currency file unreadable, skipping")
			continue
		}

		s.logger.Debug().Str("currency", string(c)).Int("observations", len(parsed)).Msg("currency history loaded")
		obs = append(obs, parsed...)
	}

	s.logger.Info().Int("observations", len(obs)).Msg("exchange-rate history loaded")
	return obs, nil
}

// ParseCurrencyFile reads one per-currency history: Date and Close columns,
// optionally preceded by a two-row "Ticker:" preamble. Rows with an
// unparseable date or value are dropped.
func ParseCurrencyFile(r io.Reader, c rates.Currency) ([]rates.RateObservation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var obs []rates.RateObservation
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(record) < 2 {
			continue
		}

		// Header and "Ticker:" preamble rows fail the date parse and drop out.
		day, err := parseFlexibleDay(record[0])
		if err != nil {
			continue
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(record[1]))
		if err != nil {
			continue
		}

		obs = append(obs, rates.RateObservation{Day: day, Currency: c, Rate: rate})
	}

	return obs, nil
}

// parseFlexibleDay accepts the date shapes seen across the source files.
func parseFlexibleDay(s string) (rates.Day, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05", "01/02/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return rates.DayOf(t), nil
		}
	}
	return rates.Day{}, fmt.Errorf("unrecognized date %q", s)
}

var _ RateSource = (*CurrencySource)(nil)
