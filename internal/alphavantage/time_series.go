package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"portfoliotracker/internal/quote"
)

// maxTimeSeriesPoints caps the series at the most recent bars to keep
// chart payloads small.
const maxTimeSeriesPoints = 100

var timeSeriesFunctions = map[quote.Interval]string{
	quote.IntervalDaily:   "TIME_SERIES_DAILY",
	quote.IntervalWeekly:  "TIME_SERIES_WEEKLY",
	quote.IntervalMonthly: "TIME_SERIES_MONTHLY",
}

// tsBar mirrors one OHLCV entry of a time-series payload.
type tsBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// TimeSeries fetches historical bars for symbol at the given interval,
// capped at the 100 most recent points, sorted ascending by date.
func (c *Client) TimeSeries(ctx context.Context, symbol string, interval quote.Interval) ([]quote.TimeSeriesPoint, error) {
	fn, ok := timeSeriesFunctions[interval]
	if !ok {
		return nil, fmt.Errorf("unknown interval %q", interval)
	}

	params := url.Values{}
	params.Set("function", fn)
	params.Set("symbol", symbol)

	res, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading time series response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decoding time series response: %w", err)
	}
	if env.ErrorMessage != "" {
		return nil, fmt.Errorf("symbol %q: %w", symbol, quote.ErrInvalidSymbol)
	}
	if env.Note != "" || env.Information != "" {
		return nil, quote.ErrRateLimited
	}

	// The series lives under a variable key such as "Time Series (Daily)"
	// or "Weekly Time Series".
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(raw, &sections); err != nil {
		return nil, fmt.Errorf("decoding time series response: %w", err)
	}
	var series map[string]tsBar
	for key, section := range sections {
		if !strings.Contains(key, "Time Series") {
			continue
		}
		if err := json.Unmarshal(section, &series); err != nil {
			return nil, fmt.Errorf("decoding %q: %w", key, err)
		}
		break
	}
	if series == nil {
		return nil, fmt.Errorf("symbol %q: no time series data found", symbol)
	}

	points := make([]quote.TimeSeriesPoint, 0, len(series))
	for date, bar := range series {
		p, err := parseBar(date, bar)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}

	// Keep only the newest bars, then present oldest-first for charting.
	sort.Slice(points, func(i, j int) bool { return points[i].Date > points[j].Date })
	if len(points) > maxTimeSeriesPoints {
		points = points[:maxTimeSeriesPoints]
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
	return points, nil
}

func parseBar(date string, bar tsBar) (quote.TimeSeriesPoint, error) {
	open, err := parseFloat("open", bar.Open)
	if err != nil {
		return quote.TimeSeriesPoint{}, err
	}
	high, err := parseFloat("high", bar.High)
	if err != nil {
		return quote.TimeSeriesPoint{}, err
	}
	low, err := parseFloat("low", bar.Low)
	if err != nil {
		return quote.TimeSeriesPoint{}, err
	}
	cls, err := parseFloat("close", bar.Close)
	if err != nil {
		return quote.TimeSeriesPoint{}, err
	}
	volume, err := strconv.ParseInt(bar.Volume, 10, 64)
	if err != nil {
		return quote.TimeSeriesPoint{}, fmt.Errorf("parsing volume %q: %w", bar.Volume, err)
	}
	return quote.TimeSeriesPoint{
		Date:   date,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  cls,
		Volume: volume,
	}, nil
}
