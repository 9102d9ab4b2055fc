// Package entity defines the domain models for the candles feature.
package entity

import "time"

// Sample is one OHLCV observation of a stock symbol for a bar interval.
// Samples are immutable once fetched.
type Sample struct {
	Symbol   string    // Stock ticker symbol (e.g., "AAPL", "7203.T")
	Interval string    // Bar interval (e.g., "1day", "1week", "1month")
	Time     time.Time // Start of the bar
	Open     float64   // Opening price
	High     float64   // Highest price during the bar
	Low      float64   // Lowest price during the bar
	Close    float64   // Closing price
	Volume   int64     // Trading volume
}

// Valid reports whether the prices are positive, the volume non-negative and
// the high/low pair consistent with open and close.
func (s Sample) Valid() bool {
	if s.Open <= 0 || s.High <= 0 || s.Low <= 0 || s.Close <= 0 || s.Volume < 0 {
		return false
	}
	if s.High < s.Low {
		return false
	}
	return s.Open <= s.High && s.Open >= s.Low && s.Close <= s.High && s.Close >= s.Low
}

// YearBounds returns the half-open UTC interval [Jan 1 of year, Jan 1 of year+1).
func YearBounds(year int) (from, to time.Time) {
	from = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}
