package model

// MoverEntry is one normalized record of a "biggest gainers" or
// "biggest losers" market snapshot.
type MoverEntry struct {
	ID                string
	Symbol            string
	Name              string
	Price             float64
	Change            float64
	ChangesPercentage float64
	Exchange          string
	Volume            float64
	MarketCap         float64
}

type MoverSeries string

const (
	SeriesGainers MoverSeries = "gainers"
	SeriesLosers  MoverSeries = "losers"
)

type SortBy string

const (
	SortByPrice     SortBy = "price"
	SortByChange    SortBy = "change"
	SortByVolume    SortBy = "volume"
	SortByMarketCap SortBy = "marketCap"
)

func (s SortBy) Valid() bool {
	switch s {
	case SortByPrice, SortByChange, SortByVolume, SortByMarketCap:
		return true
	}
	return false
}

// FilterBy is one of the fixed price bands. Bands are half-open
// intervals, a price exactly on a bound belongs to the upper band.
type FilterBy string

const (
	FilterAll     FilterBy = "all"
	Filter0to10   FilterBy = "0-10"
	Filter10to20  FilterBy = "10-20"
	Filter20to30  FilterBy = "20-30"
	Filter30to40  FilterBy = "30-40"
	Filter40to50  FilterBy = "40-50"
	Filter50to60  FilterBy = "50-60"
	Filter60to70  FilterBy = "60-70"
	FilterAbove70 FilterBy = "above70"
)

func (f FilterBy) Valid() bool {
	_, ok := filterBounds[f]
	return ok || f == FilterAll
}

type priceBand struct {
	low  float64
	high float64 // negative means unbounded
}

var filterBounds = map[FilterBy]priceBand{
	Filter0to10:   {0, 10},
	Filter10to20:  {10, 20},
	Filter20to30:  {20, 30},
	Filter30to40:  {30, 40},
	Filter40to50:  {40, 50},
	Filter50to60:  {50, 60},
	Filter60to70:  {60, 70},
	FilterAbove70: {70, -1},
}

// Matches reports whether price falls into the band. FilterAll matches
// everything.
func (f FilterBy) Matches(price float64) bool {
	if f == FilterAll {
		return true
	}
	band, ok := filterBounds[f]
	if !ok {
		return false
	}
	if band.high < 0 {
		return price >= band.low
	}
	return price >= band.low && price < band.high
}

// SearchResult is a symbol/name search hit, either from the local
// movers pool or from the remote search endpoint.
type SearchResult struct {
	ID                string
	Symbol            string
	Name              string
	Currency          string
	StockExchange     string
	ExchangeShortName string
}
