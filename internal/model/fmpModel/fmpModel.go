package fmpModel

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexFloat tolerates numeric fields the API sometimes serves as
// strings ("12.34") and sometimes as numbers (12.34). Null and empty
// string decode to 0.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*f = FlexFloat(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

func (f FlexFloat) Float64() float64 {
	return float64(f)
}

type Quote struct {
	Symbol            string    `json:"symbol"`
	Name              string    `json:"name"`
	Price             FlexFloat `json:"price"`
	ChangesPercentage FlexFloat `json:"changesPercentage"`
	Change            FlexFloat `json:"change"`
	DayLow            FlexFloat `json:"dayLow"`
	DayHigh           FlexFloat `json:"dayHigh"`
	YearHigh          FlexFloat `json:"yearHigh"`
	YearLow           FlexFloat `json:"yearLow"`
	MarketCap         FlexFloat `json:"marketCap"`
	Exchange          string    `json:"exchange"`
	Volume            FlexFloat `json:"volume"`
	AvgVolume         FlexFloat `json:"avgVolume"`
	Open              FlexFloat `json:"open"`
	PreviousClose     FlexFloat `json:"previousClose"`
	Eps               FlexFloat `json:"eps"`
	Pe                FlexFloat `json:"pe"`
	Timestamp         int64     `json:"timestamp"`
}

type CompanyProfile struct {
	Symbol            string    `json:"symbol"`
	Price             FlexFloat `json:"price"`
	Beta              FlexFloat `json:"beta"`
	MktCap            FlexFloat `json:"mktCap"`
	Changes           FlexFloat `json:"changes"`
	CompanyName       string    `json:"companyName"`
	Currency          string    `json:"currency"`
	Exchange          string    `json:"exchange"`
	ExchangeShortName string    `json:"exchangeShortName"`
	Industry          string    `json:"industry"`
	Website           string    `json:"website"`
	Description       string    `json:"description"`
	Ceo               string    `json:"ceo"`
	Sector            string    `json:"sector"`
	Country           string    `json:"country"`
	Image             string    `json:"image"`
	IpoDate           string    `json:"ipoDate"`
	IsActivelyTrading bool      `json:"isActivelyTrading"`
}

type Mover struct {
	Symbol            string    `json:"symbol"`
	Name              string    `json:"name"`
	Price             FlexFloat `json:"price"`
	Change            FlexFloat `json:"change"`
	ChangesPercentage FlexFloat `json:"changesPercentage"`
	Exchange          string    `json:"exchange"`
	Volume            FlexFloat `json:"volume"`
	MarketCap         FlexFloat `json:"marketCap"`
}

type Movers struct {
	Gainers []Mover
	Losers  []Mover
}

type SearchResult struct {
	Symbol            string `json:"symbol"`
	Name              string `json:"name"`
	Currency          string `json:"currency"`
	StockExchange     string `json:"stockExchange"`
	ExchangeShortName string `json:"exchangeShortName"`
}

type HistoricalPrice struct {
	Date          string    `json:"date"`
	Open          FlexFloat `json:"open"`
	High          FlexFloat `json:"high"`
	Low           FlexFloat `json:"low"`
	Close         FlexFloat `json:"close"`
	AdjClose      FlexFloat `json:"adjClose"`
	Volume        FlexFloat `json:"volume"`
	Change        FlexFloat `json:"change"`
	ChangePercent FlexFloat `json:"changePercent"`
	Vwap          FlexFloat `json:"vwap"`
}

type HistoricalPrices struct {
	Symbol     string            `json:"symbol"`
	Historical []HistoricalPrice `json:"historical"`
}
