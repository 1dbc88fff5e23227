package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/grayson061030/stockapi/services/stock/internal/domain/model"
)

const dateLayout = "2006-01-02"

// StockSummary is the public view of a stock with its latest price and statistics.
type StockSummary struct {
	ID                    int64     `json:"id"`
	Ticker                string    `json:"ticker"`
	Name                  string    `json:"name"`
	Price                 float64   `json:"price"`
	PreviousPrice         float64   `json:"previousPrice"`
	PriceChange           float64   `json:"priceChange"`
	PriceChangeRate       float64   `json:"priceChangeRate"`
	Volume                int64     `json:"volume"`
	ViewCount             int64     `json:"viewCount"`
	BuyOrderVolume        int64     `json:"buyOrderVolume"`
	SellOrderVolume       int64     `json:"sellOrderVolume"`
	OrderVolumeDifference int64     `json:"orderVolumeDifference"`
	TurnoverRate          float64   `json:"turnoverRate"`
	LastUpdated           time.Time `json:"lastUpdated"`
}

// PriceHistory is one entry of a stock's price history.
type PriceHistory struct {
	Date            string  `json:"date"`
	Price           float64 `json:"price"`
	PreviousPrice   float64 `json:"previousPrice"`
	PriceChange     float64 `json:"priceChange"`
	PriceChangeRate float64 `json:"priceChangeRate"`
	Volume          int64   `json:"volume"`
}

// StockList is a page of stocks for one tag.
type StockList struct {
	Stocks []StockSummary `json:"stocks"`
	Tag    model.TagType  `json:"tag"`
}

// StockPage pairs a stock list with its pagination.
type StockPage struct {
	List       StockList
	Pagination Pagination
}

// StockDetail is a stock with its full price history, newest first.
type StockDetail struct {
	Stock        StockSummary   `json:"stock"`
	PriceHistory []PriceHistory `json:"priceHistory"`
}

// WithViewCount returns a copy of d with the view count replaced.
// The price history slice is shared with d and must not be modified.
func (d StockDetail) WithViewCount(viewCount int64) StockDetail {
	d.Stock.ViewCount = viewCount
	return d
}

// NewStockSummary builds a summary from a stock loaded with prices and statistics.
// It returns false when the stock has no price yet. Missing statistics read as zero counters.
func NewStockSummary(s *model.Stock) (StockSummary, bool) {
	latest := s.LatestPrice()
	if latest == nil {
		return StockSummary{}, false
	}
	stats := s.Statistics
	if stats == nil {
		stats = &model.StockStatistics{StockID: s.ID}
	}

	return StockSummary{
		ID:                    s.ID,
		Ticker:                s.Ticker,
		Name:                  s.Name,
		Price:                 money(latest.Price),
		PreviousPrice:         money(latest.PreviousPrice),
		PriceChange:           money(latest.PriceChange()),
		PriceChangeRate:       money(latest.PriceChangeRate()),
		Volume:                latest.Volume,
		ViewCount:             stats.ViewCount,
		BuyOrderVolume:        stats.BuyOrderVolume,
		SellOrderVolume:       stats.SellOrderVolume,
		OrderVolumeDifference: stats.OrderVolumeDifference(),
		TurnoverRate:          money(stats.TurnoverRate),
		LastUpdated:           latest.UpdatedAt,
	}, true
}

// NewPriceHistory builds the price history, newest first.
func NewPriceHistory(s *model.Stock) []PriceHistory {
	prices := s.PricesNewestFirst()
	history := make([]PriceHistory, 0, len(prices))
	for _, p := range prices {
		history = append(history, PriceHistory{
			Date:            p.Date().Format(dateLayout),
			Price:           money(p.Price),
			PreviousPrice:   money(p.PreviousPrice),
			PriceChange:     money(p.PriceChange()),
			PriceChangeRate: money(p.PriceChangeRate()),
			Volume:          p.Volume,
		})
	}
	return history
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
