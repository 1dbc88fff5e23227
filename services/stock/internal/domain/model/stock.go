package model

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

var hundred = decimal.NewFromInt(100)

// Stock represents a listed stock with its price history and statistics.
type Stock struct {
	ID         int64            `gorm:"primaryKey"`
	Ticker     string           `gorm:"size:20;not null;uniqueIndex"`
	Name       string           `gorm:"size:100;not null"`
	Prices     []StockPrice     `gorm:"foreignKey:StockID;constraint:OnDelete:CASCADE"`
	Statistics *StockStatistics `gorm:"foreignKey:StockID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time        `gorm:"not null"`
	UpdatedAt  time.Time        `gorm:"not null"`
}

func (Stock) TableName() string {
	return "stocks"
}

// LatestPrice returns the most recent price by date, or nil without any prices.
// Prices on the same date are ordered by insertion.
func (s *Stock) LatestPrice() *StockPrice {
	var latest *StockPrice
	for i := range s.Prices {
		p := &s.Prices[i]
		if latest == nil || p.newerThan(latest) {
			latest = p
		}
	}
	return latest
}

// PricesNewestFirst returns a copy of the price history sorted by date descending.
func (s *Stock) PricesNewestFirst() []StockPrice {
	prices := make([]StockPrice, len(s.Prices))
	copy(prices, s.Prices)
	sort.SliceStable(prices, func(i, j int) bool {
		return prices[i].newerThan(&prices[j])
	})
	return prices
}

// StockPrice is one daily quote.
type StockPrice struct {
	ID            int64           `gorm:"primaryKey"`
	StockID       int64           `gorm:"not null;index:idx_stock_prices_stock_date,priority:1"`
	Price         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PreviousPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PriceDate     datatypes.Date  `gorm:"not null;index:idx_stock_prices_stock_date,priority:2"`
	Volume        int64           `gorm:"not null"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

func (StockPrice) TableName() string {
	return "stock_prices"
}

// PriceChange is the absolute change against the previous price.
func (p StockPrice) PriceChange() decimal.Decimal {
	return p.Price.Sub(p.PreviousPrice)
}

// PriceChangeRate is the change against the previous price in percent, 0 when there is no previous price.
func (p StockPrice) PriceChangeRate() decimal.Decimal {
	if p.PreviousPrice.IsZero() {
		return decimal.Zero
	}
	return p.PriceChange().Div(p.PreviousPrice).Mul(hundred)
}

// Date returns the price date as time.Time.
func (p StockPrice) Date() time.Time {
	return time.Time(p.PriceDate)
}

func (p *StockPrice) newerThan(o *StockPrice) bool {
	pd, od := p.Date(), o.Date()
	if !pd.Equal(od) {
		return pd.After(od)
	}
	return p.ID > o.ID
}

// StockStatistics holds the mutable counters of a stock.
type StockStatistics struct {
	ID              int64           `gorm:"primaryKey"`
	StockID         int64           `gorm:"not null;uniqueIndex"`
	ViewCount       int64           `gorm:"not null;default:0"`
	BuyOrderVolume  int64           `gorm:"not null;default:0"`
	SellOrderVolume int64           `gorm:"not null;default:0"`
	TurnoverRate    decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

func (StockStatistics) TableName() string {
	return "stock_statistics"
}

// OrderVolumeDifference is buy order volume minus sell order volume.
func (s StockStatistics) OrderVolumeDifference() int64 {
	return s.BuyOrderVolume - s.SellOrderVolume
}
