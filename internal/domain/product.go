package domain

import (
	"github.com/shopspring/decimal"
)

// Product — каталог пока не используется ни одним воркфлоу, только схема.
type Product struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
}
