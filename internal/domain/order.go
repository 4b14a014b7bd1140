package domain

import (
	"github.com/shopspring/decimal"
)

// Вердикты статус-сервиса + начальный статус заказа
const (
	StatusNotVerified = "not verified"
	StatusAccepted    = "accepted"
	StatusRejected    = "rejected"
	StatusUndefined   = "undefined"
)

func init() {
	// price в API — JSON number, не строка
	decimal.MarshalJSONWithoutQuotes = true
}

type Order struct {
	ID     int64           `json:"id"`
	Number string          `json:"number"`
	Client string          `json:"client"`
	Price  decimal.Decimal `json:"price"`
	Status string          `json:"status"`
}

// IsVerdict reports whether s is something the status service can return.
// StatusNotVerified is not a verdict.
func IsVerdict(s string) bool {
	switch s {
	case StatusAccepted, StatusRejected, StatusUndefined:
		return true
	}
	return false
}
