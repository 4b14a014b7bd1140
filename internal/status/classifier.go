package status

import (
	"strings"

	"github.com/RaikyD/order-verification-service/internal/domain"
	"github.com/shopspring/decimal"
)

// Classify выносит вердикт по заказу. Правила проверяются по порядку:
// клиент janusz режектится независимо от цены.
func Classify(client string, price decimal.Decimal) string {
	if strings.EqualFold(client, "janusz") {
		return domain.StatusRejected
	}
	if price.IsZero() {
		return domain.StatusUndefined
	}
	return domain.StatusAccepted
}
