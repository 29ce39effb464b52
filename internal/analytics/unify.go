package analytics

import "tavolo-order-service/internal/domain"

// UnifyOrders merges system orders with manually recorded orders whose
// status marks them as settled. Relative order of each source is preserved
// and no deduplication is attempted; the same transaction appearing in both
// lists is a caller error.
func UnifyOrders(orders []domain.Order, manualOrders []domain.ManualOrder) []domain.Order {
	unified := make([]domain.Order, 0, len(orders)+len(manualOrders))
	unified = append(unified, orders...)
	for _, mo := range manualOrders {
		if mo.Status != domain.ManualOrderPaid {
			continue
		}
		unified = append(unified, domain.Order{
			ID:     mo.ID,
			Email:  mo.Email,
			Items:  mo.Items,
			Total:  mo.Total,
			Status: mo.Status,
			Date:   mo.Date,
		})
	}
	return unified
}
