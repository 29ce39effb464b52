package analytics

import (
	"math"

	"tavolo-order-service/internal/domain"
)

type Stats struct {
	TotalOrders              int     `json:"totalOrders"`
	TotalRevenue             float64 `json:"totalRevenue"`
	TotalRevenueFromPayments float64 `json:"totalRevenueFromPayments"`
	TotalUsers               int     `json:"totalUsers"`
	AvgOrderValue            float64 `json:"avgOrderValue"`
	DeliveryRate             float64 `json:"deliveryRate"`
	ActiveOrders             int     `json:"activeOrders"`
}

type StatusCount struct {
	Status     string `json:"status"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// ComputeStats reports the six scalar figures as one record. Rates and
// averages degrade to 0 on an empty order set instead of dividing by zero.
func ComputeStats(orders []domain.Order, payments []domain.Payment, users []domain.User) Stats {
	stats := Stats{
		TotalOrders: len(orders),
		TotalUsers:  len(users),
	}

	delivered := 0
	for _, order := range orders {
		stats.TotalRevenue += order.Total
		switch order.Status {
		case domain.OrderStatusDelivered:
			delivered += 1
		case domain.OrderStatusPending, domain.OrderStatusPreparing:
			stats.ActiveOrders += 1
		}
	}

	// Independent cross-check figure; never reconciled against TotalRevenue.
	for _, payment := range payments {
		if payment.Status == domain.PaymentStatusCompleted {
			stats.TotalRevenueFromPayments += payment.AmountPaid
		}
	}

	if stats.TotalOrders > 0 {
		stats.AvgOrderValue = stats.TotalRevenue / float64(stats.TotalOrders)
		stats.DeliveryRate = float64(delivered) / float64(stats.TotalOrders) * 100
	}
	return stats
}

// StatusDistribution groups orders by status in first-encounter order.
// Percentages are computed against the full unified count so they stay
// comparable across views; counts always sum to len(orders).
func StatusDistribution(orders []domain.Order) []StatusCount {
	if len(orders) == 0 {
		return []StatusCount{}
	}

	counts := make(map[string]int)
	seen := make([]string, 0)
	for _, order := range orders {
		status := order.Status
		if status == "" {
			status = domain.OrderStatusPending
		}
		if _, ok := counts[status]; !ok {
			seen = append(seen, status)
		}
		counts[status] += 1
	}

	out := make([]StatusCount, 0, len(seen))
	for _, status := range seen {
		out = append(out, StatusCount{
			Status:     status,
			Count:      counts[status],
			Percentage: int(math.Round(float64(counts[status]) / float64(len(orders)) * 100)),
		})
	}
	return out
}
