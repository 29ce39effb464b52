// Package analytics derives the admin dashboard report from one snapshot of
// the order, payment and user collections. Every computation in here is a
// pure function over the unified order sequence; nothing mutates its inputs
// and nothing performs I/O, so one call produces one consistent report.
package analytics

import (
	"sort"
	"time"

	"tavolo-order-service/internal/domain"
)

type Report struct {
	Stats              Stats            `json:"stats"`
	StatusDistribution []StatusCount    `json:"statusDistribution"`
	TopProducts        []ProductStat    `json:"topProducts"`
	TopCustomers       []CustomerStat   `json:"topCustomers"`
	TopLocations       []RegionStat     `json:"topLocations"`
	RecentOrders       []domain.Order   `json:"recentOrders"`
	RevenueTrend       []TrendPoint     `json:"revenueTrend"`
	PeakHours          []HourCount      `json:"peakHours"`
	Insights           []Insight        `json:"insights"`
	Recommendations    []Recommendation `json:"recommendations"`
}

const (
	topProductsLimit  = 5
	topCustomersLimit = 5
	topLocationsLimit = 5
	recentOrdersLimit = 5
)

// ComputeDashboardReport is the single entry point used by the HTTP layer.
// The caller supplies independently loaded collections; the report is
// computed synchronously against today's date.
func ComputeDashboardReport(orders []domain.Order, manualOrders []domain.ManualOrder, payments []domain.Payment, users []domain.User) Report {
	return ComputeDashboardReportAt(time.Now(), orders, manualOrders, payments, users)
}

// ComputeDashboardReportAt computes the report as of the given instant. The
// instant only anchors the revenue-trend window; everything else is
// history-wide.
func ComputeDashboardReportAt(now time.Time, orders []domain.Order, manualOrders []domain.ManualOrder, payments []domain.Payment, users []domain.User) Report {
	unified := UnifyOrders(orders, manualOrders)

	stats := ComputeStats(unified, payments, users)
	topProducts := TopProducts(unified, topProductsLimit)
	topCustomers := TopCustomers(unified, topCustomersLimit)

	return Report{
		Stats:              stats,
		StatusDistribution: StatusDistribution(unified),
		TopProducts:        topProducts,
		TopCustomers:       topCustomers,
		TopLocations:       TopLocations(unified, users, topLocationsLimit),
		RecentOrders:       recentOrders(unified, recentOrdersLimit),
		RevenueTrend:       RevenueTrend(unified, now),
		PeakHours:          PeakHours(unified, peakHoursLimit),
		Insights:           GenerateInsights(stats, topCustomers),
		Recommendations:    GenerateRecommendations(stats, topProducts),
	}
}

func recentOrders(orders []domain.Order, limit int) []domain.Order {
	recent := make([]domain.Order, len(orders))
	copy(recent, orders)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.After(recent[j].Date)
	})
	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent
}
