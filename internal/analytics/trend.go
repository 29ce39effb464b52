package analytics

import (
	"sort"
	"strconv"
	"time"

	"tavolo-order-service/internal/domain"
)

const (
	revenueTrendDays = 7
	peakHoursLimit   = 7
)

type TrendPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

type HourCount struct {
	Hour   int    `json:"hour"`
	Label  string `json:"label"`
	Orders int    `json:"orders"`
}

// RevenueTrend buckets orders into the 7 calendar days ending at now, oldest
// first. Days without orders report zero, so the slice always has exactly 7
// entries.
func RevenueTrend(orders []domain.Order, now time.Time) []TrendPoint {
	loc := now.Location()
	byDay := make(map[string]*TrendPoint, revenueTrendDays)

	trend := make([]TrendPoint, revenueTrendDays)
	for i := 0; i < revenueTrendDays; i++ {
		day := now.AddDate(0, 0, i-(revenueTrendDays-1)).In(loc).Format("2006-01-02")
		trend[i] = TrendPoint{Date: day}
		byDay[day] = &trend[i]
	}

	for _, order := range orders {
		day := order.Date.In(loc).Format("2006-01-02")
		point, ok := byDay[day]
		if !ok {
			continue
		}
		point.Revenue += order.Total
		point.Orders += 1
	}
	return trend
}

// PeakHours counts orders per hour of day across the entire history and
// returns the busiest hours, descending. Unlike the revenue trend this is a
// sparse histogram: hours with no orders never appear.
func PeakHours(orders []domain.Order, n int) []HourCount {
	counts := make(map[int]int)
	seen := make([]int, 0, 24)
	for _, order := range orders {
		hour := order.Date.Hour()
		if _, ok := counts[hour]; !ok {
			seen = append(seen, hour)
		}
		counts[hour] += 1
	}

	out := make([]HourCount, 0, len(seen))
	for _, hour := range seen {
		out = append(out, HourCount{Hour: hour, Label: hourLabel(hour), Orders: counts[hour]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Orders > out[j].Orders
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func hourLabel(hour int) string {
	switch {
	case hour == 0:
		return "12 AM"
	case hour < 12:
		return strconv.Itoa(hour) + " AM"
	case hour == 12:
		return "12 PM"
	default:
		return strconv.Itoa(hour-12) + " PM"
	}
}
