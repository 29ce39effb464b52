package analytics

import (
	"testing"
	"time"

	"tavolo-order-service/internal/domain"
)

func TestRevenueTrendAlwaysSevenDays(t *testing.T) {
	orders := []domain.Order{
		order("o1", "a@example.com", 100, "delivered", testNow),
		order("o2", "a@example.com", 50, "delivered", testNow.AddDate(0, 0, -2)),
		// Outside the window: ignored.
		order("o3", "a@example.com", 999, "delivered", testNow.AddDate(0, 0, -10)),
		order("o4", "a@example.com", 999, "delivered", testNow.AddDate(0, 0, 1)),
	}

	trend := RevenueTrend(orders, testNow)
	if len(trend) != revenueTrendDays {
		t.Fatalf("expected %d entries, got %d", revenueTrendDays, len(trend))
	}

	for i := 1; i < len(trend); i++ {
		if trend[i].Date <= trend[i-1].Date {
			t.Fatalf("trend not oldest-first: %s then %s", trend[i-1].Date, trend[i].Date)
		}
	}

	if last := trend[len(trend)-1]; last.Date != "2025-03-14" || last.Revenue != 100 || last.Orders != 1 {
		t.Fatalf("unexpected today bucket: %+v", last)
	}
	if mid := trend[len(trend)-3]; mid.Date != "2025-03-12" || mid.Revenue != 50 {
		t.Fatalf("unexpected bucket for two days ago: %+v", mid)
	}

	total := 0.0
	for _, point := range trend {
		total += point.Revenue
	}
	if total != 150 {
		t.Fatalf("out-of-window orders leaked into trend: %f", total)
	}
}

func TestRevenueTrendEmptyOrders(t *testing.T) {
	trend := RevenueTrend(nil, testNow)
	if len(trend) != revenueTrendDays {
		t.Fatalf("expected %d zero entries, got %d", revenueTrendDays, len(trend))
	}
	for _, point := range trend {
		if point.Revenue != 0 || point.Orders != 0 {
			t.Fatalf("expected zero bucket, got %+v", point)
		}
	}
}

func TestPeakHoursSparseDescending(t *testing.T) {
	at := func(hour int) time.Time {
		return time.Date(2025, time.March, 10, hour, 0, 0, 0, time.UTC)
	}

	var orders []domain.Order
	for i := 0; i < 3; i++ {
		orders = append(orders, order("o", "a@example.com", 10, "delivered", at(19)))
	}
	for i := 0; i < 2; i++ {
		orders = append(orders, order("o", "a@example.com", 10, "delivered", at(12)))
	}
	orders = append(orders, order("o", "a@example.com", 10, "delivered", at(8)))

	peaks := PeakHours(orders, peakHoursLimit)
	if len(peaks) != 3 {
		t.Fatalf("expected 3 sparse entries, got %d", len(peaks))
	}
	if peaks[0].Hour != 19 || peaks[0].Orders != 3 || peaks[0].Label != "7 PM" {
		t.Fatalf("unexpected peak: %+v", peaks[0])
	}
	if peaks[1].Hour != 12 || peaks[1].Label != "12 PM" {
		t.Fatalf("unexpected second peak: %+v", peaks[1])
	}
	if peaks[2].Hour != 8 || peaks[2].Label != "8 AM" {
		t.Fatalf("unexpected third peak: %+v", peaks[2])
	}
}

func TestPeakHoursTruncationAndTies(t *testing.T) {
	var orders []domain.Order
	// Nine distinct hours with one order each: ties keep first-seen hour.
	for _, hour := range []int{9, 13, 7, 20, 11, 15, 22, 0, 18} {
		orders = append(orders, order("o", "a@example.com", 10, "delivered",
			time.Date(2025, time.March, 10, hour, 0, 0, 0, time.UTC)))
	}

	peaks := PeakHours(orders, peakHoursLimit)
	if len(peaks) != peakHoursLimit {
		t.Fatalf("expected truncation to %d, got %d", peakHoursLimit, len(peaks))
	}
	expected := []int{9, 13, 7, 20, 11, 15, 22}
	for i, hour := range expected {
		if peaks[i].Hour != hour {
			t.Fatalf("tie order broken at %d: expected hour %d, got %d", i, hour, peaks[i].Hour)
		}
	}
}

func TestHourLabels(t *testing.T) {
	cases := []struct {
		hour     int
		expected string
	}{
		{0, "12 AM"},
		{1, "1 AM"},
		{11, "11 AM"},
		{12, "12 PM"},
		{13, "1 PM"},
		{23, "11 PM"},
	}
	for _, tc := range cases {
		if got := hourLabel(tc.hour); got != tc.expected {
			t.Fatalf("hour %d: expected %s, got %s", tc.hour, tc.expected, got)
		}
	}
}
