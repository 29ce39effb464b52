package analytics

import (
	"testing"

	"tavolo-order-service/internal/domain"
)

func TestTopProducts(t *testing.T) {
	orders := []domain.Order{
		order("o1", "a@example.com", 0, "delivered", testNow,
			domain.OrderItem{Name: "Jollof Rice", Quantity: 3, UnitPrice: 1500},
			domain.OrderItem{Name: "Suya", Quantity: 1, UnitPrice: 2000},
		),
		order("o2", "b@example.com", 0, "delivered", testNow,
			domain.OrderItem{Name: "Suya", Quantity: 4, UnitPrice: 2000},
			domain.OrderItem{Name: "Moi Moi", Quantity: 2, UnitPrice: 800},
		),
	}

	top := TopProducts(orders, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 products, got %d", len(top))
	}
	if top[0].Name != "Suya" || top[0].Units != 5 || top[0].Revenue != 10000 {
		t.Fatalf("unexpected leader: %+v", top[0])
	}
	if top[1].Name != "Jollof Rice" || top[1].Units != 3 {
		t.Fatalf("unexpected runner-up: %+v", top[1])
	}
}

func TestTopCustomersDerivedAverage(t *testing.T) {
	orders := []domain.Order{
		order("o1", "big@example.com", 4000, "delivered", testNow),
		order("o2", "big@example.com", 2000, "delivered", testNow),
		order("o3", "small@example.com", 1000, "pending", testNow),
	}

	top := TopCustomers(orders, 5)
	if len(top) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(top))
	}
	if top[0].Email != "big@example.com" || top[0].Revenue != 6000 || top[0].Orders != 2 {
		t.Fatalf("unexpected top customer: %+v", top[0])
	}
	if top[0].AvgOrderValue != 3000 {
		t.Fatalf("expected derived average 3000, got %f", top[0].AvgOrderValue)
	}
}

func TestTopNTieBreakIsFirstSeen(t *testing.T) {
	orders := []domain.Order{
		order("o1", "first@example.com", 500, "delivered", testNow),
		order("o2", "second@example.com", 500, "delivered", testNow),
		order("o3", "third@example.com", 500, "delivered", testNow),
	}

	top := TopCustomers(orders, 2)
	if len(top) != 2 {
		t.Fatalf("expected truncation to 2, got %d", len(top))
	}
	if top[0].Email != "first@example.com" || top[1].Email != "second@example.com" {
		t.Fatalf("tie-break not first-seen: %s, %s", top[0].Email, top[1].Email)
	}
}

func TestTopLocationsSeededFromUsers(t *testing.T) {
	users := []domain.User{
		{Email: "a@example.com", Region: "Lekki"},
		{Email: "b@example.com", Region: "Lekki"},
		{Email: "c@example.com", Region: ""},
		{Email: "idle@example.com", Region: "Ikeja"},
	}
	orders := []domain.Order{
		order("o1", "a@example.com", 3000, "delivered", testNow),
		order("o2", "b@example.com", 2000, "delivered", testNow),
		order("o3", "c@example.com", 1000, "delivered", testNow),
		// No registered user: contributes to no region.
		order("o4", "ghost@example.com", 9000, "delivered", testNow),
	}

	top := TopLocations(orders, users, 5)
	if len(top) != 3 {
		t.Fatalf("expected 3 regions, got %d", len(top))
	}
	if top[0].Region != "Lekki" || top[0].Orders != 2 || top[0].Revenue != 5000 || top[0].Users != 2 {
		t.Fatalf("unexpected leading region: %+v", top[0])
	}

	var unknown *RegionStat
	for i := range top {
		if top[i].Region == domain.UnknownRegion {
			unknown = &top[i]
		}
	}
	if unknown == nil {
		t.Fatalf("expected a seeded Unknown region")
	}
	// ghost@example.com resolves to Unknown, and Unknown was seeded by c's
	// registration, so the ghost order lands here alongside c's.
	if unknown.Users != 1 || unknown.Orders != 2 || unknown.Revenue != 10000 {
		t.Fatalf("unexpected Unknown region: %+v", unknown)
	}

	// A region with users but no orders still appears with zero counts.
	var ikeja *RegionStat
	for i := range top {
		if top[i].Region == "Ikeja" {
			ikeja = &top[i]
		}
	}
	if ikeja == nil || ikeja.Users != 1 || ikeja.Orders != 0 {
		t.Fatalf("expected idle Ikeja with one user, got %+v", ikeja)
	}
}

func TestTopLocationsUnseededUnknownIsDropped(t *testing.T) {
	users := []domain.User{
		{Email: "a@example.com", Region: "Lekki"},
	}
	orders := []domain.Order{
		order("o1", "ghost@example.com", 9000, "delivered", testNow),
	}

	top := TopLocations(orders, users, 5)
	if len(top) != 1 || top[0].Region != "Lekki" {
		t.Fatalf("expected only the seeded region, got %+v", top)
	}
	if top[0].Orders != 0 {
		t.Fatalf("unregistered customer's order must contribute nothing, got %d", top[0].Orders)
	}
}
