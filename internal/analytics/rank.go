package analytics

import (
	"sort"

	"tavolo-order-service/internal/domain"
)

// rankTable accumulates additive metrics per grouping key and remembers the
// order keys were first seen, so a descending sort breaks ties in favor of
// the earlier key. It backs every top-N leaderboard on the dashboard.
type rankTable[K comparable, A any] struct {
	order []K
	rows  map[K]*A
}

func newRankTable[K comparable, A any]() *rankTable[K, A] {
	return &rankTable[K, A]{rows: make(map[K]*A)}
}

func (t *rankTable[K, A]) row(key K) *A {
	if row, ok := t.rows[key]; ok {
		return row
	}
	row := new(A)
	t.rows[key] = row
	t.order = append(t.order, key)
	return row
}

// existing returns the row only if the key was already seeded; it never
// creates one.
func (t *rankTable[K, A]) existing(key K) (*A, bool) {
	row, ok := t.rows[key]
	return row, ok
}

func (t *rankTable[K, A]) top(n int, metric func(*A) float64) []A {
	rows := make([]*A, 0, len(t.order))
	for _, key := range t.order {
		rows = append(rows, t.rows[key])
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return metric(rows[i]) > metric(rows[j])
	})
	if n >= 0 && len(rows) > n {
		rows = rows[:n]
	}
	out := make([]A, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	return out
}

type ProductStat struct {
	Name    string  `json:"name"`
	Units   int     `json:"units"`
	Revenue float64 `json:"revenue"`
}

type CustomerStat struct {
	Email         string  `json:"email"`
	Orders        int     `json:"orders"`
	Revenue       float64 `json:"revenue"`
	AvgOrderValue float64 `json:"avgOrderValue"`
}

type RegionStat struct {
	Region  string  `json:"region"`
	Users   int     `json:"users"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// TopProducts ranks item names by units sold across every line of every
// order.
func TopProducts(orders []domain.Order, n int) []ProductStat {
	table := newRankTable[string, ProductStat]()
	for _, order := range orders {
		for _, item := range order.Items {
			row := table.row(item.Name)
			row.Name = item.Name
			row.Units += item.Quantity
			row.Revenue += float64(item.Quantity) * item.UnitPrice
		}
	}
	return table.top(n, func(p *ProductStat) float64 { return float64(p.Units) })
}

// TopCustomers ranks customers by revenue. The per-customer average is a
// derived figure computed once aggregation is complete, never incrementally.
func TopCustomers(orders []domain.Order, n int) []CustomerStat {
	table := newRankTable[string, CustomerStat]()
	for _, order := range orders {
		row := table.row(order.Email)
		row.Email = order.Email
		row.Orders += 1
		row.Revenue += order.Total
	}

	top := table.top(n, func(c *CustomerStat) float64 { return c.Revenue })
	for i := range top {
		if top[i].Orders > 0 {
			top[i].AvgOrderValue = top[i].Revenue / float64(top[i].Orders)
		}
	}
	return top
}

// TopLocations ranks delivery regions by order count. Region existence is
// defined by the user registry: user counts seed the table, and orders only
// accumulate into regions that were seeded. An order whose customer is not
// registered contributes nothing here.
func TopLocations(orders []domain.Order, users []domain.User, n int) []RegionStat {
	regionByEmail := make(map[string]string, len(users))
	table := newRankTable[string, RegionStat]()
	for _, user := range users {
		region := user.Region
		if region == "" {
			region = domain.UnknownRegion
		}
		regionByEmail[user.Email] = region
		row := table.row(region)
		row.Region = region
		row.Users += 1
	}

	for _, order := range orders {
		region, ok := regionByEmail[order.Email]
		if !ok {
			region = domain.UnknownRegion
		}
		row, seeded := table.existing(region)
		if !seeded {
			continue
		}
		row.Orders += 1
		row.Revenue += order.Total
	}

	return table.top(n, func(r *RegionStat) float64 { return float64(r.Orders) })
}
