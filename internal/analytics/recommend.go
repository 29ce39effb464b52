package analytics

import "fmt"

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

type Recommendation struct {
	Priority string `json:"priority"`
	Title    string `json:"title"`
	Message  string `json:"message"`
}

type recommendationInput struct {
	stats       Stats
	topProducts []ProductStat
}

type recommendationRule struct {
	applies func(recommendationInput) bool
	build   func(recommendationInput) Recommendation
}

// Rules are independent and evaluated in order; several may fire on the same
// report. An all-zero input still triggers the order-value rule, so the
// fallback below is only reached when every threshold is satisfied.
var recommendationRules = []recommendationRule{
	{
		applies: func(in recommendationInput) bool { return in.stats.DeliveryRate < 80 },
		build: func(in recommendationInput) Recommendation {
			return Recommendation{
				Priority: PriorityHigh,
				Title:    "Improve Delivery Speed",
				Message:  fmt.Sprintf("Delivery rate is %.1f%%. Review courier capacity and order handoff.", in.stats.DeliveryRate),
			}
		},
	},
	{
		applies: func(in recommendationInput) bool { return in.stats.ActiveOrders > 10 },
		build: func(in recommendationInput) Recommendation {
			return Recommendation{
				Priority: PriorityHigh,
				Title:    "Process Pending Orders",
				Message:  fmt.Sprintf("%d orders are waiting in the kitchen queue.", in.stats.ActiveOrders),
			}
		},
	},
	{
		applies: func(in recommendationInput) bool { return in.stats.AvgOrderValue < 5000 },
		build: func(in recommendationInput) Recommendation {
			return Recommendation{
				Priority: PriorityMedium,
				Title:    "Increase Order Value",
				Message:  "Average order value is low. Consider combos and add-on suggestions at checkout.",
			}
		},
	},
	{
		applies: func(in recommendationInput) bool {
			return len(in.topProducts) > 0 && in.topProducts[0].Units < 5
		},
		build: func(in recommendationInput) Recommendation {
			return Recommendation{
				Priority: PriorityMedium,
				Title:    "Promote Top Products",
				Message:  fmt.Sprintf("Even %s has sold only %d units. Feature best sellers on the storefront.", in.topProducts[0].Name, in.topProducts[0].Units),
			}
		},
	},
}

// GenerateRecommendations never returns an empty list: when no rule fires it
// emits the single low-priority all-clear entry.
func GenerateRecommendations(stats Stats, topProducts []ProductStat) []Recommendation {
	in := recommendationInput{stats: stats, topProducts: topProducts}
	out := make([]Recommendation, 0, len(recommendationRules))
	for _, rule := range recommendationRules {
		if rule.applies(in) {
			out = append(out, rule.build(in))
		}
	}
	if len(out) == 0 {
		out = append(out, Recommendation{
			Priority: PriorityLow,
			Title:    "Business is Performing Well",
			Message:  "All key metrics are within healthy ranges.",
		})
	}
	return out
}
