package analytics

import "fmt"

const (
	InsightPositive = "positive"
	InsightNeutral  = "neutral"
	InsightNegative = "negative"
	InsightInfo     = "info"
)

type Insight struct {
	Title       string `json:"title"`
	Value       string `json:"value"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

type insightInput struct {
	stats        Stats
	topCustomers []CustomerStat
}

// Every rule always fires; the observed values only change its
// classification. Rules run in declaration order so the dashboard cards keep
// a stable layout.
var insightRules = []func(insightInput) Insight{
	deliverySuccessInsight,
	activeOrdersInsight,
	avgOrderValueInsight,
	customerRetentionInsight,
}

func GenerateInsights(stats Stats, topCustomers []CustomerStat) []Insight {
	in := insightInput{stats: stats, topCustomers: topCustomers}
	out := make([]Insight, 0, len(insightRules))
	for _, rule := range insightRules {
		out = append(out, rule(in))
	}
	return out
}

func deliverySuccessInsight(in insightInput) Insight {
	kind := InsightNegative
	if in.stats.DeliveryRate > 80 {
		kind = InsightPositive
	} else if in.stats.DeliveryRate > 60 {
		kind = InsightNeutral
	}
	return Insight{
		Title:       "Delivery Success Rate",
		Value:       fmt.Sprintf("%.1f%%", in.stats.DeliveryRate),
		Description: "Share of all orders that reached delivered status",
		Type:        kind,
	}
}

func activeOrdersInsight(in insightInput) Insight {
	return Insight{
		Title:       "Active Orders",
		Value:       fmt.Sprintf("%d", in.stats.ActiveOrders),
		Description: "Orders currently pending or being prepared",
		Type:        InsightInfo,
	}
}

func avgOrderValueInsight(in insightInput) Insight {
	return Insight{
		Title:       "Average Order Value",
		Value:       fmt.Sprintf("%.2f", in.stats.AvgOrderValue),
		Description: "Revenue per order across all settled sources",
		Type:        InsightPositive,
	}
}

func customerRetentionInsight(in insightInput) Insight {
	share := 0.0
	if len(in.topCustomers) > 0 && in.stats.TotalOrders > 0 {
		share = float64(in.topCustomers[0].Orders) / float64(in.stats.TotalOrders) * 100
	}
	return Insight{
		Title:       "Customer Retention",
		Value:       fmt.Sprintf("%.1f%%", share),
		Description: "Order share held by the single top customer",
		Type:        InsightInfo,
	}
}
