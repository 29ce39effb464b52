package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/phpdave11/gofpdf"

	"tavolo-order-service/internal/analytics"
	"tavolo-order-service/pkg/response"
)

func (h *Handler) AdminDashboardExportCSV(w http.ResponseWriter, r *http.Request) {
	report, err := h.LoadReport(r.Context())
	if err != nil {
		h.Logger.Error("dashboard export failed", zapError(err))
		response.Error(w, http.StatusServiceUnavailable, "DATA_UNAVAILABLE", "Dashboard data could not be loaded")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="dashboard-`+time.Now().Format("2006-01-02")+`.csv"`)

	cw := csv.NewWriter(w)
	defer cw.Flush()

	_ = cw.Write([]string{"metric", "value"})
	_ = cw.Write([]string{"totalOrders", strconv.Itoa(report.Stats.TotalOrders)})
	_ = cw.Write([]string{"totalRevenue", formatAmount(report.Stats.TotalRevenue)})
	_ = cw.Write([]string{"totalRevenueFromPayments", formatAmount(report.Stats.TotalRevenueFromPayments)})
	_ = cw.Write([]string{"totalUsers", strconv.Itoa(report.Stats.TotalUsers)})
	_ = cw.Write([]string{"avgOrderValue", formatAmount(report.Stats.AvgOrderValue)})
	_ = cw.Write([]string{"deliveryRate", formatAmount(report.Stats.DeliveryRate)})
	_ = cw.Write([]string{"activeOrders", strconv.Itoa(report.Stats.ActiveOrders)})

	_ = cw.Write(nil)
	_ = cw.Write([]string{"status", "count", "percentage"})
	for _, bucket := range report.StatusDistribution {
		_ = cw.Write([]string{bucket.Status, strconv.Itoa(bucket.Count), strconv.Itoa(bucket.Percentage)})
	}

	_ = cw.Write(nil)
	_ = cw.Write([]string{"product", "units", "revenue"})
	for _, product := range report.TopProducts {
		_ = cw.Write([]string{product.Name, strconv.Itoa(product.Units), formatAmount(product.Revenue)})
	}

	_ = cw.Write(nil)
	_ = cw.Write([]string{"date", "revenue", "orders"})
	for _, point := range report.RevenueTrend {
		_ = cw.Write([]string{point.Date, formatAmount(point.Revenue), strconv.Itoa(point.Orders)})
	}
}

func (h *Handler) AdminDashboardExportPDF(w http.ResponseWriter, r *http.Request) {
	report, err := h.LoadReport(r.Context())
	if err != nil {
		h.Logger.Error("dashboard export failed", zapError(err))
		response.Error(w, http.StatusServiceUnavailable, "DATA_UNAVAILABLE", "Dashboard data could not be loaded")
		return
	}

	pdf := buildDashboardPDF(report)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="dashboard-`+time.Now().Format("2006-01-02")+`.pdf"`)
	if err := pdf.Output(w); err != nil {
		h.Logger.Error("pdf render failed", zapError(err))
	}
}

func buildDashboardPDF(report *analytics.Report) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 9, "Dashboard Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, "Generated "+time.Now().Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 7, "Key Figures", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	figures := [][2]string{
		{"Total Orders", strconv.Itoa(report.Stats.TotalOrders)},
		{"Total Revenue", formatAmount(report.Stats.TotalRevenue)},
		{"Revenue From Payments", formatAmount(report.Stats.TotalRevenueFromPayments)},
		{"Total Users", strconv.Itoa(report.Stats.TotalUsers)},
		{"Average Order Value", formatAmount(report.Stats.AvgOrderValue)},
		{"Delivery Rate", formatAmount(report.Stats.DeliveryRate) + "%"},
		{"Active Orders", strconv.Itoa(report.Stats.ActiveOrders)},
	}
	for _, row := range figures {
		pdf.CellFormat(70, 6, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, row[1], "", 1, "R", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 7, "Order Status", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, bucket := range report.StatusDistribution {
		pdf.CellFormat(70, 6, bucket.Status, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, fmt.Sprintf("%d (%d%%)", bucket.Count, bucket.Percentage), "", 1, "R", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 7, "Top Products", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, product := range report.TopProducts {
		pdf.CellFormat(70, 6, product.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, fmt.Sprintf("%d units / %s", product.Units, formatAmount(product.Revenue)), "", 1, "R", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 7, "Recommendations", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, rec := range report.Recommendations {
		pdf.MultiCell(0, 5, fmt.Sprintf("[%s] %s - %s", rec.Priority, rec.Title, rec.Message), "", "L", false)
	}

	return pdf
}

func formatAmount(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}
