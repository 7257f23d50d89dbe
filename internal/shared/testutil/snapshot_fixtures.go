package testutil

import (
	"time"

	"retailreports/pkg/contracts/domain"
)

// FixedExportTime is the invocation time used by export tests
var FixedExportTime = time.Date(2025, time.January, 20, 15, 4, 5, 0, time.UTC)

// FixedClock returns a clock that always reports FixedExportTime
func FixedClock() func() time.Time {
	return func() time.Time { return FixedExportTime }
}

// Float64Ptr returns a pointer to v
func Float64Ptr(v float64) *float64 {
	return &v
}

// SampleSnapshot returns a fresh snapshot whose categories and staff are
// deliberately not sorted by revenue. Its derived insights are:
// "Positive growth", "Electronics", "2-3PM" and "James Chen".
func SampleSnapshot() domain.AnalyticsSnapshot {
	return domain.AnalyticsSnapshot{
		DateRange: "Jan 1, 2025 - Jan 20, 2025",
		KPIs: []domain.KPI{
			{Title: "Total Revenue", Value: 125430.5, Kind: domain.KPIKindCurrency, ChangePercent: 12, ComparisonPeriod: "vs last month"},
			{Title: "Transactions", Value: 1842, Kind: domain.KPIKindCount, ChangePercent: 8, ComparisonPeriod: "vs last month"},
			{Title: "Average Order Value", Value: 68.1, Kind: domain.KPIKindCurrency, ChangePercent: -3, ComparisonPeriod: "vs last month"},
			{Title: "New Customers", Value: 1204, Kind: domain.KPIKindCount, ChangePercent: 5, ComparisonPeriod: "vs last month"},
		},
		Categories: []domain.CategoryPerformance{
			{Name: "Accessories", Revenue: 18200, SharePercent: 14.5, YoYGrowthPercent: Float64Ptr(4)},
			{Name: "Electronics", Revenue: 54300, SharePercent: 43.3, YoYGrowthPercent: Float64Ptr(15)},
			{Name: "Apparel", Revenue: 32100, SharePercent: 25.6},
			{Name: "Home & Garden", Revenue: 20830.5, SharePercent: 16.6, YoYGrowthPercent: Float64Ptr(-2)},
		},
		Transactions: []domain.Transaction{
			{ID: "TX-1001", Date: "2025-01-18", Customer: "Olivia Park", ItemCount: 3, Amount: 245.99, PaymentMethod: "Card", StaffName: "Maria Lopez"},
			{ID: "TX-1002", Date: "2025-01-19T14:32:00Z", Customer: "Noah Reed", ItemCount: 1, Amount: 1500, PaymentMethod: "Cash", StaffName: "James Chen"},
			{ID: "TX-1003", Date: "not a date", Customer: "Emma Stone", ItemCount: 2, Amount: 89.5, PaymentMethod: "Card", StaffName: "Aisha Khan"},
		},
		TopProducts: []domain.ProductPerformance{
			{Name: "Wireless Headphones", Revenue: 12400, UnitsSold: 155, GrowthPercent: 22, MarginPercent: Float64Ptr(38)},
			{Name: "Leather Wallet", Revenue: 6300, UnitsSold: 210, GrowthPercent: -4},
			{Name: "Smart Lamp", Revenue: 5120.75, UnitsSold: 64, GrowthPercent: 9, MarginPercent: Float64Ptr(41.5)},
		},
		StaffPerformance: []domain.StaffPerformance{
			{Name: "Maria Lopez", SalesCount: 412, Revenue: 38200, AvgOrderValue: 92.72, ConversionPercent: Float64Ptr(34)},
			{Name: "James Chen", SalesCount: 388, Revenue: 41250, AvgOrderValue: 106.31, ConversionPercent: Float64Ptr(31)},
			{Name: "Aisha Khan", SalesCount: 301, Revenue: 27400, AvgOrderValue: 91.03},
		},
		PeakHours: []domain.PeakHour{
			{HourLabel: "10-11AM", TransactionCount: 120, Revenue: 500},
			{HourLabel: "2-3PM", TransactionCount: 180, Revenue: 900},
			{HourLabel: "6-7PM", TransactionCount: 150, Revenue: 900},
		},
	}
}
