package domain

// KPIKind selects how a KPI value is displayed
type KPIKind string

const (
	KPIKindCurrency KPIKind = "currency"
	KPIKindCount    KPIKind = "count"
)

// AnalyticsSnapshot is the pre-aggregated analytics input consumed by one export.
// It is read-only for the duration of an export call.
type AnalyticsSnapshot struct {
	DateRange        string                `json:"dateRange"`
	KPIs             []KPI                 `json:"kpis" validate:"required,min=1,dive"`
	Categories       []CategoryPerformance `json:"categories" validate:"required,min=1,dive"`
	Transactions     []Transaction         `json:"transactions" validate:"dive"`
	TopProducts      []ProductPerformance  `json:"topProducts" validate:"dive"`
	StaffPerformance []StaffPerformance    `json:"staffPerformance" validate:"required,min=1,dive"`
	PeakHours        []PeakHour            `json:"peakHours" validate:"required,min=1,dive"`
}

// KPI represents a headline metric with its period-over-period change
type KPI struct {
	Title            string  `json:"title"`
	Value            float64 `json:"value" validate:"finite,gte=0"`
	Kind             KPIKind `json:"kind" validate:"required,oneof=currency count"`
	ChangePercent    float64 `json:"changePercent" validate:"finite"`
	ComparisonPeriod string  `json:"comparisonPeriod"`
}

// CategoryPerformance represents revenue attributed to one product category
type CategoryPerformance struct {
	Name             string   `json:"name"`
	Revenue          float64  `json:"revenue" validate:"finite,gte=0"`
	SharePercent     float64  `json:"sharePercent" validate:"finite"`
	YoYGrowthPercent *float64 `json:"yoyGrowthPercent,omitempty" validate:"omitempty,finite"`
}

// Transaction represents one point-of-sale transaction
type Transaction struct {
	ID            string  `json:"id"`
	Date          string  `json:"date"`
	Customer      string  `json:"customer"`
	ItemCount     int     `json:"itemCount" validate:"gte=0"`
	Amount        float64 `json:"amount" validate:"finite,gte=0"`
	PaymentMethod string  `json:"paymentMethod"`
	StaffName     string  `json:"staffName"`
}

// ProductPerformance represents a best-selling product
type ProductPerformance struct {
	Name          string   `json:"name"`
	Revenue       float64  `json:"revenue" validate:"finite,gte=0"`
	UnitsSold     int      `json:"unitsSold" validate:"gte=0"`
	GrowthPercent float64  `json:"growthPercent" validate:"finite"`
	MarginPercent *float64 `json:"marginPercent,omitempty" validate:"omitempty,finite"`
}

// StaffPerformance represents sales attributed to one staff member
type StaffPerformance struct {
	Name              string   `json:"name"`
	SalesCount        int      `json:"salesCount" validate:"gte=0"`
	Revenue           float64  `json:"revenue" validate:"finite,gte=0"`
	AvgOrderValue     float64  `json:"avgOrderValue" validate:"finite,gte=0"`
	ConversionPercent *float64 `json:"conversionPercent,omitempty" validate:"omitempty,finite"`
}

// PeakHour represents activity within one hour-of-day bucket
type PeakHour struct {
	HourLabel        string  `json:"hourLabel"`
	TransactionCount int     `json:"transactionCount" validate:"gte=0"`
	Revenue          float64 `json:"revenue" validate:"finite,gte=0"`
}

// DerivedInsight is a textual observation computed from a snapshot
type DerivedInsight struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Text returns the insight as a single display line
func (d DerivedInsight) Text() string {
	return d.Label + ": " + d.Value
}
