// Package insights derives the textual observations printed at the end of
// every report.
package insights

import (
	apperrors "retailreports/internal/errors"
	"retailreports/pkg/contracts/domain"
)

// Insight labels, in the order Derive returns them
const (
	LabelRevenueTrend = "Revenue Trend"
	LabelTopCategory  = "Top Category"
	LabelPeakHour     = "Peak Hour"
	LabelTopStaff     = "Top Staff"

	TrendPositive  = "Positive growth"
	TrendDeclining = "Declining trend"
)

// Derive returns exactly four insights: revenue trend, top category, peak
// hour and top staff.
func Derive(snapshot *domain.AnalyticsSnapshot) ([]domain.DerivedInsight, error) {
	trend, err := RevenueTrend(snapshot.KPIs)
	if err != nil {
		return nil, err
	}
	category, err := TopCategory(snapshot.Categories)
	if err != nil {
		return nil, err
	}
	peak, err := PeakHour(snapshot.PeakHours)
	if err != nil {
		return nil, err
	}
	staff, err := TopStaff(snapshot.StaffPerformance)
	if err != nil {
		return nil, err
	}

	return []domain.DerivedInsight{
		{Label: LabelRevenueTrend, Value: trend},
		{Label: LabelTopCategory, Value: category.Name},
		{Label: LabelPeakHour, Value: peak.HourLabel},
		{Label: LabelTopStaff, Value: staff.Name},
	}, nil
}

// RevenueTrend reports the direction of the first KPI's change
func RevenueTrend(kpis []domain.KPI) (string, error) {
	if len(kpis) == 0 {
		return "", emptyInput("kpis")
	}
	if kpis[0].ChangePercent >= 0 {
		return TrendPositive, nil
	}
	return TrendDeclining, nil
}

// TopCategory returns the category with the highest revenue
func TopCategory(categories []domain.CategoryPerformance) (domain.CategoryPerformance, error) {
	if len(categories) == 0 {
		return domain.CategoryPerformance{}, emptyInput("categories")
	}
	return maxBy(categories, func(c domain.CategoryPerformance) float64 { return c.Revenue }), nil
}

// PeakHour returns the hour bucket with the highest revenue
func PeakHour(hours []domain.PeakHour) (domain.PeakHour, error) {
	if len(hours) == 0 {
		return domain.PeakHour{}, emptyInput("peakHours")
	}
	return maxBy(hours, func(h domain.PeakHour) float64 { return h.Revenue }), nil
}

// TopStaff returns the staff member with the highest revenue
func TopStaff(staff []domain.StaffPerformance) (domain.StaffPerformance, error) {
	if len(staff) == 0 {
		return domain.StaffPerformance{}, emptyInput("staffPerformance")
	}
	return maxBy(staff, func(s domain.StaffPerformance) float64 { return s.Revenue }), nil
}

// maxBy folds left from the first element and only replaces the accumulator
// on a strictly greater key, so the earliest entry wins ties.
func maxBy[T any](items []T, key func(T) float64) T {
	best := items[0]
	bestKey := key(best)
	for _, item := range items[1:] {
		if k := key(item); k > bestKey {
			best, bestKey = item, k
		}
	}
	return best
}

func emptyInput(field string) error {
	return apperrors.NewPreconditionError(field + " must not be empty").WithContext("field", field)
}
