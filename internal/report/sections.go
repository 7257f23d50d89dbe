package report

import (
	"fmt"
	"math"

	apperrors "retailreports/internal/errors"
	"retailreports/internal/formatting"
	"retailreports/pkg/contracts/domain"
)

// rowWriter collects formatted cells and keeps the first formatting error
type rowWriter struct {
	cells []string
	err   error
}

func newRow(size int) *rowWriter {
	return &rowWriter{cells: make([]string, 0, size)}
}

func (w *rowWriter) text(s string) *rowWriter {
	w.cells = append(w.cells, s)
	return w
}

func (w *rowWriter) formatted(format func() (string, error)) *rowWriter {
	if w.err != nil {
		w.cells = append(w.cells, "")
		return w
	}
	s, err := format()
	w.err = err
	w.cells = append(w.cells, s)
	return w
}

func (w *rowWriter) currency(v float64) *rowWriter {
	return w.formatted(func() (string, error) { return formatting.FormatCurrency(v) })
}

func (w *rowWriter) signedPercent(v float64) *rowWriter {
	return w.formatted(func() (string, error) { return formatting.FormatSignedPercent(v) })
}

func (w *rowWriter) percent(v float64) *rowWriter {
	return w.formatted(func() (string, error) { return formatting.FormatPercent(v) })
}

func (w *rowWriter) optionalPercent(v *float64) *rowWriter {
	return w.formatted(func() (string, error) { return formatting.FormatOptionalPercent(v) })
}

func (w *rowWriter) count(n int) *rowWriter {
	return w.text(formatting.FormatCount(n))
}

func (w *rowWriter) done() ([]string, error) {
	return w.cells, w.err
}

func kpiSection(s *domain.AnalyticsSnapshot, meta []Metadata) (Section, error) {
	section := Section{
		Key:       SectionKPIs,
		Title:     "Key Performance Indicators",
		SheetName: "KPI Summary",
		Metadata:  meta,
		Columns:   []string{"Metric", "Value", "Change", "Comparison Period"},
	}
	for _, kpi := range s.KPIs {
		w := newRow(len(section.Columns)).text(kpi.Title)
		if kpi.Kind == domain.KPIKindCurrency {
			w.currency(kpi.Value)
		} else {
			w.formatted(func() (string, error) { return formatting.FormatNumber(kpi.Value) })
		}
		row, err := w.signedPercent(kpi.ChangePercent).text(kpi.ComparisonPeriod).done()
		if err != nil {
			return Section{}, fmt.Errorf("failed to format KPI %q: %w", kpi.Title, err)
		}
		section.Rows = append(section.Rows, row)
	}
	return section, nil
}

func categorySection(s *domain.AnalyticsSnapshot, meta []Metadata) (Section, error) {
	section := Section{
		Key:       SectionCategories,
		Title:     "Category Performance",
		SheetName: "Category Performance",
		Metadata:  meta,
		Columns:   []string{"Category", "Revenue", "Share", "YoY Growth"},
	}
	for _, c := range s.Categories {
		row, err := newRow(len(section.Columns)).
			text(c.Name).
			currency(c.Revenue).
			percent(c.SharePercent).
			optionalPercent(c.YoYGrowthPercent).
			done()
		if err != nil {
			return Section{}, fmt.Errorf("failed to format category %q: %w", c.Name, err)
		}
		section.Rows = append(section.Rows, row)
	}
	return section, nil
}

func transactionSection(s *domain.AnalyticsSnapshot, _ []Metadata) (Section, error) {
	section := Section{
		Key:       SectionTransactions,
		Title:     "Transactions",
		SheetName: "Transactions",
		Columns:   []string{"Transaction ID", "Date", "Customer", "Items", "Amount", "Payment Method", "Staff"},
	}
	for _, tx := range s.Transactions {
		row, err := newRow(len(section.Columns)).
			text(tx.ID).
			text(formatting.FormatDateString(tx.Date)).
			text(tx.Customer).
			count(tx.ItemCount).
			currency(tx.Amount).
			text(tx.PaymentMethod).
			text(tx.StaffName).
			done()
		if err != nil {
			return Section{}, fmt.Errorf("failed to format transaction %q: %w", tx.ID, err)
		}
		section.Rows = append(section.Rows, row)
	}
	return section, nil
}

func topProductSection(s *domain.AnalyticsSnapshot, _ []Metadata) (Section, error) {
	section := Section{
		Key:       SectionTopProducts,
		Title:     "Top Products",
		SheetName: "Best Sellers",
		Columns:   []string{"Product", "Revenue", "Units Sold", "Growth", "Margin"},
	}
	for _, p := range s.TopProducts {
		row, err := newRow(len(section.Columns)).
			text(p.Name).
			currency(p.Revenue).
			count(p.UnitsSold).
			signedPercent(p.GrowthPercent).
			optionalPercent(p.MarginPercent).
			done()
		if err != nil {
			return Section{}, fmt.Errorf("failed to format product %q: %w", p.Name, err)
		}
		section.Rows = append(section.Rows, row)
	}
	return section, nil
}

func staffSection(s *domain.AnalyticsSnapshot, _ []Metadata) (Section, error) {
	section := Section{
		Key:       SectionStaff,
		Title:     "Staff Performance",
		SheetName: "Staff Performance",
		Columns:   []string{"Staff Member", "Sales", "Revenue", "Avg Order Value", "Conversion"},
	}
	for _, m := range s.StaffPerformance {
		row, err := newRow(len(section.Columns)).
			text(m.Name).
			count(m.SalesCount).
			currency(m.Revenue).
			currency(m.AvgOrderValue).
			optionalPercent(m.ConversionPercent).
			done()
		if err != nil {
			return Section{}, fmt.Errorf("failed to format staff member %q: %w", m.Name, err)
		}
		section.Rows = append(section.Rows, row)
	}
	return section, nil
}

func peakHourSection(s *domain.AnalyticsSnapshot, _ []Metadata) (Section, error) {
	section := Section{
		Key:       SectionPeakHours,
		Title:     "Peak Hours",
		SheetName: "Peak Hours",
		Columns:   []string{"Hour", "Transactions", "Revenue", "Average Transaction Value"},
	}
	for _, h := range s.PeakHours {
		avg, err := AverageTransactionValue(h)
		if err != nil {
			return Section{}, err
		}
		row, err := newRow(len(section.Columns)).
			text(h.HourLabel).
			count(h.TransactionCount).
			currency(h.Revenue).
			currency(avg).
			done()
		if err != nil {
			return Section{}, fmt.Errorf("failed to format peak hour %q: %w", h.HourLabel, err)
		}
		section.Rows = append(section.Rows, row)
	}
	return section, nil
}

// AverageTransactionValue returns Revenue / TransactionCount, or a
// PreconditionError when the quotient is not finite.
func AverageTransactionValue(h domain.PeakHour) (float64, error) {
	avg := h.Revenue / float64(h.TransactionCount)
	if math.IsNaN(avg) || math.IsInf(avg, 0) {
		return 0, apperrors.NewPreconditionError(
			fmt.Sprintf("average transaction value for %q is not finite (transactionCount=%d)", h.HourLabel, h.TransactionCount)).
			WithContext("field", "peakHours.transactionCount").
			WithContext("hourLabel", h.HourLabel)
	}
	return avg, nil
}
