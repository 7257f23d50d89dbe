// Package report assembles an analytics snapshot into an ordered list of
// typed sections that every export format serializes independently.
//
// All formatting and derivation happens here, so serializers only lay out
// strings. A new export format needs a serializer and nothing else.
package report

import (
	"time"

	"retailreports/internal/formatting"
	"retailreports/internal/insights"
	"retailreports/pkg/contracts/domain"
)

// Title is the heading printed at the top of every report
const Title = "Retail Analytics Report"

// SectionKey identifies one logical report block
type SectionKey string

const (
	SectionKPIs         SectionKey = "kpis"
	SectionCategories   SectionKey = "categories"
	SectionTransactions SectionKey = "transactions"
	SectionTopProducts  SectionKey = "top_products"
	SectionStaff        SectionKey = "staff"
	SectionPeakHours    SectionKey = "peak_hours"
)

// Metadata is a label/value pair shown above a section's header row
type Metadata struct {
	Label string
	Value string
}

// Section is one table of display strings. Rows follow input order.
type Section struct {
	Key       SectionKey
	Title     string
	SheetName string
	Metadata  []Metadata
	Columns   []string
	Rows      [][]string
}

// HasMetadata reports whether the section carries a metadata block
func (s Section) HasMetadata() bool {
	return len(s.Metadata) > 0
}

// Report is the fully formatted content of one export
type Report struct {
	Title       string
	DateRange   string
	GeneratedOn string
	GeneratedAt time.Time
	Sections    []Section
	Insights    []domain.DerivedInsight
}

// Section returns the section with the given key
func (r *Report) Section(key SectionKey) (Section, bool) {
	for _, s := range r.Sections {
		if s.Key == key {
			return s, true
		}
	}
	return Section{}, false
}

// Build formats snapshot into a Report stamped with generatedAt. It fails
// with a PreconditionError or FormattingError before any output exists.
func Build(snapshot *domain.AnalyticsSnapshot, generatedAt time.Time) (*Report, error) {
	derived, err := insights.Derive(snapshot)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Title:       Title,
		DateRange:   snapshot.DateRange,
		GeneratedOn: formatting.FormatDate(generatedAt),
		GeneratedAt: generatedAt,
		Insights:    derived,
	}

	meta := []Metadata{
		{Label: "Report Period", Value: r.DateRange},
		{Label: "Generated on", Value: r.GeneratedOn},
	}

	builders := []func(*domain.AnalyticsSnapshot, []Metadata) (Section, error){
		kpiSection,
		categorySection,
		transactionSection,
		topProductSection,
		staffSection,
		peakHourSection,
	}
	for _, build := range builders {
		section, err := build(snapshot, meta)
		if err != nil {
			return nil, err
		}
		r.Sections = append(r.Sections, section)
	}

	return r, nil
}
