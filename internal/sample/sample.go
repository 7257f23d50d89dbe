// Package sample generates plausible analytics snapshots for demos and
// manual testing of the export endpoints.
package sample

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
	"github.com/shopspring/decimal"

	"retailreports/pkg/contracts/domain"
)

var categoryNames = []string{
	"Electronics", "Clothing", "Home & Garden", "Sports", "Beauty",
	"Toys", "Groceries", "Books",
}

var productNames = []string{
	"Wireless Headphones", "Running Shoes", "Coffee Maker", "Yoga Mat",
	"Smart Watch", "Denim Jacket", "Desk Lamp", "Water Bottle",
	"Bluetooth Speaker", "Face Serum",
}

var paymentMethods = []string{"Credit Card", "Debit Card", "Cash", "Mobile Pay"}

var hourLabels = []string{
	"9-10AM", "10-11AM", "11AM-12PM", "12-1PM", "1-2PM", "2-3PM",
	"3-4PM", "4-5PM", "5-6PM", "6-7PM",
}

// Options controls the size of a generated snapshot
type Options struct {
	Seed         int64
	Categories   int
	Transactions int
	Products     int
	Staff        int
	PeakHours    int
	End          time.Time
}

// DefaultOptions returns a snapshot shape similar to a month of trading
func DefaultOptions() Options {
	return Options{
		Seed:         1,
		Categories:   5,
		Transactions: 20,
		Products:     5,
		Staff:        4,
		PeakHours:    6,
		End:          time.Now(),
	}
}

// Generator builds snapshots from a seeded faker. Numbers and names are
// reproducible for a given seed; transaction IDs are always unique.
type Generator struct {
	fake faker.Faker
	opts Options
}

// NewGenerator creates a generator. Counts are clamped to the available
// name pools and to at least one entry per required section.
func NewGenerator(opts Options) *Generator {
	opts.Categories = clamp(opts.Categories, 1, len(categoryNames))
	opts.Products = clamp(opts.Products, 0, len(productNames))
	opts.Staff = clamp(opts.Staff, 1, 50)
	opts.PeakHours = clamp(opts.PeakHours, 1, len(hourLabels))
	opts.Transactions = clamp(opts.Transactions, 0, 1000)
	if opts.End.IsZero() {
		opts.End = time.Now()
	}

	return &Generator{
		fake: faker.NewWithSeed(rand.NewSource(opts.Seed)),
		opts: opts,
	}
}

// Snapshot generates one snapshot covering the 30 days before End
func (g *Generator) Snapshot() domain.AnalyticsSnapshot {
	end := g.opts.End
	start := end.AddDate(0, 0, -30)

	categories := g.categories()
	staff := g.staff()
	peak := g.peakHours()

	var revenue decimal.Decimal
	for _, c := range categories {
		revenue = revenue.Add(decimal.NewFromFloat(c.Revenue))
	}
	var count int
	for _, p := range peak {
		count += p.TransactionCount
	}

	return domain.AnalyticsSnapshot{
		DateRange: fmt.Sprintf("%s - %s", start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006")),
		KPIs: []domain.KPI{
			{Title: "Total Revenue", Value: revenue.InexactFloat64(), Kind: domain.KPIKindCurrency, ChangePercent: g.percent(-15, 25), ComparisonPeriod: "vs last month"},
			{Title: "Transactions", Value: float64(count), Kind: domain.KPIKindCount, ChangePercent: g.percent(-10, 20), ComparisonPeriod: "vs last month"},
			{Title: "Avg Order Value", Value: money(revenue.InexactFloat64() / float64(count)), Kind: domain.KPIKindCurrency, ChangePercent: g.percent(-5, 10), ComparisonPeriod: "vs last month"},
			{Title: "Active Customers", Value: float64(g.fake.IntBetween(100, 2000)), Kind: domain.KPIKindCount, ChangePercent: g.percent(-5, 15), ComparisonPeriod: "vs last month"},
		},
		Categories:       categories,
		Transactions:     g.transactions(start, end, staff),
		TopProducts:      g.products(),
		StaffPerformance: staff,
		PeakHours:        peak,
	}
}

func (g *Generator) categories() []domain.CategoryPerformance {
	names := g.pick(categoryNames, g.opts.Categories)

	revenues := make([]decimal.Decimal, len(names))
	var total decimal.Decimal
	for i := range names {
		revenues[i] = decimal.NewFromFloat(g.fake.Float64(2, 5000, 60000))
		total = total.Add(revenues[i])
	}

	out := make([]domain.CategoryPerformance, len(names))
	for i, name := range names {
		share := revenues[i].Div(total).Mul(decimal.NewFromInt(100)).Round(1)
		out[i] = domain.CategoryPerformance{
			Name:         name,
			Revenue:      revenues[i].Round(2).InexactFloat64(),
			SharePercent: share.InexactFloat64(),
		}
		// Newly listed categories have no prior year
		if g.fake.IntBetween(0, 4) > 0 {
			growth := g.percent(-20, 40)
			out[i].YoYGrowthPercent = &growth
		}
	}
	return out
}

func (g *Generator) transactions(start, end time.Time, staff []domain.StaffPerformance) []domain.Transaction {
	span := int(end.Sub(start).Hours())
	out := make([]domain.Transaction, g.opts.Transactions)
	for i := range out {
		at := start.Add(time.Duration(g.fake.IntBetween(0, span)) * time.Hour)
		out[i] = domain.Transaction{
			ID:            cuid.New(),
			Date:          at.Format("2006-01-02 15:04"),
			Customer:      g.fake.Person().Name(),
			ItemCount:     g.fake.IntBetween(1, 8),
			Amount:        g.fake.Float64(2, 5, 800),
			PaymentMethod: g.fake.RandomStringElement(paymentMethods),
			StaffName:     staff[g.fake.IntBetween(0, len(staff)-1)].Name,
		}
	}
	return out
}

func (g *Generator) products() []domain.ProductPerformance {
	names := g.pick(productNames, g.opts.Products)
	out := make([]domain.ProductPerformance, len(names))
	for i, name := range names {
		units := g.fake.IntBetween(20, 600)
		price := g.fake.Float64(2, 10, 250)
		out[i] = domain.ProductPerformance{
			Name:          name,
			Revenue:       money(float64(units) * price),
			UnitsSold:     units,
			GrowthPercent: g.percent(-15, 45),
		}
		if g.fake.Bool() {
			margin := g.percent(10, 60)
			out[i].MarginPercent = &margin
		}
	}
	return out
}

func (g *Generator) staff() []domain.StaffPerformance {
	out := make([]domain.StaffPerformance, g.opts.Staff)
	for i := range out {
		sales := g.fake.IntBetween(40, 400)
		revenue := money(float64(sales) * g.fake.Float64(2, 30, 150))
		out[i] = domain.StaffPerformance{
			Name:          g.fake.Person().Name(),
			SalesCount:    sales,
			Revenue:       revenue,
			AvgOrderValue: money(revenue / float64(sales)),
		}
		if g.fake.IntBetween(0, 3) > 0 {
			conversion := g.percent(5, 45)
			out[i].ConversionPercent = &conversion
		}
	}
	return out
}

// peakHours keeps the busiest hours in clock order. Every bucket has at
// least one transaction so average transaction values stay defined.
func (g *Generator) peakHours() []domain.PeakHour {
	first := g.fake.IntBetween(0, len(hourLabels)-g.opts.PeakHours)
	out := make([]domain.PeakHour, g.opts.PeakHours)
	for i := range out {
		count := g.fake.IntBetween(5, 120)
		out[i] = domain.PeakHour{
			HourLabel:        hourLabels[first+i],
			TransactionCount: count,
			Revenue:          money(float64(count) * g.fake.Float64(2, 20, 90)),
		}
	}
	return out
}

// pick returns n distinct entries of pool in a seeded order
func (g *Generator) pick(pool []string, n int) []string {
	shuffled := append([]string(nil), pool...)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := g.fake.IntBetween(0, i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:n]
}

func (g *Generator) percent(min, max int) float64 {
	return g.fake.Float64(1, min, max)
}

func money(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
