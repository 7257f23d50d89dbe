package formatting

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	apperrors "retailreports/internal/errors"
)

const (
	// InvalidDate is rendered for dates that cannot be parsed
	InvalidDate = "Invalid Date"

	// NotAvailable is rendered for optional values that are absent
	NotAvailable = "N/A"

	dateLayout     = "Jan 2, 2006"
	currencySymbol = "$"
)

var locale = language.AmericanEnglish

// dateInputLayouts are tried in order by FormatDateString
var dateInputLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
}

// FormatCurrency renders amount as USD with grouping, no minimum fraction
// digits and at most two: 1500 -> "$1,500", 1234.567 -> "$1,234.57",
// -250 -> "-$250".
func FormatCurrency(amount float64) (string, error) {
	if err := requireFinite("currency amount", amount); err != nil {
		return "", err
	}

	cents := decimal.NewFromFloat(amount).Round(2)
	sign := ""
	if cents.Sign() < 0 {
		sign = "-"
	}
	abs, _ := cents.Abs().Float64()

	p := message.NewPrinter(locale)
	return sign + currencySymbol + p.Sprint(number.Decimal(abs, number.MaxFractionDigits(2))), nil
}

// FormatNumber renders v with thousands grouping and at most two fraction digits
func FormatNumber(v float64) (string, error) {
	if err := requireFinite("number", v); err != nil {
		return "", err
	}
	rounded, _ := decimal.NewFromFloat(v).Round(2).Float64()
	p := message.NewPrinter(locale)
	return p.Sprint(number.Decimal(rounded, number.MaxFractionDigits(2))), nil
}

// FormatCount renders n with thousands grouping
func FormatCount(n int) string {
	p := message.NewPrinter(locale)
	return p.Sprintf("%d", n)
}

// FormatPercent renders v at its own precision with a "%" suffix
func FormatPercent(v float64) (string, error) {
	if err := requireFinite("percent", v); err != nil {
		return "", err
	}
	if v == 0 {
		// drop the sign of negative zero
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + "%", nil
}

// FormatSignedPercent is FormatPercent with a leading "+" when v >= 0
func FormatSignedPercent(v float64) (string, error) {
	s, err := FormatPercent(v)
	if err != nil {
		return "", err
	}
	if v >= 0 {
		return "+" + s, nil
	}
	return s, nil
}

// FormatOptionalPercent renders NotAvailable for a nil value
func FormatOptionalPercent(v *float64) (string, error) {
	if v == nil {
		return NotAvailable, nil
	}
	return FormatPercent(*v)
}

// FormatDate renders t as "Jan 2, 2006". The zero time renders InvalidDate.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return InvalidDate
	}
	return t.Format(dateLayout)
}

// FormatDateString parses s with the accepted input layouts and renders it
// like FormatDate. Unparseable input renders InvalidDate.
func FormatDateString(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range dateInputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return FormatDate(t)
		}
	}
	return InvalidDate
}

func requireFinite(what string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return apperrors.NewFormattingError(fmt.Sprintf("cannot format non-finite %s", what), nil).
			WithContext("value", strconv.FormatFloat(v, 'g', -1, 64))
	}
	return nil
}
