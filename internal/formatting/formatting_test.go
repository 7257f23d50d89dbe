package formatting

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "retailreports/internal/errors"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{"whole dollars omit fraction", 1500, "$1,500"},
		{"rounds to cents", 1234.567, "$1,234.57"},
		{"keeps single fraction digit", 68.1, "$68.1"},
		{"negative uses leading minus", -250, "-$250"},
		{"zero", 0, "$0"},
		{"tiny negative rounds to zero", -0.001, "$0"},
		{"large value groups thousands", 1234567.89, "$1,234,567.89"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatCurrency(tt.amount)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatCurrency_Deterministic(t *testing.T) {
	first, err := FormatCurrency(1500)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		got, err := FormatCurrency(1500)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}

func TestFormatCurrency_NonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := FormatCurrency(v)
		require.Error(t, err)
		assert.True(t, apperrors.IsFormatting(err))
	}
}

func TestFormatSignedPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{12, "+12%"},
		{0, "+0%"},
		{math.Copysign(0, -1), "+0%"},
		{-3, "-3%"},
		{4.5, "+4.5%"},
	}

	for _, tt := range tests {
		got, err := FormatSignedPercent(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := FormatSignedPercent(math.NaN())
	assert.True(t, apperrors.IsFormatting(err))
}

func TestFormatPercent_NegativeZero(t *testing.T) {
	got, err := FormatPercent(math.Copysign(0, -1))
	require.NoError(t, err)
	assert.Equal(t, "0%", got)
}

func TestFormatOptionalPercent(t *testing.T) {
	got, err := FormatOptionalPercent(nil)
	require.NoError(t, err)
	assert.Equal(t, NotAvailable, got)

	v := 41.5
	got, err = FormatOptionalPercent(&v)
	require.NoError(t, err)
	assert.Equal(t, "41.5%", got)
}

func TestFormatNumberAndCount(t *testing.T) {
	got, err := FormatNumber(1842)
	require.NoError(t, err)
	assert.Equal(t, "1,842", got)

	got, err = FormatNumber(1234.567)
	require.NoError(t, err)
	assert.Equal(t, "1,234.57", got)

	assert.Equal(t, "12,345", FormatCount(12345))
	assert.Equal(t, "7", FormatCount(7))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Jan 20, 2025", FormatDate(time.Date(2025, time.January, 20, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, InvalidDate, FormatDate(time.Time{}))
}

func TestFormatDateString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-01-18", "Jan 18, 2025"},
		{"2025-01-19T14:32:00Z", "Jan 19, 2025"},
		{"2025-01-19 08:15:00", "Jan 19, 2025"},
		{"03/07/2024", "Mar 7, 2024"},
		{" 2025-01-18 ", "Jan 18, 2025"},
		{"not a date", InvalidDate},
		{"", InvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDateString(tt.in))
		})
	}
}
