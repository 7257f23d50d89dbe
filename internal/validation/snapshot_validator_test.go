package validation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "retailreports/internal/errors"
	"retailreports/internal/shared/testutil"
	"retailreports/pkg/contracts/domain"
)

func TestSnapshotValidator_Valid(t *testing.T) {
	snapshot := testutil.SampleSnapshot()
	assert.NoError(t, NewSnapshotValidator().Validate(&snapshot))
}

func TestSnapshotValidator_Violations(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*domain.AnalyticsSnapshot)
		wantField string
		wantMsg   string
	}{
		{
			name:      "nil staff",
			mutate:    func(s *domain.AnalyticsSnapshot) { s.StaffPerformance = nil },
			wantField: "staffPerformance",
			wantMsg:   "staffPerformance must not be empty",
		},
		{
			name:      "empty peak hours",
			mutate:    func(s *domain.AnalyticsSnapshot) { s.PeakHours = []domain.PeakHour{} },
			wantField: "peakHours",
			wantMsg:   "peakHours must not be empty",
		},
		{
			name:      "negative revenue",
			mutate:    func(s *domain.AnalyticsSnapshot) { s.Categories[1].Revenue = -1 },
			wantField: "categories[1].revenue",
			wantMsg:   "categories[1].revenue must be greater than or equal to 0",
		},
		{
			name:      "NaN amount",
			mutate:    func(s *domain.AnalyticsSnapshot) { s.Transactions[0].Amount = math.NaN() },
			wantField: "transactions[0].amount",
			wantMsg:   "transactions[0].amount must be a finite number",
		},
		{
			name:      "infinite optional percent",
			mutate:    func(s *domain.AnalyticsSnapshot) { s.TopProducts[0].MarginPercent = testutil.Float64Ptr(math.Inf(1)) },
			wantField: "topProducts[0].marginPercent",
			wantMsg:   "topProducts[0].marginPercent must be a finite number",
		},
		{
			name:      "unknown kpi kind",
			mutate:    func(s *domain.AnalyticsSnapshot) { s.KPIs[0].Kind = "ratio" },
			wantField: "kpis[0].kind",
			wantMsg:   "kpis[0].kind must be one of: currency, count",
		},
	}

	v := NewSnapshotValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := testutil.SampleSnapshot()
			tt.mutate(&snapshot)

			err := v.Validate(&snapshot)
			require.Error(t, err)
			assert.True(t, apperrors.IsPrecondition(err))

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			fields, ok := appErr.Context["fields"].([]apperrors.ValidationError)
			require.True(t, ok)
			require.Len(t, fields, 1)
			assert.Equal(t, tt.wantField, fields[0].Field)
			assert.Equal(t, tt.wantMsg, fields[0].Message)
		})
	}
}

func TestSnapshotValidator_NilSnapshot(t *testing.T) {
	err := NewSnapshotValidator().Validate(nil)
	assert.True(t, apperrors.IsPrecondition(err))
}

func TestSnapshotValidator_AbsentOptionalsAllowed(t *testing.T) {
	snapshot := testutil.SampleSnapshot()
	snapshot.Transactions = nil
	snapshot.TopProducts = nil
	snapshot.StaffPerformance[0].ConversionPercent = nil

	assert.NoError(t, NewSnapshotValidator().Validate(&snapshot))
}

func TestSnapshotValidator_EmptyDisplayStringsAllowed(t *testing.T) {
	snapshot := testutil.SampleSnapshot()
	snapshot.DateRange = ""
	snapshot.KPIs[0].Title = ""
	snapshot.Categories[0].Name = ""
	snapshot.Transactions[0].ID = ""
	snapshot.TopProducts[0].Name = ""
	snapshot.StaffPerformance[0].Name = ""
	snapshot.PeakHours[0].HourLabel = ""

	assert.NoError(t, NewSnapshotValidator().Validate(&snapshot))
}
