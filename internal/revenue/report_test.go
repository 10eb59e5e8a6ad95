package revenue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"smart-parking/internal/parking"
)

func row(exit time.Time, amount int64) parking.BillingRecord {
	return parking.BillingRecord{
		Vehicle:       "KA01HH1234",
		Slot:          1,
		EntryTime:     exit.Add(-time.Hour),
		ExitTime:      exit,
		Minutes:       60,
		Amount:        amount,
		PaymentStatus: parking.PaymentPaid,
	}
}

func TestReportEmpty(t *testing.T) {
	summary := Report(nil)

	assert.Zero(t, summary.Total)
	assert.Empty(t, summary.Daily)
	assert.Empty(t, summary.Monthly)
}

func TestReportGroupsByDayAndMonth(t *testing.T) {
	june1 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	june2 := time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC)
	july9 := time.Date(2025, 7, 9, 18, 0, 0, 0, time.UTC)

	summary := Report([]parking.BillingRecord{
		row(june1, 20),
		row(june1.Add(2*time.Hour), 40),
		row(june2, 20),
		row(july9, 60),
	})

	assert.Equal(t, int64(140), summary.Total)

	assert.Equal(t, []Bucket{
		{Period: "2025-06-01", Amount: 60},
		{Period: "2025-06-02", Amount: 20},
		{Period: "2025-07-09", Amount: 60},
	}, summary.Daily)

	assert.Equal(t, []Bucket{
		{Period: "2025-06", Amount: 80},
		{Period: "2025-07", Amount: 60},
	}, summary.Monthly)
}

func TestReportSkipsRowsWithoutExitTime(t *testing.T) {
	summary := Report([]parking.BillingRecord{
		{Vehicle: "XX", Amount: 100},
		row(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC), 20),
	})

	assert.Equal(t, int64(20), summary.Total)
	assert.Len(t, summary.Daily, 1)
}
