// Package revenue aggregates billing rows into daily and monthly totals
// for the admin dashboard.
package revenue

import (
	"sort"

	"smart-parking/internal/parking"
)

type Bucket struct {
	Period string `json:"period"`
	Amount int64  `json:"amount"`
}

type Summary struct {
	Total   int64    `json:"total"`
	Daily   []Bucket `json:"daily"`
	Monthly []Bucket `json:"monthly"`
}

// Report groups confirmed billing rows by exit date. Rows without a
// usable exit time are skipped.
func Report(rows []parking.BillingRecord) Summary {
	daily := make(map[string]int64)
	monthly := make(map[string]int64)

	var summary Summary
	for _, row := range rows {
		if row.ExitTime.IsZero() {
			continue
		}
		daily[row.ExitTime.Format("2006-01-02")] += row.Amount
		monthly[row.ExitTime.Format("2006-01")] += row.Amount
		summary.Total += row.Amount
	}

	summary.Daily = sortBuckets(daily)
	summary.Monthly = sortBuckets(monthly)
	return summary
}

func sortBuckets(totals map[string]int64) []Bucket {
	buckets := make([]Bucket, 0, len(totals))
	for period, amount := range totals {
		buckets = append(buckets, Bucket{Period: period, Amount: amount})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Period < buckets[j].Period
	})
	return buckets
}
