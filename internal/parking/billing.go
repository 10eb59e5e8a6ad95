package parking

import "time"

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
)

// BillingRecord is created when a vehicle exits and is immutable once the
// payment is confirmed. Amount is a currency-agnostic integer unit.
type BillingRecord struct {
	ID            string
	Vehicle       string
	Slot          int
	EntryTime     time.Time
	ExitTime      time.Time
	Minutes       int64
	Amount        int64
	PaymentStatus PaymentStatus
}

// ComputeBill applies the lot's billing rule: elapsed time is floored to
// whole minutes, and every stay bills at least one full hour.
func ComputeBill(entry, exit time.Time, ratePerHour int64) (minutes, amount int64) {
	minutes = int64(exit.Sub(entry).Seconds()) / 60
	if minutes < 0 {
		minutes = 0
	}
	hours := minutes / 60
	if hours < 1 {
		hours = 1
	}
	return minutes, hours * ratePerHour
}
