package parking

import (
	"context"
	"time"
)

// ParkingEvent is one row of the append-only parking log.
type ParkingEvent struct {
	Slot      int
	Vehicle   string
	EntryTime time.Time
}

// EventSink receives durable appends from the ledger. Implementations must
// not report success until the row has been flushed; the ledger rolls back
// the in-memory mutation when an append fails.
type EventSink interface {
	AppendParkingEvent(ctx context.Context, event ParkingEvent) error
	AppendBilling(ctx context.Context, record BillingRecord) error
}

// NopSink discards every row. Useful for tests and dry runs.
type NopSink struct{}

func (NopSink) AppendParkingEvent(context.Context, ParkingEvent) error { return nil }
func (NopSink) AppendBilling(context.Context, BillingRecord) error    { return nil }
