package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-parking/internal/parking"
)

func TestCSVStoreBootstrap(t *testing.T) {
	dir := t.TempDir()

	_, err := NewCSVStore(dir)
	require.NoError(t, err)

	parkingData, err := os.ReadFile(filepath.Join(dir, "parking_data.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Slot,Status,Vehicle,EntryTime\n", string(parkingData))

	billingData, err := os.ReadFile(filepath.Join(dir, "billing_data.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(billingData), "Vehicle,Slot,EntryTime,ExitTime,Minutes,Amount,PaymentStatus"))
}

func TestCSVStoreBootstrapKeepsExistingRows(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewCSVStore(dir)
	require.NoError(t, err)

	entry := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.AppendParkingEvent(ctx, parking.ParkingEvent{
		Slot: 1, Vehicle: "KA01HH1234", EntryTime: entry,
	}))

	// Reopening the same directory must not truncate the log
	reopened, err := NewCSVStore(dir)
	require.NoError(t, err)

	events, err := reopened.ParkingEvents()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "KA01HH1234", events[0].Vehicle)
}

func TestCSVStoreParkingEventRoundTrip(t *testing.T) {
	store, err := NewCSVStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	entry := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	require.NoError(t, store.AppendParkingEvent(ctx, parking.ParkingEvent{
		Slot: 3, Vehicle: "MH12AB3456", EntryTime: entry,
	}))

	events, err := store.ParkingEvents()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 3, events[0].Slot)
	assert.Equal(t, "MH12AB3456", events[0].Vehicle)
	assert.True(t, events[0].EntryTime.Equal(entry))
}

func TestCSVStoreBillingRoundTrip(t *testing.T) {
	store, err := NewCSVStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	entry := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	record := parking.BillingRecord{
		Vehicle:       "KA01AB1234",
		Slot:          3,
		EntryTime:     entry,
		ExitTime:      entry.Add(125 * time.Minute),
		Minutes:       125,
		Amount:        40,
		PaymentStatus: parking.PaymentPaid,
	}
	require.NoError(t, store.AppendBilling(ctx, record))

	rows, err := store.BillingRows()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, record.Vehicle, rows[0].Vehicle)
	assert.Equal(t, record.Slot, rows[0].Slot)
	assert.Equal(t, record.Minutes, rows[0].Minutes)
	assert.Equal(t, record.Amount, rows[0].Amount)
	assert.Equal(t, parking.PaymentPaid, rows[0].PaymentStatus)
	assert.True(t, rows[0].ExitTime.Equal(record.ExitTime))
}

func TestCSVStoreSkipsMalformedRows(t *testing.T) {
	dir := t.TempDir()
	store, err := NewCSVStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	entry := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.AppendParkingEvent(ctx, parking.ParkingEvent{
		Slot: 1, Vehicle: "KA01HH1234", EntryTime: entry,
	}))

	// A hand-edited garbage row must not break the read-back
	f, err := os.OpenFile(filepath.Join(dir, "parking_data.csv"), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("notanumber,Occupied,XX,notatime\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	events, err := store.ParkingEvents()
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestCSVStoreFeedsLedgerRestore(t *testing.T) {
	store, err := NewCSVStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	ledger := parking.NewLedger(5, 20, store)
	_, err = ledger.Park(ctx, "KA01HH1234", 2)
	require.NoError(t, err)
	_, err = ledger.Park(ctx, "KA01HH9999", 4)
	require.NoError(t, err)

	_, err = ledger.BeginExit(2)
	require.NoError(t, err)
	_, err = ledger.ConfirmPayment(ctx)
	require.NoError(t, err)

	// A fresh ledger over the same logs sees only the live occupancy
	events, err := store.ParkingEvents()
	require.NoError(t, err)
	billed, err := store.BillingRows()
	require.NoError(t, err)

	restored := parking.NewLedger(5, 20, store)
	restored.Restore(events, billed)

	counts := restored.OccupancyCounts()
	assert.Equal(t, 1, counts.Occupied)
	assert.Equal(t, "KA01HH9999", restored.Snapshot()[3].Vehicle)
}
