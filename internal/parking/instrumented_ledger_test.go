package parking

import (
	"context"
	"errors"
	"testing"
)

func TestInstrumentedLedgerIntegration(t *testing.T) {
	telemetry, err := NewTelemetryProvider()
	if err != nil {
		t.Fatalf("Failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := telemetry.Shutdown(context.Background()); err != nil {
			t.Errorf("Failed to shutdown telemetry: %v", err)
		}
	}()

	ledger := NewLedger(3, 20, NopSink{})
	instrumented, err := NewInstrumentedLedger(ledger, telemetry)
	if err != nil {
		t.Fatalf("Failed to create instrumented ledger: %v", err)
	}

	ctx := context.Background()

	slot, err := instrumented.Park(ctx, "KA01HH1234", 1)
	if err != nil {
		t.Errorf("Unexpected error: %s", err.Error())
	}
	if slot.Number != 1 {
		t.Errorf("Expected slot number 1, got %d", slot.Number)
	}

	plate, scanned, err := instrumented.AutoDetectAndPark(ctx)
	if err != nil {
		t.Errorf("Unexpected error: %s", err.Error())
	}
	if scanned.Number != 2 {
		t.Errorf("Expected slot number 2, got %d", scanned.Number)
	}
	if plate == "" {
		t.Error("Expected a detected plate")
	}

	foundSlot, err := instrumented.FindVehicle(ctx, "KA01HH1234")
	if err != nil {
		t.Errorf("Unexpected error: %s", err.Error())
	}
	if foundSlot != 1 {
		t.Errorf("Expected slot number 1, got %d", foundSlot)
	}

	record, err := instrumented.BeginExit(ctx, 1)
	if err != nil {
		t.Errorf("Unexpected error: %s", err.Error())
	}
	if record.Amount != 20 {
		t.Errorf("Expected minimum charge 20, got %d", record.Amount)
	}

	if _, err := instrumented.BeginExit(ctx, 2); !errors.Is(err, ErrPaymentAlreadyPending) {
		t.Errorf("Expected ErrPaymentAlreadyPending, got %v", err)
	}

	confirmed, err := instrumented.ConfirmPayment(ctx)
	if err != nil {
		t.Errorf("Unexpected error: %s", err.Error())
	}
	if confirmed.PaymentStatus != PaymentPaid {
		t.Errorf("Expected Paid status, got %s", confirmed.PaymentStatus)
	}

	if err := instrumented.CancelPayment(ctx); !errors.Is(err, ErrNoPendingPayment) {
		t.Errorf("Expected ErrNoPendingPayment, got %v", err)
	}

	status := instrumented.Snapshot(ctx)
	if len(status) != 3 {
		t.Errorf("Expected 3 slots in snapshot, got %d", len(status))
	}
	if status[0].Occupied() {
		t.Error("Expected slot 1 to be free after exit")
	}
	if !status[1].Occupied() {
		t.Error("Expected slot 2 to remain occupied")
	}
}
