package parking

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentedLedger wraps a Ledger with OTel spans and metrics for every
// operation that the shell or the HTTP handlers call.
type InstrumentedLedger struct {
	*Ledger
	telemetry *TelemetryProvider

	// Metrics
	parkingOperations metric.Int64Counter
	exitOperations    metric.Int64Counter
	paymentOperations metric.Int64Counter
	occupancyGauge    metric.Int64UpDownCounter
	revenueCounter    metric.Int64Counter
	operationDuration metric.Float64Histogram
	totalSlotsGauge   metric.Int64UpDownCounter
}

func NewInstrumentedLedger(ledger *Ledger, telemetry *TelemetryProvider) (*InstrumentedLedger, error) {
	meter := telemetry.Meter()

	parkingOperations, err := meter.Int64Counter("parking_operations_total",
		metric.WithDescription("Total number of parking operations"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	exitOperations, err := meter.Int64Counter("exit_operations_total",
		metric.WithDescription("Total number of exit operations"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	paymentOperations, err := meter.Int64Counter("payment_operations_total",
		metric.WithDescription("Total number of payment confirmations and cancellations"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	occupancyGauge, err := meter.Int64UpDownCounter("parking_lot_occupancy",
		metric.WithDescription("Current number of occupied parking slots"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	revenueCounter, err := meter.Int64Counter("parking_revenue_total",
		metric.WithDescription("Total confirmed billing amount"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	operationDuration, err := meter.Float64Histogram("operation_duration_seconds",
		metric.WithDescription("Duration of parking ledger operations"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	totalSlotsGauge, err := meter.Int64UpDownCounter("parking_lot_total_slots",
		metric.WithDescription("Total number of parking slots"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	il := &InstrumentedLedger{
		Ledger:            ledger,
		telemetry:         telemetry,
		parkingOperations: parkingOperations,
		exitOperations:    exitOperations,
		paymentOperations: paymentOperations,
		occupancyGauge:    occupancyGauge,
		revenueCounter:    revenueCounter,
		operationDuration: operationDuration,
		totalSlotsGauge:   totalSlotsGauge,
	}

	// Set initial total slots metric
	totalSlotsGauge.Add(context.Background(), int64(ledger.Capacity()))

	return il, nil
}

func (il *InstrumentedLedger) Park(ctx context.Context, vehicle string, slotNumber int) (Slot, error) {
	tracer := il.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "ledger.park",
		trace.WithAttributes(
			attribute.String("vehicle.registration", vehicle),
			attribute.Int("slot.number", slotNumber),
		))
	defer span.End()

	start := time.Now()

	slot, err := il.Ledger.Park(ctx, vehicle, slotNumber)

	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{
		attribute.String("operation", "park"),
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		labels = append(labels, attribute.String("status", "failed"))
		il.parkingOperations.Add(ctx, 1, metric.WithAttributes(labels...))
	} else {
		labels = append(labels,
			attribute.String("status", "success"),
			attribute.Int("allocated_slot", slot.Number),
		)
		span.AddEvent("slot_occupied", trace.WithAttributes(
			attribute.Int("slot_number", slot.Number),
		))

		il.parkingOperations.Add(ctx, 1, metric.WithAttributes(labels...))
		il.occupancyGauge.Add(ctx, 1)
	}

	il.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return slot, err
}

func (il *InstrumentedLedger) AutoDetectAndPark(ctx context.Context) (string, Slot, error) {
	tracer := il.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "ledger.auto_detect_and_park")
	defer span.End()

	start := time.Now()

	span.AddEvent("scanning_number_plate")

	plate, slot, err := il.Ledger.AutoDetectAndPark(ctx)

	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{
		attribute.String("operation", "auto_detect_and_park"),
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		labels = append(labels, attribute.String("status", "failed"))
		il.parkingOperations.Add(ctx, 1, metric.WithAttributes(labels...))
	} else {
		labels = append(labels,
			attribute.String("status", "success"),
			attribute.Int("allocated_slot", slot.Number),
		)
		span.SetAttributes(
			attribute.String("vehicle.registration", plate),
			attribute.Int("allocated_slot_number", slot.Number),
		)
		span.AddEvent("plate_detected", trace.WithAttributes(
			attribute.String("plate", plate),
		))

		il.parkingOperations.Add(ctx, 1, metric.WithAttributes(labels...))
		il.occupancyGauge.Add(ctx, 1)
	}

	il.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return plate, slot, err
}

func (il *InstrumentedLedger) BeginExit(ctx context.Context, slotNumber int) (BillingRecord, error) {
	tracer := il.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "ledger.begin_exit",
		trace.WithAttributes(
			attribute.Int("slot.number", slotNumber),
		))
	defer span.End()

	start := time.Now()

	span.AddEvent("releasing_slot")

	record, err := il.Ledger.BeginExit(slotNumber)

	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{
		attribute.String("operation", "begin_exit"),
		attribute.Int("slot_number", slotNumber),
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		labels = append(labels, attribute.String("status", "failed"))
	} else {
		labels = append(labels, attribute.String("status", "success"))
		span.SetAttributes(
			attribute.String("vehicle.registration", record.Vehicle),
			attribute.Int64("bill.minutes", record.Minutes),
			attribute.Int64("bill.amount", record.Amount),
		)
		span.AddEvent("slot_released")
		il.occupancyGauge.Add(ctx, -1)
	}

	il.exitOperations.Add(ctx, 1, metric.WithAttributes(labels...))
	il.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return record, err
}

func (il *InstrumentedLedger) ConfirmPayment(ctx context.Context) (BillingRecord, error) {
	tracer := il.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "ledger.confirm_payment")
	defer span.End()

	start := time.Now()

	record, err := il.Ledger.ConfirmPayment(ctx)

	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{
		attribute.String("operation", "confirm_payment"),
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		labels = append(labels, attribute.String("status", "failed"))
	} else {
		labels = append(labels, attribute.String("status", "success"))
		span.SetAttributes(
			attribute.String("vehicle.registration", record.Vehicle),
			attribute.Int64("bill.amount", record.Amount),
		)
		span.AddEvent("payment_confirmed")
		il.revenueCounter.Add(ctx, record.Amount)
	}

	il.paymentOperations.Add(ctx, 1, metric.WithAttributes(labels...))
	il.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return record, err
}

func (il *InstrumentedLedger) CancelPayment(ctx context.Context) error {
	tracer := il.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "ledger.cancel_payment")
	defer span.End()

	start := time.Now()

	err := il.Ledger.CancelPayment()

	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{
		attribute.String("operation", "cancel_payment"),
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		labels = append(labels, attribute.String("status", "failed"))
	} else {
		labels = append(labels, attribute.String("status", "success"))
		span.AddEvent("payment_cancelled")
	}

	il.paymentOperations.Add(ctx, 1, metric.WithAttributes(labels...))
	il.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return err
}

func (il *InstrumentedLedger) Snapshot(ctx context.Context) []Slot {
	tracer := il.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "ledger.snapshot")
	defer span.End()

	start := time.Now()

	slots := il.Ledger.Snapshot()
	counts := il.Ledger.OccupancyCounts()

	duration := time.Since(start).Seconds()

	span.SetAttributes(
		attribute.Int("occupied_slots_count", counts.Occupied),
		attribute.Int("total_capacity", counts.Total),
	)

	labels := []attribute.KeyValue{
		attribute.String("operation", "snapshot"),
		attribute.String("status", "success"),
	}

	il.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return slots
}

func (il *InstrumentedLedger) FindVehicle(ctx context.Context, registration string) (int, error) {
	tracer := il.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "ledger.find_vehicle",
		trace.WithAttributes(
			attribute.String("vehicle.registration", registration),
		))
	defer span.End()

	start := time.Now()

	slotNumber, err := il.Ledger.FindVehicle(registration)

	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{
		attribute.String("operation", "find_vehicle"),
	}

	if err != nil {
		span.AddEvent("vehicle_not_found")
		labels = append(labels, attribute.String("status", "not_found"))
	} else {
		span.SetAttributes(attribute.Int("found_slot_number", slotNumber))
		labels = append(labels,
			attribute.String("status", "found"),
			attribute.Int("slot_number", slotNumber),
		)
	}

	il.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return slotNumber, err
}
