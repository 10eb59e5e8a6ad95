package parking

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Counts struct {
	Total    int
	Free     int
	Occupied int
}

// Ledger owns the fixed set of slots, the single pending payment and the
// billing computation. All mutating operations take the lot-wide lock so
// that AutoDetectAndPark can pick and occupy a slot atomically; "now" is
// sampled once per operation and reused for every derived value.
type Ledger struct {
	mu      sync.Mutex
	slots   []*Slot
	rate    int64
	pending *BillingRecord
	history []BillingRecord
	sink    EventSink
	plates  *PlateGenerator
	now     func() time.Time
}

func NewLedger(capacity int, ratePerHour int64, sink EventSink) *Ledger {
	slots := make([]*Slot, capacity)
	for i := 0; i < capacity; i++ {
		slots[i] = NewSlot(i + 1)
	}

	return &Ledger{
		slots:  slots,
		rate:   ratePerHour,
		sink:   sink,
		plates: NewPlateGenerator(),
		now:    time.Now,
	}
}

// Park places a vehicle into the requested slot and logs the entry.
func (l *Ledger) Park(ctx context.Context, vehicle string, slotNumber int) (Slot, error) {
	vehicle = strings.TrimSpace(vehicle)
	if vehicle == "" {
		return Slot{}, ErrInvalidInput
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if slotNumber < 1 || slotNumber > len(l.slots) {
		return Slot{}, ErrSlotUnavailable
	}
	slot := l.slots[slotNumber-1]
	if slot.Occupied() {
		return Slot{}, ErrSlotUnavailable
	}

	now := l.now()
	slot.Park(vehicle, now)
	if err := l.appendEntry(ctx, slot); err != nil {
		slot.Release()
		return Slot{}, err
	}
	return *slot, nil
}

// AutoDetectAndPark simulates an ANPR scan: it generates a plate and parks
// it in the lowest-numbered free slot. The error is ErrLotFull, not
// ErrSlotUnavailable, since the caller did not choose a slot.
func (l *Ledger) AutoDetectAndPark(ctx context.Context) (string, Slot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var target *Slot
	for _, slot := range l.slots {
		if !slot.Occupied() {
			target = slot
			break
		}
	}
	if target == nil {
		return "", Slot{}, ErrLotFull
	}

	plate := l.plates.Next()
	target.Park(plate, l.now())
	if err := l.appendEntry(ctx, target); err != nil {
		target.Release()
		return "", Slot{}, err
	}
	return plate, *target, nil
}

func (l *Ledger) appendEntry(ctx context.Context, slot *Slot) error {
	event := ParkingEvent{
		Slot:      slot.Number,
		Vehicle:   slot.Vehicle,
		EntryTime: slot.EntryTime,
	}
	if err := l.sink.AppendParkingEvent(ctx, event); err != nil {
		return fmt.Errorf("append parking event: %w", err)
	}
	return nil
}

// BeginExit frees the slot immediately and leaves the computed bill as the
// single pending payment. The physical spot is released at exit time,
// independent of whether the payment is later confirmed or cancelled.
func (l *Ledger) BeginExit(slotNumber int) (BillingRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if slotNumber < 1 || slotNumber > len(l.slots) {
		return BillingRecord{}, ErrSlotUnavailable
	}
	slot := l.slots[slotNumber-1]
	if !slot.Occupied() {
		return BillingRecord{}, ErrSlotAlreadyFree
	}
	if l.pending != nil {
		return BillingRecord{}, ErrPaymentAlreadyPending
	}

	exit := l.now()
	vehicle, entry := slot.Release()
	minutes, amount := ComputeBill(entry, exit, l.rate)

	record := BillingRecord{
		ID:            uuid.NewString(),
		Vehicle:       vehicle,
		Slot:          slotNumber,
		EntryTime:     entry,
		ExitTime:      exit,
		Minutes:       minutes,
		Amount:        amount,
		PaymentStatus: PaymentPending,
	}
	l.pending = &record
	return record, nil
}

// ConfirmPayment marks the pending bill as paid and logs it. The pending
// slot is kept on append failure so the confirmation can be retried.
func (l *Ledger) ConfirmPayment(ctx context.Context) (BillingRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.pending == nil {
		return BillingRecord{}, ErrNoPendingPayment
	}

	record := *l.pending
	record.PaymentStatus = PaymentPaid
	if err := l.sink.AppendBilling(ctx, record); err != nil {
		return BillingRecord{}, fmt.Errorf("append billing row: %w", err)
	}

	l.history = append(l.history, record)
	l.pending = nil
	return record, nil
}

// CancelPayment discards the pending bill without logging anything. The
// vehicle is not restored to its slot; the occupancy simply goes unbilled.
func (l *Ledger) CancelPayment() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.pending == nil {
		return ErrNoPendingPayment
	}
	l.pending = nil
	return nil
}

// Pending returns the bill awaiting confirmation, if any.
func (l *Ledger) Pending() (BillingRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.pending == nil {
		return BillingRecord{}, false
	}
	return *l.pending, true
}

// Confirmed looks up a paid record by id for invoice re-rendering.
func (l *Ledger) Confirmed(id string) (BillingRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, record := range l.history {
		if record.ID == id {
			return record, true
		}
	}
	return BillingRecord{}, false
}

// History returns the confirmed records in confirmation order.
func (l *Ledger) History() []BillingRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]BillingRecord(nil), l.history...)
}

// Snapshot returns a copy of every slot, ascending by number.
func (l *Ledger) Snapshot() []Slot {
	l.mu.Lock()
	defer l.mu.Unlock()

	slots := make([]Slot, len(l.slots))
	for i, slot := range l.slots {
		slots[i] = *slot
	}
	return slots
}

func (l *Ledger) OccupancyCounts() Counts {
	l.mu.Lock()
	defer l.mu.Unlock()

	counts := Counts{Total: len(l.slots)}
	for _, slot := range l.slots {
		if slot.Occupied() {
			counts.Occupied++
		} else {
			counts.Free++
		}
	}
	return counts
}

func (l *Ledger) Capacity() int {
	return len(l.slots)
}

// FindVehicle returns the slot currently holding the given registration.
func (l *Ledger) FindVehicle(registration string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, slot := range l.slots {
		if slot.Occupied() && slot.Vehicle == registration {
			return slot.Number, nil
		}
	}
	return 0, ErrVehicleNotFound
}

// Restore rebuilds live occupancy from the append-only logs: a slot is
// occupied by its latest parking event that has no matching billing row.
// Cancelled payments leave no billing row, so their occupancies reappear
// here; that is a consequence of the cancel path logging nothing.
func (l *Ledger) Restore(events []ParkingEvent, billed []BillingRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	settled := make(map[string]int)
	for _, record := range billed {
		settled[occupancyKey(record.Vehicle, record.Slot, record.EntryTime)]++
	}

	for _, slot := range l.slots {
		slot.Release()
	}
	for _, event := range events {
		if event.Slot < 1 || event.Slot > len(l.slots) {
			continue
		}
		key := occupancyKey(event.Vehicle, event.Slot, event.EntryTime)
		if settled[key] > 0 {
			settled[key]--
			continue
		}
		l.slots[event.Slot-1].Park(event.Vehicle, event.EntryTime)
	}
}

func occupancyKey(vehicle string, slot int, entry time.Time) string {
	return fmt.Sprintf("%s|%d|%d", vehicle, slot, entry.Unix())
}
