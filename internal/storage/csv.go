package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"smart-parking/internal/parking"
)

const (
	parkingFile = "parking_data.csv"
	billingFile = "billing_data.csv"
)

var (
	parkingHeader = []string{"Slot", "Status", "Vehicle", "EntryTime"}
	billingHeader = []string{"Vehicle", "Slot", "EntryTime", "ExitTime", "Minutes", "Amount", "PaymentStatus"}
)

// CSVStore is the append-only persistence sink. Files are bootstrapped
// with a header row, appended one row per call and never rewritten; each
// append is synced to disk before it is reported successful.
type CSVStore struct {
	mu          sync.Mutex
	parkingPath string
	billingPath string
}

func NewCSVStore(dir string) (*CSVStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	store := &CSVStore{
		parkingPath: filepath.Join(dir, parkingFile),
		billingPath: filepath.Join(dir, billingFile),
	}

	if err := bootstrap(store.parkingPath, parkingHeader); err != nil {
		return nil, err
	}
	if err := bootstrap(store.billingPath, billingHeader); err != nil {
		return nil, err
	}
	return store, nil
}

func bootstrap(path string, header []string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	w.Flush()
	return w.Error()
}

func (s *CSVStore) AppendParkingEvent(_ context.Context, event parking.ParkingEvent) error {
	row := []string{
		strconv.Itoa(event.Slot),
		string(parking.StatusOccupied),
		event.Vehicle,
		event.EntryTime.Format(time.RFC3339),
	}
	return s.appendRow(s.parkingPath, row)
}

func (s *CSVStore) AppendBilling(_ context.Context, record parking.BillingRecord) error {
	row := []string{
		record.Vehicle,
		strconv.Itoa(record.Slot),
		record.EntryTime.Format(time.RFC3339),
		record.ExitTime.Format(time.RFC3339),
		strconv.FormatInt(record.Minutes, 10),
		strconv.FormatInt(record.Amount, 10),
		string(record.PaymentStatus),
	}
	return s.appendRow(s.billingPath, row)
}

func (s *CSVStore) appendRow(path string, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush row: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", path, err)
	}
	return nil
}

// ParkingEvents reads back the parking log for occupancy replay.
// Malformed rows are skipped rather than failing the whole read.
func (s *CSVStore) ParkingEvents() ([]parking.ParkingEvent, error) {
	rows, err := s.readAll(s.parkingPath)
	if err != nil {
		return nil, err
	}

	var events []parking.ParkingEvent
	for _, row := range rows {
		if len(row) < 4 {
			continue
		}
		slot, err := strconv.Atoi(row[0])
		if err != nil {
			continue
		}
		entry, err := time.Parse(time.RFC3339, row[3])
		if err != nil {
			continue
		}
		events = append(events, parking.ParkingEvent{
			Slot:      slot,
			Vehicle:   row[2],
			EntryTime: entry,
		})
	}
	return events, nil
}

// BillingRows reads back the billing log for revenue reports and replay.
func (s *CSVStore) BillingRows() ([]parking.BillingRecord, error) {
	rows, err := s.readAll(s.billingPath)
	if err != nil {
		return nil, err
	}

	var records []parking.BillingRecord
	for _, row := range rows {
		if len(row) < 7 {
			continue
		}
		slot, err := strconv.Atoi(row[1])
		if err != nil {
			continue
		}
		entry, err := time.Parse(time.RFC3339, row[2])
		if err != nil {
			continue
		}
		exit, err := time.Parse(time.RFC3339, row[3])
		if err != nil {
			continue
		}
		minutes, err := strconv.ParseInt(row[4], 10, 64)
		if err != nil {
			continue
		}
		amount, err := strconv.ParseInt(row[5], 10, 64)
		if err != nil {
			continue
		}
		records = append(records, parking.BillingRecord{
			Vehicle:       row[0],
			Slot:          slot,
			EntryTime:     entry,
			ExitTime:      exit,
			Minutes:       minutes,
			Amount:        amount,
			PaymentStatus: parking.PaymentStatus(row[6]),
		})
	}
	return records, nil
}

func (s *CSVStore) readAll(path string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}
