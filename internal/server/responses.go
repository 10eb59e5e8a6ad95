package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"smart-parking/internal/parking"
)

type Meta struct {
	TraceID   string `json:"trace_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ParkRequest struct {
	Vehicle string `json:"vehicle"`
	Slot    int    `json:"slot"`
}

type ExitRequest struct {
	Slot int `json:"slot"`
}

type SlotStatus struct {
	Slot      int    `json:"slot"`
	Status    string `json:"status"`
	Vehicle   string `json:"vehicle,omitempty"`
	EntryTime string `json:"entry_time,omitempty"`
}

type StatusResponse struct {
	Total    int          `json:"total"`
	Free     int          `json:"free"`
	Occupied int          `json:"occupied"`
	Slots    []SlotStatus `json:"slots"`
}

type BillView struct {
	ID             string `json:"id"`
	Vehicle        string `json:"vehicle"`
	Slot           int    `json:"slot"`
	EntryTime      string `json:"entry_time"`
	ExitTime       string `json:"exit_time"`
	Minutes        int64  `json:"minutes"`
	Amount         int64  `json:"amount"`
	PaymentStatus  string `json:"payment_status"`
	PaymentRequest string `json:"payment_request,omitempty"`
	InvoiceURL     string `json:"invoice_url,omitempty"`
}

func newSlotStatus(slot parking.Slot) SlotStatus {
	status := SlotStatus{
		Slot:   slot.Number,
		Status: string(slot.Status),
	}
	if slot.Occupied() {
		status.Vehicle = slot.Vehicle
		status.EntryTime = slot.EntryTime.Format(time.RFC3339)
	}
	return status
}

func newBillView(record parking.BillingRecord) BillView {
	return BillView{
		ID:            record.ID,
		Vehicle:       record.Vehicle,
		Slot:          record.Slot,
		EntryTime:     record.EntryTime.Format(time.RFC3339),
		ExitTime:      record.ExitTime.Format(time.RFC3339),
		Minutes:       record.Minutes,
		Amount:        record.Amount,
		PaymentStatus: string(record.PaymentStatus),
	}
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func extractMeta(ctx context.Context) *Meta {
	meta := &Meta{}

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().HasTraceID() {
		meta.TraceID = span.SpanContext().TraceID().String()
	}

	if reqID, ok := ctx.Value(RequestIDKey).(string); ok {
		meta.RequestID = reqID
	}

	return meta
}

func WriteSuccess(ctx context.Context, w http.ResponseWriter, message string, data any) {
	WriteJSON(w, http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    extractMeta(ctx),
	})
}

func WriteError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Response{
		Success: false,
		Error:   message,
		Meta:    extractMeta(ctx),
	})
}
