package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"smart-parking/internal/auth"
	"smart-parking/internal/invoice"
	"smart-parking/internal/parking"
	"smart-parking/internal/revenue"
)

func getServiceName() string {
	if name := os.Getenv("OTEL_SERVICE_NAME"); name != "" {
		return name
	}
	return "smart-parking-service"
}

// BillingReader is the slice of the storage layer the revenue endpoint needs.
type BillingReader interface {
	BillingRows() ([]parking.BillingRecord, error)
}

type Handler struct {
	ledger  *parking.InstrumentedLedger
	bills   BillingReader
	auth    *auth.Service
	payeeID string
}

func NewHandler(ledger *parking.InstrumentedLedger, bills BillingReader, authService *auth.Service, payeeID string) *Handler {
	return &Handler{
		ledger:  ledger,
		bills:   bills,
		auth:    authService,
		payeeID: payeeID,
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": getServiceName(),
		"meta":    extractMeta(r.Context()),
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		WriteError(ctx, w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	WriteSuccess(ctx, w, "Login successful", map[string]any{
		"token": token,
	})
}

func (h *Handler) GetSlots(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	slots := h.ledger.Snapshot(ctx)
	counts := h.ledger.OccupancyCounts()

	response := StatusResponse{
		Total:    counts.Total,
		Free:     counts.Free,
		Occupied: counts.Occupied,
	}
	for _, slot := range slots {
		response.Slots = append(response.Slots, newSlotStatus(slot))
	}

	WriteSuccess(ctx, w, "Status retrieved successfully", response)
}

func (h *Handler) ParkVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req ParkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	slot, err := h.ledger.Park(ctx, req.Vehicle, req.Slot)
	if err != nil {
		WriteError(ctx, w, ledgerErrorStatus(err), err.Error())
		return
	}

	WriteSuccess(ctx, w, "Vehicle parked successfully", newSlotStatus(slot))
}

func (h *Handler) ScanVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	plate, slot, err := h.ledger.AutoDetectAndPark(ctx)
	if err != nil {
		WriteError(ctx, w, ledgerErrorStatus(err), err.Error())
		return
	}

	WriteSuccess(ctx, w, "Vehicle detected and parked", map[string]any{
		"detected": plate,
		"slot":     newSlotStatus(slot),
	})
}

func (h *Handler) ExitSlot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req ExitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	record, err := h.ledger.BeginExit(ctx, req.Slot)
	if err != nil {
		WriteError(ctx, w, ledgerErrorStatus(err), err.Error())
		return
	}

	bill := newBillView(record)
	bill.PaymentRequest = invoice.PaymentRequest(h.payeeID, record)

	WriteSuccess(ctx, w, "Bill generated, awaiting payment", bill)
}

func (h *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	record, err := h.ledger.ConfirmPayment(ctx)
	if err != nil {
		WriteError(ctx, w, ledgerErrorStatus(err), err.Error())
		return
	}

	bill := newBillView(record)
	bill.InvoiceURL = "/api/invoices/" + record.ID

	WriteSuccess(ctx, w, "Payment confirmed", bill)
}

func (h *Handler) CancelPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.ledger.CancelPayment(ctx); err != nil {
		WriteError(ctx, w, ledgerErrorStatus(err), err.Error())
		return
	}

	WriteSuccess(ctx, w, "Pending payment discarded", nil)
}

func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := chi.URLParam(r, "id")
	record, ok := h.ledger.Confirmed(id)
	if !ok {
		WriteError(ctx, w, http.StatusNotFound, "Invoice not found")
		return
	}

	data, err := invoice.Render(record)
	if err != nil {
		WriteError(ctx, w, http.StatusInternalServerError, "Failed to render invoice")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+invoice.FileName(record)+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) GetRevenue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, err := h.bills.BillingRows()
	if err != nil {
		WriteError(ctx, w, http.StatusInternalServerError, "Failed to read billing data")
		return
	}

	WriteSuccess(ctx, w, "Revenue summary", revenue.Report(rows))
}

func (h *Handler) FindByRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	registration := chi.URLParam(r, "registration")
	if registration == "" {
		WriteError(ctx, w, http.StatusBadRequest, "Registration number is required")
		return
	}

	slotNumber, err := h.ledger.FindVehicle(ctx, registration)
	if err != nil {
		WriteError(ctx, w, http.StatusNotFound, "Vehicle not found")
		return
	}

	WriteSuccess(ctx, w, "Vehicle found", map[string]any{
		"slot":         slotNumber,
		"registration": registration,
	})
}

func ledgerErrorStatus(err error) int {
	switch {
	case errors.Is(err, parking.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, parking.ErrVehicleNotFound):
		return http.StatusNotFound
	case errors.Is(err, parking.ErrSlotUnavailable),
		errors.Is(err, parking.ErrLotFull),
		errors.Is(err, parking.ErrSlotAlreadyFree),
		errors.Is(err, parking.ErrNoPendingPayment),
		errors.Is(err, parking.ErrPaymentAlreadyPending):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
