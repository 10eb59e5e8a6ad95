package parking

import "errors"

var (
	ErrInvalidInput          = errors.New("vehicle registration is required")
	ErrSlotUnavailable       = errors.New("slot is not available")
	ErrLotFull               = errors.New("parking lot is full")
	ErrSlotAlreadyFree       = errors.New("slot is already free")
	ErrNoPendingPayment      = errors.New("no payment is pending")
	ErrPaymentAlreadyPending = errors.New("a payment is already pending")
	ErrVehicleNotFound       = errors.New("vehicle not found")
)
