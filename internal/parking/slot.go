package parking

import "time"

type SlotStatus string

const (
	StatusFree     SlotStatus = "Free"
	StatusOccupied SlotStatus = "Occupied"
)

// Slot is one physical parking space. Vehicle and EntryTime are zero
// exactly when Status is Free; Park and Release are the only mutators.
type Slot struct {
	Number    int
	Status    SlotStatus
	Vehicle   string
	EntryTime time.Time
}

func NewSlot(number int) *Slot {
	return &Slot{
		Number: number,
		Status: StatusFree,
	}
}

func (s *Slot) Occupied() bool {
	return s.Status == StatusOccupied
}

func (s *Slot) Park(vehicle string, at time.Time) {
	s.Status = StatusOccupied
	s.Vehicle = vehicle
	s.EntryTime = at
}

// Release frees the slot and returns the vehicle and entry time it held.
func (s *Slot) Release() (string, time.Time) {
	vehicle, entry := s.Vehicle, s.EntryTime
	s.Status = StatusFree
	s.Vehicle = ""
	s.EntryTime = time.Time{}
	return vehicle, entry
}
