package inventory

import (
	"context"
	"time"
)

type UnitAvailability struct {
	UnitID    UnitID
	Date      string
	Available bool
}

type ProductAvailability struct {
	RoomProductID ProductID
	Date          string
	Open          bool
}

type AvailabilityRepository interface {
	UnitAvailability(ctx context.Context, hotelID string, from, to time.Time) ([]UnitAvailability, error)
	ProductAvailability(ctx context.Context, hotelID string, from, to time.Time) ([]ProductAvailability, error)
}

type unitDay struct {
	unit UnitID
	date string
}

type productDay struct {
	product ProductID
	date    string
}

// Snapshot answers availability questions for one pricing run. Units without a
// record count as available; products without a record count as open.
type Snapshot struct {
	assigned AssignedUnits
	units    map[unitDay]bool
	products map[productDay]bool
}

func NewSnapshot(assigned AssignedUnits, units []UnitAvailability, products []ProductAvailability) *Snapshot {
	s := &Snapshot{
		assigned: assigned,
		units:    make(map[unitDay]bool, len(units)),
		products: make(map[productDay]bool, len(products)),
	}
	for _, u := range units {
		s.units[unitDay{unit: u.UnitID, date: u.Date}] = u.Available
	}
	for _, p := range products {
		s.products[productDay{product: p.RoomProductID, date: p.Date}] = p.Open
	}
	return s
}

func (s *Snapshot) Assigned() AssignedUnits {
	if s == nil {
		return nil
	}
	return s.assigned
}

// UnitAvailable reports whether the unit can be sold on date.
func (s *Snapshot) UnitAvailable(unit UnitID, date string) bool {
	if s == nil {
		return false
	}
	available, ok := s.units[unitDay{unit: unit, date: date}]
	if !ok {
		return true
	}
	return available
}

// ProductOpen reports whether the product itself is open for sale on date.
func (s *Snapshot) ProductOpen(id ProductID, date string) bool {
	if s == nil {
		return false
	}
	open, ok := s.products[productDay{product: id, date: date}]
	if !ok {
		return true
	}
	return open
}

// AvailableUnits counts assigned units still free on date; zero when the product is closed.
func (s *Snapshot) AvailableUnits(id ProductID, date string) int {
	if s == nil || !s.ProductOpen(id, date) {
		return 0
	}
	count := 0
	for _, u := range s.assigned.Units(id) {
		if s.UnitAvailable(u, date) {
			count++
		}
	}
	return count
}

func (s *Snapshot) TotalUnits(id ProductID) int {
	if s == nil {
		return 0
	}
	return s.assigned.Count(id)
}

// Available reports whether the product is open and has at least one free unit.
func (s *Snapshot) Available(id ProductID, date string) bool {
	return s.AvailableUnits(id, date) > 0
}

// DailyAvailability is a product's sellable state on one day.
type DailyAvailability struct {
	RoomProductID  ProductID
	Date           string
	AvailableUnits int
	Open           bool
}

func (s *Snapshot) Daily(id ProductID, date string) DailyAvailability {
	return DailyAvailability{
		RoomProductID:  id,
		Date:           date,
		AvailableUnits: s.AvailableUnits(id, date),
		Open:           s.ProductOpen(id, date),
	}
}
