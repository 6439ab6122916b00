package inventory

import (
	"context"
	"errors"
)

var ErrProductNotFound = errors.New("inventory: room product not found")

type ProductID string

type UnitID string

// ProductType distinguishes elemental products from composites.
type ProductType string

const (
	// TypeRFC is an elemental product priced from its own features.
	TypeRFC ProductType = "RFC"
	// TypeMRFC is a multi-composite priced from related RFCs.
	TypeMRFC ProductType = "MRFC"
	// TypeERFC is an extended composite with unit-assignment availability.
	TypeERFC ProductType = "ERFC"
)

type BasePriceMode string

const (
	BasePriceFeatureBased BasePriceMode = "FEATURE_BASED"
	BasePriceAverage      BasePriceMode = "AVERAGE"
	BasePriceCombined     BasePriceMode = "COMBINED"
)

type RoomProduct struct {
	ID            ProductID
	HotelID       string
	Code          string
	Type          ProductType
	BasePriceMode BasePriceMode
}

// IsComposite reports whether the product is priced from other products.
func (p RoomProduct) IsComposite() bool {
	return p.Type == TypeMRFC || p.Type == TypeERFC
}

type Repository interface {
	Products(ctx context.Context, hotelID string) ([]RoomProduct, error)
	AssignedUnits(ctx context.Context, hotelID string) (AssignedUnits, error)
}

// Lookup indexes products by id.
type Lookup map[ProductID]RoomProduct

func NewLookup(products []RoomProduct) Lookup {
	out := make(Lookup, len(products))
	for _, p := range products {
		out[p.ID] = p
	}
	return out
}

func (l Lookup) Get(id ProductID) (RoomProduct, bool) {
	p, ok := l[id]
	return p, ok
}

// AssignedUnits maps each product to the physical units that can fulfil it.
type AssignedUnits map[ProductID][]UnitID

func (a AssignedUnits) Units(id ProductID) []UnitID {
	return a[id]
}

func (a AssignedUnits) Count(id ProductID) int {
	return len(a[id])
}

// Shared returns the units assigned to both products.
func (a AssignedUnits) Shared(left, right ProductID) []UnitID {
	set := make(map[UnitID]struct{}, len(a[left]))
	for _, u := range a[left] {
		set[u] = struct{}{}
	}
	var out []UnitID
	for _, u := range a[right] {
		if _, ok := set[u]; ok {
			out = append(out, u)
		}
	}
	return out
}

// Subset reports whether every unit of inner is also assigned to outer.
func (a AssignedUnits) Subset(inner, outer ProductID) bool {
	units := a[inner]
	if len(units) == 0 {
		return false
	}
	set := make(map[UnitID]struct{}, len(a[outer]))
	for _, u := range a[outer] {
		set[u] = struct{}{}
	}
	for _, u := range units {
		if _, ok := set[u]; !ok {
			return false
		}
	}
	return true
}
