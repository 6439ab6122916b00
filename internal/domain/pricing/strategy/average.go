package strategy

import (
	"math"

	"github.com/shopspring/decimal"

	"roomrates/internal/domain/inventory"
	"roomrates/internal/domain/pricing"
)

// ComponentPrice is one related product's pre-adjustment price on a day.
type ComponentPrice struct {
	RoomProductID  inventory.ProductID
	Price          decimal.Decimal
	AvailableUnits int
	TotalUnits     int
}

func (c ComponentPrice) available() bool { return c.AvailableUnits > 0 }

var two = decimal.NewFromInt(2)

// Average prices a composite from the prices of its components, using the
// hotel's average mode.
func Average(in Input) []pricing.DailyResult {
	bucket := in.bucketOr(pricing.BucketAverage)
	cache := newComponentCache(in)
	var out []pricing.DailyResult
	for _, d := range in.Details {
		parent, ok := in.Products.Get(d.RoomProductID)
		if !ok {
			continue
		}
		components := in.Related[d.RoomProductID]
		if len(components) == 0 {
			continue
		}
		rows := cache.forRatePlan(d.RatePlanID, components)
		for _, date := range in.Dates {
			prices := componentPrices(in, rows, components, date)
			var base decimal.Decimal
			switch in.Settings.AverageMode {
			case pricing.AverageOccupancy:
				base = OccupancyAverage(prices, PoolOccupancy(prices))
			default:
				base = MidpointAverage(parent.Type, prices)
			}
			if !base.IsPositive() {
				continue
			}
			b := pricing.ForwardAdjustment(base, d.Adjustment, in.Adjustments.For(d.RatePlanID, date))
			key := pricing.RowKey{RoomProductID: d.RoomProductID, RatePlanID: d.RatePlanID, Date: date}
			out = in.priced(out, key, bucket, b)
		}
	}
	return out
}

// componentPrices collects components with a positive margin on the day.
func componentPrices(in Input, rows map[productDay]pricing.DailyResult, components []inventory.ProductID, date string) []ComponentPrice {
	out := make([]ComponentPrice, 0, len(components))
	for _, c := range components {
		row, ok := rows[productDay{product: c, date: date}]
		if !ok {
			continue
		}
		price := row.BeforeRatePlan()
		if !price.IsPositive() {
			continue
		}
		cp := ComponentPrice{RoomProductID: c, Price: price}
		if in.Availability != nil {
			cp.AvailableUnits = in.Availability.AvailableUnits(c, date)
			cp.TotalUnits = in.Availability.TotalUnits(c)
		}
		out = append(out, cp)
	}
	return out
}

// MidpointAverage returns the larger of the availability-weighted average and the
// midpoint of the lowest and highest component price.
func MidpointAverage(parentType inventory.ProductType, components []ComponentPrice) decimal.Decimal {
	if len(components) == 0 {
		return decimal.Zero
	}
	weighted := decimal.Zero
	weights := decimal.Zero
	values := make([]decimal.Decimal, 0, len(components))
	for _, c := range components {
		w := decimal.NewFromInt(int64(weight(parentType, c)))
		weighted = weighted.Add(c.Price.Mul(w))
		weights = weights.Add(w)
		values = append(values, c.Price)
	}
	avg := decimal.Zero
	if weights.IsPositive() {
		avg = weighted.Div(weights)
	}
	lo, hi := minMax(values)
	mid := lo.Add(hi).Div(two)
	return decimal.Max(avg, mid)
}

// MRFC parents weigh components by free units; ERFC parents count a component
// once if any unit is free.
func weight(parentType inventory.ProductType, c ComponentPrice) int {
	if parentType == inventory.TypeERFC {
		if c.available() {
			return 1
		}
		return 0
	}
	return c.AvailableUnits
}

// DefaultMidpointPrice is the midpoint variant with every unit treated as free.
func DefaultMidpointPrice(parentType inventory.ProductType, components []ComponentPrice) decimal.Decimal {
	all := make([]ComponentPrice, len(components))
	for i, c := range components {
		c.AvailableUnits = c.TotalUnits
		all[i] = c
	}
	return MidpointAverage(parentType, all)
}

// Occupancy is the booked share of a unit pool, zero for an empty pool.
func Occupancy(free, total int) float64 {
	if total <= 0 {
		return 0
	}
	return 1 - float64(free)/float64(total)
}

// PoolOccupancy is the booked share of the units of the available components.
// Fully booked components are left out of the pool.
func PoolOccupancy(components []ComponentPrice) float64 {
	free, total := 0, 0
	for _, c := range components {
		if !c.available() {
			continue
		}
		free += c.AvailableUnits
		total += c.TotalUnits
	}
	return Occupancy(free, total)
}

// OccupancyAverage interpolates between the cheapest and the most expensive
// available component by occupancy.
func OccupancyAverage(components []ComponentPrice, occupancy float64) decimal.Decimal {
	values := make([]decimal.Decimal, 0, len(components))
	for _, c := range components {
		if c.available() {
			values = append(values, c.Price)
		}
	}
	if len(values) == 0 {
		return decimal.Zero
	}
	floor, ceiling := minMax(values)
	return OccupancyCurve(floor, ceiling, occupancy)
}

// OccupancyCurve is linear up to half occupancy and steepens with a fifth root
// above it, reaching the ceiling at full occupancy.
func OccupancyCurve(floor, ceiling decimal.Decimal, occupancy float64) decimal.Decimal {
	occupancy = math.Max(0, math.Min(1, occupancy))
	var factor float64
	if occupancy < 0.5 {
		factor = occupancy / 0.5 * 0.5
	} else {
		factor = 0.5 + math.Pow((occupancy-0.5)/0.5, 0.2)*0.5
	}
	return floor.Add(ceiling.Sub(floor).Mul(decimal.NewFromFloat(factor)))
}
