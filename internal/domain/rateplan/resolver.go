package rateplan

import "roomrates/internal/domain/pricing"

type planDay struct {
	ratePlanID string
	date       string
}

// Resolved is the effective adjustment of a rate plan on a day.
type Resolved struct {
	RatePlanID string
	Date       string
	Adjustment pricing.Adjustment
	Override   bool
}

// Adjustments holds resolved adjustments for active plans only. A missing entry
// means no adjustment.
type Adjustments map[planDay]Resolved

// Resolve builds the cartesian product of active plans and dates, preferring a
// date override over the plan default. Inactive plans are left out.
func Resolve(plans []RatePlan, overrides []DailyAdjustment, dates []string) Adjustments {
	byDay := make(map[planDay]pricing.Adjustment, len(overrides))
	for _, o := range overrides {
		byDay[planDay{ratePlanID: o.RatePlanID, date: o.Date}] = o.Adjustment
	}

	out := make(Adjustments, len(plans)*len(dates))
	for _, plan := range plans {
		if !plan.Active() {
			continue
		}
		for _, date := range dates {
			key := planDay{ratePlanID: plan.ID, date: date}
			if adj, ok := byDay[key]; ok {
				out[key] = Resolved{RatePlanID: plan.ID, Date: date, Adjustment: adj, Override: true}
				continue
			}
			out[key] = Resolved{RatePlanID: plan.ID, Date: date, Adjustment: plan.DefaultAdjustment}
		}
	}
	return out
}

// Lookup returns the resolved entry, if any.
func (a Adjustments) Lookup(ratePlanID, date string) (Resolved, bool) {
	r, ok := a[planDay{ratePlanID: ratePlanID, date: date}]
	return r, ok
}

// For returns the effective adjustment, or the zero adjustment when the plan is
// unknown or inactive.
func (a Adjustments) For(ratePlanID, date string) pricing.Adjustment {
	return a[planDay{ratePlanID: ratePlanID, date: date}].Adjustment
}
