package pricing

// AverageMode selects the sub-algorithm of the average strategy.
type AverageMode string

const (
	AverageMidpoint  AverageMode = "MIDPOINT"
	AverageOccupancy AverageMode = "OCCUPANCY"
)

// ReferenceRate selects which component rates proportional reversed pricing scales by.
type ReferenceRate string

const (
	ReferenceOriginal ReferenceRate = "ORIGINAL"
	ReferenceCurrent  ReferenceRate = "CURRENT"
)

// Settings are the per-hotel knobs of a pricing run.
type Settings struct {
	RoundingMode      RoundingMode
	AverageMode       AverageMode
	ReversedReference ReferenceRate
}

func DefaultSettings() Settings {
	return Settings{
		RoundingMode:      RoundingNone,
		AverageMode:       AverageMidpoint,
		ReversedReference: ReferenceOriginal,
	}
}

func ParseAverageMode(raw string) AverageMode {
	if AverageMode(raw) == AverageOccupancy {
		return AverageOccupancy
	}
	return AverageMidpoint
}

func ParseReferenceRate(raw string) ReferenceRate {
	if ReferenceRate(raw) == ReferenceCurrent {
		return ReferenceCurrent
	}
	return ReferenceOriginal
}
