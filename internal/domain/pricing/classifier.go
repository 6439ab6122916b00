package pricing

import "roomrates/internal/domain/inventory"

// Bucket is the strategy group a pairing is priced by.
type Bucket string

const (
	BucketFeatureBased Bucket = "FEATURE_BASED"
	BucketAverage      Bucket = "AVERAGE"
	BucketCombined     Bucket = "COMBINED"
	BucketLinked       Bucket = "LINKED"
	BucketDerived      Bucket = "DERIVED"
	BucketPMS          Bucket = "PMS"
	BucketReversed     Bucket = "REVERSED"
	BucketFixed        Bucket = "FIXED"
)

// Buckets groups pairings by strategy, preserving input order within a group.
type Buckets map[Bucket][]MethodDetail

func (b Buckets) Len() int {
	n := 0
	for _, details := range b {
		n += len(details)
	}
	return n
}

// Classify assigns every resolvable pairing to exactly one bucket.
func Classify(details []MethodDetail, products inventory.Lookup) Buckets {
	out := make(Buckets)
	for _, d := range details {
		product, ok := products.Get(d.RoomProductID)
		if !ok {
			continue
		}
		bucket, ok := classify(d, product)
		if !ok {
			continue
		}
		out[bucket] = append(out[bucket], d)
	}
	return out
}

func classify(d MethodDetail, product inventory.RoomProduct) (Bucket, bool) {
	switch d.Method {
	case MethodLink:
		return BucketLinked, true
	case MethodDerived:
		return BucketDerived, true
	}

	switch product.Type {
	case inventory.TypeRFC:
		switch d.Method {
		case MethodPMS:
			return BucketPMS, true
		case MethodProductBased:
			return BucketFeatureBased, true
		}
	case inventory.TypeMRFC:
		switch d.Method {
		case MethodReversed:
			// reversed composites are redistributed, never also PMS-anchored
			return BucketReversed, true
		case MethodProductBased:
			return byBasePriceMode(product.BasePriceMode)
		}
	case inventory.TypeERFC:
		switch d.Method {
		case MethodPMS:
			return BucketPMS, true
		case MethodProductBased:
			return byBasePriceMode(product.BasePriceMode)
		}
	}
	return "", false
}

func byBasePriceMode(mode inventory.BasePriceMode) (Bucket, bool) {
	switch mode {
	case inventory.BasePriceFeatureBased:
		return BucketFeatureBased, true
	case inventory.BasePriceAverage:
		return BucketAverage, true
	case inventory.BasePriceCombined:
		return BucketCombined, true
	}
	return "", false
}
