package core

// Tier is a priority band grouping acquisition sources by expected latency
// and reliability. Tiers are scanned in fixed order: Fast, then Medium,
// then Slow. There is no priority scheduling beyond these three bands.
type Tier string

const (
	// TierFast holds sources expected to answer within seconds.
	TierFast Tier = "fast"
	// TierMedium holds sources with moderate latency or reliability.
	TierMedium Tier = "medium"
	// TierSlow holds last-resort sources that may take minutes.
	TierSlow Tier = "slow"
)

// Valid returns true if the tier is a known value.
func (t Tier) Valid() bool {
	switch t {
	case TierFast, TierMedium, TierSlow:
		return true
	default:
		return false
	}
}

// String returns the tier's stable textual form.
func (t Tier) String() string { return string(t) }

// TierOrder returns the fixed tier scan order.
//
// The returned slice is a fresh copy; callers may mutate it freely.
func TierOrder() []Tier {
	return []Tier{TierFast, TierMedium, TierSlow}
}
