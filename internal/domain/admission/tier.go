package admission

import (
	"strings"
	"time"
)

// FreeTierRetention is how long a free-tier file is kept before it becomes
// eligible for deletion.
const FreeTierRetention = 30 * 24 * time.Hour

// Tier is a customer's subscription class. It gates the maximum upload size
// and whether uploaded files carry a soft-delete deadline.
type Tier string

const (
	TierFree     Tier = "free"
	TierPartTime Tier = "part-time"
	TierFullTime Tier = "full-time"
	TierTeam     Tier = "team"
)

const (
	MiB = 1024 * 1024

	// AbsoluteMaxSize applies to every tier and is checked before the tier limit.
	AbsoluteMaxSize int64 = 500 * MiB
)

var tierLimits = map[Tier]int64{
	TierFree:     100 * MiB,
	TierPartTime: 500 * MiB,
	TierFullTime: 500 * MiB,
	TierTeam:     500 * MiB,
}

// Tiers lists every known tier in ascending order of entitlement.
func Tiers() []Tier {
	return []Tier{TierFree, TierPartTime, TierFullTime, TierTeam}
}

// TierLimit returns the maximum upload size for tier.
// ok is false for strings that are not a known tier.
func TierLimit(tier Tier) (limit int64, ok bool) {
	limit, ok = tierLimits[tier]
	return limit, ok
}

func (t Tier) Valid() bool {
	_, ok := tierLimits[t]
	return ok
}

// HasRetentionLimit reports whether files uploaded on this tier expire.
func (t Tier) HasRetentionLimit() bool {
	return t == TierFree
}

// ExpiresAt returns the soft-delete deadline for a file uploaded at now, or
// nil when the tier keeps files indefinitely.
func (t Tier) ExpiresAt(now time.Time) *time.Time {
	if !t.HasRetentionLimit() {
		return nil
	}
	at := now.Add(FreeTierRetention)
	return &at
}

// ParseTier normalizes s and returns the matching tier.
func ParseTier(s string) (Tier, bool) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}
