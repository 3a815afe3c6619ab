package allowance

// Tier is the subscription tier stored on the user row. Gameplay never
// mutates allowances; they are read-only reference data keyed by tier.
type Tier string

const (
	TierFree    Tier = "free"
	TierPro     Tier = "pro"
	TierProPlus Tier = "pro_plus"
)

type Allowance struct {
	StreakSaversPerMonth int `json:"streak_savers_per_month"`
	HolidaySaversPerYear int `json:"holiday_savers_per_year"`
	HolidayDurationDays  int `json:"holiday_duration_days"`
}

var byTier = map[Tier]Allowance{
	TierFree:    {StreakSaversPerMonth: 1, HolidaySaversPerYear: 1, HolidayDurationDays: 7},
	TierPro:     {StreakSaversPerMonth: 3, HolidaySaversPerYear: 2, HolidayDurationDays: 14},
	TierProPlus: {StreakSaversPerMonth: 5, HolidaySaversPerYear: 4, HolidayDurationDays: 14},
}

// ForTier returns the allowance for a tier. Unknown tiers get the free
// allowance rather than failing; a bad tier value must never lock a
// user out of gameplay.
func ForTier(t Tier) Allowance {
	if a, ok := byTier[t]; ok {
		return a
	}
	return byTier[TierFree]
}
