package allowance

import "testing"

func TestForTier(t *testing.T) {
	tests := []struct {
		tier        Tier
		wantSavers  int
		wantHoliday int
		wantDays    int
	}{
		{TierFree, 1, 1, 7},
		{TierPro, 3, 2, 14},
		{TierProPlus, 5, 4, 14},
		{Tier("enterprise"), 1, 1, 7}, // unknown falls back to free
		{Tier(""), 1, 1, 7},
	}

	for _, tt := range tests {
		a := ForTier(tt.tier)
		if a.StreakSaversPerMonth != tt.wantSavers {
			t.Errorf("ForTier(%q).StreakSaversPerMonth = %d, want %d", tt.tier, a.StreakSaversPerMonth, tt.wantSavers)
		}
		if a.HolidaySaversPerYear != tt.wantHoliday {
			t.Errorf("ForTier(%q).HolidaySaversPerYear = %d, want %d", tt.tier, a.HolidaySaversPerYear, tt.wantHoliday)
		}
		if a.HolidayDurationDays != tt.wantDays {
			t.Errorf("ForTier(%q).HolidayDurationDays = %d, want %d", tt.tier, a.HolidayDurationDays, tt.wantDays)
		}
	}
}
