package scheduler

import (
	"testing"

	"telegram-plan-bot/internal/models"
)

func TestNextDate(t *testing.T) {
	cases := []struct {
		name   string
		date   string
		repeat string
		want   string
	}{
		{"daily", "2026-03-10", models.RepeatDaily, "2026-03-11"},
		{"daily across month end", "2026-03-31", models.RepeatDaily, "2026-04-01"},
		{"weekly", "2026-03-10", models.RepeatWeekly, "2026-03-17"},
		{"weekly across year end", "2026-12-29", models.RepeatWeekly, "2027-01-05"},
		{"monthly", "2026-03-15", models.RepeatMonthly, "2026-04-15"},
		{"monthly clamps to february", "2026-01-31", models.RepeatMonthly, "2026-02-28"},
		{"monthly leap february", "2028-01-31", models.RepeatMonthly, "2028-02-29"},
		{"monthly 31st to 30-day month", "2026-05-31", models.RepeatMonthly, "2026-06-30"},
		{"none leaves date alone", "2026-03-10", models.RepeatNone, "2026-03-10"},
		{"garbage date passes through", "not-a-date", models.RepeatDaily, "not-a-date"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NextDate(tc.date, tc.repeat); got != tc.want {
				t.Errorf("NextDate(%q, %q) = %q, want %q", tc.date, tc.repeat, got, tc.want)
			}
		})
	}
}
