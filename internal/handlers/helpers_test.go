package handlers

import (
	"strings"
	"testing"
	"time"
)

func TestTimeRx(t *testing.T) {
	valid := []string{"00:00", "7:30", "07:30", "19:05", "23:59"}
	invalid := []string{"24:00", "7:5", "07:60", "7", "730", "07:30:00", "ab:cd", ""}

	for _, s := range valid {
		if !timeRx.MatchString(s) {
			t.Errorf("%q should be accepted", s)
		}
	}
	for _, s := range invalid {
		if timeRx.MatchString(s) {
			t.Errorf("%q should be rejected", s)
		}
	}
}

func TestNormalizeTime(t *testing.T) {
	if got := normalizeTime("7:30"); got != "07:30" {
		t.Errorf("normalizeTime(7:30) = %q, want 07:30", got)
	}
	if got := normalizeTime("17:30"); got != "17:30" {
		t.Errorf("normalizeTime(17:30) = %q, want 17:30", got)
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		errText string
	}{
		{"100", "100", ""},
		{"100.50", "100.5", ""},
		{"100,50", "100.5", ""}, // comma separator
		{" 42 ", "42", ""},
		{"1000000", "1000000", ""},
		{"0", "", textBadAmount},
		{"-5", "", textBadAmount},
		{"abc", "", textBadAmount},
		{"", "", textBadAmount},
		{"1000000.01", "", textAmountTooBig},
	}

	for _, tc := range cases {
		got, errText := parseAmount(tc.in)
		if errText != tc.errText {
			t.Errorf("parseAmount(%q) error = %q, want %q", tc.in, errText, tc.errText)
			continue
		}
		if tc.errText == "" && got.String() != tc.want {
			t.Errorf("parseAmount(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestUkDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2026-09-01", "1 вересня 2026"},
		{"2026-01-15", "15 січня 2026"},
		{"2026-12-31", "31 грудня 2026"},
		{"not-a-date", "not-a-date"},
	}
	for _, tc := range cases {
		if got := ukDate(tc.in); got != tc.want {
			t.Errorf("ukDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCalendarKeyboard(t *testing.T) {
	kb := calendarKeyboard()

	var dates []string
	for _, r := range kb.InlineKeyboard {
		for _, b := range r {
			if b.CallbackData != nil && strings.HasPrefix(*b.CallbackData, cbPrefixSelectDate) {
				dates = append(dates, strings.TrimPrefix(*b.CallbackData, cbPrefixSelectDate))
			}
		}
	}
	if len(dates) != 30 {
		t.Fatalf("calendar offers %d dates, want 30", len(dates))
	}
	if dates[0] != time.Now().Format("2006-01-02") {
		t.Errorf("first date = %s, want today", dates[0])
	}
	if dates[1] != time.Now().AddDate(0, 0, 1).Format("2006-01-02") {
		t.Errorf("second date = %s, want tomorrow", dates[1])
	}

	first := kb.InlineKeyboard[0]
	if first[0].Text != "📅 Сьогодні" || first[1].Text != "📅 Завтра" {
		t.Errorf("first row labels = %q, %q", first[0].Text, first[1].Text)
	}
}

func TestTimeSlotsKeyboard(t *testing.T) {
	kb := timeSlotsKeyboard()

	var slots []string
	for _, r := range kb.InlineKeyboard {
		for _, b := range r {
			if b.CallbackData != nil && strings.HasPrefix(*b.CallbackData, cbPrefixSelectTime) {
				slots = append(slots, strings.TrimPrefix(*b.CallbackData, cbPrefixSelectTime))
			}
		}
	}
	// 06:00 .. 21:30 half-hourly plus the final 22:00.
	if len(slots) != 33 {
		t.Fatalf("got %d time slots, want 33", len(slots))
	}
	if slots[0] != "06:00" || slots[len(slots)-1] != "22:00" {
		t.Errorf("slot range %s..%s, want 06:00..22:00", slots[0], slots[len(slots)-1])
	}
	for _, s := range slots {
		if !timeRx.MatchString(s) {
			t.Errorf("slot %q is not a valid HH:MM time", s)
		}
	}
}

func TestCurrencyKeyboardLayout(t *testing.T) {
	kb := currencyKeyboard(cbPrefixFromCur, "⬅️ Назад", cbConverter)

	rows := kb.InlineKeyboard
	last := rows[len(rows)-1]
	if len(last) != 1 || *last[0].CallbackData != cbConverter {
		t.Fatalf("last row must be the single back button, got %+v", last)
	}

	count := 0
	for _, r := range rows[:len(rows)-1] {
		if len(r) > 3 {
			t.Errorf("currency row has %d buttons, want at most 3", len(r))
		}
		for _, b := range r {
			if !strings.HasPrefix(*b.CallbackData, cbPrefixFromCur) {
				t.Errorf("callback %q missing prefix %q", *b.CallbackData, cbPrefixFromCur)
			}
			count++
		}
	}
	if count != 10 {
		t.Errorf("keyboard offers %d currencies, want 10", count)
	}
}
