package handlers

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var timeRx = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

var ukMonths = [12]string{
	"січня", "лютого", "березня", "квітня", "травня", "червня",
	"липня", "серпня", "вересня", "жовтня", "листопада", "грудня",
}

// ukDate renders "2006-01-02" as "2 січня 2006". Unparseable input is
// returned as-is.
func ukDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("2") + " " + ukMonths[t.Month()-1] + " " + t.Format("2006")
}

// normalizeTime pads "7:00" to "07:00" so stored times compare lexically.
func normalizeTime(hm string) string {
	if len(hm) == 4 {
		return "0" + hm
	}
	return hm
}

var maxAmount = decimal.NewFromInt(1_000_000)

// parseAmount validates a user-entered sum. Comma and dot decimal
// separators are both accepted. The second return value is the re-prompt
// text, empty on success.
func parseAmount(text string) (decimal.Decimal, string) {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	amount, err := decimal.NewFromString(text)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, textBadAmount
	}
	if amount.GreaterThan(maxAmount) {
		return decimal.Zero, textAmountTooBig
	}
	return amount, ""
}
