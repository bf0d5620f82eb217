package currency

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormattedConversion is the user-facing rendering of a Conversion.
type FormattedConversion struct {
	From        string
	To          string
	Rate        string
	ReverseRate string
	Date        string
}

// FormatAmount shortens large values for display:
// 2500000 -> "2.50M", 1500 -> "1.50K".
func FormatAmount(v decimal.Decimal) string {
	million := decimal.NewFromInt(1_000_000)
	thousand := decimal.NewFromInt(1000)
	switch {
	case v.GreaterThanOrEqual(million):
		return v.Div(million).StringFixed(2) + "M"
	case v.GreaterThanOrEqual(thousand):
		return v.Div(thousand).StringFixed(2) + "K"
	default:
		return v.StringFixed(2)
	}
}

func FormatResult(conv Conversion) FormattedConversion {
	from := Currencies[conv.From]
	to := Currencies[conv.To]

	reverse := decimal.Zero
	if !conv.Rate.IsZero() {
		reverse = decimal.NewFromInt(1).Div(conv.Rate)
	}

	return FormattedConversion{
		From:        fmt.Sprintf("%s %s %s", from.Flag, FormatAmount(conv.Amount), conv.From),
		To:          fmt.Sprintf("%s %s %s", to.Flag, FormatAmount(conv.Result), conv.To),
		Rate:        fmt.Sprintf("1 %s = %s %s", conv.From, conv.Rate.StringFixed(4), conv.To),
		ReverseRate: fmt.Sprintf("1 %s = %s %s", conv.To, reverse.StringFixed(4), conv.From),
		Date:        conv.Date.Format("02.01.2006"),
	}
}

// RatesTable renders the rate overview for `amount` units of the base
// currency against every other supported currency.
func (c *Converter) RatesTable(base string, amount decimal.Decimal) (string, error) {
	rates := c.Rates()
	baseRate, ok := rates[base]
	if !ok || baseRate.Rate.IsZero() {
		return "", ErrUnsupported
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Курси обміну для %s %s:\n\n", FormatAmount(amount), base)

	for _, code := range Codes {
		if code == base {
			continue
		}
		r, ok := rates[code]
		if !ok {
			continue
		}
		value := amount.Mul(r.Rate).Div(baseRate.Rate)
		line := value.StringFixed(4)
		if value.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			line = value.StringFixed(2)
		}
		change := ""
		if !r.Change.IsZero() {
			sign := ""
			if r.Change.IsPositive() {
				sign = "+"
			}
			change = fmt.Sprintf(" (%s%s)", sign, r.Change.StringFixed(4))
		}
		fmt.Fprintf(&b, "%s %s: %s%s\n", Currencies[code].Flag, code, line, change)
	}

	fmt.Fprintf(&b, "\n📅 Останнє оновлення: %s", c.LastUpdate().Format("02.01.2006 15:04"))
	b.WriteString("\n💡 Курси від Національного банку України")
	return b.String(), nil
}
