// Package currency holds the cached exchange-rate snapshot and the
// conversion math. Rates are stored as units-per-USD; the NBU source
// quotes UAH per unit, so fetched rates are re-based on ingest.
package currency

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const NBUExchangeURL = "https://bank.gov.ua/NBUStatService/v1/statdirectory/exchange?json"

var ErrUnsupported = errors.New("currency: unsupported currency")

// Info describes a supported currency for display.
type Info struct {
	Flag string
	Name string
}

// Codes is the supported set in menu order.
var Codes = []string{"USD", "EUR", "UAH", "GBP", "PLN", "CZK", "JPY", "CNY", "TRY", "EGP"}

var Currencies = map[string]Info{
	"USD": {"🇺🇸", "Долар США"},
	"EUR": {"🇪🇺", "Євро"},
	"UAH": {"🇺🇦", "Гривня"},
	"GBP": {"🇬🇧", "Фунт стерлінгів"},
	"PLN": {"🇵🇱", "Злотий"},
	"CZK": {"🇨🇿", "Чеська крона"},
	"JPY": {"🇯🇵", "Єна"},
	"CNY": {"🇨🇳", "Юань"},
	"TRY": {"🇹🇷", "Турецька ліра"},
	"EGP": {"🇪🇬", "Єгипетський фунт"},
}

// Rate is one entry of the snapshot: units of the currency per 1 USD plus
// the change against the previous fetch.
type Rate struct {
	Rate   decimal.Decimal
	Change decimal.Decimal
}

// Conversion is the result of Convert.
type Conversion struct {
	Amount decimal.Decimal
	From   string
	To     string
	Result decimal.Decimal
	Rate   decimal.Decimal // 1 From in To
	Date   time.Time
}

type Converter struct {
	mu         sync.RWMutex
	rates      map[string]Rate
	lastUpdate time.Time

	url    string
	client *http.Client
}

func New(url string) *Converter {
	if url == "" {
		url = NBUExchangeURL
	}
	return &Converter{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type nbuRate struct {
	CC       string  `json:"cc"`
	Rate     float64 `json:"rate"`
	RatePrev float64 `json:"rate_prev"`
}

// Update fetches a fresh snapshot. On failure the previous snapshot stays
// in place; if no fetch ever succeeded the hardcoded backup table is
// installed so conversions keep working.
func (c *Converter) Update() error {
	rows, err := c.fetch()
	if err != nil {
		c.mu.Lock()
		if len(c.rates) == 0 {
			c.setBackupRates()
			log.Println("⚠️ Використовуються резервні курси валют")
		}
		c.mu.Unlock()
		return err
	}

	// NBU quotes UAH per unit; re-base everything to USD.
	uah := map[string]decimal.Decimal{"UAH": decimal.NewFromInt(1)}
	uahPrev := map[string]decimal.Decimal{"UAH": decimal.NewFromInt(1)}
	for _, row := range rows {
		if _, ok := Currencies[row.CC]; !ok {
			continue
		}
		uah[row.CC] = decimal.NewFromFloat(row.Rate)
		prev := row.RatePrev
		if prev == 0 {
			prev = row.Rate
		}
		uahPrev[row.CC] = decimal.NewFromFloat(prev)
	}
	usd, ok := uah["USD"]
	if !ok || usd.IsZero() {
		return errors.New("currency: NBU payload has no USD rate")
	}
	usdPrev := uahPrev["USD"]

	rates := make(map[string]Rate, len(uah))
	for code, v := range uah {
		if v.IsZero() {
			continue
		}
		r := usd.Div(v)
		prev := r
		if p, ok := uahPrev[code]; ok && !p.IsZero() && !usdPrev.IsZero() {
			prev = usdPrev.Div(p)
		}
		rates[code] = Rate{Rate: r, Change: r.Sub(prev)}
	}

	c.mu.Lock()
	c.rates = rates
	c.lastUpdate = time.Now()
	c.mu.Unlock()
	log.Printf("✅ Курси валют оновлено: %d валют", len(rates))
	return nil
}

func (c *Converter) fetch() ([]nbuRate, error) {
	resp, err := c.client.Get(c.url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("currency: NBU responded %s", resp.Status)
	}
	var rows []nbuRate
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("currency: empty NBU payload")
	}
	return rows, nil
}

// setBackupRates installs the static table. Caller holds c.mu.
func (c *Converter) setBackupRates() {
	backup := map[string]float64{
		"USD": 1, "EUR": 0.915, "UAH": 39.5, "GBP": 0.782, "PLN": 3.95,
		"CZK": 23.0, "JPY": 150.0, "CNY": 7.2, "TRY": 32.0, "EGP": 31.0,
	}
	c.rates = make(map[string]Rate, len(backup))
	for code, v := range backup {
		c.rates[code] = Rate{Rate: decimal.NewFromFloat(v)}
	}
	c.lastUpdate = time.Now()
}

// Convert computes amount in `from` expressed in `to`.
func (c *Converter) Convert(amount decimal.Decimal, from, to string) (Conversion, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	fromRate, okFrom := c.rates[from]
	toRate, okTo := c.rates[to]
	if !okFrom || !okTo || fromRate.Rate.IsZero() {
		return Conversion{}, ErrUnsupported
	}

	return Conversion{
		Amount: amount,
		From:   from,
		To:     to,
		Result: amount.Mul(toRate.Rate).Div(fromRate.Rate),
		Rate:   toRate.Rate.Div(fromRate.Rate),
		Date:   c.lastUpdate,
	}, nil
}

func (c *Converter) IsSupported(code string) bool {
	_, ok := Currencies[code]
	return ok
}

// Rates returns a copy of the current snapshot.
func (c *Converter) Rates() map[string]Rate {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]Rate, len(c.rates))
	for k, v := range c.rates {
		out[k] = v
	}
	return out
}

func (c *Converter) LastUpdate() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUpdate
}
