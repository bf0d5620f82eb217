package currency

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

const nbuPayload = `[
	{"cc":"USD","rate":41.30,"rate_prev":41.30},
	{"cc":"EUR","rate":45.13661202185792,"rate_prev":45.13661202185792},
	{"cc":"PLN","rate":10.455696202531646,"rate_prev":10.455696202531646},
	{"cc":"XAU","rate":98000,"rate_prev":97000}
]`

func newTestConverter(t *testing.T, handler http.HandlerFunc) (*Converter, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL), srv
}

func TestUpdateRebasesToUSD(t *testing.T) {
	c, _ := newTestConverter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(nbuPayload))
	})

	if err := c.Update(); err != nil {
		t.Fatal(err)
	}

	rates := c.Rates()
	if got := rates["USD"].Rate; !got.Equal(decimal.NewFromInt(1)) {
		t.Errorf("USD rate = %s, want 1", got)
	}
	// 41.30 UAH/USD over 45.1355 UAH/EUR is 0.915 EUR per USD.
	if got := rates["EUR"].Rate.Round(4); got.String() != "0.915" {
		t.Errorf("EUR rate = %s, want 0.915", got)
	}
	if got := rates["UAH"].Rate.Round(2); got.String() != "41.3" {
		t.Errorf("UAH rate = %s, want 41.3", got)
	}
	if _, ok := rates["XAU"]; ok {
		t.Error("unsupported NBU codes must be dropped from the snapshot")
	}
	if c.LastUpdate().IsZero() {
		t.Error("last update stamp must be set after a successful fetch")
	}
}

func TestConvertScenario(t *testing.T) {
	c, _ := newTestConverter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(nbuPayload))
	})
	if err := c.Update(); err != nil {
		t.Fatal(err)
	}

	conv, err := c.Convert(decimal.NewFromInt(100), "USD", "EUR")
	if err != nil {
		t.Fatal(err)
	}
	if got := conv.Result.Round(2).String(); got != "91.5" {
		t.Errorf("100 USD = %s EUR, want 91.5", got)
	}
	if got := conv.Rate.Round(4).String(); got != "0.915" {
		t.Errorf("rate = %s, want 0.915", got)
	}

	// The reverse direction inverts the rate.
	back, err := c.Convert(conv.Result, "EUR", "USD")
	if err != nil {
		t.Fatal(err)
	}
	if got := back.Result.Round(2).String(); got != "100" {
		t.Errorf("round trip gave %s USD, want 100", got)
	}
}

func TestConvertUnsupported(t *testing.T) {
	c := New("")
	c.mu.Lock()
	c.setBackupRates()
	c.mu.Unlock()

	if _, err := c.Convert(decimal.NewFromInt(1), "USD", "XXX"); err != ErrUnsupported {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
	if _, err := c.Convert(decimal.NewFromInt(1), "XXX", "USD"); err != ErrUnsupported {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}

func TestUpdateFailureInstallsBackupOnce(t *testing.T) {
	c, _ := newTestConverter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	if err := c.Update(); err == nil {
		t.Fatal("Update against a failing source must return the error")
	}

	rates := c.Rates()
	if len(rates) == 0 {
		t.Fatal("backup rates must be installed when no snapshot exists")
	}
	if got := rates["EUR"].Rate.String(); got != "0.915" {
		t.Errorf("backup EUR rate = %s, want 0.915", got)
	}
}

func TestUpdateFailureKeepsSnapshot(t *testing.T) {
	fail := false
	c, _ := newTestConverter(t, func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(nbuPayload))
	})

	if err := c.Update(); err != nil {
		t.Fatal(err)
	}
	before := c.Rates()

	fail = true
	if err := c.Update(); err == nil {
		t.Fatal("failed refresh must surface its error")
	}

	after := c.Rates()
	if len(after) != len(before) {
		t.Fatalf("snapshot size changed to %d after a failed refresh", len(after))
	}
	if !after["EUR"].Rate.Equal(before["EUR"].Rate) {
		t.Error("failed refresh must not touch the existing snapshot")
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2500000", "2.50M"},
		{"1000000", "1.00M"},
		{"1500", "1.50K"},
		{"1000", "1.00K"},
		{"999.999", "1000.00"},
		{"100", "100.00"},
		{"0.5", "0.50"},
	}
	for _, tc := range cases {
		v, _ := decimal.NewFromString(tc.in)
		if got := FormatAmount(v); got != tc.want {
			t.Errorf("FormatAmount(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRatesTable(t *testing.T) {
	c, _ := newTestConverter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(nbuPayload))
	})
	if err := c.Update(); err != nil {
		t.Fatal(err)
	}

	table, err := c.RatesTable("USD", decimal.NewFromInt(100))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"100.00 USD", "🇪🇺 EUR: 91.50", "🇺🇦 UAH: 4130.00", "Національного банку України"} {
		if !strings.Contains(table, want) {
			t.Errorf("table missing %q:\n%s", want, table)
		}
	}
	if strings.Contains(table, "🇺🇸") {
		t.Error("base currency must not be listed against itself")
	}

	if _, err := c.RatesTable("XXX", decimal.NewFromInt(1)); err != ErrUnsupported {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}
