package types

import (
	"encoding/json"
	"testing"
)

func TestMoneyConstructors(t *testing.T) {
	tests := []struct {
		name     string
		money    Money
		amount   int64
		currency string
		display  string
	}{
		{"EUR", EUR(80000), 80000, "eur", "€800.00"},
		{"USD", USD(4900), 4900, "usd", "$49.00"},
		{"GBP", GBP(9900), 9900, "gbp", "£99.00"},
		{"Cents", Cents(100, "JPY"), 100, "jpy", "¥100"},
		{"Zero EUR", Zero("EUR"), 0, "eur", "€0.00"},
		{"Zero USD", Zero("usd"), 0, "usd", "$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.money.Amount != tt.amount {
				t.Errorf("Amount: got %d, want %d", tt.money.Amount, tt.amount)
			}
			if tt.money.Currency != tt.currency {
				t.Errorf("Currency: got %s, want %s", tt.money.Currency, tt.currency)
			}
			if tt.money.String() != tt.display {
				t.Errorf("Display: got %s, want %s", tt.money.String(), tt.display)
			}
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		op       func() Money
		expected Money
	}{
		{"Add", func() Money { return EUR(100).Add(EUR(200)) }, EUR(300)},
		{"Subtract", func() Money { return EUR(500).Subtract(EUR(200)) }, EUR(300)},
		{"Multiply", func() Money { return EUR(100).Multiply(3) }, EUR(300)},
		{"Negate", func() Money { return EUR(100).Negate() }, EUR(-100)},
		{"Abs positive", func() Money { return EUR(100).Abs() }, EUR(100)},
		{"Abs negative", func() Money { return EUR(-100).Abs() }, EUR(100)},
		{"Complex", func() Money {
			return EUR(1000).Add(EUR(500)).Multiply(2).Subtract(EUR(1000))
		}, EUR(2000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.op()
			if !result.Equal(tt.expected) {
				t.Errorf("Got %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMoneyScaleRound(t *testing.T) {
	tests := []struct {
		name     string
		money    Money
		num, den int64
		expected Money
	}{
		{"Exact", EUR(80000), 21, 100, EUR(16800)},
		{"Round up at half", EUR(125), 1, 10, EUR(13)},  // 12.5 → 13
		{"Round down below half", EUR(124), 1, 10, EUR(12)},
		{"Negative rounds away from zero", EUR(-125), 1, 10, EUR(-13)},
		{"Identity", EUR(999), 1, 1, EUR(999)},
		// Extracting a 21%-inclusive base: 96800 × 10000/12100 = 80000
		{"Inclusive base extraction", EUR(96800), 10000, 12100, EUR(80000)},
		// 3% indexation: 100000 × 10300/10000 = 103000
		{"Indexation", EUR(100000), 10300, 10000, EUR(103000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.money.ScaleRound(tt.num, tt.den)
			if !result.Equal(tt.expected) {
				t.Errorf("ScaleRound(%d, %d): got %v, want %v", tt.num, tt.den, result, tt.expected)
			}
		})
	}
}

func TestMoneyApplyRate(t *testing.T) {
	tests := []struct {
		name     string
		money    Money
		rate     Rate
		expected Money
	}{
		{"21 percent of 800", EUR(80000), RateFromPercent(21), EUR(16800)},
		{"10 percent of 150", EUR(15000), RateFromPercent(10), EUR(1500)},
		{"3 percent of 1000", EUR(100000), RateFromPercent(3), EUR(3000)},
		{"Zero rate", EUR(80000), Rate(0), EUR(0)},
		// 21% of €0.33 = 6.93 cents → 7 cents
		{"Rounds half-up", EUR(33), RateFromPercent(21), EUR(7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.money.ApplyRate(tt.rate)
			if !result.Equal(tt.expected) {
				t.Errorf("ApplyRate(%v): got %v, want %v", tt.rate, result, tt.expected)
			}
		})
	}
}

func TestMoneyCurrencyMismatch(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for currency mismatch")
		}
	}()

	// This should panic
	_ = USD(100).Add(EUR(100))
}

func TestMoneyScaleRoundBadDenominator(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for non-positive denominator")
		}
	}()

	// This should panic
	_ = EUR(100).ScaleRound(1, 0)
}

func TestMoneyComparison(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Money
		less    bool
		greater bool
		equal   bool
	}{
		{"Equal", EUR(100), EUR(100), false, false, true},
		{"Less", EUR(50), EUR(100), true, false, false},
		{"Greater", EUR(200), EUR(100), false, true, false},
		{"Zero equal", EUR(0), Zero("eur"), false, false, true},
		{"Negative less", EUR(-100), EUR(100), true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.LessThan(tt.b); got != tt.less {
				t.Errorf("LessThan: got %v, want %v", got, tt.less)
			}
			if got := tt.a.GreaterThan(tt.b); got != tt.greater {
				t.Errorf("GreaterThan: got %v, want %v", got, tt.greater)
			}
			if got := tt.a.Equal(tt.b); got != tt.equal {
				t.Errorf("Equal: got %v, want %v", got, tt.equal)
			}
		})
	}
}

func TestMoneyMinMax(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Money
		min, max Money
	}{
		{"First smaller", EUR(50), EUR(100), EUR(50), EUR(100)},
		{"Second smaller", EUR(100), EUR(50), EUR(50), EUR(100)},
		{"Equal", EUR(100), EUR(100), EUR(100), EUR(100)},
		{"Negative", EUR(-50), EUR(50), EUR(-50), EUR(50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if minVal := tt.a.Min(tt.b); !minVal.Equal(tt.min) {
				t.Errorf("Min: got %v, want %v", minVal, tt.min)
			}
			if maxVal := tt.a.Max(tt.b); !maxVal.Equal(tt.max) {
				t.Errorf("Max: got %v, want %v", maxVal, tt.max)
			}
		})
	}
}

func TestMoneyPredicates(t *testing.T) {
	tests := []struct {
		name       string
		money      Money
		isZero     bool
		isPositive bool
		isNegative bool
	}{
		{"Zero", EUR(0), true, false, false},
		{"Positive", EUR(100), false, true, false},
		{"Negative", EUR(-100), false, false, true},
		{"Large positive", EUR(999999999), false, true, false},
		{"Large negative", EUR(-999999999), false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.money.IsZero(); got != tt.isZero {
				t.Errorf("IsZero: got %v, want %v", got, tt.isZero)
			}
			if got := tt.money.IsPositive(); got != tt.isPositive {
				t.Errorf("IsPositive: got %v, want %v", got, tt.isPositive)
			}
			if got := tt.money.IsNegative(); got != tt.isNegative {
				t.Errorf("IsNegative: got %v, want %v", got, tt.isNegative)
			}
		})
	}
}

func TestMoneyFormatMajor(t *testing.T) {
	tests := []struct {
		money    Money
		expected string
	}{
		{EUR(96800), "968.00"},
		{EUR(16335), "163.35"},
		{EUR(100), "1.00"},
		{EUR(1), "0.01"},
		{EUR(0), "0.00"},
		{EUR(-4900), "-49.00"},
		{EUR(-1), "-0.01"},
		{Cents(100, "jpy"), "100"},     // No decimals
		{Cents(12345, "jpy"), "12345"}, // No decimals
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.money.FormatMajor(); got != tt.expected {
				t.Errorf("FormatMajor: got %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestMoneyJSON(t *testing.T) {
	m := EUR(96800)

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	// Check JSON structure
	expected := `{"amount":96800,"currency":"eur","display":"€968.00"}`
	if string(data) != expected {
		t.Errorf("JSON: got %s, want %s", string(data), expected)
	}

	// Unmarshal and verify
	var result struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Display  string `json:"display"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	if result.Amount != 96800 || result.Currency != "eur" || result.Display != "€968.00" {
		t.Errorf("Unmarshaled data incorrect: %+v", result)
	}
}

func TestSum(t *testing.T) {
	tests := []struct {
		name     string
		values   []Money
		expected Money
	}{
		{"Empty", []Money{}, Zero("eur")},
		{"Single", []Money{EUR(100)}, EUR(100)},
		{"Multiple", []Money{EUR(100), EUR(200), EUR(300)}, EUR(600)},
		{"With negatives", []Money{EUR(100), EUR(-50), EUR(200)}, EUR(250)},
		{"All zero", []Money{EUR(0), EUR(0), EUR(0)}, EUR(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Sum(tt.values...)
			if !result.Equal(tt.expected) {
				t.Errorf("Sum: got %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestCurrencySymbols(t *testing.T) {
	tests := []struct {
		currency string
		symbol   string
	}{
		{"eur", "€"},
		{"usd", "$"},
		{"gbp", "£"},
		{"jpy", "¥"},
		{"unknown", "UNKNOWN "},
	}

	for _, tt := range tests {
		t.Run(tt.currency, func(t *testing.T) {
			got := currencySymbol(tt.currency)
			if got != tt.symbol {
				t.Errorf("Symbol for %s: got %s, want %s", tt.currency, got, tt.symbol)
			}
		})
	}
}

func BenchmarkMoneyAdd(b *testing.B) {
	m1 := EUR(100)
	m2 := EUR(200)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m1.Add(m2)
	}
}

func BenchmarkMoneyScaleRound(b *testing.B) {
	m := EUR(96800)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.ScaleRound(10000, 12100)
	}
}

func BenchmarkMoneyJSON(b *testing.B) {
	m := EUR(4900)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = json.Marshal(m)
	}
}
