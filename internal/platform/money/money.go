package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const DefaultCurrency = "EUR"

var symbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
}

var printer = message.NewPrinter(language.Estonian)

// Format renders an amount the way the storefront shows prices: Estonian grouping,
// comma decimals, symbol after the amount ("1 299,99 €").
func Format(amount decimal.Decimal, currency string) string {
	f, _ := amount.Round(2).Float64()
	s := printer.Sprint(number.Decimal(f, number.Scale(2)))

	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		code = DefaultCurrency
	}
	if sym, ok := symbols[code]; ok {
		return s + " " + sym
	}
	return s + " " + code
}

// Parse reads an amount from upstream string fields; blanks and garbage are zero.
func Parse(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Line returns price*quantity.
func Line(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}
