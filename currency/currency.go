// Package currency formats amounts for display using per-currency symbol and
// precision rules. Lookups accept either an ISO country code ("JP") or an ISO
// currency code ("JPY").
package currency

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultCode is the home currency every settlement amount is expressed in.
const DefaultCode = "KRW"

// Rule describes how one currency is rendered.
type Rule struct {
	Code        string // ISO 4217 currency code
	Symbol      string
	Decimals    int
	SymbolAfter bool
}

var (
	krw = Rule{Code: "KRW", Symbol: "원", Decimals: 0, SymbolAfter: true}
	jpy = Rule{Code: "JPY", Symbol: "¥", Decimals: 0, SymbolAfter: true}
	vnd = Rule{Code: "VND", Symbol: "₫", Decimals: 0}
	usd = Rule{Code: "USD", Symbol: "$", Decimals: 2}
	eur = Rule{Code: "EUR", Symbol: "€", Decimals: 2}
	gbp = Rule{Code: "GBP", Symbol: "£", Decimals: 2}
	cny = Rule{Code: "CNY", Symbol: "元", Decimals: 2}
	thb = Rule{Code: "THB", Symbol: "฿", Decimals: 2}
	twd = Rule{Code: "TWD", Symbol: "NT$", Decimals: 2}
	hkd = Rule{Code: "HKD", Symbol: "HK$", Decimals: 2}
	sgd = Rule{Code: "SGD", Symbol: "S$", Decimals: 2}
	aud = Rule{Code: "AUD", Symbol: "A$", Decimals: 2}
	cad = Rule{Code: "CAD", Symbol: "C$", Decimals: 2}
	php = Rule{Code: "PHP", Symbol: "₱", Decimals: 2}
)

// rules is keyed by both country and currency code.
var rules = map[string]Rule{
	"KR": krw, "KRW": krw,
	"JP": jpy, "JPY": jpy,
	"VN": vnd, "VND": vnd,
	"US": usd, "USD": usd,
	"EU": eur, "EUR": eur,
	"GB": gbp, "GBP": gbp,
	"CN": cny, "CNY": cny,
	"TH": thb, "THB": thb,
	"TW": twd, "TWD": twd,
	"HK": hkd, "HKD": hkd,
	"SG": sgd, "SGD": sgd,
	"AU": aud, "AUD": aud,
	"CA": cad, "CAD": cad,
	"PH": php, "PHP": php,
}

// Lookup returns the rule registered for code.
func Lookup(code string) (Rule, bool) {
	r, ok := rules[strings.ToUpper(strings.TrimSpace(code))]
	return r, ok
}

// RuleFor never fails: an empty code is the home currency, an unknown code
// gets the home currency's rules with the code itself as the symbol.
func RuleFor(code string) Rule {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return krw
	}
	if r, ok := Lookup(trimmed); ok {
		return r
	}
	fallback := krw
	fallback.Code = trimmed
	fallback.Symbol = trimmed
	return fallback
}

// IsHome reports whether code denotes the home currency.
func IsHome(code string) bool {
	return RuleFor(code).Code == DefaultCode
}

type options struct {
	decimals *int
}

// Option tweaks a single Format call.
type Option func(*options)

// WithDecimals overrides the currency's decimal count. Negative values are ignored.
func WithDecimals(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.decimals = &n
		}
	}
}

// Format renders amount with grouping separators and the currency symbol.
func Format(amount decimal.Decimal, code string, opts ...Option) string {
	rule := RuleFor(code)
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	decimals := rule.Decimals
	if o.decimals != nil {
		decimals = *o.decimals
	}

	rounded := amount.Round(int32(decimals))
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}

	digits := groupDigits(rounded.StringFixed(int32(decimals)))

	if rule.SymbolAfter {
		return sign + digits + rule.Symbol
	}
	return sign + rule.Symbol + digits
}

// groupDigits inserts thousands separators into a plain non-negative decimal
// string. The string is never converted to a float.
func groupDigits(fixed string) string {
	intPart, frac, hasFrac := strings.Cut(fixed, ".")
	var grouped string
	if n, err := strconv.ParseInt(intPart, 10, 64); err == nil {
		grouped = message.NewPrinter(language.English).Sprintf("%v", number.Decimal(n))
	} else {
		// beyond int64
		var b strings.Builder
		for i, r := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				b.WriteByte(',')
			}
			b.WriteRune(r)
		}
		grouped = b.String()
	}
	if hasFrac {
		return grouped + "." + frac
	}
	return grouped
}

// FormatFloat is Format for float inputs.
func FormatFloat(amount float64, code string, opts ...Option) string {
	return Format(decimal.NewFromFloat(amount), code, opts...)
}

// FormatInt is Format for whole amounts such as settlement KRW values.
func FormatInt(amount int64, code string, opts ...Option) string {
	return Format(decimal.NewFromInt(amount), code, opts...)
}
