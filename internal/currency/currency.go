// Package currency maps ISO currency codes to a display symbol and flag glyph.
package currency

import "strings"

// DefaultCode is used when the caller does not specify a currency.
const DefaultCode = "USD"

// NeutralFlag is shown for codes missing from the table.
const NeutralFlag = "🏳️"

// Info describes how amounts in one currency are displayed.
type Info struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Flag   string `json:"flag"`
}

var table = map[string]Info{
	"USD": {Code: "USD", Symbol: "$", Flag: "🇺🇸"},
	"EUR": {Code: "EUR", Symbol: "€", Flag: "🇪🇺"},
	"GBP": {Code: "GBP", Symbol: "£", Flag: "🇬🇧"},
	"INR": {Code: "INR", Symbol: "₹", Flag: "🇮🇳"},
	"AUD": {Code: "AUD", Symbol: "A$", Flag: "🇦🇺"},
	"CAD": {Code: "CAD", Symbol: "C$", Flag: "🇨🇦"},
	"JPY": {Code: "JPY", Symbol: "¥", Flag: "🇯🇵"},
	"NZD": {Code: "NZD", Symbol: "NZ$", Flag: "🇳🇿"},
	"CHF": {Code: "CHF", Symbol: "CHF", Flag: "🇨🇭"},
	"SEK": {Code: "SEK", Symbol: "kr", Flag: "🇸🇪"},
	"NOK": {Code: "NOK", Symbol: "kr", Flag: "🇳🇴"},
	"DKK": {Code: "DKK", Symbol: "kr", Flag: "🇩🇰"},
	"SGD": {Code: "SGD", Symbol: "S$", Flag: "🇸🇬"},
	"BRL": {Code: "BRL", Symbol: "R$", Flag: "🇧🇷"},
	"CNY": {Code: "CNY", Symbol: "¥", Flag: "🇨🇳"},
}

// Resolve looks up code case-insensitively. An empty code resolves to USD;
// an unknown code resolves to its upper-cased self as symbol with NeutralFlag.
func Resolve(code string) Info {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = DefaultCode
	}
	if info, ok := table[code]; ok {
		return info
	}
	return Info{Code: code, Symbol: code, Flag: NeutralFlag}
}

// WithFlag returns a copy of i using flag instead of the table glyph.
// An empty flag leaves i unchanged.
func (i Info) WithFlag(flag string) Info {
	if flag = strings.TrimSpace(flag); flag != "" {
		i.Flag = flag
	}
	return i
}

// Known reports whether code has a table entry.
func Known(code string) bool {
	_, ok := table[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}
