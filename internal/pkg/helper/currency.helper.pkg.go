package helper

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type CurrencyInfo struct {
	Name   string
	Symbol string
}

var SupportedCurrencies = map[string]CurrencyInfo{
	"NGN": {Name: "Nigerian Naira", Symbol: "₦"},
	"GHS": {Name: "Ghanaian Cedi", Symbol: "₵"},
	"ZAR": {Name: "South African Rand", Symbol: "R"},
	"USD": {Name: "US Dollar", Symbol: "$"},
	"KES": {Name: "Kenyan Shilling", Symbol: "KSh"},
}

var englishPrinter = message.NewPrinter(language.English)

// FormatCurrency renders amount with the currency symbol and English digit
// grouping, e.g. ₦1,500.00. Unknown currencies get the bare amount.
func FormatCurrency(amount float64, currency string) string {
	info, ok := SupportedCurrencies[strings.ToUpper(currency)]
	if !ok {
		return FormatAmount(amount)
	}
	return info.Symbol + englishPrinter.Sprintf("%.2f", amount)
}

// FormatAmount renders amount with exactly two decimals and no grouping.
func FormatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// HumanizeChannel turns provider channel identifiers such as "mobile_money"
// into "Mobile Money".
func HumanizeChannel(channel string) string {
	if channel == "" {
		return ""
	}
	// a Caser is stateful, so one per call
	return cases.Title(language.English).String(strings.ReplaceAll(channel, "_", " "))
}
