package util

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"autoparts/internal/model"

	"github.com/shopspring/decimal"
)

// FormatPrice formats a price as "12.50 €".
func FormatPrice(price decimal.Decimal) string {
	return price.StringFixed(2) + " €"
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// FormatSelection renders the product choice as "Huiles-moteur - Vidange".
// The raw category key is shown, as on the result screen.
func FormatSelection(sel model.ProductSelection) string {
	if sel.Product == "" {
		return ""
	}
	s := Capitalize(string(sel.Product))
	if sel.SubProduct != "" {
		s += " - " + Capitalize(sel.SubProduct)
	}
	return s
}

// FormatVehicle renders a vehicle as "Renault Clio - IV - Diesel". Missing
// parts are skipped.
func FormatVehicle(v model.VehicleSelection) string {
	var details []string
	for _, part := range []string{v.Model, v.Generation, v.FuelType} {
		if part != "" {
			details = append(details, part)
		}
	}
	switch {
	case v.Brand == "":
		return strings.Join(details, " - ")
	case len(details) == 0:
		return v.Brand
	}
	return v.Brand + " " + strings.Join(details, " - ")
}

// TruncateString truncates a string to maxLen and adds "..." if needed.
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
