package domain

import "fmt"

type Product struct {
	ID          int64
	Name        string
	Category    string
	Quantity    int64 // units in stock
	PriceCents  int64
	Image       string // file name only
	Description string
}

// ProductFilter narrows a product listing. Empty fields match everything.
type ProductFilter struct {
	Query    string // case-insensitive substring of name or category
	Category string // case-insensitive exact category
}

// FormatCents renders an amount of cents as dollars, e.g. 1999 → "19.99".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
