package domain

type CartItem struct {
	ID             int64
	AccountID      int64
	ProductID      int64
	Quantity       int64
	UnitPriceCents int64
}

// CartLine is a cart item joined with the product it refers to.
type CartLine struct {
	CartItem
	ProductName  string
	ProductImage string
}

func (l CartLine) SubtotalCents() int64 {
	return l.Quantity * l.UnitPriceCents
}

// CartTotalCents sums the subtotals of lines.
func CartTotalCents(lines []CartLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.SubtotalCents()
	}
	return total
}
