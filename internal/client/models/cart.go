package models

// CartLine is one menu item held locally before checkout. Quantity is always
// at least 1 and ItemID is unique within a cart.
type CartLine struct {
	ItemID    string  `json:"_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Discount  float64 `json:"discount"`
	Quantity  int     `json:"quantity"`
	Thumbnail string  `json:"thumbnail,omitempty"`
}

// LineFromMenuItem snapshots the fields of item a cart line needs.
func LineFromMenuItem(item MenuItem, qty int) CartLine {
	return CartLine{
		ItemID:    item.ID,
		Name:      item.Name,
		Price:     item.Price,
		Discount:  item.Discount,
		Quantity:  qty,
		Thumbnail: item.Thumbnail,
	}
}

func (l CartLine) LineTotal() float64 {
	return discounted(l.Price, l.Discount) * float64(l.Quantity)
}

// CartTotal sums the discounted line totals.
func CartTotal(lines []CartLine) float64 {
	var total float64
	for _, l := range lines {
		total += l.LineTotal()
	}
	return total
}
