package models

// DefaultCategory is assigned to menu items saved without a category.
const DefaultCategory = "other"

// MenuItem is a dish offered by the restaurant. Discount is a percentage in
// [0, 100].
type MenuItem struct {
	ID          string   `json:"_id,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Thumbnail   string   `json:"thumbnail"`
	Images      []string `json:"images"`
	Price       float64  `json:"price"`
	Discount    float64  `json:"discount"`
	Category    string   `json:"category"`
}

// EffectivePrice is the unit price after discount.
func (m MenuItem) EffectivePrice() float64 {
	return discounted(m.Price, m.Discount)
}

func discounted(price, discount float64) float64 {
	return price - price*discount/100
}
