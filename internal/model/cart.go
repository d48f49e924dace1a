package model

import (
	"slices"

	"github.com/shopspring/decimal"
)

// CartItem is one session cart line. Price is the catalog price when the line was added;
// checkout re-reads the live price.
type CartItem struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Qty       int             `json:"qty"`
}

// Cart is an ordered list holding at most one item per product.
// Methods never mutate the receiver; they return the updated cart.
type Cart struct {
	Items []CartItem `json:"items"`
}

// OrderLine is a product/quantity pair handed to the order recorder.
type OrderLine struct {
	ProductID uint `json:"product_id"`
	Qty       int  `json:"qty"`
}

// CartView is the data response for cart endpoints.
type CartView struct {
	Items     []CartItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	CartCount int             `json:"cartCount"`
}

func (c Cart) index(productID uint) int {
	return slices.IndexFunc(c.Items, func(it CartItem) bool { return it.ProductID == productID })
}

// Has reports whether the cart holds productID.
func (c Cart) Has(productID uint) bool {
	return c.index(productID) >= 0
}

// Increment adds qty to an existing line. ok is false when the product is not in the cart.
func (c Cart) Increment(productID uint, qty int) (Cart, bool) {
	i := c.index(productID)
	if i < 0 {
		return c, false
	}
	items := slices.Clone(c.Items)
	items[i].Qty += qty
	return Cart{Items: items}, true
}

// Append adds a new line, merging into an existing one for the same product.
func (c Cart) Append(item CartItem) Cart {
	if next, ok := c.Increment(item.ProductID, item.Qty); ok {
		return next
	}
	items := append(slices.Clone(c.Items), item)
	return Cart{Items: items}
}

// SetQty sets the quantity of an existing line; qty <= 0 drops it. Absent products are ignored.
func (c Cart) SetQty(productID uint, qty int) Cart {
	i := c.index(productID)
	if i < 0 {
		return c
	}
	if qty <= 0 {
		return c.Remove(productID)
	}
	items := slices.Clone(c.Items)
	items[i].Qty = qty
	return Cart{Items: items}
}

// Remove drops the line for productID if present.
func (c Cart) Remove(productID uint) Cart {
	items := slices.DeleteFunc(slices.Clone(c.Items), func(it CartItem) bool { return it.ProductID == productID })
	return Cart{Items: items}
}

// Total is Σ price × qty.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Qty))))
	}
	return total
}

// Count is Σ qty.
func (c Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Qty
	}
	return n
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Lines converts the cart into order lines.
func (c Cart) Lines() []OrderLine {
	lines := make([]OrderLine, 0, len(c.Items))
	for _, it := range c.Items {
		lines = append(lines, OrderLine{ProductID: it.ProductID, Qty: it.Qty})
	}
	return lines
}

// View builds the data response for the cart.
func (c Cart) View() CartView {
	items := c.Items
	if items == nil {
		items = []CartItem{}
	}
	return CartView{Items: items, Total: c.Total(), CartCount: c.Count()}
}
