package cart

import (
	"github.com/sistertele/phonestore/internal/orders"
)

// LineItem is one product entry in a cart. ProductID is the unique key:
// at most one line item per product at any time. Prices and ids carry
// ",string" tags so the persisted JSON stays text-exact.
type LineItem struct {
	ProductID int64  `json:"product_id,string"`
	Name      string `json:"name"`
	Brand     string `json:"brand"`
	Category  string `json:"category"`
	UnitPrice int64  `json:"unit_price,string"` // minor currency units
	Quantity  int64  `json:"quantity"`
	ImageURL  string `json:"image_url,omitempty"`
}

// Cart is an ordered list of line items. All mutation goes through the
// methods below; first-insertion order is preserved for unaffected items.
type Cart struct {
	Items []LineItem
}

// Add merges on duplicate product id: the existing line gains item.Quantity
// and keeps its previously stored fields. New products are appended.
func (c *Cart) Add(item LineItem) {
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// UpdateQuantity replaces the stored quantity. A quantity <= 0 removes the
// line item. Absent product ids are a no-op.
func (c *Cart) UpdateQuantity(productID, quantity int64) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			return
		}
	}
}

func (c *Cart) Remove(productID int64) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c *Cart) Get(productID int64) (LineItem, bool) {
	for _, it := range c.Items {
		if it.ProductID == productID {
			return it, true
		}
	}
	return LineItem{}, false
}

// ItemCount is the sum of quantities, recomputed on every call.
func (c *Cart) ItemCount() int64 {
	var n int64
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Total() int64 {
	return CalculateTotal(c.Items)
}

// CalculateTotal sums unitPrice*quantity in exact integer arithmetic.
// Zero for an empty list.
func CalculateTotal(items []LineItem) int64 {
	var total int64
	for _, it := range items {
		total += it.UnitPrice * it.Quantity
	}
	return total
}

// ToOrderItems snapshots line items into immutable order items, preserving
// order. This is the only path from cart state to an order payload.
func ToOrderItems(items []LineItem) []orders.Item {
	out := make([]orders.Item, 0, len(items))
	for _, it := range items {
		out = append(out, orders.Item{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.UnitPrice,
		})
	}
	return out
}
