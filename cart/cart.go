package cart

import (
	"sync"

	"github.com/Enclair743/Kasir123/models"
)

// Cart is one actor's in-progress selection. It holds price copies,
// never live catalog references, so catalog edits after a line was
// added do not change what the cashier already quoted. The trade-off
// is that checkout must re-validate every line against live stock.
//
// Building a cart never touches shared state; two cashiers never block
// each other until the final commit.
type Cart struct {
	mu      sync.Mutex
	actorID string
	lines   []models.CartLine
}

// New returns an empty cart owned by actorID.
func New(actorID string) *Cart {
	return &Cart{actorID: actorID}
}

// ActorID returns the owner of the cart.
func (c *Cart) ActorID() string {
	return c.actorID
}

// AddLine puts quantity units of product in the cart. A line for the
// same (name, category) is merged by summing quantities; the unit
// price stays the one snapshotted when the line was first added. The
// quantity, alone or merged, may not exceed the product's current
// stock.
func (c *Cart) AddLine(product models.Product, quantity int) error {
	if quantity < 1 {
		return models.ErrInvalidQuantity
	}
	if quantity > product.Stock {
		return models.ErrInsufficientStock
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		line := &c.lines[i]
		if line.Key() == product.Key() {
			if line.Quantity+quantity > product.Stock {
				return models.ErrInsufficientStock
			}
			line.Quantity += quantity
			line.Subtotal = float64(line.Quantity) * line.UnitPrice
			return nil
		}
	}

	c.lines = append(c.lines, models.CartLine{
		Name:      product.Name,
		Category:  product.Category,
		Quantity:  quantity,
		UnitPrice: product.UnitPrice,
		CostPrice: product.CostPrice,
		Subtotal:  product.UnitPrice * float64(quantity),
	})
	return nil
}

// RemoveFromLine takes quantity units off the line at index. Removing
// the line's full quantity, or more, drops the line entirely.
func (c *Cart) RemoveFromLine(index, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.lines) {
		return models.ErrNotFound
	}
	if quantity < 1 {
		return models.ErrInvalidQuantity
	}

	line := &c.lines[index]
	if quantity >= line.Quantity {
		c.lines = append(c.lines[:index], c.lines[index+1:]...)
		return nil
	}
	line.Quantity -= quantity
	line.Subtotal = float64(line.Quantity) * line.UnitPrice
	return nil
}

// Lines returns a copy of the cart contents, in insertion order.
func (c *Cart) Lines() []models.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.CartLine(nil), c.lines...)
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Total sums the line subtotals.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, line := range c.lines {
		total += line.Subtotal
	}
	return total
}

// Clear empties the cart. Called after a successful checkout; the cart
// itself stays usable for the next sale.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}
