// ABOUTME: In-memory basket with dual-currency line aggregation
// ABOUTME: Money totals on decimals, bean totals on integers, always recomputed

package basket

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/TagleD/coffee-app/internal/client"
)

// ErrInsufficientBeans is returned when a beans-mode add would commit
// more beans across the basket than the user currently holds.
var ErrInsufficientBeans = errors.New("not enough beans")

// Line is one aggregated basket entry per distinct product. For a
// bean-paid line UnitPrice is zero and BeanUnitPrice carries the cost;
// the payment mode chosen on first add wins for that product.
type Line struct {
	ProductID     int64
	Name          string
	UnitPrice     decimal.Decimal
	BeanUnitPrice int64
	Quantity      int
	Image         string
	PaidWithBeans bool
}

// LineTotal is the monetary cost of the whole line
func (l Line) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LineBeans is the bean cost of the whole line
func (l Line) LineBeans() int64 {
	return l.BeanUnitPrice * int64(l.Quantity)
}

// Basket holds the items a user intends to purchase. Lines keep
// insertion order for display; order carries no other meaning.
type Basket struct {
	mu    sync.Mutex
	lines []Line
}

// New creates an empty basket
func New() *Basket {
	return &Basket{}
}

// Add records a money-mode line for the product. If a line for this
// product already exists its quantity is incremented and its price
// fields are left untouched.
func (b *Basket) Add(p client.Product, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.merge(Line{
		ProductID:     p.ID,
		Name:          p.Name,
		UnitPrice:     p.Price,
		BeanUnitPrice: p.BeanPrice,
		Quantity:      quantity,
		Image:         p.Image,
	})
	return nil
}

// AddWithBeans records a bean-mode line: the monetary price is forced
// to zero and the bean cost accrues. The add is rejected with
// ErrInsufficientBeans — and the basket left unchanged — when
// spendableBeans minus the beans already committed across the basket
// cannot cover this add. Beans are not reserved server-side until
// checkout, so the whole basket counts against the balance.
func (b *Basket) AddWithBeans(p client.Product, quantity int, spendableBeans int64) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	needed := p.BeanPrice * int64(quantity)
	if spendableBeans-b.beansCommitted() < needed {
		return ErrInsufficientBeans
	}

	b.merge(Line{
		ProductID:     p.ID,
		Name:          p.Name,
		UnitPrice:     decimal.Zero,
		BeanUnitPrice: p.BeanPrice,
		Quantity:      quantity,
		Image:         p.Image,
		PaidWithBeans: true,
	})
	return nil
}

// merge increments an existing line or appends a new one. Callers hold b.mu.
func (b *Basket) merge(line Line) {
	for i := range b.lines {
		if b.lines[i].ProductID == line.ProductID {
			b.lines[i].Quantity += line.Quantity
			return
		}
	}
	b.lines = append(b.lines, line)
}

// Remove deletes the line matching productID. Removing an absent
// product is a no-op.
func (b *Basket) Remove(productID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.lines {
		if b.lines[i].ProductID == productID {
			b.lines = append(b.lines[:i], b.lines[i+1:]...)
			return
		}
	}
}

// Clear empties all lines unconditionally
func (b *Basket) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = nil
}

// Lines returns a copy of the current lines in insertion order
func (b *Basket) Lines() []Line {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Line, len(b.lines))
	copy(out, b.lines)
	return out
}

// ItemCount is the sum of quantities across all lines
func (b *Basket) ItemCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	count := 0
	for _, l := range b.lines {
		count += l.Quantity
	}
	return count
}

// Subtotal is the monetary total, recomputed from current lines
func (b *Basket) Subtotal() decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()

	total := decimal.Zero
	for _, l := range b.lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// BeansSubtotal is the loyalty-points total, recomputed from current lines
func (b *Basket) BeansSubtotal() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.beansCommitted()
}

// beansCommitted sums bean costs across all lines. Callers hold b.mu.
func (b *Basket) beansCommitted() int64 {
	var total int64
	for _, l := range b.lines {
		total += l.LineBeans()
	}
	return total
}

// CanAffordBeans reports whether a bean-mode add of the product at the
// given quantity would pass the affordability check without mutating
// the basket. Screens use it to disable the beans button up front.
func (b *Basket) CanAffordBeans(p client.Product, quantity int, spendableBeans int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return spendableBeans-b.beansCommitted() >= p.BeanPrice*int64(quantity)
}

// OrderItems converts the basket into the create_order wire shape,
// charging the effective unit price recorded on each line.
func (b *Basket) OrderItems() []client.OrderItem {
	b.mu.Lock()
	defer b.mu.Unlock()

	items := make([]client.OrderItem, 0, len(b.lines))
	for _, l := range b.lines {
		items = append(items, client.OrderItem{
			ProductID:    l.ProductID,
			Quantity:     l.Quantity,
			PricePerItem: l.UnitPrice,
		})
	}
	return items
}
